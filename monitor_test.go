package meter

import (
	"testing"
	"time"

	"github.com/allbin/pwm-meter/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns base and advances by step on every call
func fakeClock(base time.Time, step time.Duration) func() time.Time {
	now := base
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestMonitorHandleLine(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mon, err := NewMonitor(WithClock(func() time.Time { return epoch }))
	require.NoError(t, err)

	reading, err := mon.HandleLine(Line{Text: "120,3400,7.65", Received: epoch.Add(1500 * time.Millisecond)})
	require.NoError(t, err)
	assert.Equal(t, Reading{PWM: 120, RPM: 3400, Volt: 7.65}, reading)

	series := mon.Series()
	require.Len(t, series, 3)
	assert.Equal(t, ChannelPWM, series[0].Name())
	assert.Equal(t, ChannelRPM, series[1].Name())
	assert.Equal(t, ChannelVolt, series[2].Name())

	assert.Equal(t, []Point{{X: 1500, Y: 120}}, series[0].Points())
	assert.Equal(t, []Point{{X: 1500, Y: 3400}}, series[1].Points())
	assert.Equal(t, []Point{{X: 1500, Y: 7.65}}, series[2].Points())

	latest, ok := mon.Latest()
	require.True(t, ok)
	assert.Equal(t, reading, latest)
	assert.Equal(t, Stats{Received: 1, Accepted: 1}, mon.Stats())
}

func TestMonitorRejectionLeavesStateUntouched(t *testing.T) {
	mon, err := NewMonitor()
	require.NoError(t, err)

	_, err = mon.HandleLine(Line{Text: "120,3400,7.65", Received: time.Now()})
	require.NoError(t, err)

	for _, text := range []string{"PWM,RPM,Volt", "", "1,2", "x,2,3"} {
		_, err := mon.HandleLine(Line{Text: text, Received: time.Now()})
		assert.Error(t, err)
	}

	for _, s := range mon.Series() {
		assert.Equal(t, 1, s.Len())
	}
	latest, _ := mon.Latest()
	assert.Equal(t, 120, latest.PWM)
	assert.Equal(t, Stats{Received: 5, Accepted: 1, Rejected: 4}, mon.Stats())
}

func TestMonitorCapacity(t *testing.T) {
	mon, err := NewMonitor(WithCapacity(3), WithClock(fakeClock(time.Unix(0, 0), time.Millisecond)))
	require.NoError(t, err)
	assert.Equal(t, 3, mon.Capacity())

	for i := 0; i < 5; i++ {
		_, err := mon.HandleLine(Line{Text: "1,2,3"})
		require.NoError(t, err)
	}
	for _, s := range mon.Series() {
		assert.Equal(t, 3, s.Len())
	}
}

func TestMonitorZeroReceivedUsesClock(t *testing.T) {
	mon, err := NewMonitor(WithClock(fakeClock(time.Unix(100, 0), 250*time.Millisecond)))
	require.NoError(t, err)

	_, err = mon.HandleLine(Line{Text: "1,2,3"})
	require.NoError(t, err)

	p, _ := mon.Series()[0].Last()
	assert.Equal(t, 250.0, p.X)
}

func TestMonitorInvalidCapacity(t *testing.T) {
	_, err := NewMonitor(WithCapacity(0))
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestMonitorReset(t *testing.T) {
	mon, err := NewMonitor()
	require.NoError(t, err)
	_, _ = mon.HandleLine(Line{Text: "1,2,3", Received: time.Now()})
	_, _ = mon.HandleLine(Line{Text: "bad"})

	mon.Reset()

	for _, s := range mon.Series() {
		assert.Zero(t, s.Len())
	}
	_, ok := mon.Latest()
	assert.False(t, ok)
	assert.Equal(t, Stats{}, mon.Stats())
}

func TestMonitorMetrics(t *testing.T) {
	m := metrics.New()
	mon, err := NewMonitor(WithMonitorMetrics(m))
	require.NoError(t, err)

	_, _ = mon.HandleLine(Line{Text: "PWM,RPM,Volt"})
	_, _ = mon.HandleLine(Line{Text: "120,3400,7.65"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LinesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadingsAccepted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinesRejected.WithLabelValues("header")))
}
