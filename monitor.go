package meter

import (
	"io"
	"time"

	"github.com/allbin/pwm-meter/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Channel names, in chart order
const (
	ChannelPWM  = "PWM"
	ChannelRPM  = "RPM"
	ChannelVolt = "Volt"
)

// Stats counts lines seen by a Monitor since its last Reset
type Stats struct {
	Received uint64
	Accepted uint64
	Rejected uint64
}

// Monitor holds the chart state for one meter: one Series per channel,
// the latest accepted Reading and line counters. It is meant to be owned
// by a single goroutine.
type Monitor struct {
	pwm  *Series
	rpm  *Series
	volt *Series

	latest    Reading
	hasLatest bool
	stats     Stats
	epoch     time.Time

	now     func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// MonitorOption configures a Monitor
type MonitorOption func(*Monitor) error

// WithCapacity sets the number of points kept per channel
func WithCapacity(capacity int) MonitorOption {
	return func(m *Monitor) error {
		if capacity < 1 {
			return ErrInvalidCapacity
		}
		m.pwm = NewSeries(ChannelPWM, capacity)
		m.rpm = NewSeries(ChannelRPM, capacity)
		m.volt = NewSeries(ChannelVolt, capacity)
		return nil
	}
}

// WithClock replaces time.Now for the epoch and for lines without a
// receive time
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) error {
		m.now = now
		return nil
	}
}

// WithMonitorLogger sets the logger used for rejected lines
func WithMonitorLogger(log logrus.FieldLogger) MonitorOption {
	return func(m *Monitor) error {
		m.log = log
		return nil
	}
}

// WithMonitorMetrics records accepted and rejected lines
func WithMonitorMetrics(mt *metrics.Metrics) MonitorOption {
	return func(m *Monitor) error {
		m.metrics = mt
		return nil
	}
}

// NewMonitor returns a Monitor with DefaultCapacity points per channel
func NewMonitor(opts ...MonitorOption) (*Monitor, error) {
	m := &Monitor{
		pwm:  NewSeries(ChannelPWM, DefaultCapacity),
		rpm:  NewSeries(ChannelRPM, DefaultCapacity),
		volt: NewSeries(ChannelVolt, DefaultCapacity),
		now:  time.Now,
		log:  discardLogger(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.epoch = m.now()
	return m, nil
}

// HandleLine parses line and, when it is a valid reading, appends one
// point to each series at the line's receive time. Rejected lines only
// bump the rejection counter.
func (m *Monitor) HandleLine(line Line) (Reading, error) {
	m.stats.Received++
	m.metrics.LineReceived()

	reading, err := ParseLine(line.Text)
	if err != nil {
		m.stats.Rejected++
		m.metrics.Rejected(Rejection(err))
		m.log.WithField("reason", Rejection(err)).Debug(err)
		return Reading{}, err
	}

	received := line.Received
	if received.IsZero() {
		received = m.now()
	}
	x := float64(received.Sub(m.epoch).Milliseconds())

	m.pwm.Append(Point{X: x, Y: float64(reading.PWM)})
	m.rpm.Append(Point{X: x, Y: float64(reading.RPM)})
	m.volt.Append(Point{X: x, Y: reading.Volt})

	m.latest = reading
	m.hasLatest = true
	m.stats.Accepted++
	m.metrics.Accepted(reading.PWM, reading.RPM, reading.Volt)
	return reading, nil
}

// Latest returns the most recent accepted reading
func (m *Monitor) Latest() (Reading, bool) {
	return m.latest, m.hasLatest
}

func (m *Monitor) Stats() Stats {
	return m.stats
}

// Series returns the PWM, RPM and Volt series in that order
func (m *Monitor) Series() []*Series {
	return []*Series{m.pwm, m.rpm, m.volt}
}

// Capacity returns the per-channel point budget
func (m *Monitor) Capacity() int {
	return m.pwm.Cap()
}

// Reset clears the chart, the latest reading and the counters and restarts
// the x axis at zero
func (m *Monitor) Reset() {
	for _, s := range m.Series() {
		s.Reset()
	}
	m.latest = Reading{}
	m.hasLatest = false
	m.stats = Stats{}
	m.epoch = m.now()
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
