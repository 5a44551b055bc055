package meter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesEvictsOldestExactlyOnce(t *testing.T) {
	s := NewSeries(ChannelPWM, DefaultCapacity)

	var evictions int
	for i := 0; i < 501; i++ {
		if s.Append(Point{X: float64(i), Y: float64(i * 10)}) {
			evictions++
		}
	}

	require.Equal(t, 500, s.Len())
	assert.Equal(t, 1, evictions)

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, Point{X: 1, Y: 10}, first)

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, Point{X: 500, Y: 5000}, last)
}

func TestSeriesBelowCapacityNeverEvicts(t *testing.T) {
	for _, n := range []int{0, 1, 250, 499, 500} {
		s := NewSeries(ChannelRPM, DefaultCapacity)
		for i := 0; i < n; i++ {
			assert.False(t, s.Append(Point{X: float64(i)}), "append %d of %d evicted", i, n)
		}
		assert.Equal(t, n, s.Len())
	}
}

func TestSeriesEvictionIgnoresX(t *testing.T) {
	s := NewSeries(ChannelVolt, 3)
	s.Append(Point{X: 100})
	s.Append(Point{X: 5})
	s.Append(Point{X: 50})
	s.Append(Point{X: 1})

	assert.Equal(t, []Point{{X: 5}, {X: 50}, {X: 1}}, s.Points())
}

func TestSeriesWrapsManyTimes(t *testing.T) {
	s := NewSeries(ChannelPWM, 4)
	for i := 0; i < 23; i++ {
		s.Append(Point{X: float64(i)})
	}

	require.Equal(t, 4, s.Len())
	for i := 0; i < 4; i++ {
		assert.Equal(t, float64(19+i), s.At(i).X)
	}
}

func TestSeriesBounds(t *testing.T) {
	s := NewSeries(ChannelVolt, 10)
	_, ok := s.Bounds()
	assert.False(t, ok)

	s.Append(Point{X: 10, Y: 7.5})
	s.Append(Point{X: 20, Y: 6.0})
	s.Append(Point{X: 30, Y: 8.25})

	b, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{MinX: 10, MaxX: 30, MinY: 6.0, MaxY: 8.25}, b)
}

func TestSeriesReset(t *testing.T) {
	s := NewSeries(ChannelRPM, 2)
	s.Append(Point{X: 1})
	s.Append(Point{X: 2})
	s.Append(Point{X: 3})
	s.Reset()

	assert.Zero(t, s.Len())
	_, ok := s.First()
	assert.False(t, ok)

	s.Append(Point{X: 4})
	assert.Equal(t, []Point{{X: 4}}, s.Points())
}

func TestSeriesInvalidCapacityFallsBack(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewSeries("x", 0).Cap())
	assert.Equal(t, DefaultCapacity, NewSeries("x", -3).Cap())
}

func TestSeriesAtOutOfRange(t *testing.T) {
	s := NewSeries("x", 2)
	assert.Panics(t, func() { s.At(0) })
}
