package meter

import "math"

// DefaultCapacity is the number of points kept per series
const DefaultCapacity = 500

// Point is one chart sample. X is milliseconds since the monitor epoch.
type Point struct {
	X float64
	Y float64
}

// Bounds is the bounding box of a series
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Series is a fixed-capacity, insertion-ordered sequence of points.
// Once full, each Append evicts the oldest point. Eviction ignores X.
//
// A Series is not safe for concurrent use.
type Series struct {
	name   string
	points []Point
	head   int // index of the oldest point
	size   int
}

// NewSeries returns an empty series. A capacity below one falls back to
// DefaultCapacity; callers validate user input with WithCapacity.
func NewSeries(name string, capacity int) *Series {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Series{
		name:   name,
		points: make([]Point, capacity),
	}
}

// Name returns the series label
func (s *Series) Name() string {
	return s.name
}

// Len returns the number of stored points
func (s *Series) Len() int {
	return s.size
}

// Cap returns the maximum number of stored points
func (s *Series) Cap() int {
	return len(s.points)
}

// Append adds p as the newest point and reports whether the oldest point
// was evicted to make room.
func (s *Series) Append(p Point) bool {
	capacity := len(s.points)
	if s.size < capacity {
		s.points[(s.head+s.size)%capacity] = p
		s.size++
		return false
	}

	s.points[s.head] = p
	s.head = (s.head + 1) % capacity
	return true
}

// At returns the i-th point, oldest first. It panics if i is out of range.
func (s *Series) At(i int) Point {
	if i < 0 || i >= s.size {
		panic("meter: series index out of range")
	}
	return s.points[(s.head+i)%len(s.points)]
}

// First returns the oldest point
func (s *Series) First() (Point, bool) {
	if s.size == 0 {
		return Point{}, false
	}
	return s.At(0), true
}

// Last returns the newest point
func (s *Series) Last() (Point, bool) {
	if s.size == 0 {
		return Point{}, false
	}
	return s.At(s.size - 1), true
}

// Points returns a copy of the stored points, oldest first
func (s *Series) Points() []Point {
	out := make([]Point, s.size)
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}

// Bounds returns the bounding box of all points, false when empty
func (s *Series) Bounds() (Bounds, bool) {
	if s.size == 0 {
		return Bounds{}, false
	}

	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	for i := 0; i < s.size; i++ {
		p := s.At(i)
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, true
}

// Reset removes all points
func (s *Series) Reset() {
	s.head = 0
	s.size = 0
}
