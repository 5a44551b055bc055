package meter

import (
	"errors"
	"fmt"
)

// Parse rejections
var (
	ErrEmptyLine    = errors.New("empty line")
	ErrHeaderLine   = errors.New("header line")
	ErrTooFewFields = errors.New("too few fields")
	ErrInvalidPWM   = errors.New("invalid pwm value")
	ErrInvalidRPM   = errors.New("invalid rpm value")
	ErrInvalidVolt  = errors.New("invalid volt value")
)

// Session errors
var (
	ErrNoPortSelected   = errors.New("no serial port selected")
	ErrPortNotAvailable = errors.New("serial port not available")
	ErrAlreadyOpen      = errors.New("session already open")
	ErrNotOpen          = errors.New("session not open")
)

// ErrInvalidCapacity is returned for a series capacity below one point
var ErrInvalidCapacity = errors.New("series capacity must be at least 1")

// ParseError is returned by ParseLine for every rejected line
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rejected line %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Rejection returns a short label for the reason a line was rejected,
// suitable for metric labels and logs.
func Rejection(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyLine):
		return "empty"
	case errors.Is(err, ErrHeaderLine):
		return "header"
	case errors.Is(err, ErrTooFewFields):
		return "too_few_fields"
	case errors.Is(err, ErrInvalidPWM):
		return "invalid_pwm"
	case errors.Is(err, ErrInvalidRPM):
		return "invalid_rpm"
	case errors.Is(err, ErrInvalidVolt):
		return "invalid_volt"
	default:
		return "other"
	}
}
