package meter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// headerPrefix marks the column header row some firmware repeats on reset
const headerPrefix = "PWM"

// Reading is one parsed sample
type Reading struct {
	PWM  int
	RPM  int
	Volt float64
}

func (r Reading) String() string {
	return fmt.Sprintf("pwm=%d rpm=%d volt=%.2f", r.PWM, r.RPM, r.Volt)
}

// ParseLine parses "<pwm:int>,<rpm:int>,<volt:float>". Surrounding
// whitespace is ignored, fields after the third are ignored, and any
// failure rejects the whole line with a *ParseError.
func ParseLine(line string) (Reading, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Reading{}, &ParseError{Line: line, Err: ErrEmptyLine}
	}

	if len(line) >= len(headerPrefix) && strings.EqualFold(line[:len(headerPrefix)], headerPrefix) {
		return Reading{}, &ParseError{Line: line, Err: ErrHeaderLine}
	}

	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return Reading{}, &ParseError{Line: line, Err: ErrTooFewFields}
	}

	pwm, err := parseInt(fields[0])
	if err != nil {
		return Reading{}, &ParseError{Line: line, Err: fmt.Errorf("%w: %v", ErrInvalidPWM, err)}
	}

	rpm, err := parseInt(fields[1])
	if err != nil {
		return Reading{}, &ParseError{Line: line, Err: fmt.Errorf("%w: %v", ErrInvalidRPM, err)}
	}

	volt, err := parseFloat(fields[2])
	if err != nil {
		return Reading{}, &ParseError{Line: line, Err: fmt.Errorf("%w: %v", ErrInvalidVolt, err)}
	}
	if math.IsNaN(volt) || math.IsInf(volt, 0) {
		return Reading{}, &ParseError{Line: line, Err: fmt.Errorf("%w: not finite", ErrInvalidVolt)}
	}

	return Reading{PWM: pwm, RPM: rpm, Volt: volt}, nil
}

// parseFloat accepts a decimal float. Hex floats and digit separators are
// Go syntax, not something a meter sends.
func parseFloat(field string) (float64, error) {
	field = strings.TrimSpace(field)
	if strings.ContainsAny(field, "xX_") {
		return 0, fmt.Errorf("invalid syntax %q", field)
	}
	return strconv.ParseFloat(field, 64)
}

// parseInt accepts a signed 32-bit decimal integer
func parseInt(field string) (int, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
