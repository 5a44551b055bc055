package meter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	want := Reading{PWM: 120, RPM: 3400, Volt: 7.65}

	tests := []struct {
		name string
		line string
	}{
		{"plain", "120,3400,7.65"},
		{"surrounding whitespace", "  120,3400,7.65  \n"},
		{"crlf terminator", "120,3400,7.65\r"},
		{"field whitespace", "120, 3400 ,7.65"},
		{"extra fields ignored", "120,3400,7.65,extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseLineTrimIsIdempotent(t *testing.T) {
	a, errA := ParseLine("120,3400,7.65")
	b, errB := ParseLine("  120,3400,7.65  \n")
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestParseLineSigned(t *testing.T) {
	got, err := ParseLine("-5,+10,-0.5")
	require.NoError(t, err)
	assert.Equal(t, Reading{PWM: -5, RPM: 10, Volt: -0.5}, got)
}

func TestParseLineRejects(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   error
		reason string
	}{
		{"empty", "", ErrEmptyLine, "empty"},
		{"whitespace only", " \t\r\n", ErrEmptyLine, "empty"},
		{"header", "PWM,RPM,Volt", ErrHeaderLine, "header"},
		{"header lower case", "pwm,rpm,volt", ErrHeaderLine, "header"},
		{"header prefix only", "PwmSomething", ErrHeaderLine, "header"},
		{"header after whitespace", "   PWM,RPM,Volt", ErrHeaderLine, "header"},
		{"one field", "120", ErrTooFewFields, "too_few_fields"},
		{"two fields", "120,3400", ErrTooFewFields, "too_few_fields"},
		{"pwm not integer", "12.5,3400,7.65", ErrInvalidPWM, "invalid_pwm"},
		{"pwm text", "abc,3400,7.65", ErrInvalidPWM, "invalid_pwm"},
		{"pwm empty", ",3400,7.65", ErrInvalidPWM, "invalid_pwm"},
		{"pwm overflows int32", "4294967296,3400,7.65", ErrInvalidPWM, "invalid_pwm"},
		{"rpm not integer", "120,34x0,7.65", ErrInvalidRPM, "invalid_rpm"},
		{"volt text", "120,3400,volts", ErrInvalidVolt, "invalid_volt"},
		{"volt empty", "120,3400,", ErrInvalidVolt, "invalid_volt"},
		{"volt NaN", "120,3400,NaN", ErrInvalidVolt, "invalid_volt"},
		{"volt Inf", "120,3400,Inf", ErrInvalidVolt, "invalid_volt"},
		{"volt hex float", "120,3400,0x1p3", ErrInvalidVolt, "invalid_volt"},
		{"volt upper hex float", "120,3400,0X1P3", ErrInvalidVolt, "invalid_volt"},
		{"volt digit separator", "120,3400,0x1_0p0", ErrInvalidVolt, "invalid_volt"},
		{"volt underscore decimal", "120,3400,1_2.5", ErrInvalidVolt, "invalid_volt"},
		{"semicolons", "120;3400;7.65", ErrTooFewFields, "too_few_fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, Reading{}, got)
			assert.Equal(t, tt.reason, Rejection(err))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, strings.TrimSpace(tt.line), perr.Line)
		})
	}
}

func TestParseLineNoPartialUpdate(t *testing.T) {
	// A bad third field rejects the line even though the first two parse
	got, err := ParseLine("120,3400,bad")
	assert.ErrorIs(t, err, ErrInvalidVolt)
	assert.Zero(t, got.PWM)
	assert.Zero(t, got.RPM)
}

func TestRejectionUnknown(t *testing.T) {
	assert.Equal(t, "", Rejection(nil))
	assert.Equal(t, "other", Rejection(errors.New("boom")))
}

func TestReadingString(t *testing.T) {
	r := Reading{PWM: 120, RPM: 3400, Volt: 7.654}
	assert.Equal(t, "pwm=120 rpm=3400 volt=7.65", r.String())
}
