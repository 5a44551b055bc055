package components

import (
	"fmt"

	"github.com/allbin/pwm-meter"
	"github.com/allbin/pwm-meter/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

const readoutPlaceholder = "--"

// Readouts shows the latest PWM, RPM and Volt values
type Readouts struct {
	reading meter.Reading
	valid   bool
}

func NewReadouts() *Readouts {
	return &Readouts{}
}

// Set replaces all three values at once
func (r *Readouts) Set(reading meter.Reading) {
	r.reading = reading
	r.valid = true
}

// Clear returns the fields to their placeholder
func (r *Readouts) Clear() {
	r.reading = meter.Reading{}
	r.valid = false
}

// Values returns the text of the PWM, RPM and Volt fields
func (r *Readouts) Values() (pwm, rpm, volt string) {
	if !r.valid {
		return readoutPlaceholder, readoutPlaceholder, readoutPlaceholder
	}
	return fmt.Sprintf("%d", r.reading.PWM),
		fmt.Sprintf("%d", r.reading.RPM),
		fmt.Sprintf("%.2f", r.reading.Volt)
}

func (r *Readouts) View() string {
	pwm, rpm, volt := r.Values()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		readoutBox(meter.ChannelPWM, pwm),
		readoutBox(meter.ChannelRPM, rpm),
		readoutBox(meter.ChannelVolt, volt),
	)
}

func readoutBox(channel, value string) string {
	label := styles.ReadoutLabelStyle.Render(channel)
	v := lipgloss.NewStyle().Bold(true).Foreground(styles.ChannelColor(channel)).Render(value)
	return styles.ReadoutStyle.Render(lipgloss.JoinVertical(lipgloss.Right, label, v))
}
