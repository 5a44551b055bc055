package styles

import (
	"github.com/allbin/pwm-meter"
	"github.com/allbin/pwm-meter/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Status styles
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	StatusConnectingStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	// Readout box around each numeric field
	ReadoutStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1).
			Width(12).
			Align(lipgloss.Right)

	ReadoutLabelStyle = lipgloss.NewStyle().
				Foreground(colors.Subtext0)

	// Axis labels and legend text
	AxisStyle = lipgloss.NewStyle().
			Foreground(colors.Overlay0)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)
)

// ChannelColor returns the chart color of a channel: PWM red, RPM blue, Volt green
func ChannelColor(channel string) lipgloss.Color {
	switch channel {
	case meter.ChannelPWM:
		return colors.Red
	case meter.ChannelRPM:
		return colors.Blue
	case meter.ChannelVolt:
		return colors.Green
	default:
		return colors.Text
	}
}

type StatusType int

const (
	StatusConnected StatusType = iota
	StatusDisconnected
	StatusConnecting
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusConnected:
		return StatusConnectedStyle
	case StatusConnecting:
		return StatusConnectingStyle
	default:
		return StatusDisconnectedStyle
	}
}
