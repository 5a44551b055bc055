package components

import (
	"fmt"

	"github.com/allbin/pwm-meter"
	"github.com/allbin/pwm-meter/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

type ConnectionInfo struct {
	BaudRate int
	Framing  string
}

type StatusBar struct {
	portPath       string
	status         string
	err            error
	width          int
	connecting     bool
	connectionInfo *ConnectionInfo
	stats          meter.Stats
}

func NewStatusBar() *StatusBar {
	return &StatusBar{
		status: "Select a port and press enter",
	}
}

func (sb *StatusBar) SetStatus(status string, err error) {
	sb.status = status
	sb.err = err
}

// Status returns the message and error currently shown
func (sb *StatusBar) Status() (string, error) {
	return sb.status, sb.err
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetPortPath(path string) {
	sb.portPath = path
}

func (sb *StatusBar) SetConnectionInfo(info *ConnectionInfo) {
	sb.connectionInfo = info
}

func (sb *StatusBar) SetStats(stats meter.Stats) {
	sb.stats = stats
}

func (sb *StatusBar) SetConnecting() {
	sb.connecting = true
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected() {
	sb.connecting = false
	sb.status = "Connected - listening for data..."
	sb.err = nil
}

// Connecting reports whether a connect attempt is in flight
func (sb *StatusBar) Connecting() bool {
	return sb.connecting
}

func (sb *StatusBar) SetDisconnected(err error) {
	sb.connecting = false
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
	} else {
		sb.status = "Disconnected"
		sb.err = nil
	}
}

// Render draws the bar across the full width
func (sb *StatusBar) Render(connected bool, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	// Section 1: session state
	modeStyle := lipgloss.NewStyle().
		Foreground(colors.Base).
		Bold(true).
		Padding(0, 1)
	modeText := "CLOSED"
	if connected {
		modeStyle = modeStyle.Background(colors.Green)
		modeText = "OPEN"
	} else {
		modeStyle = modeStyle.Background(colors.Blue)
	}
	mode := modeStyle.Render(modeText)

	// Section 2: port path
	portPath := sb.portPath
	if portPath == "" {
		portPath = "no port"
	}
	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(portPath)

	// Section 3: single character connection indicator
	var connStyle lipgloss.Style
	connIndicator := "○"
	switch {
	case sb.err != nil:
		connStyle = lipgloss.NewStyle().Foreground(colors.Red)
		connIndicator = "✗"
	case connected:
		connStyle = lipgloss.NewStyle().Foreground(colors.Green)
		connIndicator = "●"
	case sb.connecting:
		connStyle = lipgloss.NewStyle().Foreground(colors.Yellow)
	default:
		connStyle = lipgloss.NewStyle().Foreground(colors.Red)
	}
	connectionIndicator := connStyle.Render(connIndicator)

	statusColor := colors.Subtext1
	if sb.err != nil {
		statusColor = colors.Red
	}
	status := lipgloss.NewStyle().
		Foreground(statusColor).
		Padding(0, 1).
		Render(sb.status)

	// Section 4: connection parameters
	connInfo := "⚡ serial"
	if sb.connectionInfo != nil {
		connInfo = fmt.Sprintf("⚡ %d baud %s", sb.connectionInfo.BaudRate, sb.connectionInfo.Framing)
	}
	connectionDetails := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(connInfo)

	// Section 5: accepted and rejected line counts
	counts := lipgloss.JoinHorizontal(lipgloss.Left,
		lipgloss.NewStyle().Foreground(colors.Green).PaddingLeft(1).Render(fmt.Sprintf("✓%d", sb.stats.Accepted)),
		lipgloss.NewStyle().Foreground(colors.Red).Padding(0, 1).Render(fmt.Sprintf("✗%d", sb.stats.Rejected)),
	)

	// Section 6: timestamp
	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, mode, port, connectionIndicator, status, divider)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, counts, divider, connectionDetails, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	statusBarStyle := lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth)

	return statusBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
