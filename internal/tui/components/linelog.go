package components

import (
	"fmt"
	"strings"

	"github.com/allbin/pwm-meter"
	"github.com/allbin/pwm-meter/internal/tui/colors"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultLogLimit is how many lines the log keeps before dropping the oldest
const DefaultLogLimit = 200

var (
	acceptedMark = lipgloss.NewStyle().Foreground(colors.Green).Bold(true).Render("✓")
	rejectedMark = lipgloss.NewStyle().Foreground(colors.Red).Bold(true).Render("✗")
	stampStyle   = lipgloss.NewStyle().Foreground(colors.Overlay0)
	reasonStyle  = lipgloss.NewStyle().Foreground(colors.Peach)
)

// LineLog is a scrolling view of the raw lines received, each marked as
// accepted or rejected
type LineLog struct {
	viewport viewport.Model
	entries  []string
	limit    int
}

func NewLineLog(width, height int) *LineLog {
	return &LineLog{
		viewport: viewport.New(width, height),
		entries:  make([]string, 0),
		limit:    DefaultLogLimit,
	}
}

func (l *LineLog) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
}

// Add appends line with the outcome of parsing it; err is nil for an
// accepted line
func (l *LineLog) Add(line meter.Line, err error) {
	l.entries = append(l.entries, FormatLine(line, err))
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
	l.viewport.SetContent(strings.Join(l.entries, "\n"))
	l.viewport.GotoBottom()
}

// Len returns the number of lines held
func (l *LineLog) Len() int {
	return len(l.entries)
}

func (l *LineLog) Clear() {
	l.entries = make([]string, 0)
	l.viewport.SetContent("")
}

// FormatLine renders one log entry
func FormatLine(line meter.Line, err error) string {
	stamp := stampStyle.Render(line.Received.Format("15:04:05.000"))
	text := strings.TrimRight(line.Text, "\r")
	if err != nil {
		return fmt.Sprintf("%s %s %s %s", stamp, rejectedMark, text,
			reasonStyle.Render("("+meter.Rejection(err)+")"))
	}
	return fmt.Sprintf("%s %s %s", stamp, acceptedMark, text)
}

func (l *LineLog) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Keys stay with the meter controls
	switch msg.(type) {
	case tea.WindowSizeMsg:
		return l.viewport.Update(msg)
	default:
		return l.viewport, nil
	}
}

func (l *LineLog) View() string {
	return l.viewport.View()
}
