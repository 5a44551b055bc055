package components

import (
	"github.com/allbin/pwm-meter/internal/tui/colors"
	"github.com/allbin/pwm-meter/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

const (
	columnKeyPort        = "port"
	columnKeyDescription = "description"
	columnKeyDevice      = "device"

	pickerPageSize = 4
)

// PortEntry is one row of the port picker
type PortEntry struct {
	Path        string
	Description string
	Device      string
}

// PortPicker is a table of the available serial ports with one highlighted
// row
type PortPicker struct {
	table   table.Model
	entries []PortEntry
	cursor  int
	width   int
}

func NewPortPicker(width int) *PortPicker {
	p := &PortPicker{width: width}
	p.rebuild()
	return p
}

func (p *PortPicker) SetWidth(width int) {
	p.width = width
	p.rebuild()
}

// SetPorts replaces the rows. The highlighted port is kept when it is still
// present, otherwise the first row is highlighted.
func (p *PortPicker) SetPorts(entries []PortEntry) {
	selected := p.Selected()
	p.entries = entries
	p.cursor = 0
	for i, e := range entries {
		if e.Path == selected {
			p.cursor = i
			break
		}
	}
	p.rebuild()
}

// Select highlights path if it is listed
func (p *PortPicker) Select(path string) bool {
	for i, e := range p.entries {
		if e.Path == path {
			p.cursor = i
			p.table = p.table.WithHighlightedRow(i)
			return true
		}
	}
	return false
}

// Selected returns the highlighted port path, or "" when there are none
func (p *PortPicker) Selected() string {
	if p.cursor < 0 || p.cursor >= len(p.entries) {
		return ""
	}
	return p.entries[p.cursor].Path
}

func (p *PortPicker) Len() int {
	return len(p.entries)
}

func (p *PortPicker) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
		p.table = p.table.WithHighlightedRow(p.cursor)
	}
}

func (p *PortPicker) MoveDown() {
	if p.cursor < len(p.entries)-1 {
		p.cursor++
		p.table = p.table.WithHighlightedRow(p.cursor)
	}
}

// SetFocused dims the highlight while a port is open
func (p *PortPicker) SetFocused(focused bool) {
	p.table = p.table.Focused(focused)
}

func (p *PortPicker) rebuild() {
	portWidth := 16
	deviceWidth := 24
	descWidth := max(p.width-portWidth-deviceWidth-6, 12)

	columns := []table.Column{
		table.NewColumn(columnKeyPort, "Port", portWidth),
		table.NewColumn(columnKeyDescription, "Description", descWidth),
		table.NewColumn(columnKeyDevice, "Device", deviceWidth),
	}

	rows := make([]table.Row, 0, len(p.entries))
	for _, e := range p.entries {
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPort:        e.Path,
			columnKeyDescription: e.Description,
			columnKeyDevice:      e.Device,
		}))
	}

	p.table = table.New(columns).
		WithRows(rows).
		WithPageSize(pickerPageSize).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Text)).
		HighlightStyle(lipgloss.NewStyle().Foreground(colors.Base).Background(colors.Blue)).
		WithBaseStyle(lipgloss.NewStyle().Foreground(colors.Subtext1).BorderForeground(colors.Surface2).Align(lipgloss.Left)).
		Focused(true).
		WithHighlightedRow(p.cursor)
}

func (p *PortPicker) View() string {
	if len(p.entries) == 0 {
		return styles.ErrorStyle.Render("No serial ports found") +
			styles.AxisStyle.Render("  (press r to rescan)")
	}
	return p.table.View()
}
