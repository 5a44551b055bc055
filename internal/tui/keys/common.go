package keys

import "github.com/charmbracelet/bubbles/key"

// Common key bindings used across TUI commands
type CommonKeys struct {
	Quit key.Binding
	Help key.Binding
}

func NewCommonKeys() CommonKeys {
	return CommonKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// MeterKeys drive the port controls and the chart
type MeterKeys struct {
	CommonKeys
	Connect    key.Binding
	Disconnect key.Binding
	NextBaud   key.Binding
	PrevBaud   key.Binding
	Rescan     key.Binding
	Clear      key.Binding
	ToggleLog  key.Binding
	Up         key.Binding
	Down       key.Binding
}

func NewMeterKeys() MeterKeys {
	return MeterKeys{
		CommonKeys: NewCommonKeys(),
		Connect: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter/c", "connect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "disconnect"),
		),
		NextBaud: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "next baud"),
		),
		PrevBaud: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "previous baud"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan ports"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear chart"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle line log"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous port"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next port"),
		),
	}
}

func (k MeterKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Connect, k.Disconnect, k.NextBaud, k.Quit}
}

func (k MeterKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Rescan, k.NextBaud, k.PrevBaud},
		{k.Connect, k.Disconnect, k.Clear, k.ToggleLog},
		{k.Help, k.Quit},
	}
}
