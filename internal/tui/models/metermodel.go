package models

import (
	"context"
	"slices"
	"time"

	"github.com/allbin/pwm-meter"
	"github.com/allbin/pwm-meter/internal/serial"
	"github.com/allbin/pwm-meter/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// ConnectionStatusMsg reports the outcome of a connect attempt
type ConnectionStatusMsg struct {
	Connected bool
	Port      string
	Baud      int
	Error     error
}

// DisconnectedMsg reports that the session was closed on request
type DisconnectedMsg struct {
	Error error
}

// LineMsg carries one line received from the open port
type LineMsg struct {
	Line meter.Line
}

// PortsMsg carries the result of a port scan
type PortsMsg struct {
	Ports []components.PortEntry
	Error error
}

// TickMsg refreshes the clock in the status bar
type TickMsg time.Time

// MeterModel is the state shared by the meter UI: the port session, the
// chart state and the selected baud rate
type MeterModel struct {
	session *meter.Session
	monitor *meter.Monitor

	baudRates []int
	baudIndex int

	// State
	connected bool
	err       error
	ready     bool

	cancel context.CancelFunc
	ctx    context.Context
}

// NewMeterModel starts with baud selected, or 115200 when baud is not a
// standard rate
func NewMeterModel(session *meter.Session, monitor *meter.Monitor, baud int) *MeterModel {
	ctx, cancel := context.WithCancel(context.Background())

	rates := slices.Clone(serial.StandardBaudRates)
	idx := slices.Index(rates, baud)
	if idx < 0 {
		idx = slices.Index(rates, serial.DefaultConfig().BaudRate)
	}

	return &MeterModel{
		session:   session,
		monitor:   monitor,
		baudRates: rates,
		baudIndex: idx,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *MeterModel) GetSession() *meter.Session {
	return m.session
}

func (m *MeterModel) GetMonitor() *meter.Monitor {
	return m.monitor
}

// Baud returns the selected baud rate
func (m *MeterModel) Baud() int {
	return m.baudRates[m.baudIndex]
}

func (m *MeterModel) NextBaud() int {
	m.baudIndex = (m.baudIndex + 1) % len(m.baudRates)
	return m.Baud()
}

func (m *MeterModel) PrevBaud() int {
	m.baudIndex = (m.baudIndex + len(m.baudRates) - 1) % len(m.baudRates)
	return m.Baud()
}

func (m *MeterModel) IsConnected() bool {
	return m.connected
}

func (m *MeterModel) SetConnected(connected bool) {
	m.connected = connected
}

func (m *MeterModel) GetError() error {
	return m.err
}

func (m *MeterModel) SetError(err error) {
	m.err = err
}

func (m *MeterModel) IsReady() bool {
	return m.ready
}

func (m *MeterModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *MeterModel) GetContext() context.Context {
	return m.ctx
}

// ConnectCmd opens port at the selected baud rate off the update loop
func (m *MeterModel) ConnectCmd(port string) tea.Cmd {
	session, ctx, baud := m.session, m.ctx, m.Baud()
	return func() tea.Msg {
		err := session.Connect(ctx, port, baud)
		return ConnectionStatusMsg{Connected: err == nil, Port: port, Baud: baud, Error: err}
	}
}

// DisconnectCmd closes the session off the update loop
func (m *MeterModel) DisconnectCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return DisconnectedMsg{Error: session.Disconnect()}
	}
}

// WaitForLine blocks until the session delivers a line. Exactly one of
// these is outstanding at a time and it is re-issued after every LineMsg,
// which keeps lines in arrival order.
func (m *MeterModel) WaitForLine() tea.Cmd {
	lines, ctx := m.session.Lines(), m.ctx
	return func() tea.Msg {
		select {
		case line := <-lines:
			return LineMsg{Line: line}
		case <-ctx.Done():
			return nil
		}
	}
}

// ScanPortsCmd enumerates the ports and their descriptions
func (m *MeterModel) ScanPortsCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ports, err := session.Ports()
		if err != nil {
			return PortsMsg{Error: err}
		}
		return PortsMsg{Ports: DescribePorts(ports)}
	}
}

// DescribePorts builds picker rows from sysfs metadata; ports that cannot
// be described are listed by path only
func DescribePorts(ports []string) []components.PortEntry {
	entries := make([]components.PortEntry, 0, len(ports))
	for _, p := range ports {
		entry := components.PortEntry{Path: p}
		if info, err := serial.GetPortInfo(p); err == nil {
			entry.Description = info.Description
			entry.Device = info.Device()
		}
		entries = append(entries, entry)
	}
	return entries
}

// Tick schedules the next clock refresh
func Tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *MeterModel) Cancel() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *MeterModel) Cleanup() {
	// Cancel context to stop the line waiter
	if m.cancel != nil {
		m.cancel()
	}
	m.session.Close()
	m.connected = false
}
