/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/pwm-meter"
	"github.com/allbin/pwm-meter/internal/metrics"
	"github.com/allbin/pwm-meter/internal/serial"
	"github.com/allbin/pwm-meter/internal/tui/components"
	"github.com/allbin/pwm-meter/internal/tui/keys"
	"github.com/allbin/pwm-meter/internal/tui/models"
	"github.com/allbin/pwm-meter/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

const (
	// rows taken by everything but the chart and log
	titleHeight     = 1
	pickerHeight    = 8
	readoutsHeight  = 4
	statusBarHeight = 1
	helpHeight      = 1
	minChartHeight  = 6
	logPaneHeight   = 8
)

// meterModel represents the Bubble Tea model for the meter UI
type meterModel struct {
	*models.MeterModel
	picker    *components.PortPicker
	readouts  *components.Readouts
	chart     *components.Chart
	lineLog   *components.LineLog
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.MeterKeys
	log       logrus.FieldLogger

	width     int
	height    int
	showLog   bool
	preferred string
	now       func() time.Time
}

func newMeterModel(base *models.MeterModel, preferred string, log logrus.FieldLogger) *meterModel {
	m := &meterModel{
		MeterModel: base,
		picker:     components.NewPortPicker(80),
		readouts:   components.NewReadouts(),
		chart:      components.NewChart(80, 20),
		lineLog:    components.NewLineLog(80, logPaneHeight),
		statusBar:  components.NewStatusBar(),
		help:       help.New(),
		keys:       keys.NewMeterKeys(),
		log:        log,
		preferred:  preferred,
		now:        time.Now,
	}
	m.statusBar.SetPortPath(preferred)
	return m
}

func runMeter(ctx context.Context, cfg Config) error {
	log, closer, err := setupLogger(cfg.Log, io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mt *metrics.Metrics
	if cfg.MetricsAddr != "" {
		mt = metrics.New()
		go func() {
			if err := mt.Serve(ctx, cfg.MetricsAddr, log); err != nil {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	session := meter.NewSession(
		meter.WithLogger(log.WithField("component", "session")),
		meter.WithMetrics(mt),
	)
	defer session.Close()

	monitor, err := meter.NewMonitor(
		meter.WithCapacity(cfg.Capacity),
		meter.WithMonitorLogger(log.WithField("component", "monitor")),
		meter.WithMonitorMetrics(mt),
	)
	if err != nil {
		return err
	}

	base := models.NewMeterModel(session, monitor, cfg.Baud)
	defer base.Cleanup()

	m := newMeterModel(base, cfg.Port, log)

	log.WithFields(logrus.Fields{
		"baud":     cfg.Baud,
		"capacity": cfg.Capacity,
	}).Info("starting meter")

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		// Interrupted by signal
		return nil
	}
	return err
}

func (m *meterModel) Init() tea.Cmd {
	return tea.Batch(m.ScanPortsCmd(), m.WaitForLine(), models.Tick())
}

func (m *meterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.SetReady(true)

	case models.PortsMsg:
		if msg.Error != nil {
			m.log.WithError(msg.Error).Warn("port scan failed")
			m.statusBar.SetStatus(fmt.Sprintf("Port scan failed: %v", msg.Error), msg.Error)
			break
		}
		m.picker.SetPorts(msg.Ports)
		// --port only picks the initial row
		if m.preferred != "" {
			if !m.picker.Select(m.preferred) {
				m.statusBar.SetStatus(fmt.Sprintf("%s not found", m.preferred), meter.ErrPortNotAvailable)
			}
			m.preferred = ""
		}
		if !m.IsConnected() {
			m.statusBar.SetPortPath(m.picker.Selected())
		}

	case models.ConnectionStatusMsg:
		m.SetConnected(msg.Connected)
		if msg.Error != nil {
			m.SetError(msg.Error)
			m.statusBar.SetDisconnected(msg.Error)
			m.statusBar.SetConnectionInfo(nil)
			break
		}
		m.SetError(nil)
		m.statusBar.SetPortPath(msg.Port)
		m.statusBar.SetConnectionInfo(&components.ConnectionInfo{
			BaudRate: msg.Baud,
			Framing:  serial.DefaultConfig().Framing(),
		})
		m.statusBar.SetConnected()
		m.picker.SetFocused(false)

	case models.DisconnectedMsg:
		if msg.Error != nil && !errors.Is(msg.Error, meter.ErrNotOpen) {
			m.log.WithError(msg.Error).Warn("error closing port")
		}
		m.SetConnected(false)
		m.statusBar.SetDisconnected(nil)
		m.statusBar.SetConnectionInfo(nil)
		m.statusBar.SetPortPath(m.picker.Selected())
		m.picker.SetFocused(true)

	case models.LineMsg:
		reading, err := m.GetMonitor().HandleLine(msg.Line)
		if err == nil {
			m.readouts.Set(reading)
		}
		m.lineLog.Add(msg.Line, err)
		m.statusBar.SetStats(m.GetMonitor().Stats())
		cmds = append(cmds, m.WaitForLine())

	case models.TickMsg:
		cmds = append(cmds, models.Tick())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Cleanup()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()

		case key.Matches(msg, m.keys.Connect):
			if m.IsConnected() || m.statusBar.Connecting() {
				break
			}
			port := m.picker.Selected()
			if port == "" {
				m.statusBar.SetStatus("Select a serial port first", meter.ErrNoPortSelected)
				break
			}
			m.statusBar.SetPortPath(port)
			m.statusBar.SetConnecting()
			cmds = append(cmds, m.ConnectCmd(port))

		case key.Matches(msg, m.keys.Disconnect):
			if m.IsConnected() {
				cmds = append(cmds, m.DisconnectCmd())
			}

		case key.Matches(msg, m.keys.NextBaud):
			if !m.IsConnected() {
				m.statusBar.SetStatus(fmt.Sprintf("Baud rate %d", m.NextBaud()), nil)
			}

		case key.Matches(msg, m.keys.PrevBaud):
			if !m.IsConnected() {
				m.statusBar.SetStatus(fmt.Sprintf("Baud rate %d", m.PrevBaud()), nil)
			}

		case key.Matches(msg, m.keys.Rescan):
			cmds = append(cmds, m.ScanPortsCmd())

		case key.Matches(msg, m.keys.Clear):
			m.GetMonitor().Reset()
			m.readouts.Clear()
			m.lineLog.Clear()
			m.statusBar.SetStats(m.GetMonitor().Stats())

		case key.Matches(msg, m.keys.ToggleLog):
			m.showLog = !m.showLog
			m.layout()

		case key.Matches(msg, m.keys.Up):
			if !m.IsConnected() {
				m.picker.MoveUp()
				m.statusBar.SetPortPath(m.picker.Selected())
			}

		case key.Matches(msg, m.keys.Down):
			if !m.IsConnected() {
				m.picker.MoveDown()
				m.statusBar.SetPortPath(m.picker.Selected())
			}
		}
	}

	// Update log viewport for window resize messages
	switch msg.(type) {
	case tea.WindowSizeMsg:
		_, cmd := m.lineLog.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// layout splits the window between the panes
func (m *meterModel) layout() {
	width := max(m.width, 40)
	m.picker.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.help.Width = width

	fixed := titleHeight + pickerHeight + readoutsHeight + statusBarHeight + helpHeight
	if m.help.ShowAll {
		fixed += 3
	}
	chartHeight := m.height - fixed
	if m.showLog {
		m.lineLog.SetSize(width, logPaneHeight)
		chartHeight -= logPaneHeight + 1
	}
	m.chart.SetSize(width, max(chartHeight, minChartHeight))
}

func (m *meterModel) View() string {
	if !m.IsReady() {
		return "Initializing..."
	}

	state := styles.StatusDisconnected
	switch {
	case m.IsConnected():
		state = styles.StatusConnected
	case m.statusBar.Connecting():
		state = styles.StatusConnecting
	case m.GetError() != nil:
		state = styles.StatusError
	}
	title := lipgloss.JoinHorizontal(lipgloss.Left,
		styles.TitleStyle.Render("PWM Meter"),
		styles.ReadoutLabelStyle.Render("  baud "),
		styles.GetStatusStyle(state).Render(fmt.Sprintf("%d", m.Baud())),
	)

	sections := []string{
		title,
		m.picker.View(),
		m.readouts.View(),
		m.chart.Render(m.GetMonitor().Series()),
	}
	if m.showLog {
		sections = append(sections, styles.ContentBorderStyle.Render(m.lineLog.View()))
	}
	sections = append(sections,
		m.help.View(m.keys),
		m.statusBar.Render(m.IsConnected(), m.now().Format("15:04:05")),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
