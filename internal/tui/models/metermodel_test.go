package models

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/allbin/pwm-meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingPort never returns data until closed
type blockingPort struct {
	closed chan struct{}
}

func newBlockingPort() *blockingPort {
	return &blockingPort{closed: make(chan struct{})}
}

func (p *blockingPort) Read(b []byte) (int, error) {
	<-p.closed
	return 0, io.ErrClosedPipe
}

func (p *blockingPort) Close() error {
	close(p.closed)
	return nil
}

func newTestModel(t *testing.T, ports []string, baud int) *MeterModel {
	t.Helper()
	session := meter.NewSession(
		meter.WithPortLister(func() ([]string, error) { return ports, nil }),
		meter.WithOpener(func(string, int) (io.ReadCloser, error) { return newBlockingPort(), nil }),
	)
	monitor, err := meter.NewMonitor()
	require.NoError(t, err)
	m := NewMeterModel(session, monitor, baud)
	t.Cleanup(m.Cleanup)
	return m
}

func TestBaudSelection(t *testing.T) {
	m := newTestModel(t, nil, 9600)
	assert.Equal(t, 9600, m.Baud())
	assert.Equal(t, 19200, m.NextBaud())
	assert.Equal(t, 9600, m.PrevBaud())
	assert.Equal(t, 230400, m.PrevBaud(), "previous wraps to the fastest rate")
	assert.Equal(t, 9600, m.NextBaud(), "next wraps to the slowest rate")

	m = newTestModel(t, nil, 12345)
	assert.Equal(t, 115200, m.Baud(), "unknown rates fall back to the default")
}

func TestConnectCmd(t *testing.T) {
	m := newTestModel(t, []string{"/dev/ttyUSB0"}, 57600)

	msg := m.ConnectCmd("/dev/ttyUSB0")()
	status, ok := msg.(ConnectionStatusMsg)
	require.True(t, ok)
	assert.True(t, status.Connected)
	assert.NoError(t, status.Error)
	assert.Equal(t, 57600, status.Baud)
	assert.Equal(t, meter.StateOpen, m.GetSession().State())

	disc, ok := m.DisconnectCmd()().(DisconnectedMsg)
	require.True(t, ok)
	assert.NoError(t, disc.Error)
	assert.Equal(t, meter.StateClosed, m.GetSession().State())
}

func TestConnectCmdUnknownPort(t *testing.T) {
	m := newTestModel(t, []string{"/dev/ttyUSB0"}, 115200)

	status := m.ConnectCmd("/dev/ttyUSB9")().(ConnectionStatusMsg)
	assert.False(t, status.Connected)
	assert.True(t, errors.Is(status.Error, meter.ErrPortNotAvailable))
	assert.Equal(t, meter.StateClosed, m.GetSession().State())
}

func TestWaitForLineStopsOnCancel(t *testing.T) {
	m := newTestModel(t, nil, 115200)

	done := make(chan any, 1)
	go func() { done <- m.WaitForLine()() }()

	m.Cancel()
	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("WaitForLine did not return after cancel")
	}
}

func TestScanPortsCmd(t *testing.T) {
	m := newTestModel(t, []string{"/dev/null"}, 115200)

	msg := m.ScanPortsCmd()().(PortsMsg)
	require.NoError(t, msg.Error)
	require.Len(t, msg.Ports, 1)
	assert.Equal(t, "/dev/null", msg.Ports[0].Path)
	assert.Equal(t, "Serial Port", msg.Ports[0].Description)

	failing := meter.NewSession(meter.WithPortLister(func() ([]string, error) {
		return nil, errors.New("no /dev")
	}))
	monitor, err := meter.NewMonitor()
	require.NoError(t, err)
	fm := NewMeterModel(failing, monitor, 115200)
	defer fm.Cleanup()
	assert.Error(t, fm.ScanPortsCmd()().(PortsMsg).Error)
}

func TestCleanupClosesSession(t *testing.T) {
	m := newTestModel(t, []string{"/dev/ttyUSB0"}, 115200)
	require.NoError(t, m.GetSession().Connect(context.Background(), "/dev/ttyUSB0", 115200))

	m.Cleanup()
	assert.Equal(t, meter.StateClosed, m.GetSession().State())
	assert.Error(t, m.GetContext().Err())
}
