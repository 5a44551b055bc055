package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/allbin/pwm-meter"
)

func TestStatusBarRender(t *testing.T) {
	sb := NewStatusBar()
	sb.SetWidth(140)
	sb.SetPortPath("/dev/ttyUSB0")
	sb.SetConnectionInfo(&ConnectionInfo{BaudRate: 9600, Framing: "8N1"})
	sb.SetStats(meter.Stats{Received: 5, Accepted: 4, Rejected: 1})
	sb.SetConnected()

	out := sb.Render(true, "12:00:00")
	for _, want := range []string{"OPEN", "/dev/ttyUSB0", "⚡ 9600 baud 8N1", "✓4", "✗1", "12:00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q:\n%s", want, out)
		}
	}

	sb.SetDisconnected(errors.New("boom"))
	out = sb.Render(false, "12:00:01")
	if !strings.Contains(out, "CLOSED") || !strings.Contains(out, "Connection failed: boom") {
		t.Errorf("unexpected closed status bar:\n%s", out)
	}
	if _, err := sb.Status(); err == nil {
		t.Error("Status() should report the failure")
	}
}
