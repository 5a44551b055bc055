package cmd

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func staticPorts(ports ...string) func() ([]string, error) {
	return func() ([]string, error) { return ports, nil }
}

func TestFilterPorts(t *testing.T) {
	ports := []string{"/dev/ttyACM0", "/dev/ttyAMA0", "/dev/ttyS0", "/dev/ttyUSB0"}

	tests := []struct {
		filter   string
		expected []string
	}{
		{"", ports},
		{"all", ports},
		{"usb", []string{"/dev/ttyACM0", "/dev/ttyUSB0"}},
		{"USB", []string{"/dev/ttyACM0", "/dev/ttyUSB0"}},
		{"standard", []string{"/dev/ttyS0"}},
		{"arm", []string{"/dev/ttyAMA0"}},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, filterPorts(ports, test.filter), "filter %q", test.filter)
	}
}

func TestGetPortType(t *testing.T) {
	tests := map[string]string{
		"ttyUSB0":  "USB Serial",
		"ttyACM1":  "USB CDC/ACM",
		"ttyAMA0":  "ARM Serial",
		"ttymxc2":  "i.MX Serial",
		"ttyS3":    "Standard Serial",
		"rfcomm0":  "Serial Port",
		"ttySAC0":  "Samsung Serial",
		"ttyTHS1":  "Tegra Serial",
		"ttyO2":    "OMAP Serial",
		"ttyXRUSB": "Serial Port",
	}
	for name, expected := range tests {
		assert.Equal(t, expected, getPortType(name), name)
	}
}

func TestListPortsSimple(t *testing.T) {
	var out bytes.Buffer
	err := listPorts(&out, quietLogger(), staticPorts("/dev/ttyS0", "/dev/ttyUSB0"), "", false)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyS0\n/dev/ttyUSB0\n", out.String())
}

func TestListPortsTable(t *testing.T) {
	var out bytes.Buffer
	err := listPorts(&out, quietLogger(), staticPorts("/dev/null"), "", true)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Found 1 serial port(s)")
	assert.Contains(t, text, "Port")
	assert.Contains(t, text, "null")
}

func TestListPortsEmptyAndFiltered(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listPorts(&out, quietLogger(), staticPorts(), "", false))
	assert.Equal(t, "No serial ports found\n", out.String())

	out.Reset()
	require.NoError(t, listPorts(&out, quietLogger(), staticPorts("/dev/ttyS0"), "usb", false))
	assert.True(t, strings.HasPrefix(out.String(), "No serial ports found matching filter: usb"))
}

func TestListPortsErrors(t *testing.T) {
	var out bytes.Buffer
	err := listPorts(&out, quietLogger(), func() ([]string, error) {
		return nil, errors.New("permission denied")
	}, "", false)
	assert.ErrorContains(t, err, "permission denied")

	err = listPorts(&out, quietLogger(), staticPorts("/dev/ttyS0"), "bluetooth", false)
	assert.ErrorContains(t, err, "unknown filter")
}
