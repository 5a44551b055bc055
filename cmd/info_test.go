package cmd

import (
	"bytes"
	"testing"

	"github.com/allbin/pwm-meter/internal/serial"
	"github.com/stretchr/testify/assert"
)

func TestPrintPortInfo(t *testing.T) {
	var out bytes.Buffer
	printPortInfo(&out, &serial.PortInfo{
		Name:         "ttyUSB0",
		Path:         "/dev/ttyUSB0",
		Description:  "USB Serial Port",
		VendorID:     "0403",
		ProductID:    "6001",
		Manufacturer: "FTDI",
	})

	text := out.String()
	assert.Contains(t, text, "Port Information: /dev/ttyUSB0")
	assert.Contains(t, text, "Type:        USB Serial")
	assert.Contains(t, text, "USB Device Information:")
	assert.Contains(t, text, "Vendor ID:    0403")
	assert.Contains(t, text, "Manufacturer: FTDI")
	assert.NotContains(t, text, "Serial:")
}

func TestPrintPortInfoNotUSB(t *testing.T) {
	var out bytes.Buffer
	printPortInfo(&out, &serial.PortInfo{Name: "ttyS0", Path: "/dev/ttyS0", Description: "Standard Serial Port"})

	assert.Contains(t, out.String(), "Standard Serial Port")
	assert.NotContains(t, out.String(), "USB Device Information")
}
