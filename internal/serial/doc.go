// Package serial is a small Linux serial port transport built on termios.
//
// Ports are opened in raw mode with a VTIME read timeout so that a blocked
// Read always returns within the configured interval:
//
//	port, err := serial.Open("/dev/ttyUSB0",
//	    serial.WithBaudRate(9600),
//	    serial.WithReadTimeout(200*time.Millisecond),
//	)
//	if err != nil {
//	    return err
//	}
//	defer port.Close()
//
// A Read that times out returns 0 bytes and a nil error.
//
// # Port Discovery
//
//	ports, err := serial.ListPorts()
//	for _, path := range ports {
//	    info, _ := serial.GetPortInfo(path)
//	    fmt.Printf("%s: %s (VID=%s PID=%s)\n", info.Path, info.Description, info.VendorID, info.ProductID)
//	}
//
// # Default Configuration
//
//   - BaudRate: 115200
//   - DataBits: 8
//   - StopBits: 1
//   - Parity: None
//   - ReadTimeout: 2.5 seconds
package serial
