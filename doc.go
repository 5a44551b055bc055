// Package meter turns newline-delimited "pwm,rpm,volt" serial output into
// bounded chart series.
//
// It is built from four pieces:
//
//   - ParseLine classifies one raw line as a Reading or a rejection error.
//   - Series is a fixed-capacity ring of (x, y) points that evicts the
//     oldest point once full.
//   - Monitor is the application state: three Series (PWM, RPM, Volt), the
//     latest Reading and counters. It is owned by a single update task.
//   - Session owns at most one open serial connection and delivers its
//     lines, in arrival order, on a single-producer channel.
//
// # Basic Usage
//
//	session := meter.NewSession(meter.WithLogger(log))
//	defer session.Close()
//
//	if err := session.Connect(ctx, "/dev/ttyUSB0", 115200); err != nil {
//	    return err
//	}
//
//	mon, err := meter.NewMonitor()
//	if err != nil {
//	    return err
//	}
//	for line := range session.Lines() {
//	    if reading, err := mon.HandleLine(line); err == nil {
//	        fmt.Println(reading)
//	    }
//	}
//
// # Error Handling
//
// Parse rejections wrap one of the sentinel errors and can be inspected with
// errors.Is:
//
//	if _, err := meter.ParseLine(text); errors.Is(err, meter.ErrHeaderLine) {
//	    // repeated "PWM,RPM,Volt" header
//	}
//
// Read errors on an open session are logged and ignored. Close never fails,
// so shutdown always completes.
package meter
