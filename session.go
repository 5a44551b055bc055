package meter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/allbin/pwm-meter/internal/metrics"
	"github.com/allbin/pwm-meter/internal/serial"
	"github.com/sirupsen/logrus"
)

const (
	// readTimeout bounds each transport read so Disconnect is prompt
	readTimeout = 200 * time.Millisecond
	// readErrorBackoff keeps a failing transport from spinning the reader
	readErrorBackoff = 50 * time.Millisecond
	// maxLineLength discards runaway input that never sees a newline
	maxLineLength = 4096
	// stopTimeout bounds how long teardown waits for the reader to exit
	stopTimeout = 2 * time.Second
)

// State is the lifecycle state of a Session
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	default:
		return "Closed"
	}
}

// Line is one newline-terminated line without its terminator
type Line struct {
	Text     string
	Received time.Time
}

// PortLister enumerates the ports a session may connect to
type PortLister func() ([]string, error)

// Opener opens the named port at the given baud rate
type Opener func(name string, baud int) (io.ReadCloser, error)

// Session owns at most one open serial connection. Lines read from it are
// delivered in arrival order on Lines by a single reader goroutine.
type Session struct {
	mu     sync.Mutex
	state  State
	port   io.ReadCloser
	name   string
	baud   int
	cancel context.CancelFunc
	done   chan struct{}

	lines chan Line

	list    PortLister
	open    Opener
	now     func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithPortLister replaces serial.ListPorts
func WithPortLister(list PortLister) SessionOption {
	return func(s *Session) {
		s.list = list
	}
}

// WithOpener replaces the termios transport
func WithOpener(open Opener) SessionOption {
	return func(s *Session) {
		s.open = open
	}
}

func WithLogger(log logrus.FieldLogger) SessionOption {
	return func(s *Session) {
		s.log = log
	}
}

func WithMetrics(m *metrics.Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithLineBuffer sets how many lines may queue before the reader blocks
func WithLineBuffer(n int) SessionOption {
	return func(s *Session) {
		if n >= 0 {
			s.lines = make(chan Line, n)
		}
	}
}

// NewSession returns a closed session
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		lines: make(chan Line, 64),
		list:  serial.ListPorts,
		open:  openSerial,
		now:   time.Now,
		log:   discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// openSerial opens a termios port and drops bytes queued before the open
func openSerial(name string, baud int) (io.ReadCloser, error) {
	port, err := serial.Open(name,
		serial.WithBaudRate(baud),
		serial.WithReadTimeout(readTimeout),
	)
	if err != nil {
		return nil, err
	}
	_ = port.FlushInput()
	return port, nil
}

// Ports lists the ports available for Connect
func (s *Session) Ports() ([]string, error) {
	return s.list()
}

// Lines returns the channel on which received lines are delivered. The
// channel is shared by successive connections and is never closed.
func (s *Session) Lines() <-chan Line {
	return s.lines
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PortName returns the open port's name, or "" when closed
func (s *Session) PortName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Baud returns the open port's baud rate, or 0 when closed
func (s *Session) Baud() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baud
}

// Connect opens name at baud and starts the reader. The session stays
// Closed on any error. Cancelling ctx stops the reader and closes the
// session, as Disconnect does.
func (s *Session) Connect(ctx context.Context, name string, baud int) error {
	err := s.connect(ctx, name, baud)
	s.metrics.Connected(err)
	if err != nil {
		s.log.WithFields(logrus.Fields{"port": name, "baud": baud}).WithError(err).Warn("connect failed")
		return err
	}
	s.log.WithFields(logrus.Fields{"port": name, "baud": baud}).Info("session open")
	return nil
}

func (s *Session) connect(ctx context.Context, name string, baud int) error {
	if name == "" {
		return ErrNoPortSelected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOpen {
		return ErrAlreadyOpen
	}

	ports, err := s.list()
	if err != nil {
		return fmt.Errorf("failed to list ports: %w", err)
	}
	if !slices.Contains(ports, name) {
		return fmt.Errorf("%w: %s", ErrPortNotAvailable, name)
	}

	port, err := s.open(name, baud)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}

	readCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.state = StateOpen
	s.port = port
	s.name = name
	s.baud = baud
	s.cancel = cancel
	s.done = done

	go s.readLoop(readCtx, port, done)
	return nil
}

// Disconnect closes the open connection and waits for the reader to stop.
// The session is Closed afterwards even when closing the port fails; that
// error is returned for logging only.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return ErrNotOpen
	}

	name := s.name
	port, cancel, done := s.port, s.cancel, s.done
	s.state = StateClosed
	s.port = nil
	s.name = ""
	s.baud = 0
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	err := port.Close()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		s.log.WithField("port", name).Warn("reader did not stop after close")
	}

	s.metrics.Disconnected()
	s.log.WithField("port", name).Info("session closed")
	return err
}

// Close tears the session down for shutdown. It never fails and may be
// called any number of times.
func (s *Session) Close() {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Warn("recovered during session teardown")
		}
	}()

	if err := s.Disconnect(); err != nil && !errors.Is(err, ErrNotOpen) {
		s.log.WithError(err).Debug("close during teardown")
	}
}

// readLoop splits the byte stream on '\n' and delivers each line. Read
// errors are logged and ignored; the loop ends when ctx is cancelled or
// the port reports it has been closed, and the session is then Closed.
func (s *Session) readLoop(ctx context.Context, port io.ReadCloser, done chan<- struct{}) {
	defer close(done)
	defer s.release(port, done)

	buf := make([]byte, 256)
	var pending []byte

	for {
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		n, err := port.Read(buf)
		if n == 0 && err == nil && time.Since(start) < readTimeout/2 {
			// A hung-up tty returns at once instead of waiting out VTIME
			select {
			case <-time.After(readErrorBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				idx := bytes.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				line := Line{Text: string(pending[:idx]), Received: s.now()}
				pending = pending[idx+1:]

				select {
				case s.lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if len(pending) > maxLineLength {
				s.log.WithField("bytes", len(pending)).Debug("discarding unterminated input")
				pending = pending[:0]
			}
		}

		if err != nil {
			if ctx.Err() != nil || errors.Is(err, serial.ErrPortClosed) || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			s.metrics.ReadError()
			s.log.WithError(err).Debug("read error ignored")

			select {
			case <-time.After(readErrorBackoff):
			case <-ctx.Done():
				return
			}
		}
	}
}

// release closes the session when its reader stops on its own, as after
// the Connect context is cancelled. It does nothing once Disconnect has
// taken the port.
func (s *Session) release(port io.ReadCloser, done chan<- struct{}) {
	s.mu.Lock()
	if s.state != StateOpen || s.done != done {
		s.mu.Unlock()
		return
	}
	name, cancel := s.name, s.cancel
	s.state = StateClosed
	s.port = nil
	s.name = ""
	s.baud = 0
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	if err := port.Close(); err != nil {
		s.log.WithField("port", name).WithError(err).Debug("close after reader stopped")
	}
	s.metrics.Disconnected()
	s.log.WithField("port", name).Info("session closed, reader stopped")
}
