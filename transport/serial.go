package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/tarm/serial"
)

const (
	DefaultDevice = "/dev/rfcomm0"
	DefaultBaud   = 9600

	// readPoll is the serial read timeout. The reader wakes at least this
	// often, so Close never waits on a silent robot.
	readPoll = 100 * time.Millisecond
	// hangupReads empty reads in a row that return well before the read
	// timeout mean the device went away.
	hangupReads = 3
)

// SerialLink talks to the robot over a serial device, typically a
// Bluetooth RFCOMM port bound to the robot's module.
type SerialLink struct {
	*line
	cfg         Config
	readTimeout time.Duration
	openPort    func(*serial.Config) (io.ReadWriteCloser, error)
}

func NewSerialLink(cfg Config) *SerialLink {
	if cfg.Device == "" {
		cfg.Device = DefaultDevice
	}
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	return &SerialLink{
		line:        newLine("serial " + cfg.Device),
		cfg:         cfg,
		readTimeout: readPoll,
		openPort: func(c *serial.Config) (io.ReadWriteCloser, error) {
			p, err := serial.OpenPort(c)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	}
}

// Connect opens the device. It is a no-op if the link is already up.
func (s *SerialLink) Connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.IsConnected() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	port, err := s.openPort(&serial.Config{
		Name:        s.cfg.Device,
		Baud:        s.cfg.Baud,
		ReadTimeout: s.readTimeout,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", s.cfg.Device, err)
	}

	s.start(
		func(cmd string) error {
			_, err := io.WriteString(port, cmd+s.cfg.Terminator)
			return err
		},
		s.reader(port),
		port.Close,
	)
	return nil
}

// reader returns the read step of a connection. A read that times out
// with nothing comes back as a bare io.EOF and only means the robot was
// quiet.
func (s *SerialLink) reader(port io.Reader) func() error {
	buf := make([]byte, 256)
	var partial []byte
	fastEOF := 0
	return func() error {
		began := time.Now()
		n, err := port.Read(buf)
		if n > 0 {
			fastEOF = 0
			partial = s.logLines(append(partial, buf[:n]...))
		}
		if err == nil || (errors.Is(err, io.EOF) && n > 0) {
			return nil
		}
		if !errors.Is(err, io.EOF) {
			return err
		}
		if time.Since(began) >= s.readTimeout/2 {
			fastEOF = 0
			return nil
		}
		if fastEOF++; fastEOF < hangupReads {
			return nil
		}
		return fmt.Errorf("device hung up: %w", err)
	}
}

// logLines logs every complete line in b and returns the unterminated rest.
func (s *SerialLink) logLines(b []byte) []byte {
	for {
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			return b
		}
		if msg := strings.TrimSpace(string(b[:i])); msg != "" {
			log.Printf("%s: robot says %q", s.name, msg)
		}
		b = b[i+1:]
	}
}

// Close shuts the device and waits, for a bounded time, for the I/O
// goroutines to exit.
func (s *SerialLink) Close() error {
	s.halt()
	return nil
}
