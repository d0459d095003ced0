// Package transport implements the links commands travel over to the
// robot's microcontroller.
//
// Sends are fire-and-forget. A link queues the command and a writer
// goroutine puts it on the wire; a write failure marks the link
// disconnected and is only logged.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	KindSerial    = "serial"
	KindWebsocket = "websocket"
)

const (
	// enqueueTimeout bounds how long SendMessage waits for room in the queue.
	enqueueTimeout = 150 * time.Millisecond
	// flushTimeout bounds how long Close waits for queued commands.
	flushTimeout = 500 * time.Millisecond
	// closeWait bounds how long Close waits for the I/O goroutines. A read
	// stuck in the driver is abandoned and exits on its own later.
	closeWait = 2 * time.Second
)

// ErrUnknownKind is returned by Open for an unsupported link kind.
var ErrUnknownKind = errors.New("unknown transport kind")

// Config selects and parameterizes a link.
type Config struct {
	Kind       string
	Device     string
	Baud       int
	URL        string
	Terminator string
}

// Link is a Transport Listener with a connection lifecycle.
type Link interface {
	SendMessage(command string)
	IsConnected() bool
	Connect(ctx context.Context) error
	Close() error
	// SetStateHandler registers fn to be called on every connected or
	// disconnected transition. fn runs on the goroutine that observed it.
	SetStateHandler(fn func(connected bool))
}

// Open builds the link selected by cfg.Kind without connecting it.
func Open(cfg Config) (Link, error) {
	switch cfg.Kind {
	case KindSerial:
		return NewSerialLink(cfg), nil
	case KindWebsocket:
		return NewSocketLink(cfg), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
}

// line holds the state shared by every link: the outbound queue, the
// connection flag and the I/O goroutines of the current connection.
type line struct {
	name string

	// connMu serializes Connect and Close, so at most one connection is
	// ever live.
	connMu    sync.Mutex
	closeWait time.Duration

	mu        sync.Mutex
	connected bool
	onState   func(bool)
	stop      context.CancelFunc
	closeFn   func() error
	// done is closed once both I/O goroutines of the latest connection
	// have exited.
	done chan struct{}

	out     chan string
	pending atomic.Int64
}

func newLine(name string) *line {
	return &line{name: name, out: make(chan string, 64), closeWait: closeWait}
}

func (l *line) SendMessage(cmd string) {
	if !l.IsConnected() {
		log.Printf("%s: not connected, dropping %q", l.name, cmd)
		return
	}
	l.pending.Add(1)
	select {
	case l.out <- cmd:
	case <-time.After(enqueueTimeout):
		l.pending.Add(-1)
		log.Printf("%s: send queue full, dropping %q", l.name, cmd)
	}
}

func (l *line) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *line) SetStateHandler(fn func(bool)) {
	l.mu.Lock()
	l.onState = fn
	l.mu.Unlock()
}

func (l *line) setConnected(v bool) {
	l.mu.Lock()
	changed := l.connected != v
	l.connected = v
	fn := l.onState
	l.mu.Unlock()

	if !changed {
		return
	}
	if v {
		log.Printf("%s: connected", l.name)
	} else {
		log.Printf("%s: disconnected", l.name)
	}
	if fn != nil {
		fn(v)
	}
}

// start runs the writer and reader goroutines of a fresh connection.
// read is called until it returns an error or the connection is closed, so
// it should return periodically even when nothing arrives. Callers hold
// connMu.
func (l *line) start(write func(string) error, read func() error, closeFn func() error) {
	// never leave an earlier connection running behind this one
	l.shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	done := make(chan struct{})
	l.mu.Lock()
	l.stop = cancel
	l.closeFn = closeFn
	l.done = done
	l.mu.Unlock()

	// commands queued for a previous connection are stale
	for drained := false; !drained; {
		select {
		case <-l.out:
			l.pending.Add(-1)
		default:
			drained = true
		}
	}

	l.setConnected(true)

	wg.Add(2)
	go func() {
		wg.Wait()
		close(done)
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case cmd := <-l.out:
				err := write(cmd)
				l.pending.Add(-1)
				if err != nil {
					l.fail(fmt.Errorf("write %q: %w", cmd, err))
					return
				}
			}
		}
	}()
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			if err := read(); err != nil {
				if ctx.Err() == nil {
					l.fail(fmt.Errorf("read: %w", err))
				}
				return
			}
		}
	}()
}

// shutdown cancels the current connection. It reports whether one was
// running.
func (l *line) shutdown() bool {
	l.mu.Lock()
	stop, closeFn := l.stop, l.closeFn
	l.stop, l.closeFn = nil, nil
	l.mu.Unlock()

	if stop == nil {
		return false
	}
	stop()
	if err := closeFn(); err != nil {
		log.Printf("%s: close: %v", l.name, err)
	}
	return true
}

// fail is called from the I/O goroutines when the connection breaks.
func (l *line) fail(err error) {
	log.Printf("%s: %v", l.name, err)
	l.shutdown()
	l.setConnected(false)
}

// halt gives queued commands a chance to reach the robot, then closes the
// connection and waits for its goroutines to exit.
func (l *line) halt() {
	l.connMu.Lock()
	defer l.connMu.Unlock()

	if l.IsConnected() {
		l.flush(flushTimeout)
	}
	l.shutdown()
	if !l.waitIO(l.closeWait) {
		log.Printf("%s: I/O still blocked after %v, abandoning it", l.name, l.closeWait)
	}
	l.setConnected(false)
}

// waitIO waits for the I/O goroutines of the latest connection and reports
// whether they exited in time.
func (l *line) waitIO(timeout time.Duration) bool {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (l *line) flush(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for l.pending.Load() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
}
