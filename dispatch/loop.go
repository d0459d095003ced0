package dispatch

import (
	"context"
	"fmt"
	"sync/atomic"

	"robopad/control"
)

// Loop runs a Dispatcher on a single goroutine. Press events and timer
// callbacks are both delivered through it, so the dispatcher state never
// needs locking.
//
// Events are never dropped: a lost press-up would lose a STOP. Enqueueing
// blocks until the loop accepts the event or the loop is shut down.
type Loop struct {
	d      *Dispatcher
	events chan control.Event
	calls  chan func()
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	started atomic.Bool
}

// NewLoop creates a loop around a fresh dispatcher. Call Start to run it.
func NewLoop(cfg Config, bindings map[control.ID]Binding, listener Listener, presenter Presenter) *Loop {
	l := &Loop{
		events: make(chan control.Event, 256),
		calls:  make(chan func(), 256),
		done:   make(chan struct{}),
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.d = New(cfg, bindings, loopScheduler{l})
	l.d.SetListener(listener)
	l.d.SetPresenter(presenter)
	return l
}

// Start runs the loop until parent is cancelled or Shutdown is called.
func (l *Loop) Start(parent context.Context) {
	if !l.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		select {
		case <-parent.Done():
			l.cancel()
		case <-l.ctx.Done():
		}
	}()
	go l.run()
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			// let go of anything still held so the robot is told to stop
			l.d.ReleaseAll()
			return
		case ev := <-l.events:
			err := l.handle(ev)
			if ev.Reply != nil {
				select {
				case ev.Reply <- err:
				default:
				}
			}
		case f := <-l.calls:
			f()
		}
	}
}

func (l *Loop) handle(ev control.Event) error {
	switch ev.Type {
	case control.EvPressDown:
		l.d.PressDown(ev.Control)
	case control.EvPressUp:
		l.d.PressUp(ev.Control)
	default:
		return fmt.Errorf("unknown event %v for control %q", ev.Type, ev.Control)
	}
	return nil
}

// Enqueue posts an event to the loop. It returns false if the loop has
// shut down.
func (l *Loop) Enqueue(ev control.Event) bool {
	if l.ctx.Err() != nil {
		return false
	}
	select {
	case l.events <- ev:
		return true
	case <-l.ctx.Done():
		return false
	}
}

// PressDown posts a press-down event for id.
func (l *Loop) PressDown(id control.ID) {
	l.Enqueue(control.Event{Type: control.EvPressDown, Control: id})
}

// PressUp posts a press-up event for id.
func (l *Loop) PressUp(id control.ID) {
	l.Enqueue(control.Event{Type: control.EvPressUp, Control: id})
}

// Inspect runs fn on the loop goroutine and waits for it to return. It
// returns false without running fn if the loop has shut down.
func (l *Loop) Inspect(fn func(d *Dispatcher)) bool {
	ran := make(chan struct{})
	if !l.post(func() {
		fn(l.d)
		close(ran)
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

func (l *Loop) post(f func()) bool {
	if l.ctx.Err() != nil {
		return false
	}
	select {
	case l.calls <- f:
		return true
	case <-l.ctx.Done():
		return false
	}
}

// Shutdown stops the loop and waits for it to release held controls.
func (l *Loop) Shutdown() {
	l.cancel()
	if l.started.Load() {
		<-l.done
	}
}
