// Package dispatch turns press and release events on pad controls into the
// command stream sent to the robot.
//
// Maintenance notes:
//   - Dispatcher is a plain state machine and is NOT safe for concurrent
//     use. Drive it from one goroutine only; Loop does that and also routes
//     every timer callback back onto that goroutine.
//   - The dispatcher never reports failures to its caller. A missing or
//     disconnected listener only suppresses sends.
//   - Per control, commands leave in the order movement, then stop. There
//     is no ordering between different controls.
package dispatch

import (
	"log"
	"time"

	"github.com/google/uuid"

	"robopad/control"
	"robopad/robot"
)

// Listener is the transport commands are sent through.
type Listener interface {
	SendMessage(command string)
	IsConnected() bool
}

// Presenter receives the observable side effects of dispatching.
type Presenter interface {
	ModeChanged(state robot.ControlState)
	ControlEnabledChanged(id control.ID, enabled bool)
	ClawMoved(pos int)
}

// Config holds the tunables of a dispatcher.
type Config struct {
	// ClickSleepTime is both the click/hold disambiguation delay and the
	// claw repeat interval.
	ClickSleepTime time.Duration
	Claw           robot.ClawLimits
	Vocabulary     robot.Vocabulary
}

// session tracks one press gesture on one control.
type session struct {
	id      string
	control control.ID
	started time.Time
	// released is set on press-up, on supersede and when a claw boundary
	// forces the repeat loop to end.
	released bool
	// ignored sessions were pressed while disconnected and send nothing.
	ignored     bool
	staleLogged bool
	timer       Timer
}

func (s *session) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Dispatcher owns the control state, the claw model, the enabled flags and
// the press sessions of one robot screen.
type Dispatcher struct {
	cfg       Config
	bindings  map[control.ID]Binding
	listener  Listener
	presenter Presenter
	sched     Scheduler
	now       func() time.Time

	state             robot.ControlState
	claw              *robot.Claw
	disabled          map[control.ID]bool
	sessions          map[control.ID]*session
	connectedSnapshot bool
}

// New creates a dispatcher in manual control with the claw at its initial
// position and every control enabled.
func New(cfg Config, bindings map[control.ID]Binding, sched Scheduler) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		bindings:  bindings,
		presenter: nopPresenter{},
		sched:     sched,
		now:       time.Now,
		state:     robot.ManualControl,
		claw:      robot.NewClaw(cfg.Claw),
		disabled:  make(map[control.ID]bool),
		sessions:  make(map[control.ID]*session),
	}
}

// SetListener attaches the transport. A nil listener drops every command.
func (d *Dispatcher) SetListener(l Listener) {
	d.listener = l
}

// SetPresenter attaches the presentation layer.
func (d *Dispatcher) SetPresenter(p Presenter) {
	if p == nil {
		p = nopPresenter{}
	}
	d.presenter = p
}

// State returns the current control state.
func (d *Dispatcher) State() robot.ControlState {
	return d.state
}

// ClawPosition returns the commanded claw position.
func (d *Dispatcher) ClawPosition() int {
	return d.claw.Position()
}

// Enabled reports whether presses on id are currently accepted.
func (d *Dispatcher) Enabled(id control.ID) bool {
	return !d.disabled[id]
}

// ConnectedSnapshot returns the connectivity seen at the last press-down.
func (d *Dispatcher) ConnectedSnapshot() bool {
	return d.connectedSnapshot
}

// Held reports whether a live press session exists for id.
func (d *Dispatcher) Held(id control.ID) bool {
	s, ok := d.sessions[id]
	return ok && !s.released && !s.ignored
}

// PressDown handles a control being pressed.
func (d *Dispatcher) PressDown(id control.ID) {
	b, ok := d.bindings[id]
	if !ok {
		log.Printf("dispatch: no binding for control %q", id)
		return
	}
	if d.disabled[id] {
		return
	}

	switch b.Kind {
	case Momentary:
		d.momentaryDown(id, b)
	case Step:
		d.stepDown(id, b)
	case Tap:
		d.tap(b)
	}
}

// PressUp handles a control being released or the press being cancelled.
// It always ends the session, whatever the connectivity.
func (d *Dispatcher) PressUp(id control.ID) {
	s, ok := d.sessions[id]
	if !ok {
		return
	}
	delete(d.sessions, id)
	s.cancel()
	if s.released || s.ignored {
		s.released = true
		return
	}
	s.released = true

	if b := d.bindings[id]; b.Kind == Momentary {
		d.send(b.Release)
	}
}

// ReleaseAll ends every open session as if its control had been let go.
func (d *Dispatcher) ReleaseAll() {
	for id := range d.sessions {
		d.PressUp(id)
	}
}

// NextClawPosition applies t to the claw, reports enable changes and the
// new position to the presenter, and returns the CLAW command together
// with whether a boundary was reached.
func (d *Dispatcher) NextClawPosition(t robot.Transition) (string, bool) {
	step := d.claw.Next(t)
	for _, tg := range step.Toggles {
		d.setEnabled(tg.Control, tg.Enabled)
	}
	d.presenter.ClawMoved(step.Position)
	return d.cfg.Vocabulary.FormatClaw(step.Position), step.Clamped
}

func (d *Dispatcher) momentaryDown(id control.ID, b Binding) {
	if d.state != robot.ManualControl {
		d.setState(robot.ManualControl)
	}
	d.supersede(id)

	if !d.connected() {
		d.connectedSnapshot = false
		d.sessions[id] = &session{control: id, ignored: true}
		return
	}
	d.connectedSnapshot = true

	s := d.open(id)
	s.timer = d.sched.AfterFunc(d.cfg.ClickSleepTime, func() {
		if !d.live(s) {
			return
		}
		s.timer = nil
		d.send(b.Command)
	})
}

func (d *Dispatcher) stepDown(id control.ID, b Binding) {
	d.supersede(id)
	if !d.connected() {
		d.connectedSnapshot = false
		return
	}
	d.connectedSnapshot = true

	s := d.open(id)
	d.repeatClaw(s, b.Transition)
}

// repeatClaw sends the next claw position and re-arms itself until the
// session is released, a boundary is reached or the link drops.
func (d *Dispatcher) repeatClaw(s *session, t robot.Transition) {
	s.timer = nil
	if !d.live(s) {
		return
	}
	if !d.connected() {
		s.released = true
		return
	}
	cmd, clamped := d.NextClawPosition(t)
	d.send(cmd)
	if clamped {
		s.released = true
		return
	}
	s.timer = d.sched.AfterFunc(d.cfg.ClickSleepTime, func() { d.repeatClaw(s, t) })
}

func (d *Dispatcher) tap(b Binding) {
	if !d.connected() {
		d.connectedSnapshot = false
		return
	}
	d.connectedSnapshot = true

	switch {
	case b.SwitchMode:
		if d.state == b.Mode {
			d.setState(robot.ManualControl)
			d.send(b.Release)
			return
		}
		d.setState(b.Mode)
		d.send(b.Command)
	case b.Claw:
		cmd, _ := d.NextClawPosition(b.Transition)
		d.send(cmd)
	default:
		d.send(b.Command)
	}
}

func (d *Dispatcher) open(id control.ID) *session {
	s := &session{id: uuid.NewString(), control: id, started: d.now()}
	d.sessions[id] = s
	return s
}

// supersede drops tracking of a previous session on id without sending.
func (d *Dispatcher) supersede(id control.ID) {
	if prev, ok := d.sessions[id]; ok {
		prev.cancel()
		prev.released = true
		delete(d.sessions, id)
	}
}

// live reports whether a timer callback for s may still act.
func (d *Dispatcher) live(s *session) bool {
	if d.sessions[s.control] == s && !s.released {
		return true
	}
	if !s.staleLogged {
		s.staleLogged = true
		log.Printf("dispatch: stale timer for %s session %s ignored after %v", s.control, s.id, d.now().Sub(s.started))
	}
	return false
}

func (d *Dispatcher) connected() bool {
	if d.listener == nil {
		log.Printf("dispatch: no listener attached, dropping gesture")
		return false
	}
	if !d.listener.IsConnected() {
		log.Printf("dispatch: not connected, dropping gesture")
		return false
	}
	return true
}

func (d *Dispatcher) send(cmd string) {
	if d.listener == nil || cmd == "" {
		return
	}
	d.listener.SendMessage(cmd)
}

func (d *Dispatcher) setState(s robot.ControlState) {
	d.state = s
	d.presenter.ModeChanged(s)
}

func (d *Dispatcher) setEnabled(id control.ID, enabled bool) {
	if d.disabled[id] == !enabled {
		return
	}
	if enabled {
		delete(d.disabled, id)
	} else {
		d.disabled[id] = true
	}
	d.presenter.ControlEnabledChanged(id, enabled)
}

type nopPresenter struct{}

func (nopPresenter) ModeChanged(robot.ControlState) {}

func (nopPresenter) ControlEnabledChanged(control.ID, bool) {}

func (nopPresenter) ClawMoved(int) {}
