package dispatch

import (
	"sort"
	"sync"
	"time"

	"robopad/control"
	"robopad/robot"
)

// manualScheduler fires callbacks only when Advance is called.
type manualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in deadline order,
// including timers armed by callbacks within the window.
func (s *manualScheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		var due []*manualTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= end {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at == due[j].at {
				return due[i].seq < due[j].seq
			}
			return due[i].at < due[j].at
		})
		t := due[0]
		s.now = t.at
		t.fired = true
		t.f()
	}
	s.now = end
}

// Pending counts timers that are armed and not yet fired.
func (s *manualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// recordingListener records every command it is asked to send.
type recordingListener struct {
	mu        sync.Mutex
	connected bool
	sent      []string
}

func (r *recordingListener) SendMessage(cmd string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, cmd)
}

func (r *recordingListener) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

func (r *recordingListener) SetConnected(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected = v
}

func (r *recordingListener) Sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	copy(out, r.sent)
	return out
}

// recordingPresenter records presentation side effects.
type recordingPresenter struct {
	mu      sync.Mutex
	modes   []robot.ControlState
	toggles []robot.Toggle
	claw    []int
}

func (p *recordingPresenter) ModeChanged(s robot.ControlState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modes = append(p.modes, s)
}

func (p *recordingPresenter) ControlEnabledChanged(id control.ID, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toggles = append(p.toggles, robot.Toggle{Control: id, Enabled: enabled})
}

func (p *recordingPresenter) ClawMoved(pos int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.claw = append(p.claw, pos)
}

const clickSleep = 130 * time.Millisecond

var testVocabulary = robot.Vocabulary{
	Up: "U", Down: "D", Left: "L", Right: "R", Stop: "S", Claw: "M", LineFollower: "F",
}

var testConfig = Config{
	ClickSleepTime: clickSleep,
	Claw:           robot.ClawLimits{MaxOpen: 5, MinClose: 50, Step: 5, Init: 30},
	Vocabulary:     testVocabulary,
}

var testProfile = &robot.Profile{
	Name: "test",
	Controls: []control.ID{
		control.Up, control.Down, control.Left, control.Right, control.Stop,
		control.ClawOpenStep, control.ClawCloseStep, control.ClawFullOpen, control.LineFollower,
	},
}

type harness struct {
	d     *Dispatcher
	sched *manualScheduler
	link  *recordingListener
	view  *recordingPresenter
}

func newHarness() *harness {
	h := &harness{
		sched: &manualScheduler{},
		link:  &recordingListener{connected: true},
		view:  &recordingPresenter{},
	}
	h.d = New(testConfig, Bindings(testProfile, testVocabulary), h.sched)
	h.d.SetListener(h.link)
	h.d.SetPresenter(h.view)
	return h
}
