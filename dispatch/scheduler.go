package dispatch

import "time"

// Timer is a pending delayed callback. Stop is idempotent: stopping a timer
// that already fired or was already stopped does nothing.
type Timer interface {
	Stop() bool
}

// Scheduler creates delayed callbacks. The dispatcher requires every
// callback to run on the same goroutine that delivers press events.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// loopScheduler arms wall-clock timers whose callbacks are posted back onto
// the loop goroutine instead of running on the timer goroutine.
type loopScheduler struct {
	l *Loop
}

func (s loopScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() { s.l.post(f) })
}
