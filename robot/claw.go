// Package robot contains the domain model of the pad: the command
// vocabulary, the claw servo position model, the overall control state and
// the per-robot profiles.
//
// Maintenance notes:
//   - Claw is not safe for concurrent use. It is mutated only by the
//     dispatcher, which runs on a single goroutine.
//   - "Open" and "close" are directional labels. MaxOpen is numerically
//     smaller than MinClose.
package robot

import (
	"fmt"

	"robopad/control"
)

// Transition is a requested claw movement.
type Transition int

const (
	OpenStep Transition = iota
	CloseStep
	FullOpen
)

func (t Transition) String() string {
	switch t {
	case OpenStep:
		return "open-step"
	case CloseStep:
		return "close-step"
	case FullOpen:
		return "full-open"
	}
	return fmt.Sprintf("Transition(%d)", int(t))
}

// ClawLimits holds the servo range and step of a claw.
type ClawLimits struct {
	MaxOpen  int
	MinClose int
	Step     int
	Init     int
}

// Validate checks that the limits describe a usable range.
func (l ClawLimits) Validate() error {
	if l.MaxOpen >= l.MinClose {
		return fmt.Errorf("claw max open %d must be below min close %d", l.MaxOpen, l.MinClose)
	}
	if l.Step <= 0 {
		return fmt.Errorf("claw step %d must be positive", l.Step)
	}
	if l.Init < l.MaxOpen || l.Init > l.MinClose {
		return fmt.Errorf("claw initial position %d outside [%d, %d]", l.Init, l.MaxOpen, l.MinClose)
	}
	return nil
}

// Toggle is a change in availability of one claw control.
type Toggle struct {
	Control control.ID
	Enabled bool
}

// ClawStep is the outcome of one transition.
type ClawStep struct {
	Position int
	// Toggles are listed in the order they were applied; a later entry for
	// the same control wins.
	Toggles []Toggle
	// Clamped is set when the position hit a boundary. A held step button
	// must be treated as released.
	Clamped bool
}

// Claw is the commanded position of a gripper servo.
type Claw struct {
	limits ClawLimits
	pos    int
}

// NewClaw returns a claw at the initial position of l.
func NewClaw(l ClawLimits) *Claw {
	return &Claw{limits: l, pos: l.Init}
}

// Position returns the current commanded position.
func (c *Claw) Position() int {
	return c.pos
}

// Next applies t and clamps the result to [MaxOpen, MinClose].
func (c *Claw) Next(t Transition) ClawStep {
	var step ClawStep

	// leaving a boundary re-enables the controls disabled when reaching it
	if c.pos == c.limits.MaxOpen && t == CloseStep {
		step.Toggles = append(step.Toggles,
			Toggle{control.ClawOpenStep, true},
			Toggle{control.ClawFullOpen, true})
	} else if c.pos == c.limits.MinClose && (t == OpenStep || t == FullOpen) {
		step.Toggles = append(step.Toggles, Toggle{control.ClawCloseStep, true})
	}

	switch t {
	case OpenStep:
		c.pos -= c.limits.Step
	case CloseStep:
		c.pos += c.limits.Step
	case FullOpen:
		c.pos = c.limits.MaxOpen
	}

	if c.pos <= c.limits.MaxOpen {
		c.pos = c.limits.MaxOpen
		step.Toggles = append(step.Toggles,
			Toggle{control.ClawOpenStep, false},
			Toggle{control.ClawFullOpen, false})
		step.Clamped = true
	} else if c.pos >= c.limits.MinClose {
		c.pos = c.limits.MinClose
		step.Toggles = append(step.Toggles, Toggle{control.ClawCloseStep, false})
		step.Clamped = true
	}

	step.Position = c.pos
	return step
}
