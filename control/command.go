// Package control defines the pad's control identifiers and the event
// messages the UI posts to the dispatcher loop. The loop centralizes state
// changes so press handling, timers and claw moves never race.
package control

import "fmt"

// ID identifies one pressable control on a robot pad.
type ID string

const (
	Up            ID = "up"
	Down          ID = "down"
	Left          ID = "left"
	Right         ID = "right"
	Stop          ID = "stop"
	ClawOpenStep  ID = "claw_open_step"
	ClawCloseStep ID = "claw_close_step"
	ClawFullOpen  ID = "claw_full_open"
	LineFollower  ID = "line_follower"
)

// All lists every control in pad display order.
var All = []ID{Up, Down, Left, Right, Stop, ClawOpenStep, ClawCloseStep, ClawFullOpen, LineFollower}

// Known reports whether id names a declared control.
func Known(id ID) bool {
	for _, k := range All {
		if k == id {
			return true
		}
	}
	return false
}

// IsDirection reports whether id is one of the four movement controls.
func IsDirection(id ID) bool {
	switch id {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// EventType enumerates supported event operations.
type EventType int

const (
	EvPressDown EventType = iota
	EvPressUp
)

func (t EventType) String() string {
	switch t {
	case EvPressDown:
		return "press-down"
	case EvPressUp:
		return "press-up"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is the message sent from the UI to the dispatcher loop. The
// optional Reply channel receives nil once the loop has handled the
// event, which lets callers keep UI state in sync.
type Event struct {
	Type    EventType
	Control ID
	Reply   chan error
}
