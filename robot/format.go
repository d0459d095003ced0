package robot

import (
	"strconv"

	"robopad/control"
)

// Vocabulary is the set of literal command payloads understood by the
// robot firmware.
type Vocabulary struct {
	Up           string
	Down         string
	Left         string
	Right        string
	Stop         string
	Claw         string // prefix; the position follows in decimal
	LineFollower string
}

// Command returns the literal payload for a control that sends one.
// Claw controls have no literal payload; see FormatClaw.
func (v Vocabulary) Command(id control.ID) (string, bool) {
	switch id {
	case control.Up:
		return v.Up, true
	case control.Down:
		return v.Down, true
	case control.Left:
		return v.Left, true
	case control.Right:
		return v.Right, true
	case control.Stop:
		return v.Stop, true
	case control.LineFollower:
		return v.LineFollower, true
	}
	return "", false
}

// FormatClaw builds the CLAW command for a servo position.
func (v Vocabulary) FormatClaw(pos int) string {
	return v.Claw + strconv.Itoa(pos)
}
