package robot

import "fmt"

// ControlState is the overall behavior mode of a robot screen.
type ControlState int

const (
	ManualControl ControlState = iota
	LineFollower
)

func (s ControlState) String() string {
	switch s {
	case ManualControl:
		return "manual control"
	case LineFollower:
		return "line follower"
	}
	return fmt.Sprintf("ControlState(%d)", int(s))
}
