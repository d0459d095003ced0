package dispatch

import (
	"robopad/control"
	"robopad/robot"
)

// Kind selects how a control's presses are turned into commands.
type Kind int

const (
	// Momentary controls disambiguate click from hold and send the release
	// command when let go.
	Momentary Kind = iota
	// Step controls move the claw and keep resending while held.
	Step
	// Tap controls dispatch once on press-down.
	Tap
)

func (k Kind) String() string {
	switch k {
	case Momentary:
		return "momentary"
	case Step:
		return "step"
	case Tap:
		return "tap"
	}
	return "unknown"
}

// Binding maps one control to the commands it produces.
type Binding struct {
	Kind Kind
	// Command is the literal payload of momentary and plain tap controls.
	Command string
	// Release is sent when a momentary control is let go.
	Release string
	// Claw marks controls whose payload comes from the claw model.
	Claw       bool
	Transition robot.Transition
	// SwitchMode taps toggle between Mode and manual control.
	SwitchMode bool
	Mode       robot.ControlState
}

// Bindings builds the control table of a robot profile.
func Bindings(p *robot.Profile, v robot.Vocabulary) map[control.ID]Binding {
	table := make(map[control.ID]Binding, len(p.Controls))
	for _, id := range p.Controls {
		if control.IsDirection(id) {
			cmd, _ := v.Command(id)
			table[id] = Binding{Kind: Momentary, Command: cmd, Release: v.Stop}
			continue
		}
		switch id {
		case control.Stop:
			table[id] = Binding{Kind: Tap, Command: v.Stop}
		case control.ClawOpenStep:
			table[id] = Binding{Kind: Step, Claw: true, Transition: robot.OpenStep}
		case control.ClawCloseStep:
			table[id] = Binding{Kind: Step, Claw: true, Transition: robot.CloseStep}
		case control.ClawFullOpen:
			table[id] = Binding{Kind: Tap, Claw: true, Transition: robot.FullOpen}
		case control.LineFollower:
			table[id] = Binding{Kind: Tap, Command: v.LineFollower, Release: v.Stop, SwitchMode: true, Mode: robot.LineFollower}
		}
	}
	return table
}
