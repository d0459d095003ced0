package robot

import (
	"testing"

	"robopad/control"
)

var beetleLimits = ClawLimits{MaxOpen: 5, MinClose: 50, Step: 5, Init: 30}

func toggleState(steps ...ClawStep) map[control.ID]bool {
	enabled := map[control.ID]bool{}
	for _, s := range steps {
		for _, tg := range s.Toggles {
			enabled[tg.Control] = tg.Enabled
		}
	}
	return enabled
}

func TestClawOpenStepSequence(t *testing.T) {
	c := NewClaw(beetleLimits)
	want := []int{25, 20, 15, 10}
	for i, w := range want {
		s := c.Next(OpenStep)
		if s.Position != w {
			t.Fatalf("step %d: position = %d, want %d", i+1, s.Position, w)
		}
		if s.Clamped {
			t.Fatalf("step %d: clamped before reaching max open", i+1)
		}
		if len(s.Toggles) != 0 {
			t.Fatalf("step %d: unexpected toggles %v", i+1, s.Toggles)
		}
	}

	s := c.Next(OpenStep)
	if s.Position != 5 {
		t.Fatalf("fifth step: position = %d, want 5", s.Position)
	}
	if !s.Clamped {
		t.Error("fifth step should clamp at max open")
	}
	en := toggleState(s)
	if en[control.ClawOpenStep] || en[control.ClawFullOpen] {
		t.Errorf("open-step and full-open should be disabled, got %v", s.Toggles)
	}

	s = c.Next(CloseStep)
	if s.Position != 10 {
		t.Fatalf("close step from max open: position = %d, want 10", s.Position)
	}
	en = toggleState(s)
	if !en[control.ClawOpenStep] || !en[control.ClawFullOpen] {
		t.Errorf("open-step and full-open should be re-enabled, got %v", s.Toggles)
	}
}

func TestClawCloseClampsAtMinClose(t *testing.T) {
	c := NewClaw(beetleLimits)
	var last ClawStep
	for i := 0; i < 4; i++ {
		last = c.Next(CloseStep)
	}
	if last.Position != 50 || !last.Clamped {
		t.Fatalf("got %+v, want clamped at 50", last)
	}
	if en := toggleState(last); en[control.ClawCloseStep] {
		t.Errorf("close-step should be disabled at min close")
	}

	s := c.Next(OpenStep)
	if s.Position != 45 {
		t.Fatalf("position = %d, want 45", s.Position)
	}
	if en := toggleState(s); !en[control.ClawCloseStep] {
		t.Errorf("close-step should be re-enabled, got %v", s.Toggles)
	}
}

func TestClawFullOpenFromAnywhere(t *testing.T) {
	for _, start := range []int{5, 10, 30, 45, 50} {
		l := beetleLimits
		l.Init = start
		c := NewClaw(l)
		s := c.Next(FullOpen)
		if s.Position != 5 {
			t.Errorf("from %d: position = %d, want 5", start, s.Position)
		}
		if !s.Clamped {
			t.Errorf("from %d: full open should clamp", start)
		}
		en := toggleState(s)
		if en[control.ClawOpenStep] || en[control.ClawFullOpen] {
			t.Errorf("from %d: open controls should end disabled", start)
		}
		if start == 50 && !en[control.ClawCloseStep] {
			t.Errorf("from min close: close-step should be re-enabled")
		}
	}
}

func TestClawOvershootSnapsToBoundary(t *testing.T) {
	c := NewClaw(ClawLimits{MaxOpen: 5, MinClose: 50, Step: 20, Init: 30})
	if s := c.Next(OpenStep); s.Position != 10 {
		t.Fatalf("position = %d, want 10", s.Position)
	}
	if s := c.Next(OpenStep); s.Position != 5 || !s.Clamped {
		t.Fatalf("got %+v, want clamped at 5", s)
	}
}

func TestClawStaysInRange(t *testing.T) {
	c := NewClaw(beetleLimits)
	seq := []Transition{CloseStep, CloseStep, CloseStep, CloseStep, CloseStep, OpenStep,
		FullOpen, OpenStep, OpenStep, CloseStep, CloseStep, CloseStep, CloseStep, CloseStep,
		CloseStep, CloseStep, CloseStep, CloseStep, CloseStep, CloseStep, FullOpen, CloseStep}
	for i, tr := range seq {
		s := c.Next(tr)
		if s.Position < 5 || s.Position > 50 {
			t.Fatalf("step %d (%v): position %d out of range", i, tr, s.Position)
		}
		if s.Position != c.Position() {
			t.Fatalf("step %d: returned %d but claw holds %d", i, s.Position, c.Position())
		}
	}
}

func TestClawLimitsValidate(t *testing.T) {
	if err := beetleLimits.Validate(); err != nil {
		t.Fatalf("valid limits rejected: %v", err)
	}
	bad := []ClawLimits{
		{MaxOpen: 50, MinClose: 5, Step: 5, Init: 30},
		{MaxOpen: 5, MinClose: 50, Step: 0, Init: 30},
		{MaxOpen: 5, MinClose: 50, Step: 5, Init: 60},
	}
	for _, l := range bad {
		if err := l.Validate(); err == nil {
			t.Errorf("%+v should be rejected", l)
		}
	}
}

func TestFormatClaw(t *testing.T) {
	v := Vocabulary{Claw: "M"}
	if got := v.FormatClaw(30); got != "M30" {
		t.Errorf("FormatClaw(30) = %q, want %q", got, "M30")
	}
}
