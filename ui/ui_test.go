package ui

import (
	"reflect"
	"testing"

	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"

	"robopad/control"
	"robopad/i18n"
	"robopad/robot"
)

type recordingController struct {
	events []string
}

func (r *recordingController) PressDown(id control.ID) { r.events = append(r.events, "down "+string(id)) }
func (r *recordingController) PressUp(id control.ID)   { r.events = append(r.events, "up "+string(id)) }

var (
	primary   = &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	secondary = &desktop.MouseEvent{Button: desktop.MouseButtonSecondary}
)

func newButton() (*PressButton, *[]string) {
	var events []string
	b := NewPressButton("go", nil,
		func() { events = append(events, "press") },
		func() { events = append(events, "release") })
	return b, &events
}

func TestPressButtonMouse(t *testing.T) {
	test.NewTempApp(t)
	b, events := newButton()

	b.MouseDown(secondary)
	b.MouseDown(primary)
	if !b.Pressed() {
		t.Fatal("button should be pressed")
	}
	b.MouseDown(primary)
	b.MouseUp(primary)
	b.MouseUp(primary)

	if want := []string{"press", "release"}; !reflect.DeepEqual(*events, want) {
		t.Errorf("events = %v, want %v", *events, want)
	}
}

func TestPressButtonTouch(t *testing.T) {
	test.NewTempApp(t)
	b, events := newButton()

	b.TouchDown(&mobile.TouchEvent{})
	b.TouchUp(&mobile.TouchEvent{})
	b.TouchDown(&mobile.TouchEvent{})
	b.TouchCancel(&mobile.TouchEvent{})

	if want := []string{"press", "release", "press", "release"}; !reflect.DeepEqual(*events, want) {
		t.Errorf("events = %v, want %v", *events, want)
	}
}

func TestPressButtonMouseOutReleases(t *testing.T) {
	test.NewTempApp(t)
	b, events := newButton()

	b.MouseDown(primary)
	b.MouseOut()
	b.MouseUp(primary)

	if want := []string{"press", "release"}; !reflect.DeepEqual(*events, want) {
		t.Errorf("events = %v, want %v", *events, want)
	}
}

func TestDisabledPressButton(t *testing.T) {
	test.NewTempApp(t)
	b, events := newButton()

	b.Disable()
	b.MouseDown(primary)
	b.MouseUp(primary)
	if len(*events) != 0 {
		t.Fatalf("disabled button reported %v", *events)
	}

	// disabling mid-press must not swallow the release
	b.Enable()
	b.MouseDown(primary)
	b.Disable()
	b.MouseUp(primary)
	if want := []string{"press", "release"}; !reflect.DeepEqual(*events, want) {
		t.Errorf("events = %v, want %v", *events, want)
	}
}

var beetle = &robot.Profile{
	Name:  "beetle",
	Title: "Beetle",
	Controls: []control.ID{
		control.Up, control.Down, control.Left, control.Right, control.Stop,
		control.ClawOpenStep, control.ClawCloseStep, control.ClawFullOpen,
	},
}

func TestPadViewControls(t *testing.T) {
	test.NewTempApp(t)
	i18n.SetLang("en")
	c := &recordingController{}
	v := NewPadView(beetle, c, 30)

	for _, id := range beetle.Controls {
		if v.Button(id) == nil {
			t.Errorf("missing button for %s", id)
		}
	}
	if v.Button(control.LineFollower) != nil {
		t.Error("beetle has no line follower")
	}

	v.Button(control.Up).MouseDown(primary)
	v.Button(control.Up).MouseUp(primary)
	v.Button(control.ClawOpenStep).TouchDown(&mobile.TouchEvent{})
	v.Button(control.ClawOpenStep).TouchUp(&mobile.TouchEvent{})

	want := []string{"down up", "up up", "down claw_open_step", "up claw_open_step"}
	if !reflect.DeepEqual(c.events, want) {
		t.Errorf("events = %v, want %v", c.events, want)
	}
}

func TestPadViewPresenter(t *testing.T) {
	test.NewTempApp(t)
	i18n.SetLang("en")
	v := NewPadView(beetle, &recordingController{}, 30)

	if v.clawLabel.Text != "Claw: 30" {
		t.Errorf("claw label = %q", v.clawLabel.Text)
	}
	v.ClawMoved(5)
	if v.clawLabel.Text != "Claw: 5" {
		t.Errorf("claw label = %q", v.clawLabel.Text)
	}

	v.ControlEnabledChanged(control.ClawOpenStep, false)
	if !v.Button(control.ClawOpenStep).Disabled() {
		t.Error("open step should be disabled")
	}
	v.ControlEnabledChanged(control.ClawOpenStep, true)
	if v.Button(control.ClawOpenStep).Disabled() {
		t.Error("open step should be enabled")
	}
	// controls the pad does not show are ignored
	v.ControlEnabledChanged(control.LineFollower, false)

	v.ModeChanged(robot.LineFollower)
	if v.modeLabel.Text != "Line follower" {
		t.Errorf("mode label = %q", v.modeLabel.Text)
	}

	v.SetConnected(true)
	if v.statusLabel.Text != "Connected" || v.indicator.FillColor != connectedColor {
		t.Errorf("status = %q", v.statusLabel.Text)
	}
	v.SetConnected(false)
	if v.statusLabel.Text != "Disconnected" || v.indicator.FillColor != disconnectedColor {
		t.Errorf("status = %q", v.statusLabel.Text)
	}
}

func TestPadViewWithoutClaw(t *testing.T) {
	test.NewTempApp(t)
	pollywog := &robot.Profile{Name: "pollywog", Controls: []control.ID{control.Up, control.Stop, control.LineFollower}}
	v := NewPadView(pollywog, &recordingController{}, 30)

	if v.Button(control.ClawFullOpen) != nil || v.Button(control.Down) != nil {
		t.Error("pad shows controls the profile does not list")
	}
	if v.Button(control.LineFollower) == nil {
		t.Error("missing line follower button")
	}
}
