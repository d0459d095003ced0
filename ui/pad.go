package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"robopad/control"
	"robopad/i18n"
	"robopad/robot"
)

// Controller receives the raw press and release events of the pad.
type Controller interface {
	PressDown(id control.ID)
	PressUp(id control.ID)
}

var (
	connectedColor    = color.NRGBA{R: 0x3c, G: 0xb3, B: 0x71, A: 0xff}
	disconnectedColor = color.NRGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}
)

// PadView is the pad of one robot. It implements the dispatcher's
// Presenter; every widget change is scheduled with fyne.Do so it may be
// called from any goroutine.
type PadView struct {
	buttons map[control.ID]*PressButton

	indicator   *canvas.Circle
	statusLabel *widget.Label
	modeLabel   *widget.Label
	clawLabel   *widget.Label

	content fyne.CanvasObject
}

// NewPadView builds the controls the profile lists and routes their
// presses to c.
func NewPadView(p *robot.Profile, c Controller, clawInit int) *PadView {
	v := &PadView{buttons: make(map[control.ID]*PressButton)}

	v.indicator = canvas.NewCircle(disconnectedColor)
	v.indicator.Resize(fyne.NewSize(IndicatorSize, IndicatorSize))
	v.statusLabel = widget.NewLabel(i18n.T("Disconnected"))
	v.modeLabel = widget.NewLabel(modeText(robot.ManualControl))
	v.clawLabel = widget.NewLabel(clawText(clawInit))

	add := func(id control.ID, label string, icon fyne.Resource) fyne.CanvasObject {
		if !p.Has(id) {
			return layout.NewSpacer()
		}
		b := NewPressButton(label, icon, func() { c.PressDown(id) }, func() { c.PressUp(id) })
		v.buttons[id] = b
		return b
	}

	cross := container.NewGridWithColumns(3,
		layout.NewSpacer(), add(control.Up, "", theme.MoveUpIcon()), layout.NewSpacer(),
		add(control.Left, "", theme.NavigateBackIcon()), add(control.Stop, i18n.T("Stop"), theme.MediaStopIcon()), add(control.Right, "", theme.NavigateNextIcon()),
		layout.NewSpacer(), add(control.Down, "", theme.MoveDownIcon()), layout.NewSpacer(),
	)
	crossSize := canvas.NewRectangle(color.Transparent)
	crossSize.SetMinSize(fyne.NewSize(CrossSize, CrossSize))

	indicatorBox := container.NewGridWrap(fyne.NewSize(IndicatorSize, IndicatorSize), v.indicator)
	status := container.NewHBox(
		container.NewCenter(indicatorBox),
		v.statusLabel,
		layout.NewSpacer(),
		v.modeLabel,
	)

	body := container.NewVBox(
		status,
		container.NewCenter(container.NewStack(crossSize, cross)),
	)

	if p.HasClaw() {
		claw := container.NewHBox(
			layout.NewSpacer(),
			add(control.ClawOpenStep, i18n.T("Open"), theme.ContentAddIcon()),
			add(control.ClawCloseStep, i18n.T("Close"), theme.ContentRemoveIcon()),
			add(control.ClawFullOpen, i18n.T("Full open"), theme.MediaFastForwardIcon()),
			layout.NewSpacer(),
		)
		body.Add(container.NewCenter(v.clawLabel))
		body.Add(claw)
	}
	if p.Has(control.LineFollower) {
		body.Add(container.NewHBox(
			layout.NewSpacer(),
			add(control.LineFollower, i18n.T("Line follower"), theme.MediaPlayIcon()),
			layout.NewSpacer(),
		))
	}

	v.content = body
	return v
}

func (v *PadView) Content() fyne.CanvasObject {
	return v.content
}

// Button returns the button of a control, or nil if the pad has none.
func (v *PadView) Button(id control.ID) *PressButton {
	return v.buttons[id]
}

func (v *PadView) ModeChanged(state robot.ControlState) {
	fyne.Do(func() {
		v.modeLabel.SetText(modeText(state))
	})
}

func (v *PadView) ControlEnabledChanged(id control.ID, enabled bool) {
	b, ok := v.buttons[id]
	if !ok {
		return
	}
	fyne.Do(func() {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	})
}

func (v *PadView) ClawMoved(pos int) {
	fyne.Do(func() {
		v.clawLabel.SetText(clawText(pos))
	})
}

// SetConnected updates the connection indicator.
func (v *PadView) SetConnected(connected bool) {
	fyne.Do(func() {
		if connected {
			v.indicator.FillColor = connectedColor
			v.statusLabel.SetText(i18n.T("Connected"))
		} else {
			v.indicator.FillColor = disconnectedColor
			v.statusLabel.SetText(i18n.T("Disconnected"))
		}
		v.indicator.Refresh()
	})
}

func modeText(s robot.ControlState) string {
	if s == robot.LineFollower {
		return i18n.T("Line follower")
	}
	return i18n.T("Manual control")
}

func clawText(pos int) string {
	return fmt.Sprintf("%s: %d", i18n.T("Claw"), pos)
}
