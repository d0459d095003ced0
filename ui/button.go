package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// PressButton is a button that reports press-down and release separately,
// for controls whose meaning depends on how long they are held.
//
// Once a press has been reported, the matching release is always reported,
// even if the button was disabled in between.
type PressButton struct {
	widget.Button
	OnPress   func()
	OnRelease func()

	pressed bool
}

var (
	_ desktop.Mouseable = (*PressButton)(nil)
	_ mobile.Touchable  = (*PressButton)(nil)
)

func NewPressButton(label string, icon fyne.Resource, onPress, onRelease func()) *PressButton {
	b := &PressButton{OnPress: onPress, OnRelease: onRelease}
	b.Text = label
	b.Icon = icon
	b.ExtendBaseWidget(b)
	return b
}

func (b *PressButton) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.press()
	}
}

func (b *PressButton) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.release()
	}
}

// MouseOut releases a held button when the pointer slides off it.
func (b *PressButton) MouseOut() {
	b.Button.MouseOut()
	b.release()
}

func (b *PressButton) TouchDown(*mobile.TouchEvent)   { b.press() }
func (b *PressButton) TouchUp(*mobile.TouchEvent)     { b.release() }
func (b *PressButton) TouchCancel(*mobile.TouchEvent) { b.release() }

// Pressed reports whether a press is in progress.
func (b *PressButton) Pressed() bool {
	return b.pressed
}

func (b *PressButton) press() {
	if b.Disabled() || b.pressed {
		return
	}
	b.pressed = true
	if b.OnPress != nil {
		b.OnPress()
	}
}

func (b *PressButton) release() {
	if !b.pressed {
		return
	}
	b.pressed = false
	if b.OnRelease != nil {
		b.OnRelease()
	}
}
