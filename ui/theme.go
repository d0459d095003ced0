package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Layout constants.
const (
	WindowWidth   = 420
	WindowHeight  = 560
	CrossSize     = 300
	IndicatorSize = 14
	PadButtonSize = 32
)

var accentColor = color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}

// CustomTheme is the default theme with larger pad buttons and the
// application accent color.
type CustomTheme struct {
	fyne.Theme
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme() fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme()}
}

// Color returns the accent for primary and focus colors.
func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return accentColor
	}
	return t.Theme.Color(name, variant)
}

// Size enlarges icons so the direction cross is easy to hit on a touch
// screen.
func (t *CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameInlineIcon {
		return PadButtonSize
	}
	return t.Theme.Size(name)
}
