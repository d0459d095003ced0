package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"robopad/i18n"
	"robopad/robot"
)

type App interface {
	Profiles() []*robot.Profile
	CurrentProfile() *robot.Profile
	SelectRobot(name string) error
	ToggleConnection()
	HandleKeyRune(rune)
	HandleKey(name fyne.KeyName, down bool)
	ShowInfoDialog(title, contentFile string, minSize fyne.Size)
	SetPadHost(*fyne.Container)
	SetConnectButton(*widget.Button)
}

// BuildHeader builds the robot picker, the connect button and the help
// icon.
func BuildHeader(a App) fyne.CanvasObject {
	profiles := a.Profiles()
	titles := make([]string, len(profiles))
	byTitle := make(map[string]string, len(profiles))
	for i, p := range profiles {
		titles[i] = p.Title
		byTitle[p.Title] = p.Name
	}

	picker := widget.NewSelect(titles, nil)
	if p := a.CurrentProfile(); p != nil {
		picker.SetSelected(p.Title)
	}
	picker.OnChanged = func(title string) {
		if err := a.SelectRobot(byTitle[title]); err != nil {
			if p := a.CurrentProfile(); p != nil {
				picker.SetSelected(p.Title)
			}
		}
	}

	connectButton := widget.NewButtonWithIcon(i18n.T("Connect"), theme.LoginIcon(), a.ToggleConnection)
	a.SetConnectButton(connectButton)

	helpButton := NewTappableContainer(widget.NewIcon(theme.QuestionIcon()), func() {
		a.ShowInfoDialog(i18n.T("Help"), "assets/help.txt", fyne.NewSize(360, 260))
	}, func(*fyne.PointEvent) {
		a.ShowInfoDialog(i18n.T("About RoboPad"), "", fyne.NewSize(360, 200))
	})

	return container.NewHBox(
		widget.NewLabel(i18n.T("Robot")),
		picker,
		layout.NewSpacer(),
		connectButton,
		helpButton,
	)
}

func CreateMainWindow(a App, fyneApp fyne.App) fyne.Window {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "RoboPad"
	}
	w := fyneApp.NewWindow(title)

	padHost := container.NewStack()
	a.SetPadHost(padHost)
	header := BuildHeader(a)

	w.Canvas().SetOnTypedRune(a.HandleKeyRune)
	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(e *fyne.KeyEvent) { a.HandleKey(e.Name, true) })
		dc.SetOnKeyUp(func(e *fyne.KeyEvent) { a.HandleKey(e.Name, false) })
	}

	w.SetContent(container.NewBorder(header, nil, nil, nil, padHost))
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	return w
}

type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewHBox(t.Content, layout.NewSpacer()))
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}
