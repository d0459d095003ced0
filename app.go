// Package main contains the application wiring and the AppManager, which
// owns the link to the robot, the dispatch loop of the selected robot and
// the pad on screen.
//
// Maintenance notes / tips:
//   - Concurrency model: every press and release goes through the dispatch
//     loop of the current robot, which runs on its own goroutine. The link
//     reports state changes from its I/O goroutines. AppManager fields that
//     both sides touch (loop, view, profile) are guarded by mu.
//   - Switching robots shuts the old loop down first. Shutdown releases
//     anything still held, so the robot is told to stop before the new pad
//     appears.
//   - The link outlives robot switches. It is closed only by
//     ToggleConnection or Shutdown.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"robopad/config"
	"robopad/control"
	"robopad/dispatch"
	"robopad/i18n"
	"robopad/robot"
	"robopad/transport"
	"robopad/ui"
)

const (
	connectTimeout = 5 * time.Second
	sampleRate     = beep.SampleRate(44100)
	chirpNote      = 90 * time.Millisecond
)

var arrowKeys = map[fyne.KeyName]control.ID{
	fyne.KeyUp:    control.Up,
	fyne.KeyDown:  control.Down,
	fyne.KeyLeft:  control.Left,
	fyne.KeyRight: control.Right,
}

// AppManager is the main application struct, holding all state.
type AppManager struct {
	mainWindow fyne.Window
	cfg        config.Config
	content    robot.ContentReader
	profiles   []*robot.Profile
	link       transport.Link

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	profile *robot.Profile
	loop    *dispatch.Loop
	view    *ui.PadView

	padHost       *fyne.Container
	connectButton *widget.Button
	keysDown      map[fyne.KeyName]bool

	chirps      map[bool]*beep.Buffer
	speakerLock sync.Mutex
}

// NewAppManager creates a new application manager and opens, but does not
// connect, the configured link.
func NewAppManager(cfg config.Config, content robot.ContentReader) (*AppManager, error) {
	link, err := transport.Open(cfg.Link())
	if err != nil {
		return nil, err
	}
	a, err := newAppManager(cfg, content, link)
	if err != nil {
		return nil, err
	}
	if cfg.UI.Sound {
		a.loadChirps()
	}
	return a, nil
}

func newAppManager(cfg config.Config, content robot.ContentReader, link transport.Link) (*AppManager, error) {
	profiles, err := robot.LoadProfiles(content)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d robot profiles.", len(profiles))

	a := &AppManager{
		cfg:      cfg,
		content:  content,
		profiles: profiles,
		link:     link,
		keysDown: make(map[fyne.KeyName]bool),
		chirps:   make(map[bool]*beep.Buffer),
		padHost:  container.NewStack(),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	link.SetStateHandler(a.onLinkState)
	return a, nil
}

// loadChirps synthesizes the rising connect and falling disconnect tones.
func (a *AppManager) loadChirps() {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v\n", err)
		return
	}
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	for connected, notes := range map[bool][]float64{
		true:  {660, 880},
		false: {880, 440},
	} {
		buf := beep.NewBuffer(format)
		for _, freq := range notes {
			tone, err := generators.SineTone(sampleRate, freq)
			if err != nil {
				log.Printf("Failed to build %v Hz tone: %v", freq, err)
				break
			}
			buf.Append(beep.Take(sampleRate.N(chirpNote), tone))
		}
		a.chirps[connected] = buf
	}
}

// PlayChirp plays the connect or disconnect tone.
func (a *AppManager) PlayChirp(connected bool) {
	b, ok := a.chirps[connected]
	if !ok {
		return
	}

	a.speakerLock.Lock()
	defer a.speakerLock.Unlock()

	speaker.Play(b.Streamer(0, b.Len()))
}

func (a *AppManager) Profiles() []*robot.Profile {
	return a.profiles
}

func (a *AppManager) CurrentProfile() *robot.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile
}

// SelectRobot replaces the pad and the dispatch loop with those of the
// named robot.
func (a *AppManager) SelectRobot(name string) error {
	p, err := robot.FindProfile(a.profiles, name)
	if err != nil {
		log.Printf("SelectRobot: %v", err)
		return err
	}

	a.mu.Lock()
	old := a.loop
	if old != nil && a.profile == p {
		a.mu.Unlock()
		return nil
	}
	a.loop = nil
	a.mu.Unlock()
	if old != nil {
		old.Shutdown()
	}

	view := ui.NewPadView(p, a, a.cfg.Claw.Init)
	loop := dispatch.NewLoop(a.cfg.Dispatch(), dispatch.Bindings(p, a.cfg.Vocabulary()), a.link, view)
	loop.Start(a.ctx)

	a.mu.Lock()
	a.profile, a.loop, a.view = p, loop, view
	a.mu.Unlock()
	log.Printf("Selected robot %q.", p.Name)

	view.SetConnected(a.link.IsConnected())
	fyne.Do(func() {
		a.padHost.Objects = []fyne.CanvasObject{view.Content()}
		a.padHost.Refresh()
	})
	return nil
}

func (a *AppManager) currentLoop() *dispatch.Loop {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loop
}

// PressDown forwards a press to the current robot's loop.
func (a *AppManager) PressDown(id control.ID) {
	if l := a.currentLoop(); l != nil {
		l.PressDown(id)
	}
}

// PressUp forwards a release to the current robot's loop.
func (a *AppManager) PressUp(id control.ID) {
	if l := a.currentLoop(); l != nil {
		l.PressUp(id)
	}
}

func (a *AppManager) tap(id control.ID) {
	a.PressDown(id)
	a.PressUp(id)
}

// ToggleConnection connects a disconnected link and closes a connected
// one. It does not block the caller.
func (a *AppManager) ToggleConnection() {
	go func() {
		if a.link.IsConnected() {
			if err := a.link.Close(); err != nil {
				log.Printf("ToggleConnection: close: %v", err)
			}
			return
		}
		ctx, cancel := context.WithTimeout(a.ctx, connectTimeout)
		defer cancel()
		if err := a.link.Connect(ctx); err != nil {
			log.Printf("ToggleConnection: %v", err)
			a.showError(fmt.Errorf("%s: %w", i18n.T("Could not connect"), err))
		}
	}()
}

func (a *AppManager) onLinkState(connected bool) {
	a.mu.Lock()
	view := a.view
	a.mu.Unlock()
	if view != nil {
		view.SetConnected(connected)
	}
	fyne.Do(func() {
		if a.connectButton == nil {
			return
		}
		if connected {
			a.connectButton.SetText(i18n.T("Disconnect"))
		} else {
			a.connectButton.SetText(i18n.T("Connect"))
		}
	})
	a.PlayChirp(connected)
}

func (a *AppManager) showError(err error) {
	if a.mainWindow == nil {
		return
	}
	fyne.Do(func() {
		dialog.ShowError(err, a.mainWindow)
	})
}

// HandleKeyRune handles key presses for the application.
func (a *AppManager) HandleKeyRune(r rune) {
	switch r {
	case ' ', 's', 'S':
		a.tap(control.Stop)
	case 'o', 'O':
		a.tap(control.ClawFullOpen)
	case 'c', 'C':
		a.ToggleConnection()
	}
}

// HandleKey turns arrow key down and up events into presses. Auto-repeat
// downs of a key already held are ignored.
func (a *AppManager) HandleKey(name fyne.KeyName, down bool) {
	id, ok := arrowKeys[name]
	if !ok {
		return
	}
	if down {
		if a.keysDown[name] {
			return
		}
		a.keysDown[name] = true
		a.PressDown(id)
		return
	}
	if !a.keysDown[name] {
		return
	}
	delete(a.keysDown, name)
	a.PressUp(id)
}

// ShowInfoDialog shows a dialog with the given title and content.
func (a *AppManager) ShowInfoDialog(title, contentFile string, minSize fyne.Size) {
	var contentText string
	if title == i18n.T("About RoboPad") {
		bytes, err := a.content.ReadFile("assets/about.json")
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}

		var dialogues map[string]string
		if err := json.Unmarshal(bytes, &dialogues); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		var ok bool
		if contentText, ok = dialogues[i18n.GetLang()]; !ok {
			contentText = dialogues["en"]
		}
	} else {
		bytes, err := a.content.ReadFile(contentFile)
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		contentText = string(bytes)
	}

	text := widget.NewLabel(contentText)
	text.Wrapping = fyne.TextWrapWord

	scrollableContent := container.NewVScroll(text)
	scrollableContent.SetMinSize(minSize)

	dialog.ShowCustom(title, i18n.T("Close"), scrollableContent, a.mainWindow)
}

// SetPadHost sets the container the current pad is shown in. A pad
// already built is moved into it.
func (a *AppManager) SetPadHost(c *fyne.Container) {
	if a.padHost != nil {
		c.Objects = a.padHost.Objects
	}
	a.padHost = c
}

// SetConnectButton sets the connect button widget.
func (a *AppManager) SetConnectButton(btn *widget.Button) {
	a.connectButton = btn
}

// Shutdown stops the dispatch loop, which sends a final stop for anything
// still held, then closes the link.
func (a *AppManager) Shutdown() {
	a.mu.Lock()
	loop := a.loop
	a.loop = nil
	a.mu.Unlock()
	if loop != nil {
		loop.Shutdown()
	}
	if err := a.link.Close(); err != nil {
		log.Printf("Shutdown: close link: %v", err)
	}
	a.cancel()
}
