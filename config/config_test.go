package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ROBOPAD_CONFIG", "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	isolate(t)
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Pad.ClickSleepTime != 130*time.Millisecond {
		t.Errorf("click sleep = %v", c.Pad.ClickSleepTime)
	}
	l := c.ClawLimits()
	if l.MaxOpen != 5 || l.MinClose != 50 || l.Step != 5 || l.Init != 30 {
		t.Errorf("claw limits = %+v", l)
	}
	if c.Vocabulary().Claw != "M" || c.Vocabulary().Stop != "S" {
		t.Errorf("vocabulary = %+v", c.Vocabulary())
	}
	if c.Link().Kind != "serial" || c.Link().Device != "/dev/rfcomm0" {
		t.Errorf("link = %+v", c.Link())
	}
	if c.UI.Robot != "beetle" || !c.UI.Sound {
		t.Errorf("ui = %+v", c.UI)
	}
}

func TestFileAndEnv(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
[pad]
click_sleep_time = "200ms"

[claw]
step = 10
init = 20

[commands]
line_follower = "LF"

[transport]
kind = "websocket"
url = "ws://10.0.0.7:8080/pad"
`)
	t.Setenv("ROBOPAD_CONFIG", path)
	t.Setenv("ROBOPAD_UI_ROBOT", "rhino")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	d := c.Dispatch()
	if d.ClickSleepTime != 200*time.Millisecond || d.Claw.Step != 10 || d.Claw.Init != 20 {
		t.Errorf("dispatch config = %+v", d)
	}
	if d.Vocabulary.LineFollower != "LF" || d.Vocabulary.Up != "U" {
		t.Errorf("vocabulary = %+v", d.Vocabulary)
	}
	if c.Link().Kind != "websocket" || c.Link().URL != "ws://10.0.0.7:8080/pad" {
		t.Errorf("link = %+v", c.Link())
	}
	if c.UI.Robot != "rhino" {
		t.Errorf("robot = %q, env should win", c.UI.Robot)
	}
}

func TestHomeConfig(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("HOME"), ".config", "robopad")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[ui]\nsound = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.UI.Sound {
		t.Error("home config should turn sound off")
	}
}

func TestMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("an explicit missing file should fail")
	}
}

func TestInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"inverted range": "[claw]\nmax_open = 50\nmin_close = 5\n",
		"zero step":      "[claw]\nstep = 0\n",
		"init outside":   "[claw]\ninit = 70\n",
		"zero delay":     "[pad]\nclick_sleep_time = \"0s\"\n",
		"empty stop":     "[commands]\nstop = \"\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			_, err := LoadFrom(writeConfig(t, body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}
