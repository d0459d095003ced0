package main

import (
	"embed"
	"log"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/urfave/cli"

	"robopad/config"
	"robopad/ui"
)

//go:embed assets/*
var content embed.FS

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "robopad"
	cliApp.Usage = "drive a robot from a touch pad"
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "path to a TOML config file",
			EnvVar: "ROBOPAD_CONFIG",
		},
		cli.StringFlag{
			Name:  "robot",
			Usage: "robot profile to start with (beetle, pollywog, rhino, crab, generic)",
		},
		cli.StringFlag{
			Name:  "transport",
			Usage: "link kind, serial or websocket",
		},
		cli.StringFlag{
			Name:  "device",
			Usage: "serial device of the robot",
		},
		cli.StringFlag{
			Name:  "url",
			Usage: "websocket bridge URL",
		},
	}
	cliApp.Action = run

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadFrom(c.GlobalString("config"))
	if err != nil {
		return err
	}
	applyFlags(c, &cfg)

	a, err := NewAppManager(cfg, content)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	fyneApp := app.NewWithID("com.robopad.pad")
	fyneApp.Settings().SetTheme(ui.NewCustomTheme())

	if err := a.SelectRobot(cfg.UI.Robot); err != nil {
		log.Printf("Falling back to the first robot: %v", err)
		if err := a.SelectRobot(a.Profiles()[0].Name); err != nil {
			return err
		}
	}
	w := ui.CreateMainWindow(a, fyneApp)
	a.mainWindow = w

	w.ShowAndRun()
	return nil
}

// applyFlags lets command line flags override the loaded configuration.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if v := c.GlobalString("robot"); v != "" {
		cfg.UI.Robot = v
	}
	if v := c.GlobalString("transport"); v != "" {
		cfg.Transport.Kind = v
	}
	if v := c.GlobalString("device"); v != "" {
		cfg.Transport.Device = v
	}
	if v := c.GlobalString("url"); v != "" {
		cfg.Transport.URL = v
	}
}
