package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"robopad/dispatch"
	"robopad/robot"
	"robopad/transport"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds application configuration.
type Config struct {
	Pad       PadConfig
	Claw      ClawConfig
	Commands  CommandsConfig
	Transport TransportConfig
	UI        UIConfig
}

// PadConfig holds the click/hold timing.
type PadConfig struct {
	ClickSleepTime time.Duration `mapstructure:"click_sleep_time"`
}

// ClawConfig holds the servo range. MaxOpen is numerically below MinClose.
type ClawConfig struct {
	Step     int
	MaxOpen  int `mapstructure:"max_open"`
	MinClose int `mapstructure:"min_close"`
	Init     int
}

// CommandsConfig holds the literal payloads the firmware understands.
type CommandsConfig struct {
	Up           string
	Down         string
	Left         string
	Right        string
	Stop         string
	Claw         string
	LineFollower string `mapstructure:"line_follower"`
}

// TransportConfig selects the link to the robot.
type TransportConfig struct {
	Kind       string
	Device     string
	Baud       int
	URL        string
	Terminator string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Robot string
	Sound bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pad.click_sleep_time", "130ms")
	v.SetDefault("claw.step", 5)
	v.SetDefault("claw.max_open", 5)
	v.SetDefault("claw.min_close", 50)
	v.SetDefault("claw.init", 30)
	v.SetDefault("commands.up", "U")
	v.SetDefault("commands.down", "D")
	v.SetDefault("commands.left", "L")
	v.SetDefault("commands.right", "R")
	v.SetDefault("commands.stop", "S")
	v.SetDefault("commands.claw", "M")
	v.SetDefault("commands.line_follower", "F")
	v.SetDefault("transport.kind", transport.KindSerial)
	v.SetDefault("transport.device", transport.DefaultDevice)
	v.SetDefault("transport.baud", transport.DefaultBaud)
	v.SetDefault("transport.url", "")
	v.SetDefault("transport.terminator", "\n")
	v.SetDefault("ui.robot", "beetle")
	v.SetDefault("ui.sound", true)
}

// Load reads configuration from file and env. Env var overrides use prefix
// ROBOPAD_. The file is $ROBOPAD_CONFIG, or ~/.config/robopad/config.toml.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("ROBOPAD_CONFIG"))
}

// LoadFrom is Load with an explicit config file. An empty path falls back
// to the default location, where a missing file is not an error.
func LoadFrom(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "robopad"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ROBOPAD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		log.Printf("config: no file, using defaults and env")
	} else {
		log.Printf("config: loaded %s", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the timing and the claw range.
func (c Config) Validate() error {
	if c.Pad.ClickSleepTime <= 0 {
		return fmt.Errorf("%w: pad.click_sleep_time must be positive, got %v", ErrInvalid, c.Pad.ClickSleepTime)
	}
	if err := c.ClawLimits().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Commands.Stop == "" {
		return fmt.Errorf("%w: commands.stop must not be empty", ErrInvalid)
	}
	return nil
}

func (c Config) ClawLimits() robot.ClawLimits {
	return robot.ClawLimits{
		MaxOpen:  c.Claw.MaxOpen,
		MinClose: c.Claw.MinClose,
		Step:     c.Claw.Step,
		Init:     c.Claw.Init,
	}
}

func (c Config) Vocabulary() robot.Vocabulary {
	return robot.Vocabulary{
		Up:           c.Commands.Up,
		Down:         c.Commands.Down,
		Left:         c.Commands.Left,
		Right:        c.Commands.Right,
		Stop:         c.Commands.Stop,
		Claw:         c.Commands.Claw,
		LineFollower: c.Commands.LineFollower,
	}
}

// Dispatch is the dispatcher configuration.
func (c Config) Dispatch() dispatch.Config {
	return dispatch.Config{
		ClickSleepTime: c.Pad.ClickSleepTime,
		Claw:           c.ClawLimits(),
		Vocabulary:     c.Vocabulary(),
	}
}

// Link is the transport configuration.
func (c Config) Link() transport.Config {
	return transport.Config{
		Kind:       c.Transport.Kind,
		Device:     c.Transport.Device,
		Baud:       c.Transport.Baud,
		URL:        c.Transport.URL,
		Terminator: c.Transport.Terminator,
	}
}
