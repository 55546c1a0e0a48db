// Package config loads the station configuration from a YAML file.
// Every field has a default, and a missing file just means "all
// defaults", so the binary runs with no configuration at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/luki/thermo/internal/sensor"
)

// Config is the full station configuration.
type Config struct {
	// Listen is the HTTP listen address for the device endpoint.
	Listen string `yaml:"listen"`

	History struct {
		// Capacity is the number of seconds of history kept and
		// persisted.
		Capacity int `yaml:"capacity"`
		// Window is the number of seconds shown on the graph.
		Window int `yaml:"window"`
	} `yaml:"history"`

	// Tick is the aggregation interval.
	Tick time.Duration `yaml:"tick"`

	// LinkTimeout is how long without an inbound post before the
	// device is considered unreachable.
	LinkTimeout time.Duration `yaml:"link_timeout"`

	// CommandDebounce is how long a local toggle outranks
	// device-reported switch state.
	CommandDebounce time.Duration `yaml:"command_debounce"`

	Alerts struct {
		HighC    float64       `yaml:"high_c"`
		LowC     float64       `yaml:"low_c"`
		Cooldown time.Duration `yaml:"cooldown"`
		// SMSWebhook is the gateway URL; empty means log-only alerts.
		SMSWebhook string `yaml:"sms_webhook"`
		SMSTo      string `yaml:"sms_to"`
		SMSFrom    string `yaml:"sms_from"`
	} `yaml:"alerts"`

	Persistence struct {
		Path string `yaml:"path"`
	} `yaml:"persistence"`

	Display struct {
		// Unit is "C" or "F".
		Unit string `yaml:"unit"`
	} `yaml:"display"`

	// LogFile receives slog output; empty means stderr.
	LogFile string `yaml:"log_file"`
}

// Default returns the configuration used when nothing is overridden:
// 500s of stored history, a 300s graph, 1s ticks, 2s link timeout, 1s
// debounce, and edge-triggered 21–32°C alerts.
func Default() Config {
	var c Config
	c.Listen = ":8080"
	c.History.Capacity = 500
	c.History.Window = 300
	c.Tick = time.Second
	c.LinkTimeout = 2 * time.Second
	c.CommandDebounce = time.Second
	c.Alerts.HighC = 32.0
	c.Alerts.LowC = 21.0
	c.Persistence.Path = "temp_history.json"
	c.Display.Unit = "C"
	// The dashboard owns the terminal, so logs default to a file.
	c.LogFile = "thermo.log"
	return c
}

// Load reads the file at path on top of the defaults. A missing file
// returns the defaults; a present but invalid file is an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) validate() error {
	if c.History.Capacity < 1 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}
	if c.History.Window < 1 {
		return fmt.Errorf("history.window must be positive, got %d", c.History.Window)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick)
	}
	if c.LinkTimeout <= 0 {
		return fmt.Errorf("link_timeout must be positive, got %s", c.LinkTimeout)
	}
	if c.Alerts.LowC >= c.Alerts.HighC {
		return fmt.Errorf("alerts.low_c (%.1f) must be below alerts.high_c (%.1f)", c.Alerts.LowC, c.Alerts.HighC)
	}
	if c.Display.Unit != "C" && c.Display.Unit != "F" {
		return fmt.Errorf("display.unit must be C or F, got %q", c.Display.Unit)
	}
	return nil
}

// Unit returns the configured display unit.
func (c Config) Unit() sensor.Unit {
	if c.Display.Unit == "F" {
		return sensor.Fahrenheit
	}
	return sensor.Celsius
}
