// Package config provides TOML-based configuration for the styled-switch
// host program.
package config

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/styled-switch/pkg/theme"
)

// Config is the complete host configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Host       HostConfig       `toml:"host"`
	Theme      ThemeConfig      `toml:"theme"`
	Properties PropertiesConfig `toml:"properties"`
}

// GeneralConfig holds logging and state locations.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	StateDir string `toml:"state_dir"`
}

// HostConfig controls how the host drives the control.
type HostConfig struct {
	// InstanceID keys the persisted state of this control instance.
	InstanceID string `toml:"instance_id"`

	// RefreshInterval is how often the host pushes a fresh snapshot even
	// when nothing changed.
	RefreshInterval Duration `toml:"refresh_interval"`

	// Allocate makes the host report an allocation. When false the control
	// falls back to its container and parent sizes.
	Allocate bool `toml:"allocate"`

	// AllocatedWidth and AllocatedHeight fix the allocation. Zero means
	// "derive from the terminal".
	AllocatedWidth  int `toml:"allocated_width"`
	AllocatedHeight int `toml:"allocated_height"`

	Mouse     bool `toml:"mouse"`
	AltScreen bool `toml:"alt_screen"`
}

// ThemeConfig selects the palette used for empty fill references.
type ThemeConfig struct {
	Name string `toml:"name"`
	File string `toml:"file"`
}

// PropertiesConfig is the initial property bag of the control.
type PropertiesConfig struct {
	// Preset names a style preset applied before the explicit fields below.
	Preset string `toml:"preset"`

	// Value is the initial bound value; absent means unset.
	Value *bool `toml:"value"`

	Disabled bool `toml:"disabled"`
	Hidden   bool `toml:"hidden"`

	FalseHandleFill  string `toml:"false_handle_fill"`
	FalseHandleImage string `toml:"false_handle_image"`
	FalseTrackFill   string `toml:"false_track_fill"`
	TrueHandleFill   string `toml:"true_handle_fill"`
	TrueHandleImage  string `toml:"true_handle_image"`
	TrueTrackFill    string `toml:"true_track_fill"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for values the host cannot run with.
func (c *Config) Validate() error {
	if !validLogLevels[strings.ToLower(c.General.LogLevel)] {
		return fmt.Errorf("config: invalid log_level %q (want debug, info, warn or error)", c.General.LogLevel)
	}
	if c.Host.RefreshInterval.Duration <= 0 {
		return fmt.Errorf("config: host.refresh_interval must be positive")
	}
	if c.Host.AllocatedWidth < 0 || c.Host.AllocatedHeight < 0 {
		return fmt.Errorf("config: allocation must not be negative")
	}
	if c.Host.InstanceID == "" {
		return fmt.Errorf("config: host.instance_id must not be empty")
	}
	if c.Properties.Preset != "" {
		if _, ok := lookupPreset(c.Properties.Preset); !ok {
			return fmt.Errorf("config: unknown style preset %q", c.Properties.Preset)
		}
	}
	if c.Theme.File == "" {
		known := false
		for _, n := range theme.Names() {
			if strings.EqualFold(n, c.Theme.Name) {
				known = true
			}
		}
		if !known {
			return fmt.Errorf("config: unknown theme %q", c.Theme.Name)
		}
	}
	return nil
}
