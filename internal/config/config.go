// Package config loads the user's gridterm configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// UserConfig represents the user's custom configuration.
type UserConfig struct {
	Terminal   TerminalConfig   `toml:"terminal"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// TerminalConfig holds terminal-related settings.
type TerminalConfig struct {
	Shell           string `toml:"shell"`            // Shell to launch; empty means auto-detect
	Width           int    `toml:"width"`            // Initial width in cells (0 = detect from the host terminal)
	Height          int    `toml:"height"`           // Initial height in lines (0 = detect)
	ScrollbackLines int    `toml:"scrollback_lines"` // Lines to keep in scrollback (default: 10000, min: 0, max: 1000000)
}

// AppearanceConfig holds appearance-related settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"` // Color theme name (e.g. dracula, nord). Empty disables theming.
}

// DefaultScrollbackLines is used when the config leaves the value unset.
const DefaultScrollbackLines = 10000

// Default returns the default configuration.
func Default() *UserConfig {
	return &UserConfig{
		Terminal: TerminalConfig{
			ScrollbackLines: DefaultScrollbackLines,
		},
	}
}

// Path returns the path of the configuration file, creating parent
// directories as needed.
func Path() (string, error) {
	p, err := xdg.ConfigFile("gridterm/config.toml")
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return p, nil
}

// Load reads the user configuration, returning defaults when no file
// exists yet.
func Load() (*UserConfig, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 - path comes from XDG
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.clamp()
	return cfg, nil
}

// clamp keeps configured values inside sane bounds.
func (c *UserConfig) clamp() {
	if c.Terminal.ScrollbackLines < 0 {
		c.Terminal.ScrollbackLines = 0
	}
	if c.Terminal.ScrollbackLines > 1000000 {
		c.Terminal.ScrollbackLines = 1000000
	}
	if c.Terminal.Width < 0 {
		c.Terminal.Width = 0
	}
	if c.Terminal.Height < 0 {
		c.Terminal.Height = 0
	}
}
