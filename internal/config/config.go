// Package config handles aether configuration loading, validation and the live
// configuration store.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/aether/internal/palette"
)

// Default configuration values.
const (
	DefaultPluginName    = "aether"
	DefaultColorscheme   = "aether"
	DefaultSyncDebounce  = 200 * time.Millisecond
	DefaultFocusDebounce = 100 * time.Millisecond
	DefaultReloadDelay   = 50 * time.Millisecond
	DefaultPollInterval  = 1 * time.Second
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports "200ms", "1s", "1m30s", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '200ms', '1s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the aether configuration.
type Config struct {
	SyncTerminal bool              `toml:"sync_terminal"`
	Plugin       Descriptor        `toml:"plugin"`
	Colors       map[string]string `toml:"colors"` // base16 slot -> hex
	Terminal     TerminalConfig    `toml:"terminal"`
	Sync         SyncConfig        `toml:"sync"`
	Reload       ReloadConfig      `toml:"reload"`
}

// Descriptor identifies the plugin to the host. The host asks it whether an
// active colorscheme belongs to aether instead of matching names by pattern.
type Descriptor struct {
	Name        string `toml:"name"`
	Colorscheme string `toml:"colorscheme"`
}

// Owns reports whether the named colorscheme is provided by this plugin.
func (d Descriptor) Owns(colorscheme string) bool {
	return colorscheme != "" && colorscheme == d.Colorscheme
}

// TerminalConfig overrides where the terminal config and themes are looked up.
type TerminalConfig struct {
	ConfigPaths []string `toml:"config_paths"` // empty = platform defaults
	ThemeDirs   []string `toml:"theme_dirs"`   // empty = platform defaults
}

// SyncConfig holds the debounce delays for automatic syncs.
type SyncConfig struct {
	Debounce      Duration `toml:"debounce"`       // after a terminal config write
	FocusDebounce Duration `toml:"focus_debounce"` // after focus is regained
}

// ReloadConfig holds live-reload settings.
type ReloadConfig struct {
	Delay        Duration `toml:"delay"`
	PollInterval Duration `toml:"poll_interval"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		SyncTerminal: false,
		Plugin: Descriptor{
			Name:        DefaultPluginName,
			Colorscheme: DefaultColorscheme,
		},
		Colors: make(map[string]string),
		Sync: SyncConfig{
			Debounce:      Duration(DefaultSyncDebounce),
			FocusDebounce: Duration(DefaultFocusDebounce),
		},
		Reload: ReloadConfig{
			Delay:        Duration(DefaultReloadDelay),
			PollInterval: Duration(DefaultPollInterval),
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Colors = maps.Clone(c.Colors)
	if out.Colors == nil {
		out.Colors = make(map[string]string)
	}
	out.Terminal.ConfigPaths = append([]string(nil), c.Terminal.ConfigPaths...)
	out.Terminal.ThemeDirs = append([]string(nil), c.Terminal.ThemeDirs...)
	return &out
}

// Base16 returns the configured colors as a base16 palette.
func (c *Config) Base16() palette.Base16 {
	return palette.FromMap(c.Colors)
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "aether", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Colors == nil {
		cfg.Colors = make(map[string]string)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Plugin.Name == "" {
		return errors.New("plugin.name must not be empty")
	}

	for slot, color := range c.Colors {
		if _, ok := palette.ParseSlot(slot); !ok {
			return fmt.Errorf("unknown color slot %q, must be base00..base0F", slot)
		}
		if _, err := colorful.Hex(color); err != nil {
			return fmt.Errorf("invalid color %q for %s: %w", color, slot, err)
		}
	}

	for name, d := range map[string]Duration{
		"sync.debounce":       c.Sync.Debounce,
		"sync.focus_debounce": c.Sync.FocusDebounce,
		"reload.delay":        c.Reload.Delay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d.Duration())
		}
	}
	if c.Reload.PollInterval.Duration() <= 0 {
		return fmt.Errorf("reload.poll_interval must be positive, got %s", c.Reload.PollInterval.Duration())
	}

	return nil
}
