package termsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/palette"
	"github.com/jmylchreest/aether/internal/theme"
)

// Sync errors.
var (
	ErrThemeNotConfigured = errors.New("no terminal theme configured")
	ErrThemeFileNotFound  = errors.New("theme file not found")
	ErrSyncInProgress     = errors.New("sync already in progress")
	ErrDisposed           = errors.New("syncer disposed")
)

// ApplyError wraps a failure of the theme-application collaborator.
type ApplyError struct {
	Err error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply theme: %v", e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// State is the orchestrator state.
type State int

const (
	StateIdle State = iota
	StateReading
	StateApplying
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateApplying:
		return "applying"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Trigger identifies what started a sync.
type Trigger int

const (
	// TriggerManual is the user's force-sync command.
	TriggerManual Trigger = iota
	// TriggerFileChange is a write to the terminal config.
	TriggerFileChange
	// TriggerFocus is the editor regaining focus.
	TriggerFocus
	// TriggerStartup is the initial sync when the subsystem starts.
	TriggerStartup
	// TriggerReload follows a live reload of aether's own config.
	TriggerReload
)

// String returns the trigger name.
func (t Trigger) String() string {
	switch t {
	case TriggerManual:
		return "manual"
	case TriggerFileChange:
		return "file-change"
	case TriggerFocus:
		return "focus"
	case TriggerStartup:
		return "startup"
	case TriggerReload:
		return "reload"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

// Silent reports whether missing resources are logged instead of shown.
func (t Trigger) Silent() bool {
	return t != TriggerManual
}

// forced reports whether the unchanged-theme guard is bypassed.
func (t Trigger) forced() bool {
	return t == TriggerManual || t == TriggerReload
}

// SyncState is the record of the last successful sync.
type SyncState struct {
	LastSyncedTheme string
	LastSyncedAt    time.Time
}

// Result describes a finished sync.
type Result struct {
	Trigger   Trigger        `json:"trigger" yaml:"trigger" toml:"trigger"`
	Theme     string         `json:"theme" yaml:"theme" toml:"theme"`
	ThemeFile string         `json:"theme_file,omitempty" yaml:"theme_file,omitempty" toml:"theme_file,omitempty"`
	Source    string         `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Colors    palette.Base16 `json:"-" yaml:"-" toml:"-"`
	Skipped   bool           `json:"skipped" yaml:"skipped" toml:"skipped"`
	Reason    string         `json:"reason,omitempty" yaml:"reason,omitempty" toml:"reason,omitempty"`
}

// MarshalText implements encoding.TextMarshaler.
func (t Trigger) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ThemeReader finds the terminal's configured theme.
type ThemeReader interface {
	// ThemeSource returns the theme name and the config file that sets it.
	ThemeSource() (path, name string, ok bool)
	// ConfigPath returns the first candidate config file that exists.
	ConfigPath() (string, bool)
	Paths() []string
}

// ThemeResolver locates theme files by name.
type ThemeResolver interface {
	Resolve(name string) (*theme.File, bool)
}

// Applier regenerates highlight state from a configuration.
type Applier interface {
	ApplyTheme(ctx context.Context, cfg *config.Config) error
	// InvalidateCache drops memoized theme artifacts so the next apply is fresh.
	InvalidateCache()
}

// Host answers questions about the running editor.
type Host interface {
	// ActiveThemeName returns the colorscheme currently in use, if any.
	ActiveThemeName() (string, bool)
}

// FileWatch is a scoped watch on one file.
type FileWatch interface {
	Start() error
	Stop() error
}
