package termsync

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Report is a read-only snapshot of the sync subsystem.
type Report struct {
	SyncTerminal    bool      `json:"sync_terminal" yaml:"sync_terminal" toml:"sync_terminal"`
	State           State     `json:"state" yaml:"state" toml:"state"`
	CandidatePaths  []string  `json:"candidate_paths" yaml:"candidate_paths" toml:"candidate_paths"`
	ConfigPath      string    `json:"config_path,omitempty" yaml:"config_path,omitempty" toml:"config_path,omitempty"`
	DetectedTheme   string    `json:"detected_theme,omitempty" yaml:"detected_theme,omitempty" toml:"detected_theme,omitempty"`
	LastSyncedTheme string    `json:"last_synced_theme,omitempty" yaml:"last_synced_theme,omitempty" toml:"last_synced_theme,omitempty"`
	LastSyncedAt    time.Time `json:"last_synced_at,omitzero" yaml:"last_synced_at,omitempty" toml:"last_synced_at,omitempty"`
	ThemeFile       string    `json:"theme_file,omitempty" yaml:"theme_file,omitempty" toml:"theme_file,omitempty"`
	ThemeSource     string    `json:"theme_source,omitempty" yaml:"theme_source,omitempty" toml:"theme_source,omitempty"`
	ThemeFileExists bool      `json:"theme_file_exists" yaml:"theme_file_exists" toml:"theme_file_exists"`
	Watching        bool      `json:"watching" yaml:"watching" toml:"watching"`
	WatchPath       string    `json:"watch_path,omitempty" yaml:"watch_path,omitempty" toml:"watch_path,omitempty"`
	Pending         []string  `json:"pending,omitempty" yaml:"pending,omitempty" toml:"pending,omitempty"`
}

// Inspect gathers a Report. It reads the terminal config but changes nothing.
func (s *Syncer) Inspect() Report {
	s.mu.Lock()
	r := Report{
		State:           s.state,
		LastSyncedTheme: s.syncState.LastSyncedTheme,
		LastSyncedAt:    s.syncState.LastSyncedAt,
		Watching:        s.watch != nil,
		WatchPath:       s.watchPath,
	}
	s.mu.Unlock()

	r.SyncTerminal = s.store.Get().SyncTerminal
	r.CandidatePaths = s.reader.Paths()
	if path, name, ok := s.reader.ThemeSource(); ok {
		r.ConfigPath = path
		r.DetectedTheme = name
		if f, ok := s.resolver.Resolve(name); ok {
			r.ThemeFile = f.Path
			r.ThemeSource = f.Source
			r.ThemeFileExists = true
		}
	} else if path, ok := s.reader.ConfigPath(); ok {
		r.ConfigPath = path
	}

	if p, ok := s.scheduler.(interface{ Pending(key string) bool }); ok {
		for _, key := range []string{KeyFileChange, KeyFocus, KeyFocusSync, KeyReload} {
			if p.Pending(key) {
				r.Pending = append(r.Pending, key)
			}
		}
	}
	return r
}

// WritePlain writes the report for humans.
func (r Report) WritePlain(w io.Writer) error {
	orNone := func(s string) string {
		if s == "" {
			return "(none)"
		}
		return s
	}

	lastSynced := orNone(r.LastSyncedTheme)
	if !r.LastSyncedAt.IsZero() {
		lastSynced = fmt.Sprintf("%s (%s)", lastSynced, humanize.Time(r.LastSyncedAt))
	}
	themeFile := "(not found)"
	if r.ThemeFileExists {
		themeFile = fmt.Sprintf("%s [%s]", r.ThemeFile, r.ThemeSource)
	}
	watch := "no"
	if r.Watching {
		watch = r.WatchPath
	}

	_, err := fmt.Fprintf(w,
		"sync_terminal:   %t\nstate:           %s\nterminal config: %s\ndetected theme:  %s\nlast synced:     %s\ntheme file:      %s\nwatching:        %s\n",
		r.SyncTerminal, r.State, orNone(r.ConfigPath), orNone(r.DetectedTheme), lastSynced, themeFile, watch)
	if err != nil {
		return err
	}
	if len(r.Pending) > 0 {
		if _, err := fmt.Fprintf(w, "pending:         %s\n", strings.Join(r.Pending, ", ")); err != nil {
			return err
		}
	}
	if r.ConfigPath == "" {
		for _, p := range r.CandidatePaths {
			if _, err := fmt.Fprintf(w, "  searched: %s\n", p); err != nil {
				return err
			}
		}
	}
	return nil
}
