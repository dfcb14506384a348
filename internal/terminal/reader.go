// Package terminal reads the Ghostty terminal configuration.
package terminal

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// ThemeKey is the config key naming the active theme.
const ThemeKey = "theme"

// ConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func ConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// DataHome returns $XDG_DATA_HOME, defaulting to ~/.local/share.
func DataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPaths returns the candidate Ghostty config files in lookup order.
func DefaultConfigPaths() []string {
	var dirs []string
	if dir := ConfigHome(); dir != "" {
		dirs = append(dirs, filepath.Join(dir, "ghostty"))
	}
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, "Library", "Application Support", "com.mitchellh.ghostty"))
		}
	}

	var paths []string
	for _, dir := range dirs {
		paths = append(paths,
			filepath.Join(dir, "config.ghostty"),
			filepath.Join(dir, "config"),
		)
	}
	return paths
}

// Reader extracts the theme name from the first usable candidate config file.
type Reader struct {
	paths  []string
	logger *slog.Logger
}

// NewReader creates a reader over the given candidate paths.
// With no paths it uses DefaultConfigPaths.
func NewReader(paths []string, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if len(paths) == 0 {
		paths = DefaultConfigPaths()
	}
	return &Reader{paths: paths, logger: logger}
}

// Paths returns the candidate paths in lookup order.
func (r *Reader) Paths() []string {
	return append([]string(nil), r.paths...)
}

// ConfigPath returns the first candidate that exists on disk.
func (r *Reader) ConfigPath() (string, bool) {
	for _, p := range r.paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// ReadThemeName returns the theme configured in the first candidate file that can
// be read and sets the theme key. Unreadable files are treated as absent.
func (r *Reader) ReadThemeName() (string, bool) {
	_, name, ok := r.ThemeSource()
	return name, ok
}

// ThemeSource is ReadThemeName plus the config file the theme was read from.
// That file can differ from ConfigPath when an earlier candidate has no theme key.
func (r *Reader) ThemeSource() (path, name string, ok bool) {
	for _, p := range r.paths {
		cfg, err := readConfig(p)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				r.logger.Debug("failed to read terminal config", "path", p, "error", err)
			}
			continue
		}
		if name := cfg[ThemeKey]; name != "" {
			r.logger.Debug("detected terminal theme", "path", p, "theme", name)
			return p, name, true
		}
	}
	return "", "", false
}

func readConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
