package theme

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jmylchreest/aether/internal/palette"
	"github.com/jmylchreest/aether/internal/terminal"
)

// Source labels.
const (
	SourceBundled  = "bundled"
	SourceConfig   = "config"
	SourceData     = "data"
	SourceCustom   = "custom"
	SourceEmbedded = "embedded"
	SourceAbsolute = "absolute"
)

// Source is one directory searched for theme files.
type Source struct {
	Label string
	Dir   string // empty for the embedded source
	FS    fs.FS
}

// DirSource returns a source backed by a directory on disk.
func DirSource(label, dir string) Source {
	return Source{Label: label, Dir: dir, FS: os.DirFS(dir)}
}

// EmbeddedSource returns the source for themes compiled into aether.
func EmbeddedSource() Source {
	return Source{Label: SourceEmbedded, FS: EmbeddedFS()}
}

// BundledThemesDir returns the theme directory shipped with Ghostty.
func BundledThemesDir() string {
	if dir := os.Getenv("GHOSTTY_RESOURCES_DIR"); dir != "" {
		return filepath.Join(dir, "themes")
	}
	if runtime.GOOS == "darwin" {
		return "/Applications/Ghostty.app/Contents/Resources/ghostty/themes"
	}
	return "/usr/share/ghostty/themes"
}

// DefaultSources returns the standard search order: Ghostty's bundled themes,
// the user config directory, the user data directory, then embedded themes.
func DefaultSources() []Source {
	var sources []Source
	if dir := BundledThemesDir(); dir != "" {
		sources = append(sources, DirSource(SourceBundled, dir))
	}
	if dir := terminal.ConfigHome(); dir != "" {
		sources = append(sources, DirSource(SourceConfig, filepath.Join(dir, "ghostty", "themes")))
	}
	if dir := terminal.DataHome(); dir != "" {
		sources = append(sources, DirSource(SourceData, filepath.Join(dir, "ghostty", "themes")))
	}
	return append(sources, EmbeddedSource())
}

// SourcesFromDirs builds sources from explicit directories, keeping the embedded
// themes as the last resort.
func SourcesFromDirs(dirs []string) []Source {
	sources := make([]Source, 0, len(dirs)+1)
	for _, dir := range dirs {
		sources = append(sources, DirSource(SourceCustom, dir))
	}
	return append(sources, EmbeddedSource())
}

// File is a resolved theme file.
type File struct {
	Name   string
	Source string
	Path   string

	fsys fs.FS
	rel  string
}

// Open opens the theme file for reading.
func (f *File) Open() (io.ReadCloser, error) {
	return f.fsys.Open(f.rel)
}

// Parse reads and parses the theme file.
func (f *File) Parse() (*palette.Terminal, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, &ParseError{Path: f.Path, Err: err}
	}
	defer rc.Close()

	t, err := Parse(rc)
	if err != nil {
		return nil, &ParseError{Path: f.Path, Err: err}
	}
	return t, nil
}

// Info describes an available theme.
type Info struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
	Path   string `json:"path" yaml:"path"`
}

// Resolver finds theme files by name across an ordered list of sources.
type Resolver struct {
	sources []Source
	logger  *slog.Logger
}

// NewResolver creates a resolver. With no sources it uses DefaultSources.
func NewResolver(sources []Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	return &Resolver{sources: sources, logger: logger}
}

// Resolve returns the first readable file named exactly name. An absolute path
// is accepted as-is, matching Ghostty's own handling of the theme key.
func (r *Resolver) Resolve(name string) (*File, bool) {
	if name == "" {
		return nil, false
	}

	if filepath.IsAbs(name) {
		dir, base := filepath.Split(name)
		f := &File{Name: base, Source: SourceAbsolute, Path: name, fsys: os.DirFS(dir), rel: base}
		if readable(f) {
			return f, true
		}
		return nil, false
	}

	if !fs.ValidPath(name) || filepath.Base(name) != name {
		r.logger.Debug("rejecting theme name", "theme", name)
		return nil, false
	}

	for _, src := range r.sources {
		f := &File{Name: name, Source: src.Label, Path: sourcePath(src, name), fsys: src.FS, rel: name}
		if readable(f) {
			r.logger.Debug("resolved theme file", "theme", name, "source", src.Label, "path", f.Path)
			return f, true
		}
	}
	return nil, false
}

// List returns all themes across sources. When a name appears in several
// sources the first one in search order is reported.
func (r *Resolver) List() []Info {
	seen := make(map[string]bool)
	var themes []Info

	for _, src := range r.sources {
		entries, err := fs.ReadDir(src.FS, ".")
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				r.logger.Debug("failed to read themes directory", "source", src.Label, "error", err)
			}
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".") || seen[name] {
				continue
			}
			seen[name] = true
			themes = append(themes, Info{Name: name, Source: src.Label, Path: sourcePath(src, name)})
		}
	}
	return themes
}

func sourcePath(src Source, name string) string {
	if src.Dir == "" {
		return src.Label + ":" + name
	}
	return filepath.Join(src.Dir, name)
}

func readable(f *File) bool {
	info, err := fs.Stat(f.fsys, f.rel)
	if err != nil || info.IsDir() {
		return false
	}
	rc, err := f.Open()
	if err != nil {
		return false
	}
	rc.Close()
	return true
}
