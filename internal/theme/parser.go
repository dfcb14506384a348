package theme

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmylchreest/aether/internal/palette"
	"github.com/jmylchreest/aether/internal/terminal"
)

// paletteRegex matches the value of a `palette` key: `<index>=<hex>`.
var paletteRegex = regexp.MustCompile(`^(\d+)\s*=\s*#?([0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})$`)

// ParseError reports a theme file that could not be read.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse theme %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a Ghostty theme from r. Lines that do not match a known key are
// skipped; only read failures are returned as errors.
func Parse(r io.Reader) (*palette.Terminal, error) {
	t := palette.NewTerminal()
	err := terminal.Scan(r, func(key, value string) {
		switch key {
		case "palette":
			if idx, color, ok := parsePaletteEntry(value); ok {
				t.Colors[idx] = color
			}
		case "background":
			t.Background = value
		case "foreground":
			t.Foreground = value
		case "cursor-color":
			t.Cursor = value
		case "cursor-text":
			t.CursorText = value
		case "selection-background":
			t.SelectionBG = value
		case "selection-foreground":
			t.SelectionFG = value
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParseFile parses the theme file at path.
func ParseFile(path string) (*palette.Terminal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return t, nil
}

// parsePaletteEntry splits `N=#rrggbb`. The index is not bounds checked; the
// color is normalized to carry a leading '#'.
func parsePaletteEntry(value string) (int, string, bool) {
	m := paletteRegex.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, "", false
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return idx, "#" + m[2], true
}
