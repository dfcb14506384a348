package terminal

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// lineRegex matches `key = value` with optional surrounding whitespace.
var lineRegex = regexp.MustCompile(`^\s*([A-Za-z0-9_.-]+)\s*=\s*(.*?)\s*$`)

// ParseLine splits a single config line. Comments, blank lines and lines that are
// not `key = value` report ok == false.
func ParseLine(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}

	m := lineRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", false
	}
	return m[1], Unquote(m[2]), true
}

// Unquote strips one pair of matching surrounding quotes.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Scan calls fn for every well-formed line in r, in order. Repeated keys are
// reported each time they appear. Malformed lines are skipped.
func Scan(r io.Reader, fn func(key, value string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if key, value, ok := ParseLine(scanner.Text()); ok {
			fn(key, value)
		}
	}
	return scanner.Err()
}

// Config is a parsed terminal config file. Later assignments win.
type Config map[string]string

// Parse reads a `key = value` config from r.
func Parse(r io.Reader) (Config, error) {
	cfg := make(Config)
	err := Scan(r, func(key, value string) {
		cfg[key] = value
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// format writes cfg back out as sorted `key = value` lines.
func (c Config) format(w io.Writer) error {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s = %s\n", k, c[k]); err != nil {
			return err
		}
	}
	return nil
}
