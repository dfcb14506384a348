// Package output writes command results in the format the user asked for.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatTOML  FormatType = "toml"
)

// ValidFormats returns all supported formats.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat validates a format name. Empty means plain.
func ParseFormat(s string) (FormatType, error) {
	if s == "" {
		return FormatPlain, nil
	}
	for _, f := range ValidFormats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q, must be one of: %v", s, ValidFormats())
}

// Plain is implemented by values with a human-readable rendering.
type Plain interface {
	WritePlain(w io.Writer) error
}

// Write encodes v to w in format.
func Write(w io.Writer, format FormatType, v any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(v)
	case FormatPlain, "":
		if p, ok := v.(Plain); ok {
			return p.WritePlain(w)
		}
		_, err := fmt.Fprintln(w, v)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
