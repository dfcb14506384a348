package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/output"
	"github.com/jmylchreest/aether/internal/palette"
	"github.com/jmylchreest/aether/internal/preview"
	"github.com/jmylchreest/aether/internal/termsync"
)

var paletteOpts struct {
	format string
	raw    bool
}

var paletteCmd = &cobra.Command{
	Use:   "palette [theme]",
	Short: "Show the base16 palette for a theme",
	Long: `Parse a theme file and show the base16 palette it maps to.

Without an argument the theme configured in the terminal is used. The theme may
be a name found in the theme directories or an absolute path.

Examples:
  aether palette
  aether palette Dracula --format yaml
  aether palette ~/themes/mine --raw`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPalette,
}

func init() {
	rootCmd.AddCommand(paletteCmd)

	paletteCmd.Flags().StringVarP(&paletteOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, toml)")
	paletteCmd.Flags().BoolVar(&paletteOpts.raw, "raw", false,
		"Include the raw terminal colors")
}

// paletteOutput is a parsed theme and its base16 mapping.
type paletteOutput struct {
	Theme    string            `json:"theme" yaml:"theme" toml:"theme"`
	Source   string            `json:"source" yaml:"source" toml:"source"`
	Path     string            `json:"path" yaml:"path" toml:"path"`
	Base16   map[string]string `json:"base16" yaml:"base16" toml:"base16"`
	Terminal *palette.Terminal `json:"terminal,omitempty" yaml:"terminal,omitempty" toml:"terminal,omitempty"`

	colors palette.Base16
}

func (p paletteOutput) WritePlain(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s [%s] %s\n\n%s\n\n%s\n", p.Theme, p.Source, p.Path,
		preview.Render(p.colors), preview.Table(p.colors)); err != nil {
		return err
	}
	if p.Terminal == nil {
		return nil
	}
	for _, i := range p.Terminal.Indexes() {
		c, _ := p.Terminal.Color(i)
		if _, err := fmt.Fprintf(w, "palette %-3d %s\n", i, c); err != nil {
			return err
		}
	}
	return nil
}

func runPalette(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(paletteOpts.format)
	if err != nil {
		return err
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		var ok bool
		if name, ok = newReader().ReadThemeName(); !ok {
			return termsync.ErrThemeNotConfigured
		}
	}

	file, ok := newResolver().Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %s", termsync.ErrThemeFileNotFound, name)
	}

	term, err := file.Parse()
	if err != nil {
		return err
	}
	if len(term.Colors) == 0 && term.Background == "" && term.Foreground == "" {
		return errors.New("theme file defines no colors")
	}

	colors := palette.ToBase16(term)
	out := paletteOutput{
		Theme:  file.Name,
		Source: file.Source,
		Path:   file.Path,
		Base16: colors.Map(),
		colors: colors,
	}
	if paletteOpts.raw {
		out.Terminal = term
	}
	return output.Write(cmd.OutOrStdout(), format, out)
}
