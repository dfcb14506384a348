package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/output"
	"github.com/jmylchreest/aether/internal/theme"
)

var themesOpts struct {
	format string
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long: `List the themes aether can resolve, in search order. A theme present in
several directories is listed once, from the directory that wins.`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)

	themesCmd.Flags().StringVarP(&themesOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, toml)")
}

type themeList struct {
	Themes []theme.Info `json:"themes" yaml:"themes" toml:"themes"`
}

func (l themeList) WritePlain(w io.Writer) error {
	width := 0
	for _, t := range l.Themes {
		width = max(width, len(t.Name))
	}
	for _, t := range l.Themes {
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, t.Name, t.Source); err != nil {
			return err
		}
	}
	return nil
}

func runThemes(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(themesOpts.format)
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), format, themeList{Themes: newResolver().List()})
}
