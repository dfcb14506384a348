package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/loop"
	"github.com/jmylchreest/aether/internal/output"
	"github.com/jmylchreest/aether/internal/preview"
	"github.com/jmylchreest/aether/internal/termsync"
)

var syncOpts struct {
	format string
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the palette with the terminal theme now",
	Long: `Read the terminal's theme, map it onto the base16 palette and apply it.

A manual sync always re-applies, even when the theme has not changed since the
last sync. Missing config or theme files are reported and exit non-zero.

Examples:
  # Sync and show the applied palette
  aether sync

  # Output the result as JSON
  aether sync --format json`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, toml)")
}

// syncOutput is the printable result of a sync.
type syncOutput struct {
	Theme     string            `json:"theme" yaml:"theme" toml:"theme"`
	ThemeFile string            `json:"theme_file" yaml:"theme_file" toml:"theme_file"`
	Source    string            `json:"source" yaml:"source" toml:"source"`
	Colors    map[string]string `json:"colors" yaml:"colors" toml:"colors"`
}

func (s syncOutput) WritePlain(w io.Writer) error {
	_, err := fmt.Fprintf(w, "synced %s from %s [%s]\n", s.Theme, s.ThemeFile, s.Source)
	return err
}

func runSync(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(syncOpts.format)
	if err != nil {
		return err
	}

	// only plain output shows the rendered palette
	var previewOut io.Writer
	if format == output.FormatPlain {
		previewOut = cmd.OutOrStdout()
	}

	syncer := newSyncer(syncerDeps{
		applier:   preview.NewApplier(previewOut, logger),
		scheduler: loop.New(0, logger),
		messages:  cmd.ErrOrStderr(),
	})
	defer syncer.Dispose()

	res, err := syncer.ForceSync(context.Background())
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), format, newSyncOutput(res))
}

func newSyncOutput(res *termsync.Result) syncOutput {
	return syncOutput{
		Theme:     res.Theme,
		ThemeFile: res.ThemeFile,
		Source:    res.Source,
		Colors:    res.Colors.Map(),
	}
}
