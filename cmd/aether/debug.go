package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/loop"
	"github.com/jmylchreest/aether/internal/output"
	"github.com/jmylchreest/aether/internal/preview"
)

var debugOpts struct {
	format string
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Show what terminal sync would see",
	Long: `Report the terminal config in use, the detected theme and the theme file it
resolves to. Nothing is applied.`,
	Args: cobra.NoArgs,
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)

	debugCmd.Flags().StringVarP(&debugOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, toml)")
}

func runDebug(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(debugOpts.format)
	if err != nil {
		return err
	}

	syncer := newSyncer(syncerDeps{
		applier:   preview.NewApplier(io.Discard, logger),
		scheduler: loop.New(0, logger),
		messages:  cmd.ErrOrStderr(),
	})
	defer syncer.Dispose()

	return output.Write(cmd.OutOrStdout(), format, syncer.Inspect())
}
