// Package main provides the CLI entrypoint for aether.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/loop"
	"github.com/jmylchreest/aether/internal/notify"
	"github.com/jmylchreest/aether/internal/preview"
	"github.com/jmylchreest/aether/internal/terminal"
	"github.com/jmylchreest/aether/internal/termsync"
	"github.com/jmylchreest/aether/internal/theme"
	"github.com/jmylchreest/aether/internal/watch"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aether",
	Short: "Keep the aether palette in sync with your terminal theme",
	Long: `aether maps the active Ghostty theme onto the aether base16 palette.

It reads the theme name from the Ghostty config, resolves and parses the theme
file, and merges its colors under your own overrides from
~/.config/aether/config.toml.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(cmd.ErrOrStderr())

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/aether/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger(w io.Writer) {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(w, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// configFilePath returns the aether config path in use.
func configFilePath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ConfigPath()
}

func newReader() *terminal.Reader {
	return terminal.NewReader(cfg.Terminal.ConfigPaths, logger)
}

func newResolver() *theme.Resolver {
	var sources []theme.Source
	if len(cfg.Terminal.ThemeDirs) > 0 {
		sources = theme.SourcesFromDirs(cfg.Terminal.ThemeDirs)
	}
	return theme.NewResolver(sources, logger)
}

// newNotifier prints user-visible messages to w.
func newNotifier(w io.Writer) *notify.Notifier {
	n := notify.NewNotifier(logger)
	n.SetMinInterval(0)
	n.SetHandler(func(m notify.Message) {
		fmt.Fprintf(w, "%s: %s\n", m.Level, m.Text)
	})
	return n
}

type syncerDeps struct {
	applier   *preview.Applier
	scheduler loop.Scheduler
	messages  io.Writer
	watch     bool
}

// newSyncer wires a Syncer from the loaded config.
func newSyncer(deps syncerDeps) *termsync.Syncer {
	opts := termsync.Options{
		Store:     config.NewStore(cfg),
		Reader:    newReader(),
		Resolver:  newResolver(),
		Applier:   deps.applier,
		Scheduler: deps.scheduler,
		Notifier:  newNotifier(deps.messages),
		Logger:    logger,
	}
	if deps.watch {
		opts.NewWatch = func(path string, onChange func()) termsync.FileWatch {
			return watch.NewFileWatcher(path, onChange, logger)
		}
	}
	return termsync.New(opts)
}
