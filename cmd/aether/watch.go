package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/loop"
	"github.com/jmylchreest/aether/internal/notify"
	"github.com/jmylchreest/aether/internal/preview"
	"github.com/jmylchreest/aether/internal/termsync"
	"github.com/jmylchreest/aether/internal/watch"
)

var watchOpts struct {
	noReload bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the palette in sync until interrupted",
	Long: `Run the sync subsystem in the foreground.

The terminal config is watched and re-synced shortly after it is written. The
aether config is polled and live reloaded. Signals drive the remaining triggers:

  SIGHUP   force a sync
  SIGUSR1  treat as focus regained
  SIGUSR2  print the debug report to stderr
  SIGINT, SIGTERM  stop`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchOpts.noReload, "no-reload", false,
		"Do not live reload the aether config")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	l := loop.New(64, logger)
	applier := preview.NewApplier(stdout, logger)
	syncer := newSyncer(syncerDeps{
		applier:   applier,
		scheduler: l,
		messages:  stderr,
		watch:     true,
	})
	defer syncer.Dispose()

	unsubscribe := syncer.Emitter().Subscribe(func(ev notify.Event) {
		logger.Info("theme event", "id", ev.ID, "kind", ev.Kind, "theme", ev.Theme)
	})
	defer unsubscribe()

	l.Post(func() {
		if err := syncer.Start(ctx); err != nil {
			logger.Warn("failed to start terminal sync", "error", err)
		}
	})

	if !watchOpts.noReload {
		reloader := watch.NewConfigReloader(configFilePath(), cfg.Reload.PollInterval.Duration(), logger)
		reloader.SetReloadCallback(func(next *config.Config) {
			l.Post(func() { syncer.Reload(next) })
		})
		reloader.SetErrorCallback(func(err error) {
			fmt.Fprintf(stderr, "%s: aether: config reload failed: %v\n", notify.LevelError, err)
		})
		if err := reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start config reloader: %w", err)
		}
		defer reloader.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				handleSignal(ctx, sig, l, syncer, cancel, stderr)
			}
		}
	}()

	logger.Info("watching terminal theme", "config", configFilePath())
	err := l.Run(ctx)
	logger.Info("stopped watching terminal theme", "applied", applier.Applied())
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, loop.ErrStopped) {
		return err
	}
	return nil
}

func handleSignal(ctx context.Context, sig os.Signal, l *loop.Loop, syncer *termsync.Syncer, cancel context.CancelFunc, stderr io.Writer) {
	switch sig {
	case syscall.SIGHUP:
		l.Post(func() {
			if _, err := syncer.ForceSync(ctx); err != nil {
				logger.Debug("manual sync failed", "error", err)
			}
		})
	case syscall.SIGUSR1:
		syncer.OnFocusGained()
	case syscall.SIGUSR2:
		l.Post(func() {
			if err := syncer.Inspect().WritePlain(stderr); err != nil {
				logger.Warn("failed to write debug report", "error", err)
			}
		})
	default:
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}
}
