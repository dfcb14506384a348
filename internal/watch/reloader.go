package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jmylchreest/aether/internal/config"
)

// ConfigReloader polls the aether config file and reloads it when it changes.
// Only configs that load and validate are handed to the reload callback.
type ConfigReloader struct {
	mu     sync.RWMutex
	logger *slog.Logger

	configPath   string
	lastModTime  time.Time
	pollInterval time.Duration

	onReloadCallback func(cfg *config.Config)
	onErrorCallback  func(err error)

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewConfigReloader creates a reloader for the config at path.
func NewConfigReloader(path string, pollInterval time.Duration, logger *slog.Logger) *ConfigReloader {
	if logger == nil {
		logger = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = config.DefaultPollInterval
	}
	return &ConfigReloader{
		logger:       logger,
		configPath:   path,
		pollInterval: pollInterval,
	}
}

// SetReloadCallback sets the callback invoked with each successfully loaded config.
func (r *ConfigReloader) SetReloadCallback(callback func(cfg *config.Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReloadCallback = callback
}

// SetErrorCallback sets the callback invoked when a changed config fails to load.
func (r *ConfigReloader) SetErrorCallback(callback func(err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onErrorCallback = callback
}

// Start begins polling.
func (r *ConfigReloader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true

	if info, err := os.Stat(r.configPath); err == nil {
		r.lastModTime = info.ModTime()
	}

	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.watchLoop(ctx)

	r.logger.Debug("config reloader started", "path", r.configPath, "interval", r.pollInterval)
	return nil
}

// Stop stops polling. Calling Stop more than once is a no-op.
func (r *ConfigReloader) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	<-r.doneCh
	r.logger.Debug("config reloader stopped")
}

func (r *ConfigReloader) watchLoop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.checkForChanges()
		}
	}
}

func (r *ConfigReloader) checkForChanges() {
	r.mu.RLock()
	reloadCallback := r.onReloadCallback
	errorCallback := r.onErrorCallback
	lastModTime := r.lastModTime
	r.mu.RUnlock()

	info, err := os.Stat(r.configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("failed to stat config file", "path", r.configPath, "error", err)
		}
		return
	}

	modTime := info.ModTime()
	if !modTime.After(lastModTime) {
		return
	}

	r.mu.Lock()
	r.lastModTime = modTime
	r.mu.Unlock()

	r.logger.Debug("config file changed", "path", r.configPath, "modTime", modTime)

	cfg, err := config.LoadConfig(r.configPath)
	if err != nil {
		r.logger.Warn("config file changed but failed to load", "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return
	}

	r.logger.Info("config reloaded", "path", r.configPath)
	if reloadCallback != nil {
		reloadCallback(cfg)
	}
}

// IsRunning returns whether the reloader is polling.
func (r *ConfigReloader) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}
