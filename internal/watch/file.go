package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher calls a function whenever a single file is written or replaced.
type FileWatcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	done     chan struct{}
	running  bool
}

// NewFileWatcher creates a watcher for path. Nothing is acquired until Start.
func NewFileWatcher(path string, onChange func(), logger *slog.Logger) *FileWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		logger:   logger,
		path:     path,
		onChange: onChange,
	}
}

// Path returns the watched file.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Start begins watching. The file must exist.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return nil
	}

	if _, err := os.Stat(fw.path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory containing the file (more reliable for writes), and
	// the link target's directory when the file is a symlink.
	targets := fw.targets()
	for dir := range targets {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fw.watcher = watcher
	fw.done = make(chan struct{})
	fw.running = true

	go fw.watch(watcher, fw.done, targets)

	fw.logger.Debug("file watcher started", "path", fw.path)
	return nil
}

// targets maps each directory to watch to the file names that matter in it.
func (fw *FileWatcher) targets() map[string]map[string]bool {
	targets := make(map[string]map[string]bool)
	add := func(path string) {
		dir, base := filepath.Dir(path), filepath.Base(path)
		if targets[dir] == nil {
			targets[dir] = make(map[string]bool)
		}
		targets[dir][base] = true
	}

	add(fw.path)
	if resolved, err := filepath.EvalSymlinks(fw.path); err == nil && resolved != fw.path {
		add(resolved)
	}
	return targets
}

func (fw *FileWatcher) watch(watcher *fsnotify.Watcher, done chan struct{}, targets map[string]map[string]bool) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			names := targets[filepath.Dir(event.Name)]
			if !names[filepath.Base(event.Name)] {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.logger.Debug("watched file changed", "path", event.Name, "op", event.Op.String())
				if fw.onChange != nil {
					fw.onChange()
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "error", err)

		case <-done:
			return
		}
	}
}

// Stop releases the watch. Calling Stop more than once is a no-op.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return nil
	}

	fw.running = false
	close(fw.done)
	err := fw.watcher.Close()
	fw.watcher = nil
	if err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		return err
	}
	fw.logger.Debug("file watcher stopped", "path", fw.path)
	return nil
}

// IsRunning returns whether the watcher is currently running.
func (fw *FileWatcher) IsRunning() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.running
}
