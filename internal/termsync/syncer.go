package termsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/loop"
	"github.com/jmylchreest/aether/internal/notify"
	"github.com/jmylchreest/aether/internal/palette"
)

// Debounce keys used on the scheduler.
const (
	KeyFileChange = "termsync:file-change"
	KeyFocus      = "termsync:focus"
	KeyFocusSync  = "termsync:focus-sync"
	KeyReload     = "termsync:reload"
)

// notification key shared by all sync messages
const notifyKey = "termsync"

// Options configures a Syncer. Store, Reader, Resolver, Applier and Scheduler
// are required.
type Options struct {
	Store     *config.Store
	Reader    ThemeReader
	Resolver  ThemeResolver
	Applier   Applier
	Scheduler loop.Scheduler

	// Host is optional. Without it automatic syncs never check ownership.
	Host Host
	// Notifier receives user-visible messages. Optional.
	Notifier *notify.Notifier
	// Emitter receives theme-changed and redraw events. Optional.
	Emitter *notify.Emitter
	// NewWatch creates the watch on the terminal config file. Optional; without
	// it no watch is acquired.
	NewWatch func(path string, onChange func()) FileWatch

	Logger *slog.Logger
	// Now is the clock, for tests.
	Now func() time.Time
}

// Syncer drives the terminal theme sync.
type Syncer struct {
	store     *config.Store
	reader    ThemeReader
	resolver  ThemeResolver
	applier   Applier
	scheduler loop.Scheduler
	host      Host
	notifier  *notify.Notifier
	emitter   *notify.Emitter
	newWatch  func(path string, onChange func()) FileWatch
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	ctx       context.Context
	state     State
	syncState SyncState
	synced    map[string]string
	watch     FileWatch
	watchPath string
	disposed  bool
}

// New creates a Syncer with no last-synced theme.
func New(opts Options) *Syncer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Emitter == nil {
		opts.Emitter = notify.NewEmitter()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewNotifier(opts.Logger)
	}
	return &Syncer{
		store:     opts.Store,
		reader:    opts.Reader,
		resolver:  opts.Resolver,
		applier:   opts.Applier,
		scheduler: opts.Scheduler,
		host:      opts.Host,
		notifier:  opts.Notifier,
		emitter:   opts.Emitter,
		newWatch:  opts.NewWatch,
		logger:    opts.Logger,
		now:       opts.Now,
		ctx:       context.Background(),
	}
}

// Emitter returns the event emitter observers subscribe to.
func (s *Syncer) Emitter() *notify.Emitter {
	return s.emitter
}

// State returns the current orchestrator state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SyncState returns the record of the last successful sync.
func (s *Syncer) SyncState() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncState
}

// Watching reports whether the terminal config watch is held.
func (s *Syncer) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watch != nil
}

// Start brings the subsystem up. With sync_terminal enabled it syncs once
// silently, recording the detected theme as last synced, and acquires the watch
// on the terminal config if that file exists. ctx is used by debounced syncs.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	s.ctx = ctx
	s.mu.Unlock()

	if !s.store.Get().SyncTerminal {
		s.logger.Debug("terminal sync disabled")
		return nil
	}

	if _, err := s.Sync(ctx, TriggerStartup); err != nil {
		s.logger.Debug("initial terminal sync failed", "error", err)
	}
	return s.ensureWatch()
}

// Dispose releases the watch and drops pending debounced work. Calling it more
// than once is a no-op.
func (s *Syncer) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	w := s.watch
	s.watch = nil
	s.watchPath = ""
	s.mu.Unlock()

	if c, ok := s.scheduler.(interface{ Cancel(key string) }); ok {
		for _, key := range []string{KeyFileChange, KeyFocus, KeyFocusSync, KeyReload} {
			c.Cancel(key)
		}
	}

	if w == nil {
		return nil
	}
	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to release terminal config watch: %w", err)
	}
	return nil
}

// watchTarget is the terminal config file whose writes matter: the file the
// theme is read from, else the first candidate that exists.
func (s *Syncer) watchTarget() (string, bool) {
	if path, _, ok := s.reader.ThemeSource(); ok {
		return path, true
	}
	return s.reader.ConfigPath()
}

// ensureWatch acquires the terminal config watch if it is not held yet, or moves
// it when the theme is now read from another file.
func (s *Syncer) ensureWatch() error {
	if s.newWatch == nil {
		return nil
	}
	path, ok := s.watchTarget()
	if !ok {
		s.logger.Debug("no terminal config to watch", "candidates", s.reader.Paths())
		return nil
	}
	return s.watchFile(path)
}

// watchFile puts the watch on path, releasing one held on another file.
func (s *Syncer) watchFile(path string) error {
	s.mu.Lock()
	if s.disposed || (s.watch != nil && s.watchPath == path) {
		s.mu.Unlock()
		return nil
	}
	old := s.watch
	w := s.newWatch(path, s.OnFileChanged)
	s.watch = w
	s.watchPath = path
	s.mu.Unlock()

	if old != nil {
		if err := old.Stop(); err != nil {
			s.logger.Debug("failed to release previous watch", "error", err)
		}
	}

	if err := w.Start(); err != nil {
		s.mu.Lock()
		if s.watch == w {
			s.watch = nil
			s.watchPath = ""
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to watch terminal config: %w", err)
	}
	s.logger.Debug("watching terminal config", "path", path)
	return nil
}

func (s *Syncer) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Syncer) isDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// OnFileChanged is the watch callback. The sync runs on the scheduler after the
// sync debounce, replacing any sync still pending from an earlier write.
func (s *Syncer) OnFileChanged() {
	if s.isDisposed() {
		return
	}
	delay := s.store.Get().Sync.Debounce.Duration()
	s.scheduler.Debounce(KeyFileChange, delay, func() {
		s.runScheduled(TriggerFileChange)
	})
}

// OnFocusGained schedules a sync after the generic reload delay followed by the
// focus debounce.
func (s *Syncer) OnFocusGained() {
	if s.isDisposed() {
		return
	}
	cfg := s.store.Get()
	outer := cfg.Reload.Delay.Duration()
	inner := cfg.Sync.FocusDebounce.Duration()
	s.scheduler.Debounce(KeyFocus, outer, func() {
		s.scheduler.Debounce(KeyFocusSync, inner, func() {
			s.runScheduled(TriggerFocus)
		})
	})
}

// Reload installs a freshly loaded aether config and re-applies the theme after
// the reload delay. With sync_terminal enabled the terminal colors are merged
// again; if that sync does not apply, the last synced colors are kept.
func (s *Syncer) Reload(cfg *config.Config) {
	if s.isDisposed() {
		return
	}
	s.store.Set(cfg)
	s.applier.InvalidateCache()
	s.scheduler.Debounce(KeyReload, cfg.Reload.Delay.Duration(), func() {
		if cfg.SyncTerminal {
			res, err := s.Sync(s.context(), TriggerReload)
			if err == nil && !res.Skipped {
				if err := s.ensureWatch(); err != nil {
					s.logger.Debug("failed to acquire watch after reload", "error", err)
				}
				return
			}
			if err != nil {
				s.logger.Debug("terminal sync after reload failed", "error", err)
			}
			if synced := s.syncedColors(); synced != nil {
				s.store.MergeSynced(synced)
			}
			var applyErr *ApplyError
			if errors.As(err, &applyErr) {
				return
			}
		}
		if err := s.applier.ApplyTheme(s.context(), s.store.Get()); err != nil {
			s.notifier.Error(notifyKey, fmt.Sprintf("aether: failed to apply theme: %v", err))
		}
	})
}

func (s *Syncer) syncedColors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.synced)
}

func (s *Syncer) runScheduled(trigger Trigger) {
	if s.isDisposed() {
		return
	}
	if _, err := s.Sync(s.context(), trigger); err != nil {
		s.logger.Debug("terminal sync failed", "trigger", trigger, "error", err)
	}
}

// ForceSync runs a manual sync: it always re-applies, and missing resources are
// reported to the user. The watch is acquired if it is not held yet.
func (s *Syncer) ForceSync(ctx context.Context) (*Result, error) {
	res, err := s.Sync(ctx, TriggerManual)
	if err != nil {
		return nil, err
	}
	if werr := s.ensureWatch(); werr != nil {
		s.logger.Warn("terminal sync applied but watch failed", "error", werr)
	}
	return res, nil
}

// Sync runs one sync for trigger. Automatic triggers return a skipped Result
// when the theme is unchanged or the active colorscheme is not aether's.
func (s *Syncer) Sync(ctx context.Context, trigger Trigger) (*Result, error) {
	if s.isDisposed() {
		return nil, ErrDisposed
	}

	if trigger.Silent() {
		if reason, skip := s.skipAutomatic(); skip {
			s.logger.Debug("skipping terminal sync", "trigger", trigger, "reason", reason)
			return &Result{Trigger: trigger, Skipped: true, Reason: reason}, nil
		}
	}

	s.mu.Lock()
	if s.state == StateReading || s.state == StateApplying {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	from := s.state
	s.state = StateReading
	s.mu.Unlock()
	s.logger.Debug("sync state", "from", from, "to", StateReading, "trigger", trigger)

	source, name, ok := s.reader.ThemeSource()
	if !ok {
		return nil, s.fail(trigger, ErrThemeNotConfigured,
			fmt.Sprintf("aether: no theme set in terminal config (searched %v)", s.reader.Paths()))
	}

	if !trigger.forced() && name == s.SyncState().LastSyncedTheme {
		s.transition(StateIdle, trigger)
		s.logger.Debug("terminal theme unchanged", "theme", name)
		return &Result{Trigger: trigger, Theme: name, Skipped: true, Reason: "theme unchanged"}, nil
	}

	file, ok := s.resolver.Resolve(name)
	if !ok {
		return nil, s.fail(trigger, fmt.Errorf("%w: %s", ErrThemeFileNotFound, name),
			fmt.Sprintf("aether: theme file %q not found", name))
	}

	term, err := file.Parse()
	if err != nil {
		return nil, s.fail(trigger, err,
			fmt.Sprintf("aether: failed to read theme file %s: %v", file.Path, err))
	}

	colors := palette.ToBase16(term)

	s.transition(StateApplying, trigger)
	snapshot := s.store.Get()
	s.store.MergeSynced(colors.Map())
	s.applier.InvalidateCache()

	if err := s.applier.ApplyTheme(ctx, s.store.Get()); err != nil {
		s.store.Restore(snapshot)
		applyErr := &ApplyError{Err: err}
		s.notifier.Error(notifyKey, fmt.Sprintf("aether: %v", applyErr))
		s.logger.Error("failed to apply synced theme", "theme", name, "trigger", trigger, "error", err)
		s.transition(StateFailed, trigger)
		s.transition(StateIdle, trigger)
		return nil, applyErr
	}

	s.mu.Lock()
	s.syncState = SyncState{LastSyncedTheme: name, LastSyncedAt: s.now()}
	s.synced = colors.Map()
	following := s.watch != nil && s.watchPath != source
	s.mu.Unlock()
	s.transition(StateIdle, trigger)

	if following {
		if err := s.watchFile(source); err != nil {
			s.logger.Debug("failed to move terminal config watch", "path", source, "error", err)
		}
	}

	s.emitter.Emit(notify.NewEvent(notify.KindThemeChanged, name))
	s.emitter.Emit(notify.NewEvent(notify.KindRedraw, name))

	s.logger.Info("synced terminal theme", "theme", name, "source", file.Source, "trigger", trigger)
	return &Result{
		Trigger:   trigger,
		Theme:     name,
		ThemeFile: file.Path,
		Source:    file.Source,
		Colors:    colors,
	}, nil
}

// skipAutomatic reports whether an automatic sync should not run at all.
func (s *Syncer) skipAutomatic() (string, bool) {
	cfg := s.store.Get()
	if !cfg.SyncTerminal {
		return "sync_terminal disabled", true
	}
	if s.host == nil {
		return "", false
	}
	if active, ok := s.host.ActiveThemeName(); ok && !cfg.Plugin.Owns(active) {
		return fmt.Sprintf("active colorscheme %q is not %s", active, cfg.Plugin.Name), true
	}
	return "", false
}

// fail moves through Failed back to Idle and reports err. Only manual triggers
// show a message; the rest are logged.
func (s *Syncer) fail(trigger Trigger, err error, text string) error {
	s.transition(StateFailed, trigger)
	if trigger.Silent() {
		s.logger.Debug("terminal sync failed", "trigger", trigger, "error", err)
	} else {
		s.notifier.Warn(notifyKey, text)
	}
	s.transition(StateIdle, trigger)
	return err
}

func (s *Syncer) transition(to State, trigger Trigger) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()
	if from != to {
		s.logger.Debug("sync state", "from", from, "to", to, "trigger", trigger)
	}
}
