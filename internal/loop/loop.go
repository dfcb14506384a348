// Package loop provides the single-threaded event loop that hosts aether. All
// callbacks posted to a Loop run one at a time on the goroutine that called Run.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrStopped is returned by Run after Stop.
var ErrStopped = errors.New("loop stopped")

// Scheduler is the subset of Loop used by components that schedule work.
type Scheduler interface {
	// Post queues fn to run on the loop.
	Post(fn func())
	// Debounce runs fn on the loop after delay. A later call with the same key
	// replaces a pending, unfired task.
	Debounce(key string, delay time.Duration, fn func())
}

// Loop runs posted callbacks sequentially.
type Loop struct {
	mu      sync.Mutex
	logger  *slog.Logger
	queue   chan func()
	pending map[string]*task
	seq     uint64
	stopCh  chan struct{}
	stopped bool
}

type task struct {
	timer *time.Timer
	gen   uint64
}

// New creates a loop with the given queue capacity.
func New(capacity int, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		logger:  logger,
		queue:   make(chan func(), capacity),
		pending: make(map[string]*task),
		stopCh:  make(chan struct{}),
	}
}

// Run executes callbacks until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.cancelAll()
			return ctx.Err()
		case <-l.stopCh:
			l.cancelAll()
			return ErrStopped
		case fn := <-l.queue:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn. Posting after Stop is a no-op.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	select {
	case l.queue <- fn:
	case <-l.stopCh:
	}
}

// Debounce schedules fn on the loop after delay, replacing any pending task
// registered under key.
func (l *Loop) Debounce(key string, delay time.Duration, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}

	t, ok := l.pending[key]
	if !ok {
		t = &task{}
		l.pending[key] = t
	} else if t.timer != nil {
		t.timer.Stop()
	}
	l.seq++
	t.gen = l.seq
	gen := t.gen

	t.timer = time.AfterFunc(delay, func() {
		l.Post(func() {
			// the timer may have fired just before a newer Debounce replaced it
			if !l.claim(key, gen) {
				return
			}
			fn()
		})
	})
}

// claim reports whether gen is still the current task for key and clears it.
func (l *Loop) claim(key string, gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.pending[key]
	if !ok || t.gen != gen {
		return false
	}
	delete(l.pending, key)
	return true
}

// Cancel drops the pending task for key, if any.
func (l *Loop) Cancel(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.pending[key]; ok {
		t.timer.Stop()
		delete(l.pending, key)
	}
}

// Pending reports whether a task is scheduled under key.
func (l *Loop) Pending(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.pending[key]
	return ok
}

// Stop ends Run and cancels all pending tasks. Calling Stop twice is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.stopCh)
}

func (l *Loop) cancelAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, t := range l.pending {
		t.timer.Stop()
		delete(l.pending, key)
	}
}
