// Package notify delivers user-visible messages and theme events to observers.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Level indicates the severity of a user-visible message.
type Level int

const (
	// LevelInfo is for informational messages.
	LevelInfo Level = iota
	// LevelWarning is for recoverable problems, such as a missing theme file.
	LevelWarning
	// LevelError is for a broken installation.
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a user-visible message.
type Message struct {
	Key   string
	Text  string
	Level Level
}

// Notifier sends user-visible messages to a handler.
// Messages with the same key are rate limited.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	handler func(Message)

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	now            func() time.Time

	enabled bool
}

// NewNotifier creates a Notifier.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		now:            time.Now,
		enabled:        true,
	}
}

// SetHandler sets the function that displays messages.
func (n *Notifier) SetHandler(handler func(Message)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = handler
}

// SetEnabled enables or disables messages.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between messages with the same key.
// Zero disables rate limiting.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends a message unless it is rate limited. It reports whether the
// message reached the handler.
func (n *Notifier) Notify(key, text string, level Level) bool {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return false
	}

	if n.handler == nil {
		n.mu.Unlock()
		n.logger.Debug("message skipped: no handler", "text", text)
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && n.minInterval > 0 && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("message rate-limited", "key", key, "text", text)
		return false
	}
	n.lastNotifyTime[key] = now
	handler := n.handler
	n.mu.Unlock()

	handler(Message{Key: key, Text: text, Level: level})
	return true
}

// Info sends an info message.
func (n *Notifier) Info(key, text string) bool { return n.Notify(key, text, LevelInfo) }

// Warn sends a warning.
func (n *Notifier) Warn(key, text string) bool { return n.Notify(key, text, LevelWarning) }

// Error sends an error.
func (n *Notifier) Error(key, text string) bool { return n.Notify(key, text, LevelError) }
