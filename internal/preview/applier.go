package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/palette"
)

// Applier "applies" a configuration by rendering its palette to a writer.
// Renders are memoized per palette until InvalidateCache is called.
type Applier struct {
	mu     sync.Mutex
	logger *slog.Logger
	out    io.Writer

	cached  string
	key     palette.Base16
	valid   bool
	applied int
}

// NewApplier creates an Applier writing to out. A nil out discards output.
func NewApplier(out io.Writer, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Applier{out: out, logger: logger}
}

// ApplyTheme renders cfg's colors.
func (a *Applier) ApplyTheme(ctx context.Context, cfg *config.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := cfg.Base16()

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.valid || a.key != b {
		a.cached = Render(b)
		a.key = b
		a.valid = true
	}
	if _, err := fmt.Fprintln(a.out, a.cached); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	a.applied++
	a.logger.Debug("applied theme", "colorscheme", cfg.Plugin.Colorscheme, "sync_terminal", cfg.SyncTerminal)
	return nil
}

// InvalidateCache drops the memoized render.
func (a *Applier) InvalidateCache() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cached = ""
	a.valid = false
}

// Applied returns how many times a theme has been applied.
func (a *Applier) Applied() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applied
}
