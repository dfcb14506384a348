package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/loop"
	"github.com/jmylchreest/aether/internal/preview"
)

// lockedBuffer is written from the loop goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHandleSignal_HangupSyncStopsWithCommand(t *testing.T) {
	configPath, _ := setupEnv(t, "theme = Custom\n")

	var err error
	cfg, err = config.LoadConfig(configPath)
	require.NoError(t, err)
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	stderr := &lockedBuffer{}
	l := loop.New(4, logger)
	defer l.Stop()
	syncer := newSyncer(syncerDeps{
		applier:   preview.NewApplier(io.Discard, logger),
		scheduler: l,
		messages:  stderr,
	})
	defer syncer.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handleSignal(ctx, syscall.SIGHUP, l, syncer, cancel, stderr)

	runCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	go l.Run(runCtx)

	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "context canceled")
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, syncer.SyncState().LastSyncedTheme)
}
