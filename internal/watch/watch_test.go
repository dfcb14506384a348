package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/config"
)

func TestFileWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte("theme = Nord\n"), 0644))

	var changes atomic.Int32
	fw := NewFileWatcher(path, func() { changes.Add(1) }, nil)
	require.NoError(t, fw.Start())
	t.Cleanup(func() { _ = fw.Stop() })
	assert.True(t, fw.IsRunning())

	require.NoError(t, os.WriteFile(path, []byte("theme = Dracula\n"), 0644))
	require.Eventually(t, func() bool { return changes.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	var changes atomic.Int32
	fw := NewFileWatcher(path, func() { changes.Add(1) }, nil)
	require.NoError(t, fw.Start())
	t.Cleanup(func() { _ = fw.Stop() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), changes.Load())
}

func TestFileWatcher_RequiresExistingFile(t *testing.T) {
	fw := NewFileWatcher(filepath.Join(t.TempDir(), "missing"), func() {}, nil)
	err := fw.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, fw.IsRunning())
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	fw := NewFileWatcher(path, nil, nil)
	assert.NoError(t, fw.Stop())

	require.NoError(t, fw.Start())
	require.NoError(t, fw.Start())
	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
	assert.False(t, fw.IsRunning())
}

func TestConfigReloader_ReloadsValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("sync_terminal = false\n"), 0644))

	r := NewConfigReloader(path, 10*time.Millisecond, nil)
	reloaded := make(chan *config.Config, 1)
	r.SetReloadCallback(func(cfg *config.Config) { reloaded <- cfg })
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(r.Stop)

	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, []byte("sync_terminal = true\n"), 0644))
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case cfg := <-reloaded:
		assert.True(t, cfg.SyncTerminal)
	case <-time.After(2 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestConfigReloader_ReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	r := NewConfigReloader(path, 10*time.Millisecond, nil)
	var reloads atomic.Int32
	errs := make(chan error, 1)
	r.SetReloadCallback(func(*config.Config) { reloads.Add(1) })
	r.SetErrorCallback(func(err error) { errs <- err })
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(r.Stop)

	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, []byte("[colors]\nbase00 = \"nope\"\n"), 0644))
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("error callback not called")
	}
	assert.Equal(t, int32(0), reloads.Load())
}

func TestConfigReloader_StopIsIdempotent(t *testing.T) {
	r := NewConfigReloader(filepath.Join(t.TempDir(), "missing.toml"), 0, nil)
	r.Stop()
	require.NoError(t, r.Start(context.Background()))
	assert.True(t, r.IsRunning())
	r.Stop()
	r.Stop()
	assert.False(t, r.IsRunning())
}

func TestConfigReloader_IgnoresMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("sync_terminal = true\n"), 0644))

	r := NewConfigReloader(path, 10*time.Millisecond, nil)
	var reloads, failures atomic.Int32
	r.SetReloadCallback(func(*config.Config) { reloads.Add(1) })
	r.SetErrorCallback(func(error) { failures.Add(1) })
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(r.Stop)

	require.NoError(t, os.Remove(path))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(0), reloads.Load())
	assert.Equal(t, int32(0), failures.Load())
	assert.True(t, r.IsRunning())
}
