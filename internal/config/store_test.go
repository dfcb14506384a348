package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_MergeSynced_UserOverridesWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colors["base08"] = "#abcdef"
	s := NewStore(cfg)

	s.MergeSynced(map[string]string{
		"base00": "#1e1e2e",
		"base08": "#ff0000",
	})

	got := s.Get()
	assert.True(t, got.SyncTerminal)
	assert.Equal(t, map[string]string{"base00": "#1e1e2e", "base08": "#abcdef"}, got.Colors)
}

func TestStore_MergeSynced_DropsPreviousSync(t *testing.T) {
	s := NewStore(DefaultConfig())

	s.MergeSynced(map[string]string{"base00": "#111111", "base0D": "#0000ff"})
	s.MergeSynced(map[string]string{"base00": "#222222"})

	assert.Equal(t, map[string]string{"base00": "#222222"}, s.Get().Colors)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore(DefaultConfig())

	cfg := s.Get()
	cfg.Colors["base00"] = "#000000"
	cfg.SyncTerminal = true

	assert.Empty(t, s.Get().Colors)
	assert.False(t, s.Get().SyncTerminal)
}

func TestStore_SetRecapturesOverrides(t *testing.T) {
	s := NewStore(DefaultConfig())
	s.MergeSynced(map[string]string{"base00": "#111111"})

	next := DefaultConfig()
	next.Colors["base05"] = "#eeeeee"
	s.Set(next)

	assert.Equal(t, map[string]string{"base05": "#eeeeee"}, s.Overrides())
	assert.False(t, s.Get().SyncTerminal)
}

func TestStore_RestoreKeepsOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colors["base08"] = "#abcdef"
	s := NewStore(cfg)

	snapshot := s.Get()
	s.MergeSynced(map[string]string{"base00": "#111111"})
	s.Restore(snapshot)

	assert.Equal(t, map[string]string{"base08": "#abcdef"}, s.Get().Colors)
	assert.False(t, s.Get().SyncTerminal)
	assert.Equal(t, map[string]string{"base08": "#abcdef"}, s.Overrides())
}

func TestNewStore_NilUsesDefaults(t *testing.T) {
	s := NewStore(nil)
	assert.Equal(t, DefaultConfig(), s.Get())
}
