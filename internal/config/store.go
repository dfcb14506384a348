package config

import (
	"maps"
	"sync"
)

// Store holds the live configuration. The colors the user configured are kept
// aside as overrides so that synced terminal colors never replace them.
type Store struct {
	mu        sync.RWMutex
	cfg       *Config
	overrides map[string]string
}

// NewStore creates a store seeded with cfg. cfg.Colors become the user overrides.
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()
	return &Store{
		cfg:       cfg,
		overrides: maps.Clone(cfg.Colors),
	}
}

// Get returns a copy of the live configuration.
func (s *Store) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Set replaces the live configuration and re-captures the user overrides.
func (s *Store) Set(cfg *Config) {
	cfg = cfg.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.overrides = maps.Clone(cfg.Colors)
}

// Restore puts back a snapshot taken with Get without touching the overrides.
func (s *Store) Restore(snapshot *Config) {
	snapshot = snapshot.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = snapshot
}

// Overrides returns the user's own color overrides.
func (s *Store) Overrides() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.overrides)
}

// MergeSynced replaces the live colors with synced, then lays the user overrides
// on top, and enables sync_terminal. Colors from a previous sync do not survive.
func (s *Store) MergeSynced(synced map[string]string) {
	colors := make(map[string]string, len(synced)+len(s.overrides))
	maps.Copy(colors, synced)

	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(colors, s.overrides)
	s.cfg.Colors = colors
	s.cfg.SyncTerminal = true
}
