package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in process. Save snapshots the working set
// and Load rolls back to the last snapshot, mirroring the file store.
type ConfigStore struct {
	mu      sync.RWMutex
	working map[string]any
	saved   map[string]any
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		working: make(map[string]any),
		saved:   make(map[string]any),
	}
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.working[key]
	return v, ok
}

func (s *ConfigStore) GetFloat(key string) float64 {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	f, _ := driven.SettingFloat(v)
	return f
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.working[key] = value
	return nil
}

func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.working, key)
	return nil
}

// Save snapshots the working set.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = maps.Clone(s.working)
	return nil
}

// Load restores the last snapshot.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.working = maps.Clone(s.saved)
	return nil
}

func (s *ConfigStore) Path() string {
	return ":memory:"
}
