package infrastructure

import (
	"context"
	"sync"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
)

// MemoryStore is an in-memory DurableStore. Values do not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Count returns the number of stored keys (for testing/monitoring).
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// Ensure MemoryStore implements ports.DurableStore.
var _ ports.DurableStore = (*MemoryStore)(nil)
