package store

import (
	"context"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory KV. Nothing survives a restart;
// use it for tests and throwaway runs.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
