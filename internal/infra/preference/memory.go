package preference

import (
	"context"
	"sync"

	"voucher-console/internal/usecase/shared"
)

// MemoryStore keeps preferences for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	hub    *hub
}

var _ shared.PreferenceStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		hub:    newHub(),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	prev, existed := s.values[key]
	s.values[key] = value
	s.mu.Unlock()

	if !existed || prev != value {
		s.hub.publish(key, value)
	}
	return nil
}

func (s *MemoryStore) Subscribe(key string) (<-chan string, func()) {
	return s.hub.subscribe(key)
}

func (s *MemoryStore) Close() {
	s.hub.closeAll()
}
