package store

import (
	"context"
	"sync"
)

// InMemoryStore keeps the settings payload in memory for tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	payload []byte
}

// NewInMemoryStore constructs an empty in-memory settings store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Read(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.payload == nil {
		return nil, nil
	}
	out := make([]byte, len(s.payload))
	copy(out, s.payload)
	return out, nil
}

func (s *InMemoryStore) Write(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = make([]byte, len(payload))
	copy(s.payload, payload)
	return nil
}
