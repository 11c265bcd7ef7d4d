package store

import (
	"context"
	"fmt"
	"sync"

	"basecamp/internal/registration/models"
	"basecamp/internal/sentinel"
)

// InMemoryStore keeps registrations in memory. It backs tests and mirrors the
// persisted layout: one ordered list rewritten wholesale on every mutation.
type InMemoryStore struct {
	mu   sync.RWMutex
	regs []*models.Registration
}

// NewInMemoryStore constructs an empty in-memory registration store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, reg *models.Registration, retainHistory bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *reg
	if retainHistory {
		s.regs = append(s.regs, &c)
	} else {
		s.regs = []*models.Registration{&c}
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Registration, len(s.regs))
	for i, r := range s.regs {
		c := *r
		out[i] = &c
	}
	return out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.regs {
		if r.ID == id {
			c := *r
			return &c, nil
		}
	}
	return nil, fmt.Errorf("registration %d: %w", id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regs {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	// unknown id is a no-op; the operator UI only ever offers valid ids
	return nil
}

func (s *InMemoryStore) MarkSynced(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	for _, r := range s.regs {
		if _, ok := wanted[r.ID]; ok {
			r.IsSynced = true
		}
	}
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs = nil
	return nil
}
