package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"basecamp/internal/platform/database"
	"basecamp/internal/registration/models"
	"basecamp/internal/sentinel"
)

const registrationsBucket = "registrations"

// SQLiteStore persists the registration list as one JSON blob in the shared
// state table. Every mutation reads the full list, applies the change, and
// writes the full list back; the mutex keeps that read-modify-write sequence
// the single write path.
type SQLiteStore struct {
	mu sync.Mutex
	db *database.DB
}

// NewSQLiteStore constructs a registration store backed by db.
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) load(ctx context.Context) ([]*models.Registration, error) {
	payload, err := s.db.ReadBucket(ctx, registrationsBucket)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	var regs []*models.Registration
	if err := json.Unmarshal(payload, &regs); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	return regs, nil
}

func (s *SQLiteStore) persist(ctx context.Context, regs []*models.Registration) error {
	payload, err := json.Marshal(regs)
	if err != nil {
		return fmt.Errorf("encode registrations: %w", err)
	}
	return s.db.WriteBucket(ctx, registrationsBucket, payload)
}

func (s *SQLiteStore) Create(ctx context.Context, reg *models.Registration, retainHistory bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var regs []*models.Registration
	if retainHistory {
		var err error
		regs, err = s.load(ctx)
		if err != nil {
			return err
		}
	}
	c := *reg
	regs = append(regs, &c)
	return s.persist(ctx, regs)
}

func (s *SQLiteStore) List(ctx context.Context) ([]*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	regs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range regs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("registration %d: %w", id, sentinel.ErrNotFound)
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	regs, err := s.load(ctx)
	if err != nil {
		return err
	}
	changed := false
	for _, r := range regs {
		if r.ID == id {
			r.Status = status
			changed = true
			break
		}
	}
	if !changed {
		// unknown id is a no-op; the operator UI only ever offers valid ids
		return nil
	}
	return s.persist(ctx, regs)
}

func (s *SQLiteStore) MarkSynced(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	regs, err := s.load(ctx)
	if err != nil {
		return err
	}
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	changed := false
	for _, r := range regs {
		if _, ok := wanted[r.ID]; ok && !r.IsSynced {
			r.IsSynced = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persist(ctx, regs)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.DeleteBucket(ctx, registrationsBucket)
}
