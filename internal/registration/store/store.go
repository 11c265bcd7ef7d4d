package store

import (
	"context"

	"basecamp/internal/registration/models"
)

// Store owns the local copy of truth for registrations.
//
// Error Contract:
// - FindByID returns sentinel.ErrNotFound (wrapped) when the id is unknown
// - UpdateStatus on an unknown id is a silent no-op, not an error
// - Other methods return nil on success or wrapped errors for infrastructure failures
//
// List returns insertion order; presentation layers reverse for newest-first
// display. All mutation flows through a single read-mutate-write path so
// interleaved partial writes cannot lose updates.
type Store interface {
	// Create persists reg. When retainHistory is false the stored list is
	// truncated to just the new record.
	Create(ctx context.Context, reg *models.Registration, retainHistory bool) error
	List(ctx context.Context) ([]*models.Registration, error)
	FindByID(ctx context.Context, id int64) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	// MarkSynced bulk-sets isSynced for the given ids. The flag is monotonic:
	// it never transitions back to false.
	MarkSynced(ctx context.Context, ids []int64) error
	Clear(ctx context.Context) error
}
