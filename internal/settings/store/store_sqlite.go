package store

import (
	"context"

	"basecamp/internal/platform/database"
)

const settingsBucket = "settings"

// SQLiteStore persists the settings payload as a single JSON blob bucket in
// the shared state table.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore constructs a settings store backed by db.
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	return s.db.ReadBucket(ctx, settingsBucket)
}

func (s *SQLiteStore) Write(ctx context.Context, payload []byte) error {
	return s.db.WriteBucket(ctx, settingsBucket, payload)
}
