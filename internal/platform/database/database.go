package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// DB wraps a SQLite handle holding opaque JSON state buckets. Each bucket is
// read and written wholesale, mirroring the single-key storage layout the
// stores are built on.
type DB struct {
	db *sql.DB
}

// Open creates (or opens) the SQLite database at path and ensures the state
// table exists.
func Open(path string) (*DB, error) {
	if path == "" {
		path = "basecamp.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &DB{db: db}, nil
}

// ReadBucket returns the payload stored under bucket, or (nil, nil) when the
// bucket has never been written.
func (d *DB) ReadBucket(ctx context.Context, bucket string) ([]byte, error) {
	var payload []byte
	err := d.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bucket %q: %w", bucket, err)
	}
	return payload, nil
}

// WriteBucket replaces the payload stored under bucket.
func (d *DB) WriteBucket(ctx context.Context, bucket string, payload []byte) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO state (bucket, payload) VALUES (?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		bucket, payload)
	if err != nil {
		return fmt.Errorf("write bucket %q: %w", bucket, err)
	}
	return nil
}

// DeleteBucket removes the bucket entirely. Missing buckets are not an error.
func (d *DB) DeleteBucket(ctx context.Context, bucket string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM state WHERE bucket = ?`, bucket); err != nil {
		return fmt.Errorf("delete bucket %q: %w", bucket, err)
	}
	return nil
}

// Health checks if the database is reachable.
func (d *DB) Health(ctx context.Context) error {
	if d == nil || d.db == nil {
		return fmt.Errorf("database not configured")
	}
	return d.db.PingContext(ctx)
}

// Close closes the database handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}
