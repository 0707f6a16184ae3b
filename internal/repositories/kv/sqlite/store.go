// Package sqlite implements the persistence adapter and the ledger
// repositories over a single-table key-value store in an embedded SQLite
// database. Values are JSON blobs; every successful write is published on
// the change broker so open views can refresh.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	portsrepo "github.com/payswift/payswift_backend/internal/core/ports/repositories"
	"github.com/payswift/payswift_backend/internal/platform/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

const upsert = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES (?, ?, datetime('now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// Store is the SQLite-backed key-value persistence adapter.
type Store struct {
	db     *sql.DB
	broker *events.Broker
}

// Ensure Store implements the persistence adapter port.
var _ portsrepo.KVStore = (*Store)(nil)

// NewStore creates the kv_entries table if needed and returns the adapter.
// broker may be nil when change notifications are not wanted (tests).
func NewStore(ctx context.Context, db *sql.DB, broker *events.Broker) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create kv_entries table: %w", err)
	}
	return &Store{db: db, broker: broker}, nil
}

// Get returns the stored value for key, with found=false when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set stores value under key and publishes the change.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsert, key, string(value)); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	s.publish(key, value)
	return nil
}

// SetMulti stores all entries in one SQLite transaction. Notifications fire
// only after the commit succeeds.
func (s *Store) SetMulti(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, upsert, key, string(value)); err != nil {
			return fmt.Errorf("failed to write key %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	for key, value := range entries {
		s.publish(key, value)
	}
	return nil
}

func (s *Store) publish(key string, value []byte) {
	if s.broker != nil {
		s.broker.Publish(key, value)
	}
}
