// Package store persists named JSON collections in SQLite. Every write
// replaces the whole value stored under a key, which keeps each mutation
// atomic with respect to readers.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Fixed collection keys.
const (
	KeyCostConfig = "limonero_config_v3"
	KeyPresets    = "limonero_presets"
	KeyInventory  = "limonero_inventory"
	KeyCashbook   = "limonero_cashbook"
)

// ReadWriter is implemented by both Store and Tx.
type ReadWriter interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store is the shared collection store injected into every service.
type Store struct {
	db *sql.DB
}

// New wraps an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load decodes the value stored under key into dst. It reports false and
// leaves dst untouched when nothing is stored yet.
func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	return load(ctx, s.db, key, dst)
}

// Save replaces the value stored under key.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	return save(ctx, s.db, key, value)
}

// Update runs fn inside a transaction; every Save made through tx becomes
// visible together or not at all.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Tx is a transaction-bound view of the store.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Load(ctx context.Context, key string, dst any) (bool, error) {
	return load(ctx, t.tx, key, dst)
}

func (t *Tx) Save(ctx context.Context, key string, value any) error {
	return save(ctx, t.tx, key, value)
}

// Exists reports whether a value is stored under key.
func Exists(ctx context.Context, rw ReadWriter, key string) (bool, error) {
	var raw json.RawMessage
	return rw.Load(ctx, key, &raw)
}

// LoadList loads a collection, returning an empty slice when none is stored.
func LoadList[T any](ctx context.Context, rw ReadWriter, key string) ([]T, error) {
	items := make([]T, 0)
	if _, err := rw.Load(ctx, key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

func load(ctx context.Context, q queryer, key string, dst any) (bool, error) {
	var payload string
	err := q.QueryRowContext(ctx, `SELECT payload FROM collections WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query collection %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return false, fmt.Errorf("decode collection %s: %w", key, err)
	}
	return true, nil
}

func save(ctx context.Context, q queryer, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO collections (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, key, string(payload))
	if err != nil {
		return fmt.Errorf("save collection %s: %w", key, err)
	}
	return nil
}
