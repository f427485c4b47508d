package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Simplici0/limonero/internal/db"
	"github.com/Simplici0/limonero/internal/migrations"
)

// OpenTest returns a store backed by a migrated SQLite file in t.TempDir().
func OpenTest(t testing.TB) *Store {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "limonero-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database, zerolog.Nop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return New(database)
}
