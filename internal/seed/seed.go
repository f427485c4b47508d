package seed

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/store"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	collections := []struct {
		key   string
		value any
	}{
		{store.KeyCostConfig, domain.DefaultCostConfig()},
		{store.KeyPresets, []domain.Preset{}},
		{store.KeyInventory, []domain.InventoryItem{}},
		{store.KeyCashbook, []domain.CashMovement{}},
	}
	for _, c := range collections {
		if err := ensureCollection(tx, c.key, c.value, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureCollection(tx *sql.Tx, key string, value any, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM collections WHERE key = ?)`, key).Scan(&exists); err != nil {
		return fmt.Errorf("check collection %s existence: %w", key, err)
	}
	if exists {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	if _, err := tx.Exec(`INSERT INTO collections (key, payload) VALUES (?, ?)`, key, string(payload)); err != nil {
		return fmt.Errorf("insert collection %s: %w", key, err)
	}
	stats.Inserts++
	return nil
}
