// Package app opens the database and builds the services shared by the
// HTTP server and the CLI.
package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Simplici0/limonero/internal/backup"
	"github.com/Simplici0/limonero/internal/cashbook"
	"github.com/Simplici0/limonero/internal/config"
	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/costconfig"
	"github.com/Simplici0/limonero/internal/dashboard"
	"github.com/Simplici0/limonero/internal/db"
	"github.com/Simplici0/limonero/internal/inventory"
	"github.com/Simplici0/limonero/internal/migrations"
	"github.com/Simplici0/limonero/internal/notify"
	"github.com/Simplici0/limonero/internal/printjob"
	"github.com/Simplici0/limonero/internal/seed"
	"github.com/Simplici0/limonero/internal/store"
)

type App struct {
	Config config.Config
	DB     *sql.DB
	Store  *store.Store
	Log    zerolog.Logger

	NewID func() string
	Now   func() time.Time
}

// Open opens and migrates the database, runs the idempotent seed and
// returns the wired application.
func Open(cfg config.Config, log zerolog.Logger) (*App, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(database, log); err != nil {
		database.Close()
		return nil, err
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("run startup seed: %w", err)
	}
	log.Info().Int("inserts", stats.Inserts).Int("updates", stats.Updates).Msg("startup seed completed")

	return New(cfg, database, log), nil
}

// New wires an App around an already migrated database.
func New(cfg config.Config, database *sql.DB, log zerolog.Logger) *App {
	return &App{
		Config: cfg,
		DB:     database,
		Store:  store.New(database),
		Log:    log,
		NewID:  uuid.NewString,
		Now:    time.Now,
	}
}

func (a *App) Close() error {
	return a.DB.Close()
}

// Session carries the per-interaction collaborators: how questions are
// answered and where notifications go.
type Session struct {
	Confirm confirm.Confirmer
	Notify  notify.Notifier
}

func (a *App) Inventory(s Session) *inventory.Service {
	return inventory.New(a.Store, inventory.Deps{
		Confirm: s.Confirm,
		Notify:  s.Notify,
		NewID:   a.NewID,
		Logger:  a.Log.With().Str("component", "inventory").Logger(),
	})
}

func (a *App) Cashbook(s Session) *cashbook.Service {
	return cashbook.New(a.Store, cashbook.Deps{
		Confirm: s.Confirm,
		Notify:  s.Notify,
		NewID:   a.NewID,
		Now:     a.Now,
		Logger:  a.Log.With().Str("component", "cashbook").Logger(),
	})
}

func (a *App) CostConfig(s Session) *costconfig.Service {
	return costconfig.New(a.Store, costconfig.Deps{
		Confirm: s.Confirm,
		Notify:  s.Notify,
		NewID:   a.NewID,
		Logger:  a.Log.With().Str("component", "costconfig").Logger(),
	})
}

func (a *App) PrintJob(s Session) *printjob.Workflow {
	return printjob.New(a.Store, printjob.Deps{
		Confirm: s.Confirm,
		Notify:  s.Notify,
		NewID:   a.NewID,
		Now:     a.Now,
		Logger:  a.Log.With().Str("component", "printjob").Logger(),
	})
}

func (a *App) Backup(s Session) *backup.Service {
	return backup.New(a.Store, backup.Deps{
		Confirm: s.Confirm,
		Now:     a.Now,
		Logger:  a.Log.With().Str("component", "backup").Logger(),
	})
}

func (a *App) Dashboard() *dashboard.Service {
	return dashboard.New(a.Store)
}
