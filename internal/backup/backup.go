// Package backup exports and imports the inventory and cashbook
// collections as JSON, CSV and XLSX.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/store"
)

// ImportQuestion is asked before an import overwrites the current data.
const ImportQuestion = "¿Estás seguro? Esto SOBRESCRIBIRÁ todos los datos actuales con los del archivo."

var (
	// ErrInvalidBackup is returned for documents carrying neither collection.
	ErrInvalidBackup = errors.New("invalid backup document")
	// ErrEmpty is returned when exporting an empty collection.
	ErrEmpty = errors.New("nothing to export")
)

// Document is the JSON backup layout.
type Document struct {
	Inventory  []domain.InventoryItem `json:"inventory"`
	Cashbook   []domain.CashMovement  `json:"cashbook"`
	ExportDate time.Time              `json:"exportDate"`
}

// Deps are the collaborators of a Service.
type Deps struct {
	Confirm confirm.Confirmer
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Service exports and imports the inventory and cashbook collections.
type Service struct {
	store   *store.Store
	confirm confirm.Confirmer
	now     func() time.Time
	log     zerolog.Logger
}

// New builds a backup service.
func New(st *store.Store, deps Deps) *Service {
	s := &Service{store: st, confirm: deps.Confirm, now: deps.Now, log: deps.Logger}
	if s.confirm == nil {
		s.confirm = confirm.Never
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) load(ctx context.Context) (Document, error) {
	items, err := store.LoadList[domain.InventoryItem](ctx, s.store, store.KeyInventory)
	if err != nil {
		return Document{}, err
	}
	movements, err := store.LoadList[domain.CashMovement](ctx, s.store, store.KeyCashbook)
	if err != nil {
		return Document{}, err
	}
	return Document{Inventory: items, Cashbook: movements, ExportDate: s.now().UTC()}, nil
}

// ExportJSON writes both collections as an indented JSON document.
func (s *Service) ExportJSON(ctx context.Context, w io.Writer) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// ImportResult reports what an import replaced.
type ImportResult struct {
	Inventory int  `json:"inventory"`
	Cashbook  int  `json:"cashbook"`
	HasItems  bool `json:"hasInventory"`
	HasMoves  bool `json:"hasCashbook"`
}

// ImportJSON replaces the collections present in the document after the
// user confirms. A collection missing from the document is left untouched.
// Backups written by earlier versions, which used Spanish field names, are
// accepted as well.
func (s *Service) ImportJSON(ctx context.Context, r io.Reader) (ImportResult, error) {
	var raw struct {
		Inventory json.RawMessage `json:"inventory"`
		Cashbook  json.RawMessage `json:"cashbook"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return ImportResult{}, fmt.Errorf("decode backup: %w: %w", ErrInvalidBackup, err)
	}

	var res ImportResult
	var items []domain.InventoryItem
	var movements []domain.CashMovement
	var err error

	if present(raw.Inventory) {
		if items, err = decodeInventory(raw.Inventory); err != nil {
			return ImportResult{}, err
		}
		res.HasItems, res.Inventory = true, len(items)
	}
	if present(raw.Cashbook) {
		if movements, err = decodeCashbook(raw.Cashbook); err != nil {
			return ImportResult{}, err
		}
		res.HasMoves, res.Cashbook = true, len(movements)
	}
	if !res.HasItems && !res.HasMoves {
		return ImportResult{}, ErrInvalidBackup
	}

	ok, err := s.confirm.Confirm(ctx, ImportQuestion)
	if err != nil {
		return ImportResult{}, fmt.Errorf("confirm import: %w", err)
	}
	if !ok {
		return ImportResult{}, domain.ErrDeclined
	}

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		if res.HasItems {
			if err := tx.Save(ctx, store.KeyInventory, items); err != nil {
				return err
			}
		}
		if res.HasMoves {
			if err := tx.Save(ctx, store.KeyCashbook, movements); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	s.log.Info().Int("inventory", res.Inventory).Int("cashbook", res.Cashbook).Msg("backup imported")
	return res, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
