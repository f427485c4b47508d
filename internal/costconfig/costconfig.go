// Package costconfig stores the active cost configuration and the named
// presets that can replace it.
package costconfig

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/notify"
	"github.com/Simplici0/limonero/internal/store"
)

// DeletePresetQuestion is asked before a preset is removed.
const DeletePresetQuestion = "¿Eliminar este preset?"

// Deps are the collaborators of a Service. Nil fields get defaults.
type Deps struct {
	Confirm confirm.Confirmer
	Notify  notify.Notifier
	NewID   func() string
	Logger  zerolog.Logger
}

// Service manages the active cost configuration and its presets.
type Service struct {
	store   *store.Store
	confirm confirm.Confirmer
	notify  notify.Notifier
	newID   func() string
	log     zerolog.Logger
}

// New builds a configuration service.
func New(st *store.Store, deps Deps) *Service {
	s := &Service{
		store:   st,
		confirm: deps.Confirm,
		notify:  deps.Notify,
		newID:   deps.NewID,
		log:     deps.Logger,
	}
	if s.confirm == nil {
		s.confirm = confirm.Never
	}
	if s.notify == nil {
		s.notify = notify.Discard
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Config returns the active configuration, or the defaults when none has
// been saved.
func (s *Service) Config(ctx context.Context) (domain.CostConfig, error) {
	return Load(ctx, s.store)
}

// Load reads the active configuration from any store view.
func Load(ctx context.Context, rw store.ReadWriter) (domain.CostConfig, error) {
	cfg := domain.DefaultCostConfig()
	if _, err := rw.Load(ctx, store.KeyCostConfig, &cfg); err != nil {
		return domain.CostConfig{}, err
	}
	return cfg, nil
}

// SaveConfig replaces the active configuration.
func (s *Service) SaveConfig(ctx context.Context, cfg domain.CostConfig) error {
	return s.store.Save(ctx, store.KeyCostConfig, cfg)
}

// UseMaterialPrice copies an inventory item's price per kg into the active
// configuration.
func (s *Service) UseMaterialPrice(ctx context.Context, itemID string) (domain.CostConfig, error) {
	items, err := store.LoadList[domain.InventoryItem](ctx, s.store, store.KeyInventory)
	if err != nil {
		return domain.CostConfig{}, err
	}
	i := domain.FindItem(items, itemID)
	if i < 0 {
		return domain.CostConfig{}, fmt.Errorf("inventory item %s: %w", itemID, domain.ErrNotFound)
	}

	cfg, err := s.Config(ctx)
	if err != nil {
		return domain.CostConfig{}, err
	}
	cfg.FilamentPricePerKg = items[i].PricePerKg
	if err := s.SaveConfig(ctx, cfg); err != nil {
		return domain.CostConfig{}, err
	}
	return cfg, nil
}

// Presets returns the saved presets in display order.
func (s *Service) Presets(ctx context.Context) ([]domain.Preset, error) {
	return store.LoadList[domain.Preset](ctx, s.store, store.KeyPresets)
}

// SavePreset snapshots the active configuration under name. With an empty
// editingID a new preset is appended; otherwise that preset is replaced in
// place.
func (s *Service) SavePreset(ctx context.Context, name, editingID string) (domain.Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Preset{}, fmt.Errorf("preset name is required: %w", domain.ErrInvalidInput)
	}

	cfg, err := s.Config(ctx)
	if err != nil {
		return domain.Preset{}, err
	}
	presets, err := s.Presets(ctx)
	if err != nil {
		return domain.Preset{}, err
	}

	var saved domain.Preset
	if editingID == "" {
		saved = domain.Preset{ID: s.newID(), Name: name, Config: cfg}
		presets = append(presets, saved)
	} else {
		i := findPreset(presets, editingID)
		if i < 0 {
			return domain.Preset{}, fmt.Errorf("preset %s: %w", editingID, domain.ErrNotFound)
		}
		presets[i].Name = name
		presets[i].Config = cfg
		saved = presets[i]
	}

	if err := s.store.Save(ctx, store.KeyPresets, presets); err != nil {
		return domain.Preset{}, err
	}

	if editingID == "" {
		s.notify.Notify(notify.Success, "Preset guardado correctamente")
	} else {
		s.notify.Notify(notify.Success, "Preset actualizado correctamente")
	}
	return saved, nil
}

// DeletePreset removes a preset after the user confirms.
func (s *Service) DeletePreset(ctx context.Context, id string) error {
	presets, err := s.Presets(ctx)
	if err != nil {
		return err
	}
	i := findPreset(presets, id)
	if i < 0 {
		return fmt.Errorf("preset %s: %w", id, domain.ErrNotFound)
	}

	ok, err := s.confirm.Confirm(ctx, DeletePresetQuestion)
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return domain.ErrDeclined
	}

	presets = append(presets[:i], presets[i+1:]...)
	if err := s.store.Save(ctx, store.KeyPresets, presets); err != nil {
		return err
	}
	s.notify.Notify(notify.Info, "Preset eliminado")
	return nil
}

// MovePreset moves the preset at index from to index to, shifting the ones
// in between.
func (s *Service) MovePreset(ctx context.Context, from, to int) ([]domain.Preset, error) {
	presets, err := s.Presets(ctx)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(presets) || to < 0 || to >= len(presets) {
		return nil, fmt.Errorf("move preset %d to %d of %d: %w", from, to, len(presets), domain.ErrInvalidInput)
	}
	if from == to {
		return presets, nil
	}

	moved := presets[from]
	presets = append(presets[:from], presets[from+1:]...)
	presets = append(presets[:to], append([]domain.Preset{moved}, presets[to:]...)...)

	if err := s.store.Save(ctx, store.KeyPresets, presets); err != nil {
		return nil, err
	}
	return presets, nil
}

// ApplyPreset replaces the active configuration with a preset's snapshot.
func (s *Service) ApplyPreset(ctx context.Context, id string) (domain.CostConfig, error) {
	presets, err := s.Presets(ctx)
	if err != nil {
		return domain.CostConfig{}, err
	}
	i := findPreset(presets, id)
	if i < 0 {
		return domain.CostConfig{}, fmt.Errorf("preset %s: %w", id, domain.ErrNotFound)
	}
	if err := s.SaveConfig(ctx, presets[i].Config); err != nil {
		return domain.CostConfig{}, err
	}
	s.log.Debug().Str("preset_id", id).Str("name", presets[i].Name).Msg("preset applied")
	return presets[i].Config, nil
}

func findPreset(presets []domain.Preset, id string) int {
	for i := range presets {
		if presets[i].ID == id {
			return i
		}
	}
	return -1
}
