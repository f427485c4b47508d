// Package inventory manages the filament spools on hand.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/notify"
	"github.com/Simplici0/limonero/internal/store"
)

// DeleteQuestion is asked before an item is removed.
const DeleteQuestion = "¿Estás seguro de que quieres eliminar este item?"

// Deps are the collaborators of a Service. Nil fields get defaults.
type Deps struct {
	Confirm confirm.Confirmer
	Notify  notify.Notifier
	NewID   func() string
	Logger  zerolog.Logger
}

// Service implements inventory operations over the shared store.
type Service struct {
	store   *store.Store
	confirm confirm.Confirmer
	notify  notify.Notifier
	newID   func() string
	log     zerolog.Logger
}

// New builds an inventory service.
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

// List returns every item in display order.
func (s *Service) List(ctx context.Context) ([]domain.InventoryItem, error) {
	return store.LoadList[domain.InventoryItem](ctx, s.store, store.KeyInventory)
}

// Search returns the items whose type, brand or color contains term,
// ignoring case. An empty term matches everything.
func (s *Service) Search(ctx context.Context, term string) ([]domain.InventoryItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items, nil
	}

	out := make([]domain.InventoryItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Type), needle) ||
			strings.Contains(strings.ToLower(it.Brand), needle) ||
			strings.Contains(strings.ToLower(it.Color), needle) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Get returns one item by id.
func (s *Service) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	i := domain.FindItem(items, id)
	if i < 0 {
		return domain.InventoryItem{}, fmt.Errorf("inventory item %s: %w", id, domain.ErrNotFound)
	}
	return items[i], nil
}

// validate trims the text fields; a material type is required.
func validate(item domain.InventoryItem) (domain.InventoryItem, error) {
	item.Type = strings.TrimSpace(item.Type)
	item.Brand = strings.TrimSpace(item.Brand)
	item.Color = strings.TrimSpace(item.Color)
	if item.Type == "" {
		return item, fmt.Errorf("material type is required: %w", domain.ErrInvalidInput)
	}
	return item, nil
}

// Add stores a new item under a fresh id.
func (s *Service) Add(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	item, err := validate(item)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	item.ID = s.newID()

	if err := s.mutate(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, error) {
		return append(items, item), nil
	}); err != nil {
		return domain.InventoryItem{}, err
	}

	s.log.Info().Str("item_id", item.ID).Str("type", item.Type).Msg("inventory item added")
	s.notify.Notify(notify.Success, "Material agregado exitosamente")
	return item, nil
}

// Update replaces every field of an existing item.
func (s *Service) Update(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	item, err := validate(item)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	if err := s.mutate(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, error) {
		i := domain.FindItem(items, item.ID)
		if i < 0 {
			return nil, fmt.Errorf("inventory item %s: %w", item.ID, domain.ErrNotFound)
		}
		items[i] = item
		return items, nil
	}); err != nil {
		return domain.InventoryItem{}, err
	}

	s.notify.Notify(notify.Success, "Material actualizado")
	return item, nil
}

// Duplicate copies an item under a new id.
func (s *Service) Duplicate(ctx context.Context, id string) (domain.InventoryItem, error) {
	var dup domain.InventoryItem
	if err := s.mutate(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, error) {
		i := domain.FindItem(items, id)
		if i < 0 {
			return nil, fmt.Errorf("inventory item %s: %w", id, domain.ErrNotFound)
		}
		dup = items[i]
		dup.ID = s.newID()
		return append(items, dup), nil
	}); err != nil {
		return domain.InventoryItem{}, err
	}

	s.notify.Notify(notify.Info, "Material duplicado")
	return dup, nil
}

// Delete removes an item after the user confirms.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	ok, err := s.confirm.Confirm(ctx, DeleteQuestion)
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return domain.ErrDeclined
	}

	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if err := s.store.Save(ctx, store.KeyInventory, kept); err != nil {
		return err
	}

	s.log.Info().Str("item_id", id).Msg("inventory item deleted")
	s.notify.Notify(notify.Error, "Material eliminado")
	return nil
}

// Value returns the purchase value of all stock on hand.
func (s *Service) Value(ctx context.Context) (float64, error) {
	items, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return TotalValue(items), nil
}

// TotalValue sums the stock value of items.
func TotalValue(items []domain.InventoryItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Value()
	}
	return total
}

// Sort orders items by type, then brand, then color using Spanish collation.
func Sort(items []domain.InventoryItem) {
	c := collate.New(language.Spanish)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if r := c.CompareString(a.Type, b.Type); r != 0 {
			return r < 0
		}
		if r := c.CompareString(a.Brand, b.Brand); r != 0 {
			return r < 0
		}
		return c.CompareString(a.Color, b.Color) < 0
	})
}

func (s *Service) mutate(ctx context.Context, fn func([]domain.InventoryItem) ([]domain.InventoryItem, error)) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	Sort(next)
	return s.store.Save(ctx, store.KeyInventory, next)
}
