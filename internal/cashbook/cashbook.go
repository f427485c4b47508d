// Package cashbook records income and expense movements and reverses the
// stock effect of print sales when their movement is deleted.
package cashbook

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/notify"
	"github.com/Simplici0/limonero/internal/store"
)

// DeleteQuestion is asked before a movement is removed.
const DeleteQuestion = "¿Estás seguro de eliminar este registro?"

// Deps are the collaborators of a Service. Nil fields get defaults.
type Deps struct {
	Confirm confirm.Confirmer
	Notify  notify.Notifier
	NewID   func() string
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Service implements cashbook operations over the shared store.
type Service struct {
	store   *store.Store
	confirm confirm.Confirmer
	notify  notify.Notifier
	newID   func() string
	now     func() time.Time
	log     zerolog.Logger
}

// New builds a cashbook service.
func New(st *store.Store, deps Deps) *Service {
	s := &Service{
		store:   st,
		confirm: deps.Confirm,
		notify:  deps.Notify,
		newID:   deps.NewID,
		now:     deps.Now,
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
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Entry is the user-editable part of a movement.
type Entry struct {
	Direction   domain.Direction `json:"direction"`
	Amount      float64          `json:"amount"`
	Description string           `json:"description"`
	ClientName  string           `json:"clientName"`
}

func (e Entry) validate() (Entry, error) {
	e.Description = strings.TrimSpace(e.Description)
	e.ClientName = strings.TrimSpace(e.ClientName)
	if e.Direction == "" {
		e.Direction = domain.DirectionIncome
	}
	if !e.Direction.Valid() {
		return e, fmt.Errorf("direction %q: %w", e.Direction, domain.ErrInvalidInput)
	}
	if e.Amount <= 0 {
		return e, fmt.Errorf("amount must be greater than zero: %w", domain.ErrInvalidInput)
	}
	if e.Description == "" {
		return e, fmt.Errorf("description is required: %w", domain.ErrInvalidInput)
	}
	return e, nil
}

// List returns every movement, newest first.
func (s *Service) List(ctx context.Context) ([]domain.CashMovement, error) {
	return store.LoadList[domain.CashMovement](ctx, s.store, store.KeyCashbook)
}

// Add records a manual movement at the head of the ledger.
func (s *Service) Add(ctx context.Context, e Entry) (domain.CashMovement, error) {
	e, err := e.validate()
	if err != nil {
		return domain.CashMovement{}, err
	}

	mov := domain.CashMovement{
		ID:          s.newID(),
		Timestamp:   s.now(),
		Direction:   e.Direction,
		Amount:      e.Amount,
		Description: e.Description,
		ClientName:  e.ClientName,
	}

	movements, err := s.List(ctx)
	if err != nil {
		return domain.CashMovement{}, err
	}
	if err := s.store.Save(ctx, store.KeyCashbook, append([]domain.CashMovement{mov}, movements...)); err != nil {
		return domain.CashMovement{}, err
	}

	s.log.Info().Str("movement_id", mov.ID).Str("direction", string(mov.Direction)).Float64("amount", mov.Amount).Msg("cash movement recorded")
	s.notify.Notify(notify.Success, "Movimiento registrado")
	return mov, nil
}

// Edit updates a movement in place. Its timestamp and stock restoration
// are kept.
func (s *Service) Edit(ctx context.Context, id string, e Entry) (domain.CashMovement, error) {
	e, err := e.validate()
	if err != nil {
		return domain.CashMovement{}, err
	}

	movements, err := s.List(ctx)
	if err != nil {
		return domain.CashMovement{}, err
	}
	i := domain.FindMovement(movements, id)
	if i < 0 {
		return domain.CashMovement{}, fmt.Errorf("cash movement %s: %w", id, domain.ErrNotFound)
	}

	movements[i].Direction = e.Direction
	movements[i].Amount = e.Amount
	movements[i].Description = e.Description
	movements[i].ClientName = e.ClientName

	if err := s.store.Save(ctx, store.KeyCashbook, movements); err != nil {
		return domain.CashMovement{}, err
	}

	s.notify.Notify(notify.Success, "Movimiento actualizado")
	return movements[i], nil
}

// DeleteResult describes the stock side effect of a deletion.
type DeleteResult struct {
	Movement domain.CashMovement `json:"movement"`
	// Restored is set when stock was credited back to an inventory item.
	Restored      bool    `json:"restored"`
	RestoredGrams float64 `json:"restoredGrams"`
	// Dropped is set when the movement referenced an item that no longer
	// exists, so its quantity could not be restored.
	Dropped bool `json:"dropped"`
}

// Delete removes a movement after the user confirms. When the movement
// came from a print sale its grams are credited back to the material in
// the same transaction.
func (s *Service) Delete(ctx context.Context, id string) (DeleteResult, error) {
	movements, err := s.List(ctx)
	if err != nil {
		return DeleteResult{}, err
	}
	if domain.FindMovement(movements, id) < 0 {
		return DeleteResult{}, fmt.Errorf("cash movement %s: %w", id, domain.ErrNotFound)
	}

	ok, err := s.confirm.Confirm(ctx, DeleteQuestion)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return DeleteResult{}, domain.ErrDeclined
	}

	var res DeleteResult
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		res = DeleteResult{}

		movements, err := store.LoadList[domain.CashMovement](ctx, tx, store.KeyCashbook)
		if err != nil {
			return err
		}
		i := domain.FindMovement(movements, id)
		if i < 0 {
			return fmt.Errorf("cash movement %s: %w", id, domain.ErrNotFound)
		}
		res.Movement = movements[i]

		if r := res.Movement.StockRestoration; r != nil {
			items, err := store.LoadList[domain.InventoryItem](ctx, tx, store.KeyInventory)
			if err != nil {
				return err
			}
			if j := domain.FindItem(items, r.MaterialID); j >= 0 {
				items[j].StockGrams += r.Quantity
				if err := tx.Save(ctx, store.KeyInventory, items); err != nil {
					return err
				}
				res.Restored = true
				res.RestoredGrams = r.Quantity
			} else {
				res.Dropped = true
			}
		}

		kept := append(movements[:i:i], movements[i+1:]...)
		return tx.Save(ctx, store.KeyCashbook, kept)
	})
	if err != nil {
		return DeleteResult{}, err
	}

	grams := ""
	if r := res.Movement.StockRestoration; r != nil {
		grams = strconv.FormatFloat(r.Quantity, 'f', -1, 64)
	}
	switch {
	case res.Restored:
		s.log.Info().Str("movement_id", id).Str("material_id", res.Movement.StockRestoration.MaterialID).Float64("grams", res.RestoredGrams).Msg("stock restored")
		s.notify.Notify(notify.Info, fmt.Sprintf("Stock restaurado: +%sg al inventario", grams))
	case res.Dropped:
		s.log.Warn().Str("movement_id", id).Str("material_id", res.Movement.StockRestoration.MaterialID).Float64("grams", res.Movement.StockRestoration.Quantity).Msg("stock restoration dropped: material no longer exists")
		s.notify.Notify(notify.Error, fmt.Sprintf("Stock no restaurado: el material ya no existe (%sg)", grams))
	}
	s.notify.Notify(notify.Error, "Movimiento eliminado")

	return res, nil
}

// Totals summarizes the ledger.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// Totals sums income and expense across every movement.
func (s *Service) Totals(ctx context.Context) (Totals, error) {
	movements, err := s.List(ctx)
	if err != nil {
		return Totals{}, err
	}
	return Summarize(movements), nil
}

// Summarize computes totals using decimal arithmetic.
func Summarize(movements []domain.CashMovement) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, m := range movements {
		amount := decimal.NewFromFloat(m.Amount)
		switch m.Direction {
		case domain.DirectionIncome:
			income = income.Add(amount)
		case domain.DirectionExpense:
			expense = expense.Add(amount)
		}
	}
	return Totals{
		Income:  income.InexactFloat64(),
		Expense: expense.InexactFloat64(),
		Balance: income.Sub(expense).InexactFloat64(),
	}
}
