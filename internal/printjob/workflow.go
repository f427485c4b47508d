// Package printjob turns a priced job into a sale: it deducts the filament
// used from inventory and records the income in the cashbook together.
package printjob

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/notify"
	"github.com/Simplici0/limonero/internal/pricing"
	"github.com/Simplici0/limonero/internal/store"
)

// State is the workflow's position in the confirmation dialog.
type State string

const (
	StateIdle       State = "idle"
	StatePreviewing State = "previewing"
	StateConfirming State = "confirming"
)

const (
	msgSuccess         = "¡Registrado exitosamente! Stock actualizado e ingreso en caja."
	msgSelectMaterial  = "Por favor selecciona un material del inventario."
	lowStockQuestionFm = "El stock actual (%sg) es menor al necesario (%sg). ¿Continuar igual?"
)

// Draft is the editable content of the confirmation dialog.
type Draft struct {
	MaterialID    string  `json:"materialId"`
	AdjustedPrice float64 `json:"adjustedPrice"`
	ClientName    string  `json:"clientName"`
	Description   string  `json:"description"`
}

// Receipt is returned by a successful Confirm.
type Receipt struct {
	Movement domain.CashMovement  `json:"movement"`
	Item     domain.InventoryItem `json:"item"`
}

// Deps are the collaborators of a Workflow. Nil fields get defaults.
type Deps struct {
	Confirm confirm.Confirmer
	Notify  notify.Notifier
	NewID   func() string
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Workflow is a single print confirmation dialog. It is not safe for
// concurrent use.
type Workflow struct {
	store   *store.Store
	confirm confirm.Confirmer
	notify  notify.Notifier
	newID   func() string
	now     func() time.Time
	log     zerolog.Logger

	state  State
	input  pricing.JobInput
	result pricing.Result
	draft  Draft
}

// New returns an idle workflow.
func New(st *store.Store, deps Deps) *Workflow {
	w := &Workflow{
		store:   st,
		confirm: deps.Confirm,
		notify:  deps.Notify,
		newID:   deps.NewID,
		now:     deps.Now,
		log:     deps.Logger,
		state:   StateIdle,
	}
	if w.confirm == nil {
		w.confirm = confirm.Never
	}
	if w.notify == nil {
		w.notify = notify.Discard
	}
	if w.newID == nil {
		w.newID = uuid.NewString
	}
	if w.now == nil {
		w.now = time.Now
	}
	return w
}

// State returns the current dialog state.
func (w *Workflow) State() State { return w.state }

// Input returns the previewed job input.
func (w *Workflow) Input() pricing.JobInput { return w.input }

// Result returns the previewed pricing result.
func (w *Workflow) Result() pricing.Result { return w.result }

// Draft returns the dialog's editable fields.
func (w *Workflow) Draft() Draft { return w.draft }

// Preview records the latest computed result. It fails while the
// confirmation dialog is open.
func (w *Workflow) Preview(in pricing.JobInput, res pricing.Result) error {
	if w.state == StateConfirming {
		return fmt.Errorf("preview while confirming: %w", domain.ErrInvalidState)
	}
	w.input = in
	w.result = res
	w.state = StatePreviewing
	return nil
}

// Open starts the confirmation dialog with the sale price as the adjusted
// price and selectedID as the material, which may be empty.
func (w *Workflow) Open(selectedID string) error {
	switch w.state {
	case StateIdle:
		return domain.ErrNoResult
	case StateConfirming:
		return fmt.Errorf("dialog already open: %w", domain.ErrInvalidState)
	}
	w.draft = Draft{
		MaterialID:    selectedID,
		AdjustedPrice: w.result.Totals.SalePrice,
	}
	w.state = StateConfirming
	return nil
}

func (w *Workflow) requireConfirming() error {
	if w.state != StateConfirming {
		return fmt.Errorf("dialog not open: %w", domain.ErrInvalidState)
	}
	return nil
}

// SelectMaterial chooses the inventory item the job was printed with.
func (w *Workflow) SelectMaterial(id string) error {
	if err := w.requireConfirming(); err != nil {
		return err
	}
	w.draft.MaterialID = id
	return nil
}

// SetPrice enters the adjusted price directly. NaN and ±Inf are rejected.
func (w *Workflow) SetPrice(p float64) error {
	if err := w.requireConfirming(); err != nil {
		return err
	}
	if !pricing.IsFinite(p) {
		return fmt.Errorf("price %v: %w", p, domain.ErrInvalidInput)
	}
	w.draft.AdjustedPrice = p
	return nil
}

// Round moves the adjusted price to the next multiple of 100 in dir.
func (w *Workflow) Round(dir pricing.Direction) (float64, error) {
	if err := w.requireConfirming(); err != nil {
		return 0, err
	}
	w.draft.AdjustedPrice = pricing.SmartRound(w.draft.AdjustedPrice, dir, pricing.DefaultStep)
	return w.draft.AdjustedPrice, nil
}

// SetClient sets the optional client name of the sale.
func (w *Workflow) SetClient(name string) error {
	if err := w.requireConfirming(); err != nil {
		return err
	}
	w.draft.ClientName = name
	return nil
}

// SetDescription sets the text prefixed to the cashbook description.
func (w *Workflow) SetDescription(text string) error {
	if err := w.requireConfirming(); err != nil {
		return err
	}
	w.draft.Description = text
	return nil
}

// Cancel closes the dialog without changing anything.
func (w *Workflow) Cancel() {
	if w.state == StateConfirming {
		w.state = StatePreviewing
		w.draft = Draft{}
	}
}

// Reset clears the job and returns to idle.
func (w *Workflow) Reset() {
	w.state = StateIdle
	w.input = pricing.JobInput{}
	w.result = pricing.Result{}
	w.draft = Draft{}
}

// Confirm commits the sale. The stock deduction and the income movement are
// written in one transaction. When the material has less stock than the job
// needs the user is asked first; declining returns domain.ErrDeclined and
// leaves the dialog open.
func (w *Workflow) Confirm(ctx context.Context) (*Receipt, error) {
	if err := w.requireConfirming(); err != nil {
		return nil, err
	}
	if w.draft.MaterialID == "" {
		w.notify.Notify(notify.Error, msgSelectMaterial)
		return nil, domain.ErrNoMaterialSelected
	}
	if !pricing.IsFinite(w.draft.AdjustedPrice) {
		return nil, fmt.Errorf("price %v: %w", w.draft.AdjustedPrice, domain.ErrInvalidInput)
	}

	items, err := store.LoadList[domain.InventoryItem](ctx, w.store, store.KeyInventory)
	if err != nil {
		return nil, err
	}
	i := domain.FindItem(items, w.draft.MaterialID)
	if i < 0 {
		return nil, fmt.Errorf("inventory item %s: %w", w.draft.MaterialID, domain.ErrNotFound)
	}
	required := w.input.WeightGrams

	if items[i].StockGrams < required {
		question := fmt.Sprintf(lowStockQuestionFm, formatGrams(items[i].StockGrams), formatGrams(required))
		ok, err := w.confirm.Confirm(ctx, question)
		if err != nil {
			return nil, fmt.Errorf("confirm low stock: %w", err)
		}
		if !ok {
			return nil, domain.ErrDeclined
		}
	}

	var receipt Receipt
	err = w.store.Update(ctx, func(tx *store.Tx) error {
		items, err := store.LoadList[domain.InventoryItem](ctx, tx, store.KeyInventory)
		if err != nil {
			return err
		}
		i := domain.FindItem(items, w.draft.MaterialID)
		if i < 0 {
			return fmt.Errorf("inventory item %s: %w", w.draft.MaterialID, domain.ErrNotFound)
		}
		movements, err := store.LoadList[domain.CashMovement](ctx, tx, store.KeyCashbook)
		if err != nil {
			return err
		}

		items[i].StockGrams -= required
		mov := domain.CashMovement{
			ID:          w.newID(),
			Timestamp:   w.now(),
			Direction:   domain.DirectionIncome,
			Amount:      w.draft.AdjustedPrice,
			Description: describe(w.draft.Description, required, items[i]),
			ClientName:  strings.TrimSpace(w.draft.ClientName),
			StockRestoration: &domain.StockRestoration{
				MaterialID: items[i].ID,
				Quantity:   required,
			},
		}

		if err := tx.Save(ctx, store.KeyInventory, items); err != nil {
			return err
		}
		if err := tx.Save(ctx, store.KeyCashbook, append([]domain.CashMovement{mov}, movements...)); err != nil {
			return err
		}
		receipt = Receipt{Movement: mov, Item: items[i]}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.log.Info().
		Str("movement_id", receipt.Movement.ID).
		Str("material_id", receipt.Item.ID).
		Float64("grams", required).
		Float64("amount", receipt.Movement.Amount).
		Msg("print sale recorded")
	w.notify.Notify(notify.Success, msgSuccess)
	w.Reset()

	return &receipt, nil
}

func describe(text string, grams float64, item domain.InventoryItem) string {
	g := formatGrams(grams)
	if text = strings.TrimSpace(text); text != "" {
		return fmt.Sprintf("%s - %sg %s %s", text, g, item.Type, item.Color)
	}
	return fmt.Sprintf("Impresión: %sg de %s %s", g, item.Type, item.Color)
}

func formatGrams(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
