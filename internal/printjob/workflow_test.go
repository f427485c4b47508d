package printjob

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/limonero/internal/cashbook"
	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/notify"
	"github.com/Simplici0/limonero/internal/pricing"
	"github.com/Simplici0/limonero/internal/store"
)

var saleTime = time.Date(2025, 5, 2, 18, 0, 0, 0, time.UTC)

func seedInventory(t *testing.T, st *store.Store, stock float64) {
	t.Helper()
	require.NoError(t, st.Save(context.Background(), store.KeyInventory, []domain.InventoryItem{
		{ID: "pla-rojo", Type: "PLA", Brand: "Grilon", Color: "Rojo", StockGrams: stock, PricePerKg: 25000},
	}))
}

func newWorkflow(st *store.Store, c confirm.Confirmer, rec *notify.Recorder) *Workflow {
	return New(st, Deps{
		Confirm: c,
		Notify:  rec,
		NewID:   func() string { return "mov-1" },
		Now:     func() time.Time { return saleTime },
	})
}

func openReference(t *testing.T, w *Workflow, materialID string) {
	t.Helper()
	in := pricing.JobInput{Hours: 2, WeightGrams: 100}
	require.NoError(t, w.Preview(in, pricing.ComputeCost(in, domain.DefaultCostConfig())))
	require.NoError(t, w.Open(materialID))
}

func TestConfirmDeductsStockAndRecordsIncome(t *testing.T) {
	st := store.OpenTest(t)
	seedInventory(t, st, 1000)
	rec := &notify.Recorder{}
	w := newWorkflow(st, confirm.Never, rec)
	ctx := context.Background()

	openReference(t, w, "pla-rojo")
	assert.InDelta(t, 5554.5, w.Draft().AdjustedPrice, 1e-9)

	price, err := w.Round(pricing.Up)
	require.NoError(t, err)
	assert.Equal(t, 5600.0, price)
	require.NoError(t, w.SetClient("Ana"))

	receipt, err := w.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900.0, receipt.Item.StockGrams)
	assert.Equal(t, domain.DirectionIncome, receipt.Movement.Direction)
	assert.Equal(t, 5600.0, receipt.Movement.Amount)
	assert.Equal(t, "Impresión: 100g de PLA Rojo", receipt.Movement.Description)
	assert.Equal(t, "Ana", receipt.Movement.ClientName)
	assert.Equal(t, &domain.StockRestoration{MaterialID: "pla-rojo", Quantity: 100}, receipt.Movement.StockRestoration)

	items, err := store.LoadList[domain.InventoryItem](ctx, st, store.KeyInventory)
	require.NoError(t, err)
	assert.Equal(t, 900.0, items[0].StockGrams)
	movements, err := store.LoadList[domain.CashMovement](ctx, st, store.KeyCashbook)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, saleTime, movements[0].Timestamp)

	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, pricing.JobInput{}, w.Input())
	assert.Equal(t, notify.Message{Level: notify.Success, Text: msgSuccess}, rec.Last())
}

func TestConfirmWithDescription(t *testing.T) {
	st := store.OpenTest(t)
	seedInventory(t, st, 1000)
	w := newWorkflow(st, confirm.Never, &notify.Recorder{})

	openReference(t, w, "pla-rojo")
	require.NoError(t, w.SetDescription("Maceta geométrica"))

	receipt, err := w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Maceta geométrica - 100g PLA Rojo", receipt.Movement.Description)
}

func TestConfirmWithoutMaterialStaysOpen(t *testing.T) {
	st := store.OpenTest(t)
	seedInventory(t, st, 1000)
	rec := &notify.Recorder{}
	w := newWorkflow(st, confirm.Never, rec)

	openReference(t, w, "")
	_, err := w.Confirm(context.Background())
	require.ErrorIs(t, err, domain.ErrNoMaterialSelected)
	assert.Equal(t, StateConfirming, w.State())
	assert.Equal(t, notify.Message{Level: notify.Error, Text: msgSelectMaterial}, rec.Last())

	require.NoError(t, w.SelectMaterial("gone"))
	_, err = w.Confirm(context.Background())
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, StateConfirming, w.State())
}

func TestLowStockDeclinedLeavesEverything(t *testing.T) {
	st := store.OpenTest(t)
	seedInventory(t, st, 50)
	gate := &confirm.Gate{}
	w := newWorkflow(st, gate, &notify.Recorder{})
	ctx := context.Background()

	openReference(t, w, "pla-rojo")
	_, err := w.Confirm(ctx)
	require.ErrorIs(t, err, domain.ErrDeclined)
	assert.Equal(t, "El stock actual (50g) es menor al necesario (100g). ¿Continuar igual?", gate.Pending())
	assert.Equal(t, StateConfirming, w.State())

	items, err := store.LoadList[domain.InventoryItem](ctx, st, store.KeyInventory)
	require.NoError(t, err)
	assert.Equal(t, 50.0, items[0].StockGrams)
	movements, err := store.LoadList[domain.CashMovement](ctx, st, store.KeyCashbook)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestLowStockAcceptedGoesNegative(t *testing.T) {
	st := store.OpenTest(t)
	seedInventory(t, st, 50)
	w := newWorkflow(st, confirm.Always, &notify.Recorder{})

	openReference(t, w, "pla-rojo")
	receipt, err := w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -50.0, receipt.Item.StockGrams)
}

func TestDeletingSaleRestoresStock(t *testing.T) {
	st := store.OpenTest(t)
	seedInventory(t, st, 1000)
	ctx := context.Background()
	w := newWorkflow(st, confirm.Never, &notify.Recorder{})

	openReference(t, w, "pla-rojo")
	receipt, err := w.Confirm(ctx)
	require.NoError(t, err)

	cb := cashbook.New(st, cashbook.Deps{Confirm: confirm.Always})
	res, err := cb.Delete(ctx, receipt.Movement.ID)
	require.NoError(t, err)
	assert.True(t, res.Restored)

	items, err := store.LoadList[domain.InventoryItem](ctx, st, store.KeyInventory)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, items[0].StockGrams)
}

func TestStateTransitions(t *testing.T) {
	w := newWorkflow(store.OpenTest(t), confirm.Never, &notify.Recorder{})

	require.ErrorIs(t, w.Open(""), domain.ErrNoResult)
	require.ErrorIs(t, w.SetPrice(10), domain.ErrInvalidState)
	_, err := w.Confirm(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidState)

	openReference(t, w, "")
	require.ErrorIs(t, w.Preview(pricing.JobInput{}, pricing.Result{}), domain.ErrInvalidState)
	require.NoError(t, w.SetPrice(1234))
	assert.Equal(t, 1234.0, w.Draft().AdjustedPrice)

	w.Cancel()
	assert.Equal(t, StatePreviewing, w.State())
	require.NoError(t, w.Open(""))
	assert.InDelta(t, 5554.5, w.Draft().AdjustedPrice, 1e-9)

	w.Reset()
	assert.Equal(t, StateIdle, w.State())
}

func TestNonFinitePriceIsRejected(t *testing.T) {
	st := store.OpenTest(t)
	seedInventory(t, st, 1000)
	w := newWorkflow(st, confirm.Always, &notify.Recorder{})
	ctx := context.Background()

	in := pricing.ParseJobForm(pricing.JobForm{Weight: "1e307"})
	require.NoError(t, w.Preview(in, pricing.ComputeCost(in, domain.DefaultCostConfig())))
	require.NoError(t, w.Open("pla-rojo"))
	require.True(t, math.IsInf(w.Draft().AdjustedPrice, 1))

	var err error
	assert.NotPanics(t, func() { _, err = w.Round(pricing.Up) })
	require.NoError(t, err)

	_, err = w.Confirm(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, StateConfirming, w.State())

	assert.ErrorIs(t, w.SetPrice(math.NaN()), domain.ErrInvalidInput)
	assert.ErrorIs(t, w.SetPrice(math.Inf(-1)), domain.ErrInvalidInput)

	require.NoError(t, w.SetPrice(3000))
	receipt, err := w.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, receipt.Movement.Amount)

	movements, err := store.LoadList[domain.CashMovement](ctx, st, store.KeyCashbook)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}
