package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/limonero/internal/domain"
)

func TestLoadMissingKeyLeavesDefault(t *testing.T) {
	s := OpenTest(t)
	ctx := context.Background()

	cfg := domain.DefaultCostConfig()
	found, err := s.Load(ctx, KeyCostConfig, &cfg)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, domain.DefaultCostConfig(), cfg)

	items, err := LoadList[domain.InventoryItem](ctx, s, KeyInventory)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSavePreservesOrderAndReplaces(t *testing.T) {
	s := OpenTest(t)
	ctx := context.Background()

	presets := []domain.Preset{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}, {ID: "c", Name: "C"}}
	require.NoError(t, s.Save(ctx, KeyPresets, presets))

	got, err := LoadList[domain.Preset](ctx, s, KeyPresets)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})

	require.NoError(t, s.Save(ctx, KeyPresets, presets[:1]))
	got, err = LoadList[domain.Preset](ctx, s, KeyPresets)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	ok, err := Exists(ctx, s, KeyPresets)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := OpenTest(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, KeyInventory, []domain.InventoryItem{{ID: "pla", StockGrams: 100}}))

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx *Tx) error {
		if err := tx.Save(ctx, KeyInventory, []domain.InventoryItem{{ID: "pla", StockGrams: 0}}); err != nil {
			return err
		}
		if err := tx.Save(ctx, KeyCashbook, []domain.CashMovement{{ID: "m1"}}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	items, err := LoadList[domain.InventoryItem](ctx, s, KeyInventory)
	require.NoError(t, err)
	assert.Equal(t, 100.0, items[0].StockGrams)

	movements, err := LoadList[domain.CashMovement](ctx, s, KeyCashbook)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestUpdateCommitsBothCollections(t *testing.T) {
	s := OpenTest(t)
	ctx := context.Background()

	err := s.Update(ctx, func(tx *Tx) error {
		items, err := LoadList[domain.InventoryItem](ctx, tx, KeyInventory)
		if err != nil {
			return err
		}
		items = append(items, domain.InventoryItem{ID: "petg"})
		if err := tx.Save(ctx, KeyInventory, items); err != nil {
			return err
		}
		return tx.Save(ctx, KeyCashbook, []domain.CashMovement{{ID: "m1"}})
	})
	require.NoError(t, err)

	items, err := LoadList[domain.InventoryItem](ctx, s, KeyInventory)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	movements, err := LoadList[domain.CashMovement](ctx, s, KeyCashbook)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}
