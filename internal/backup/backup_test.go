package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/store"
)

var exportTime = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, store.KeyInventory, []domain.InventoryItem{
		{ID: "pla", Type: "PLA", Brand: "Grilon", Color: "Rojo, oscuro", StockGrams: 900, PricePerKg: 25000},
	}))
	require.NoError(t, st.Save(ctx, store.KeyCashbook, []domain.CashMovement{
		{ID: "m1", Timestamp: exportTime, Direction: domain.DirectionIncome, Amount: 5600, Description: `Maceta "XL"`, ClientName: "Ana",
			StockRestoration: &domain.StockRestoration{MaterialID: "pla", Quantity: 100}},
		{ID: "m2", Timestamp: exportTime, Direction: domain.DirectionExpense, Amount: 150.5, Description: "Lija"},
	}))
}

func newService(st *store.Store, c confirm.Confirmer) *Service {
	return New(st, Deps{Confirm: c, Now: func() time.Time { return exportTime }})
}

func TestExportImportRoundTrip(t *testing.T) {
	src := store.OpenTest(t)
	seed(t, src)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, newService(src, confirm.Never).ExportJSON(ctx, &buf))
	assert.Contains(t, buf.String(), "\n  \"inventory\": [")
	assert.Contains(t, buf.String(), `"exportDate": "2025-07-01T10:00:00Z"`)

	dst := store.OpenTest(t)
	res, err := newService(dst, confirm.Always).ImportJSON(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inventory)
	assert.Equal(t, 2, res.Cashbook)

	items, err := store.LoadList[domain.InventoryItem](ctx, dst, store.KeyInventory)
	require.NoError(t, err)
	want, err := store.LoadList[domain.InventoryItem](ctx, src, store.KeyInventory)
	require.NoError(t, err)
	assert.Equal(t, want, items)

	movements, err := store.LoadList[domain.CashMovement](ctx, dst, store.KeyCashbook)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, &domain.StockRestoration{MaterialID: "pla", Quantity: 100}, movements[0].StockRestoration)
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	svc := newService(store.OpenTest(t), confirm.Always)
	ctx := context.Background()

	_, err := svc.ImportJSON(ctx, strings.NewReader(`{"presets": []}`))
	require.ErrorIs(t, err, ErrInvalidBackup)

	_, err = svc.ImportJSON(ctx, strings.NewReader(`not json`))
	require.ErrorIs(t, err, ErrInvalidBackup)

	_, err = svc.ImportJSON(ctx, strings.NewReader(`{"inventory": {"id": 1}}`))
	require.ErrorIs(t, err, ErrInvalidBackup)
}

func TestImportOnlyReplacesPresentCollections(t *testing.T) {
	st := store.OpenTest(t)
	seed(t, st)
	ctx := context.Background()

	res, err := newService(st, confirm.Always).ImportJSON(ctx, strings.NewReader(`{"inventory": []}`))
	require.NoError(t, err)
	assert.True(t, res.HasItems)
	assert.False(t, res.HasMoves)

	items, err := store.LoadList[domain.InventoryItem](ctx, st, store.KeyInventory)
	require.NoError(t, err)
	assert.Empty(t, items)
	movements, err := store.LoadList[domain.CashMovement](ctx, st, store.KeyCashbook)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestImportDeclined(t *testing.T) {
	st := store.OpenTest(t)
	seed(t, st)
	gate := &confirm.Gate{}
	ctx := context.Background()

	_, err := newService(st, gate).ImportJSON(ctx, strings.NewReader(`{"inventory": [], "cashbook": []}`))
	require.ErrorIs(t, err, domain.ErrDeclined)
	assert.Equal(t, ImportQuestion, gate.Pending())

	items, err := store.LoadList[domain.InventoryItem](ctx, st, store.KeyInventory)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestImportLegacyBackup(t *testing.T) {
	st := store.OpenTest(t)
	ctx := context.Background()
	doc := `{
	  "inventory": [{"id": "a", "tipo": "PLA", "marca": "Grilon", "color": "Blanco", "stock": 750, "precio": 22000}],
	  "cashbook": [
	    {"id": "m1", "fecha": "14/03/2025 - 15:30", "tipo": "INGRESO", "monto": 3000, "descripcion": "Impresión: 50g de PLA Blanco",
	     "nombre": "", "stockRestoration": {"materialId": "a", "quantity": 50}},
	    {"id": "m2", "fecha": "02/01/2025 - 09:05", "tipo": "EGRESO", "monto": 500, "descripcion": "Boquilla"}
	  ],
	  "exportDate": "2025-03-15T00:00:00.000Z"
	}`

	_, err := newService(st, confirm.Always).ImportJSON(ctx, strings.NewReader(doc))
	require.NoError(t, err)

	items, err := store.LoadList[domain.InventoryItem](ctx, st, store.KeyInventory)
	require.NoError(t, err)
	assert.Equal(t, []domain.InventoryItem{{ID: "a", Type: "PLA", Brand: "Grilon", Color: "Blanco", StockGrams: 750, PricePerKg: 22000}}, items)

	movements, err := store.LoadList[domain.CashMovement](ctx, st, store.KeyCashbook)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, domain.DirectionIncome, movements[0].Direction)
	assert.Equal(t, domain.DirectionExpense, movements[1].Direction)
	assert.Equal(t, time.March, movements[0].Timestamp.Month())
	assert.Equal(t, 15, movements[0].Timestamp.Hour())
	assert.Equal(t, 50.0, movements[0].StockRestoration.Quantity)
}

func TestParseLegacyDate(t *testing.T) {
	loc := time.UTC
	got, err := parseLegacyDate("14/03/2025, 15:30:10", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 15, 30, 10, 0, loc), got)

	_, err = parseLegacyDate("ayer", loc)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCSVExports(t *testing.T) {
	st := store.OpenTest(t)
	svc := newService(st, confirm.Never)
	ctx := context.Background()

	var buf bytes.Buffer
	require.ErrorIs(t, svc.InventoryCSV(ctx, &buf), ErrEmpty)
	require.ErrorIs(t, svc.CashbookCSV(ctx, &buf), ErrEmpty)

	seed(t, st)

	buf.Reset()
	require.NoError(t, svc.InventoryCSV(ctx, &buf))
	assert.Equal(t, "id,type,brand,color,stock,pricePerKg\r\npla,PLA,Grilon,\"Rojo, oscuro\",900,25000\r\n", buf.String())

	buf.Reset()
	require.NoError(t, svc.CashbookCSV(ctx, &buf))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `m1,2025-07-01T10:00:00Z,INCOME,5600,"Maceta ""XL""",Ana,pla,100`, lines[1])
	assert.Equal(t, "m2,2025-07-01T10:00:00Z,EXPENSE,150.5,Lija,,,", lines[2])
}

func TestWorkbook(t *testing.T) {
	st := store.OpenTest(t)
	seed(t, st)

	var buf bytes.Buffer
	require.NoError(t, newService(st, confirm.Never).Workbook(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetInventory, sheetCashbook}, f.GetSheetList())

	rows, err := f.GetRows(sheetInventory)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, inventoryHeader, rows[0])
	assert.Equal(t, "Rojo, oscuro", rows[1][3])

	rows, err = f.GetRows(sheetCashbook)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "5600", rows[1][3])
}

func TestDocumentShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newService(store.OpenTest(t), confirm.Never).ExportJSON(context.Background(), &buf))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.JSONEq(t, `[]`, string(doc["inventory"]))
	assert.JSONEq(t, `[]`, string(doc["cashbook"]))
}
