package backup

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/limonero/internal/domain"
)

const (
	sheetInventory = "Inventario"
	sheetCashbook  = "Caja"
)

var (
	inventoryHeader = []string{"id", "type", "brand", "color", "stock", "pricePerKg"}
	cashbookHeader  = []string{"id", "timestamp", "direction", "amount", "description", "clientName", "materialId", "quantity"}
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func inventoryRow(it domain.InventoryItem) []string {
	return []string{it.ID, it.Type, it.Brand, it.Color, formatNumber(it.StockGrams), formatNumber(it.PricePerKg)}
}

func cashbookRow(m domain.CashMovement) []string {
	materialID, quantity := "", ""
	if r := m.StockRestoration; r != nil {
		materialID, quantity = r.MaterialID, formatNumber(r.Quantity)
	}
	return []string{
		m.ID,
		m.Timestamp.Format(time.RFC3339),
		string(m.Direction),
		formatNumber(m.Amount),
		m.Description,
		m.ClientName,
		materialID,
		quantity,
	}
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// InventoryCSV writes the inventory as CSV. It returns ErrEmpty when there
// is nothing to write.
func (s *Service) InventoryCSV(ctx context.Context, w io.Writer) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if len(doc.Inventory) == 0 {
		return fmt.Errorf("inventory: %w", ErrEmpty)
	}
	rows := make([][]string, 0, len(doc.Inventory))
	for _, it := range doc.Inventory {
		rows = append(rows, inventoryRow(it))
	}
	return writeCSV(w, inventoryHeader, rows)
}

// CashbookCSV writes the cashbook as CSV. It returns ErrEmpty when there is
// nothing to write.
func (s *Service) CashbookCSV(ctx context.Context, w io.Writer) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if len(doc.Cashbook) == 0 {
		return fmt.Errorf("cashbook: %w", ErrEmpty)
	}
	rows := make([][]string, 0, len(doc.Cashbook))
	for _, m := range doc.Cashbook {
		rows = append(rows, cashbookRow(m))
	}
	return writeCSV(w, cashbookHeader, rows)
}

// Workbook writes both collections to an XLSX file with one sheet each.
func (s *Service) Workbook(ctx context.Context, w io.Writer) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetInventory); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetCashbook); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRow(f, sheetInventory, 1, toCells(inventoryHeader)); err != nil {
		return err
	}
	for i, it := range doc.Inventory {
		row := []any{it.ID, it.Type, it.Brand, it.Color, it.StockGrams, it.PricePerKg}
		if err := writeRow(f, sheetInventory, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, sheetCashbook, 1, toCells(cashbookHeader)); err != nil {
		return err
	}
	for i, m := range doc.Cashbook {
		var materialID string
		var quantity any
		if r := m.StockRestoration; r != nil {
			materialID, quantity = r.MaterialID, r.Quantity
		}
		row := []any{m.ID, m.Timestamp.Format(time.RFC3339), string(m.Direction), m.Amount, m.Description, m.ClientName, materialID, quantity}
		if err := writeRow(f, sheetCashbook, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
