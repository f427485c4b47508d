package backup

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/limonero/internal/domain"
)

// legacyItem and legacyMovement are the field names used by the first
// browser-only version of the app.
type legacyItem struct {
	ID     string   `json:"id"`
	Tipo   string   `json:"tipo"`
	Marca  string   `json:"marca"`
	Color  string   `json:"color"`
	Stock  *float64 `json:"stock"`
	Precio *float64 `json:"precio"`
}

type legacyMovement struct {
	ID               string                   `json:"id"`
	Fecha            string                   `json:"fecha"`
	Tipo             string                   `json:"tipo"`
	Monto            float64                  `json:"monto"`
	Descripcion      string                   `json:"descripcion"`
	Nombre           string                   `json:"nombre"`
	StockRestoration *domain.StockRestoration `json:"stockRestoration"`
}

var legacyDateLayouts = []string{
	"02/01/2006 - 15:04",
	"02/01/2006, 15:04:05",
	"2/1/2006, 15:04:05",
	"02/01/2006",
}

// parseLegacyDate reads the es-AR date strings of old backups in loc.
func parseLegacyDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", s, domain.ErrInvalidInput)
}

func isLegacy(raw json.RawMessage, marker string) (bool, error) {
	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false, fmt.Errorf("decode collection: %w: %w", ErrInvalidBackup, err)
	}
	for _, obj := range probe {
		if _, ok := obj[marker]; ok {
			return true, nil
		}
	}
	return false, nil
}

func decodeInventory(raw json.RawMessage) ([]domain.InventoryItem, error) {
	legacy, err := isLegacy(raw, "tipo")
	if err != nil {
		return nil, err
	}
	if !legacy {
		items := make([]domain.InventoryItem, 0)
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode inventory: %w: %w", ErrInvalidBackup, err)
		}
		return items, nil
	}

	var old []legacyItem
	if err := json.Unmarshal(raw, &old); err != nil {
		return nil, fmt.Errorf("decode inventory: %w: %w", ErrInvalidBackup, err)
	}
	items := make([]domain.InventoryItem, 0, len(old))
	for _, o := range old {
		it := domain.InventoryItem{ID: o.ID, Type: o.Tipo, Brand: o.Marca, Color: o.Color}
		if o.Stock != nil {
			it.StockGrams = *o.Stock
		}
		if o.Precio != nil {
			it.PricePerKg = *o.Precio
		}
		items = append(items, it)
	}
	return items, nil
}

func decodeCashbook(raw json.RawMessage) ([]domain.CashMovement, error) {
	legacy, err := isLegacy(raw, "monto")
	if err != nil {
		return nil, err
	}
	if !legacy {
		movements := make([]domain.CashMovement, 0)
		if err := json.Unmarshal(raw, &movements); err != nil {
			return nil, fmt.Errorf("decode cashbook: %w: %w", ErrInvalidBackup, err)
		}
		return movements, nil
	}

	var old []legacyMovement
	if err := json.Unmarshal(raw, &old); err != nil {
		return nil, fmt.Errorf("decode cashbook: %w: %w", ErrInvalidBackup, err)
	}
	movements := make([]domain.CashMovement, 0, len(old))
	for _, o := range old {
		dir, err := domain.ParseDirection(o.Tipo)
		if err != nil {
			return nil, fmt.Errorf("movement %s: %w", o.ID, err)
		}
		ts, err := parseLegacyDate(o.Fecha, time.Local)
		if err != nil {
			return nil, fmt.Errorf("movement %s: %w", o.ID, err)
		}
		movements = append(movements, domain.CashMovement{
			ID:               o.ID,
			Timestamp:        ts,
			Direction:        dir,
			Amount:           o.Monto,
			Description:      o.Descripcion,
			ClientName:       o.Nombre,
			StockRestoration: o.StockRestoration,
		})
	}
	return movements, nil
}
