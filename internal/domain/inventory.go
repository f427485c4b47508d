package domain

// InventoryItem is a tracked filament spool. Stock may go negative when a
// low-stock warning is overridden.
type InventoryItem struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Brand      string  `json:"brand"`
	Color      string  `json:"color"`
	StockGrams float64 `json:"stock"`
	PricePerKg float64 `json:"pricePerKg"`
}

// Value returns the purchase value of the remaining stock.
func (i InventoryItem) Value() float64 {
	return i.PricePerKg / 1000 * i.StockGrams
}

// FindItem returns the index of the item with the given id, or -1.
func FindItem(items []InventoryItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
