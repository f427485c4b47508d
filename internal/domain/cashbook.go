package domain

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the sign of a cash movement.
type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// ParseDirection accepts the canonical names plus the original Spanish labels.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "INCOME", "INGRESO", "IN":
		return DirectionIncome, nil
	case "EXPENSE", "EGRESO", "OUT":
		return DirectionExpense, nil
	}
	return "", fmt.Errorf("direction %q: %w", raw, ErrInvalidInput)
}

// StockRestoration is a weak reference from a movement to the inventory item
// whose stock it consumed. The target is re-resolved by id when used.
type StockRestoration struct {
	MaterialID string  `json:"materialId"`
	Quantity   float64 `json:"quantity"`
}

// CashMovement is one cashbook entry.
type CashMovement struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	Direction        Direction         `json:"direction"`
	Amount           float64           `json:"amount"`
	Description      string            `json:"description"`
	ClientName       string            `json:"clientName,omitempty"`
	StockRestoration *StockRestoration `json:"stockRestoration,omitempty"`
}

// FindMovement returns the index of the movement with the given id, or -1.
func FindMovement(movements []CashMovement, id string) int {
	for i := range movements {
		if movements[i].ID == id {
			return i
		}
	}
	return -1
}
