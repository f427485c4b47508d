package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/limonero/internal/domain"
)

// Direction selects which way SmartRound moves a price.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// DefaultStep is the rounding step used by the print confirmation dialog.
const DefaultStep = 100.0

// ParseDirection accepts "up" or "down" in any case.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	}
	return "", fmt.Errorf("rounding direction %q: %w", raw, domain.ErrInvalidInput)
}

// SmartRound moves price to the next multiple of step in the given
// direction. A price already on a multiple moves a full step. The result is
// never negative. NaN and ±Inf prices are returned unchanged.
func SmartRound(price float64, dir Direction, step float64) float64 {
	if !IsFinite(price) {
		return price
	}
	if step <= 0 || !IsFinite(step) {
		step = DefaultStep
	}
	p := decimal.NewFromFloat(price)
	s := decimal.NewFromFloat(step)

	var next decimal.Decimal
	exact := p.Mod(s).IsZero()
	switch dir {
	case Down:
		if exact {
			next = p.Sub(s)
		} else {
			next = p.Div(s).Floor().Mul(s)
		}
	default:
		if exact {
			next = p.Add(s)
		} else {
			next = p.Div(s).Ceil().Mul(s)
		}
	}

	if next.IsNegative() {
		return 0
	}
	return next.InexactFloat64()
}
