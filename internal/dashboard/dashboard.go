// Package dashboard computes the KPIs and monthly chart shown on the home
// screen.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/limonero/internal/cashbook"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/inventory"
	"github.com/Simplici0/limonero/internal/store"
)

// ChartMonths is the number of months in the chart, current month included.
const ChartMonths = 6

// minChartScale keeps the chart from scaling to zero on an empty ledger.
const minChartScale = 100.0

var shortMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// Month is one bar group of the chart.
type Month struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Summary is the dashboard payload.
type Summary struct {
	InventoryValue float64 `json:"inventoryValue"`
	Balance        float64 `json:"balance"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	ItemCount      int     `json:"itemCount"`
	Chart          []Month `json:"chart"`
	ChartMax       float64 `json:"chartMax"`
}

// Service reads the collections the dashboard aggregates.
type Service struct {
	store *store.Store
}

// New builds a dashboard service.
func New(st *store.Store) *Service {
	return &Service{store: st}
}

// Summary reads both collections and aggregates them relative to now.
func (s *Service) Summary(ctx context.Context, now time.Time) (Summary, error) {
	items, err := store.LoadList[domain.InventoryItem](ctx, s.store, store.KeyInventory)
	if err != nil {
		return Summary{}, err
	}
	movements, err := store.LoadList[domain.CashMovement](ctx, s.store, store.KeyCashbook)
	if err != nil {
		return Summary{}, err
	}
	return Compute(items, movements, now), nil
}

// Compute builds a Summary from already loaded collections. Movement
// timestamps are bucketed by calendar month in now's location.
func Compute(items []domain.InventoryItem, movements []domain.CashMovement, now time.Time) Summary {
	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	chart := make([]Month, ChartMonths)
	index := make(map[string]int, ChartMonths)
	income := make([]decimal.Decimal, ChartMonths)
	expense := make([]decimal.Decimal, ChartMonths)
	for i := 0; i < ChartMonths; i++ {
		d := first.AddDate(0, i-(ChartMonths-1), 0)
		k := monthKey(d)
		chart[i] = Month{Key: k, Label: shortMonths[d.Month()-1]}
		index[k] = i
	}

	monthly := decimal.Zero
	currentKey := monthKey(first)
	for _, m := range movements {
		if m.Timestamp.IsZero() {
			continue
		}
		k := monthKey(m.Timestamp.In(loc))
		amount := decimal.NewFromFloat(m.Amount)
		if k == currentKey && m.Direction == domain.DirectionIncome {
			monthly = monthly.Add(amount)
		}
		i, ok := index[k]
		if !ok {
			continue
		}
		switch m.Direction {
		case domain.DirectionIncome:
			income[i] = income[i].Add(amount)
		case domain.DirectionExpense:
			expense[i] = expense[i].Add(amount)
		}
	}

	chartMax := minChartScale
	for i := range chart {
		chart[i].Income = income[i].InexactFloat64()
		chart[i].Expense = expense[i].InexactFloat64()
		chartMax = max(chartMax, chart[i].Income, chart[i].Expense)
	}

	return Summary{
		InventoryValue: inventory.TotalValue(items),
		Balance:        cashbook.Summarize(movements).Balance,
		MonthlyIncome:  monthly.InexactFloat64(),
		ItemCount:      len(items),
		Chart:          chart,
		ChartMax:       chartMax,
	}
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Year())
}
