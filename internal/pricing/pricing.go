package pricing

import (
	"math"

	"github.com/Simplici0/limonero/internal/domain"
)

// JobInput represents the job-level inputs used to estimate a print's cost.
type JobInput struct {
	Hours        float64
	Minutes      float64
	WeightGrams  float64
	SuppliesCost float64
}

// TotalHours returns the print duration in hours.
func (in JobInput) TotalHours() float64 {
	return in.Hours + in.Minutes/60.0
}

// Breakdown contains all intermediate and line-item values of the pricing calculation.
type Breakdown struct {
	MaterialCost   float64 `json:"materialCost"`
	EnergyCost     float64 `json:"energyCost"`
	WearCost       float64 `json:"wearCost"`
	SuppliesCost   float64 `json:"suppliesCost"`
	Subtotal       float64 `json:"subtotal"`
	ErrorMargin    float64 `json:"errorMargin"`
	ConsumptionKWh float64 `json:"consumptionKwh"`
	TotalHours     float64 `json:"totalHours"`
}

// Totals contains roll-up values from the pricing calculation.
type Totals struct {
	TotalCost float64 `json:"totalCost"`
	SalePrice float64 `json:"salePrice"`
	NetProfit float64 `json:"netProfit"`
}

// Result groups the full pricing output, including detailed breakdown and totals.
type Result struct {
	Breakdown Breakdown `json:"breakdown"`
	Totals    Totals    `json:"totals"`
}

// Finite reports whether every total is a real number. Huge inputs overflow
// to ±Inf and such a result cannot be stored or encoded.
func (r Result) Finite() bool {
	for _, v := range []float64{r.Totals.TotalCost, r.Totals.SalePrice, r.Totals.NetProfit} {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ComputeCost computes pricing values from job inputs and the active cost configuration.
func ComputeCost(in JobInput, cfg domain.CostConfig) Result {
	totalHours := in.TotalHours()

	materialCost := (cfg.FilamentPricePerKg / 1000.0) * in.WeightGrams
	consumption := (cfg.Wattage / 1000.0) * totalHours
	energyCost := consumption * cfg.EnergyPricePerKwh
	wearCost := totalHours * cfg.WearCostPerHour

	subtotal := materialCost + energyCost + wearCost + in.SuppliesCost
	errorMargin := subtotal * (cfg.ErrorMarginPercent / 100.0)
	totalCost := subtotal + errorMargin
	salePrice := totalCost * cfg.ProfitMultiplier

	return Result{
		Breakdown: Breakdown{
			MaterialCost:   materialCost,
			EnergyCost:     energyCost,
			WearCost:       wearCost,
			SuppliesCost:   in.SuppliesCost,
			Subtotal:       subtotal,
			ErrorMargin:    errorMargin,
			ConsumptionKWh: consumption,
			TotalHours:     totalHours,
		},
		Totals: Totals{
			TotalCost: totalCost,
			SalePrice: salePrice,
			NetProfit: salePrice - totalCost,
		},
	}
}
