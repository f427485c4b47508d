package domain

// CostConfig holds the user-editable cost parameters used by the pricing engine.
type CostConfig struct {
	FilamentPricePerKg float64 `json:"filamentPricePerKg"`
	EnergyPricePerKwh  float64 `json:"energyPricePerKwh"`
	Wattage            float64 `json:"wattage"`
	WearCostPerHour    float64 `json:"wearCostPerHour"`
	// SparePartsCost is stored with the configuration but is not part of the
	// price formula.
	SparePartsCost     float64 `json:"sparePartsCost"`
	ErrorMarginPercent float64 `json:"errorMarginPercent"`
	ProfitMultiplier   float64 `json:"profitMultiplier"`
}

// DefaultCostConfig returns the configuration used on a fresh install.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		FilamentPricePerKg: 25000,
		EnergyPricePerKwh:  150,
		Wattage:            150,
		WearCostPerHour:    50,
		SparePartsCost:     0,
		ErrorMarginPercent: 5,
		ProfitMultiplier:   2,
	}
}

// Preset is a named snapshot of a CostConfig.
type Preset struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Config CostConfig `json:"config"`
}
