package decision

import "fmt"

// Config holds the rule thresholds. All SoC values are percentages, prices
// EUR/kWh, carbon intensity g/kWh.
type Config struct {
	SoCLowPct           float64 `json:"soc_low_pct"`
	SoCCriticalPct      float64 `json:"soc_critical_pct"`
	SoCDischargeSafePct float64 `json:"soc_discharge_safe_pct"`

	PriceHighEUR   float64 `json:"price_high_eur"`
	PriceSpikeEUR  float64 `json:"price_spike_eur"`
	CO2HighGPerKWh float64 `json:"co2_high_g_per_kwh"`

	// Recommendation triggers over a trailing history window.
	RecommendationWindow int     `json:"recommendation_window"`
	HighImportKWh        float64 `json:"high_import_kwh"`
	SustainedTicks       int     `json:"sustained_ticks"`
}

// SetDefaults applies fallback thresholds.
func (c *Config) SetDefaults() {
	if c.SoCLowPct == 0 {
		c.SoCLowPct = 30
	}
	if c.SoCCriticalPct == 0 {
		c.SoCCriticalPct = 10
	}
	if c.SoCDischargeSafePct == 0 {
		c.SoCDischargeSafePct = 40
	}
	if c.PriceHighEUR == 0 {
		c.PriceHighEUR = 0.20
	}
	if c.PriceSpikeEUR == 0 {
		c.PriceSpikeEUR = 0.21
	}
	if c.CO2HighGPerKWh == 0 {
		c.CO2HighGPerKWh = 430
	}
	if c.RecommendationWindow <= 0 {
		c.RecommendationWindow = 12
	}
	if c.HighImportKWh == 0 {
		c.HighImportKWh = 100
	}
	if c.SustainedTicks <= 0 {
		c.SustainedTicks = 9
	}
}

// Validate checks threshold ordering.
func (c Config) Validate() error {
	if c.SoCCriticalPct >= c.SoCLowPct {
		return fmt.Errorf("soc_critical_pct must be below soc_low_pct")
	}
	if c.SoCDischargeSafePct <= c.SoCCriticalPct {
		return fmt.Errorf("soc_discharge_safe_pct must be above soc_critical_pct")
	}
	if c.PriceHighEUR <= 0 || c.PriceSpikeEUR < c.PriceHighEUR {
		return fmt.Errorf("price thresholds must satisfy 0 < high <= spike")
	}
	if c.SustainedTicks > c.RecommendationWindow {
		return fmt.Errorf("sustained_ticks cannot exceed recommendation_window")
	}
	return nil
}
