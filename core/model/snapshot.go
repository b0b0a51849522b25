package model

import (
	"fmt"
	"time"
)

// Domain ranges for the bounded snapshot fields. Generators clamp to these
// ranges; validation rejects anything outside them.
const (
	SolarMinKWh = 0.0
	SolarMaxKWh = 30.0

	LoadMinKWh = 20.0
	LoadMaxKWh = 165.0

	PriceMinEUR = 0.13
	PriceMaxEUR = 0.23

	CO2MinGPerKWh = 325.0
	CO2MaxGPerKWh = 460.0

	SoCMinPct = 0.0
	SoCMaxPct = 100.0
)

// EnergySnapshot is an immutable record of the grid state at one tick.
type EnergySnapshot struct {
	Timestamp    time.Time `json:"timestamp"`
	SolarKWh     float64   `json:"solar_kwh"`
	LoadKWh      float64   `json:"load_kwh"`
	GridPrice    float64   `json:"grid_price"`
	CO2Intensity float64   `json:"co2_intensity_g_per_kwh"`
	BatterySoC   float64   `json:"battery_soc_pct"`

	// Optional load breakdown. All zero when the source does not report
	// per-circuit consumption.
	HVACKWh     float64 `json:"hvac_kwh,omitempty"`
	LightingKWh float64 `json:"lighting_kwh,omitempty"`
	MachinesKWh float64 `json:"machines_kwh,omitempty"`
}

// Validate checks every bounded field against its domain range.
func (s EnergySnapshot) Validate() error {
	if s.Timestamp.IsZero() {
		return fmt.Errorf("%w: zero timestamp", ErrInvalidInput)
	}
	if s.SolarKWh < SolarMinKWh || s.SolarKWh > SolarMaxKWh {
		return fmt.Errorf("%w: solar %.2f kWh outside [%.0f,%.0f]", ErrInvalidInput, s.SolarKWh, SolarMinKWh, SolarMaxKWh)
	}
	if s.LoadKWh < LoadMinKWh || s.LoadKWh > LoadMaxKWh {
		return fmt.Errorf("%w: load %.2f kWh outside [%.0f,%.0f]", ErrInvalidInput, s.LoadKWh, LoadMinKWh, LoadMaxKWh)
	}
	if s.GridPrice < PriceMinEUR || s.GridPrice > PriceMaxEUR {
		return fmt.Errorf("%w: grid price %.3f outside [%.2f,%.2f]", ErrInvalidInput, s.GridPrice, PriceMinEUR, PriceMaxEUR)
	}
	if s.CO2Intensity < CO2MinGPerKWh || s.CO2Intensity > CO2MaxGPerKWh {
		return fmt.Errorf("%w: co2 intensity %.1f outside [%.0f,%.0f]", ErrInvalidInput, s.CO2Intensity, CO2MinGPerKWh, CO2MaxGPerKWh)
	}
	if s.BatterySoC < SoCMinPct || s.BatterySoC > SoCMaxPct {
		return fmt.Errorf("%w: battery soc %.1f%% outside [%.0f,%.0f]", ErrInvalidInput, s.BatterySoC, SoCMinPct, SoCMaxPct)
	}
	return nil
}

// Clamp returns a copy with every bounded field forced into its domain range.
func (s EnergySnapshot) Clamp() EnergySnapshot {
	s.SolarKWh = Clamp(s.SolarKWh, SolarMinKWh, SolarMaxKWh)
	s.LoadKWh = Clamp(s.LoadKWh, LoadMinKWh, LoadMaxKWh)
	s.GridPrice = Clamp(s.GridPrice, PriceMinEUR, PriceMaxEUR)
	s.CO2Intensity = Clamp(s.CO2Intensity, CO2MinGPerKWh, CO2MaxGPerKWh)
	s.BatterySoC = Clamp(s.BatterySoC, SoCMinPct, SoCMaxPct)
	return s
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
