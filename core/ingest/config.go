package ingest

import (
	"fmt"
	"time"
)

// Config tunes the simulated generator. Noise fractions are relative
// (0.05 means ±5%).
type Config struct {
	Seed        int64 `json:"seed"`
	StepMinutes int   `json:"step_minutes"`
	// Start anchors the simulated clock, RFC 3339. Fixed by default so a
	// seeded run replays identically.
	Start string `json:"start"`

	SolarPeakKWh  float64 `json:"solar_peak_kwh"`
	SolarNoisePct float64 `json:"solar_noise_pct"`
	LoadNoisePct  float64 `json:"load_noise_pct"`
	PriceNoisePct float64 `json:"price_noise_pct"`
	CO2NoisePct   float64 `json:"co2_noise_pct"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.StepMinutes <= 0 {
		c.StepMinutes = 60
	}
	if c.Start == "" {
		c.Start = "2025-01-01T00:00:00Z"
	}
	if c.SolarPeakKWh <= 0 {
		c.SolarPeakKWh = 28
	}
	if c.SolarNoisePct == 0 {
		c.SolarNoisePct = 0.05
	}
	if c.LoadNoisePct == 0 {
		c.LoadNoisePct = 0.05
	}
	if c.PriceNoisePct == 0 {
		c.PriceNoisePct = 0.02
	}
	if c.CO2NoisePct == 0 {
		c.CO2NoisePct = 0.10
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.StepMinutes <= 0 {
		return fmt.Errorf("step_minutes must be positive")
	}
	if _, err := time.Parse(time.RFC3339, c.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	for name, v := range map[string]float64{
		"solar_noise_pct": c.SolarNoisePct,
		"load_noise_pct":  c.LoadNoisePct,
		"price_noise_pct": c.PriceNoisePct,
		"co2_noise_pct":   c.CO2NoisePct,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1]", name)
		}
	}
	return nil
}

// Step returns the simulated time advanced per tick.
func (c Config) Step() time.Duration {
	return time.Duration(c.StepMinutes) * time.Minute
}

// StartTime returns the parsed simulation start. Validate must have passed.
func (c Config) StartTime() time.Time {
	t, _ := time.Parse(time.RFC3339, c.Start)
	return t
}
