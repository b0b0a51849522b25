package model

import "fmt"

// Battery describes the stationary battery attached to the site. Rates are
// energy per tick, matching the snapshot fields.
type Battery struct {
	CapacityKWh      float64 `json:"capacity_kwh"`
	ChargeRateKWh    float64 `json:"charge_rate_kwh"`
	DischargeRateKWh float64 `json:"discharge_rate_kwh"`
}

// SetDefaults applies fallback sizing for unset fields.
func (b *Battery) SetDefaults() {
	if b.CapacityKWh <= 0 {
		b.CapacityKWh = 100
	}
	if b.ChargeRateKWh <= 0 {
		b.ChargeRateKWh = 10
	}
	if b.DischargeRateKWh <= 0 {
		b.DischargeRateKWh = 10
	}
}

// Validate checks the battery configuration is sound.
func (b Battery) Validate() error {
	if b.CapacityKWh <= 0 {
		return fmt.Errorf("battery capacity must be positive")
	}
	if b.ChargeRateKWh <= 0 || b.DischargeRateKWh <= 0 {
		return fmt.Errorf("battery rates must be positive")
	}
	return nil
}

// UsableAboveKWh returns the energy stored above the given SoC floor.
func (b Battery) UsableAboveKWh(socPct, floorPct float64) float64 {
	if socPct <= floorPct {
		return 0
	}
	return (socPct - floorPct) / 100 * b.CapacityKWh
}

// HeadroomKWh returns the energy the battery can still absorb.
func (b Battery) HeadroomKWh(socPct float64) float64 {
	if socPct >= SoCMaxPct {
		return 0
	}
	return (SoCMaxPct - socPct) / 100 * b.CapacityKWh
}

// ApplyEnergy returns the SoC after charging (positive energy) or
// discharging (negative energy), clamped to [0,100]. The rate caps are
// enforced by the decision engine, not here.
func (b Battery) ApplyEnergy(socPct, energyKWh float64) float64 {
	return Clamp(socPct+energyKWh/b.CapacityKWh*100, SoCMinPct, SoCMaxPct)
}
