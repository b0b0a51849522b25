package ingest

import (
	"fmt"
	"math/rand"

	"github.com/gridpilot/gridpilot/core/model"
)

// Simulated generates synthetic readings: solar from the diurnal envelope
// with bounded perturbation, load as a random walk pulled towards the daily
// demand shape, price and carbon intensity as bounded stochastic processes
// correlated with time of day. Deterministic under a fixed seed.
type Simulated struct {
	cfg Config
	rng *rand.Rand
}

// NewSimulated creates a generator from the configuration. Config must have
// passed Validate.
func NewSimulated(cfg Config) *Simulated {
	return &Simulated{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// InitialSnapshot returns the snapshot the store is seeded with before the
// first tick.
func (s *Simulated) InitialSnapshot() model.EnergySnapshot {
	return model.EnergySnapshot{
		Timestamp:    s.cfg.StartTime(),
		SolarKWh:     0,
		LoadKWh:      45,
		GridPrice:    0.15,
		CO2Intensity: 400,
		BatterySoC:   50,
	}.Clamp()
}

// Produce generates the reading for the tick following prev. The timestamp
// advances by the configured step; every bounded field is clamped.
func (s *Simulated) Produce(tick uint64, prev model.EnergySnapshot) (model.EnergySnapshot, error) {
	if prev.Timestamp.IsZero() {
		return model.EnergySnapshot{}, fmt.Errorf("%w: previous snapshot has zero timestamp", model.ErrInvalidInput)
	}
	ts := prev.Timestamp.Add(s.cfg.Step())
	hour := float64(ts.Hour()) + float64(ts.Minute())/60

	solar := s.cfg.SolarPeakKWh * SolarFactor(hour) * s.jitter(s.cfg.SolarNoisePct)

	// Load walks towards the demand-shape target with bounded noise.
	target := LoadTargetKWh(hour)
	load := prev.LoadKWh + 0.3*(target-prev.LoadKWh)
	load *= s.jitter(s.cfg.LoadNoisePct)

	price := 0.15 * PriceFactor(hour) * s.jitter(s.cfg.PriceNoisePct)
	co2 := CO2BaseGPerKWh(hour) * s.jitter(s.cfg.CO2NoisePct)

	snap := model.EnergySnapshot{
		Timestamp:    ts,
		SolarKWh:     solar,
		LoadKWh:      load,
		GridPrice:    price,
		CO2Intensity: co2,
		BatterySoC:   prev.BatterySoC,
	}.Clamp()
	s.breakdown(&snap)
	return snap, nil
}

// jitter returns a multiplicative factor in [1-pct, 1+pct].
func (s *Simulated) jitter(pct float64) float64 {
	return 1 + (s.rng.Float64()*2-1)*pct
}

// breakdown splits the load into indicative circuit components. Shares vary
// slightly per tick but always sum below the total.
func (s *Simulated) breakdown(snap *model.EnergySnapshot) {
	hvac := 0.25 + 0.05*s.rng.Float64()
	light := 0.12 + 0.04*s.rng.Float64()
	mach := 0.35 + 0.08*s.rng.Float64()
	snap.HVACKWh = snap.LoadKWh * hvac
	snap.LightingKWh = snap.LoadKWh * light
	snap.MachinesKWh = snap.LoadKWh * mach
}
