package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/gridpilot/gridpilot/core/ingest"
	"github.com/gridpilot/gridpilot/core/model"
)

// Config tunes the window forecaster. SolarPeakKWh and StepMinutes should
// match the ingestion configuration so projections follow the same shapes.
type Config struct {
	WindowK      int     `json:"window_k"`
	HorizonTicks int     `json:"horizon_ticks"`
	SolarPeakKWh float64 `json:"solar_peak_kwh"`
	StepMinutes  int     `json:"step_minutes"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.WindowK <= 0 {
		c.WindowK = 12
	}
	if c.HorizonTicks <= 0 {
		c.HorizonTicks = 3
	}
	if c.SolarPeakKWh <= 0 {
		c.SolarPeakKWh = 28
	}
	if c.StepMinutes <= 0 {
		c.StepMinutes = 60
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.WindowK <= 0 || c.HorizonTicks <= 0 {
		return fmt.Errorf("window_k and horizon_ticks must be positive")
	}
	if c.StepMinutes <= 0 {
		return fmt.Errorf("step_minutes must be positive")
	}
	return nil
}

// Window extrapolates a linear trend over the last K snapshots and blends it
// with the diurnal shape used by ingestion. Confidence decays with horizon
// and with the variance observed in the window.
type Window struct {
	cfg Config
}

// NewWindow creates a forecaster from the configuration.
func NewWindow(cfg Config) *Window {
	return &Window{cfg: cfg}
}

// Forecast predicts solar and load horizon ticks ahead of current. It fails
// with ErrInsufficientHistory only when history is empty; a short window
// lowers confidence instead.
func (w *Window) Forecast(current model.EnergySnapshot, history []model.EnergySnapshot, horizon int) (model.ForecastResult, error) {
	if horizon <= 0 {
		return model.ForecastResult{}, fmt.Errorf("%w: horizon %d must be positive", model.ErrInvalidInput, horizon)
	}
	if len(history) == 0 {
		return model.ForecastResult{}, fmt.Errorf("%w: forecast needs at least one past snapshot", model.ErrInsufficientHistory)
	}

	window := history
	if len(window) > w.cfg.WindowK {
		window = window[len(window)-w.cfg.WindowK:]
	}
	solar := make([]float64, 0, len(window)+1)
	load := make([]float64, 0, len(window)+1)
	for _, s := range window {
		solar = append(solar, s.SolarKWh)
		load = append(load, s.LoadKWh)
	}
	solar = append(solar, current.SolarKWh)
	load = append(load, current.LoadKWh)

	target := current.Timestamp.Add(time.Duration(horizon) * time.Duration(w.cfg.StepMinutes) * time.Minute)
	hour := float64(target.Hour()) + float64(target.Minute())/60

	solarShape := w.cfg.SolarPeakKWh * ingest.SolarFactor(hour)
	loadShape := ingest.LoadTargetKWh(hour)

	predSolar := 0.5*extrapolate(solar, horizon) + 0.5*solarShape
	predLoad := 0.5*extrapolate(load, horizon) + 0.5*loadShape

	res := model.ForecastResult{
		HorizonTicks:      horizon,
		PredictedSolarKWh: model.Clamp(predSolar, model.SolarMinKWh, model.SolarMaxKWh),
		PredictedLoadKWh:  model.Clamp(predLoad, model.LoadMinKWh, model.LoadMaxKWh),
		Confidence:        w.confidence(solar, load, len(window), horizon),
	}
	return res, nil
}

// extrapolate projects the series steps ahead along its least-squares trend.
// A single sample carries forward unchanged.
func extrapolate(series []float64, steps int) float64 {
	n := len(series)
	if n < 2 {
		return series[n-1]
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, series, nil, false)
	return alpha + beta*float64(n-1+steps)
}

// confidence combines horizon decay, window completeness and a penalty for
// relative variance in the window. Non-increasing in horizon for fixed
// history.
func (w *Window) confidence(solar, load []float64, window, horizon int) float64 {
	decay := math.Pow(0.9, float64(horizon-1))
	completeness := float64(window) / float64(w.cfg.WindowK)
	if completeness > 1 {
		completeness = 1
	}
	penalty := 1 / (1 + relStd(solar) + relStd(load))
	return model.Clamp(decay*completeness*penalty, 0, 1)
}

// relStd is the standard deviation of the series relative to its mean.
func relStd(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	mean := stat.Mean(series, nil)
	if mean <= 0 {
		return 0
	}
	return math.Sqrt(stat.Variance(series, nil)) / mean
}
