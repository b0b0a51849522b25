// Package forecast derives short-horizon solar and load predictions from the
// current snapshot and a bounded window of history.
package forecast

import "github.com/gridpilot/gridpilot/core/model"

// Forecaster predicts solar and load horizon ticks ahead. History is
// chronological and never includes future-in-time data. Implementations must
// degrade gracefully with short history and fail only for zero history.
type Forecaster interface {
	Forecast(current model.EnergySnapshot, history []model.EnergySnapshot, horizon int) (model.ForecastResult, error)
}

// Neutral is the substitute the scheduler uses when no history exists yet:
// it carries the current reading forward with zero confidence.
func Neutral(current model.EnergySnapshot, horizon int) model.ForecastResult {
	if horizon < 1 {
		horizon = 1
	}
	return model.ForecastResult{
		HorizonTicks:      horizon,
		PredictedSolarKWh: current.SolarKWh,
		PredictedLoadKWh:  current.LoadKWh,
		Confidence:        0,
	}
}
