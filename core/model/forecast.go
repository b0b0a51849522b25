package model

import "fmt"

// ForecastResult holds short-horizon solar and load predictions derived from
// the current snapshot and recent history.
type ForecastResult struct {
	HorizonTicks      int     `json:"horizon_ticks"`
	PredictedSolarKWh float64 `json:"predicted_solar_kwh"`
	PredictedLoadKWh  float64 `json:"predicted_load_kwh"`
	// Confidence is in [0,1] and decreases with horizon and with the
	// variance observed in the history window.
	Confidence float64 `json:"confidence"`
}

// Validate checks the forecast contract.
func (f ForecastResult) Validate() error {
	if f.HorizonTicks <= 0 {
		return fmt.Errorf("%w: horizon %d must be positive", ErrInvalidInput, f.HorizonTicks)
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("%w: confidence %.3f outside [0,1]", ErrInvalidInput, f.Confidence)
	}
	if f.PredictedSolarKWh < 0 || f.PredictedLoadKWh < 0 {
		return fmt.Errorf("%w: negative prediction", ErrInvalidInput)
	}
	return nil
}
