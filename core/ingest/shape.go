package ingest

import "math"

// Daily shape functions shared by the generator and the forecaster so that
// forecasts stay consistent with the generative model.

// SolarFactor returns the diurnal solar envelope in [0,1] for the given hour
// of day: a smooth bell peaking at noon, zero outside daylight.
func SolarFactor(hour float64) float64 {
	if hour < 6 || hour > 18 {
		return 0
	}
	const peak, sigma = 12.0, 3.0
	d := hour - peak
	return math.Exp(-d * d / (2 * sigma * sigma))
}

// LoadTargetKWh returns the demand-shape target the load walk is pulled
// towards: elevated during business hours, low overnight.
func LoadTargetKWh(hour float64) float64 {
	if hour >= 8 && hour <= 18 {
		return 130
	}
	return 45
}

// PriceFactor returns the time-of-day multiplier on the base grid price,
// with an evening peak band.
func PriceFactor(hour float64) float64 {
	if hour >= 17 && hour <= 21 {
		return 1.3
	}
	return 1.0
}

// CO2BaseGPerKWh returns the time-of-day carbon intensity before noise.
// Intensity drops around midday when solar displaces thermal generation.
func CO2BaseGPerKWh(hour float64) float64 {
	return 420 - 60*SolarFactor(hour)
}
