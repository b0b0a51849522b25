// Package decision computes the per-tick control decision: battery action,
// grid import, alerts and infrastructure recommendations. The engine is a
// pure function of its inputs; identical inputs always yield the same
// decision.
package decision

import (
	"fmt"

	"github.com/gridpilot/gridpilot/core/model"
)

// Engine consumes the current reading, the forecast and a trailing history
// window and returns a control decision.
type Engine interface {
	Decide(current model.EnergySnapshot, fc model.ForecastResult, history []model.EnergySnapshot) (model.Decision, error)
}

// RuleEngine implements Engine with a fixed-priority rule set over the
// battery state machine {idle, charge, discharge}.
type RuleEngine struct {
	cfg     Config
	battery model.Battery
}

// NewRuleEngine creates the engine. Both configs must have passed Validate.
func NewRuleEngine(cfg Config, battery model.Battery) *RuleEngine {
	return &RuleEngine{cfg: cfg, battery: battery}
}

// Decide evaluates the transition rules in priority order. Out-of-domain
// inputs are a contract violation from upstream and surface as
// ErrInvalidInput; the engine never panics on malformed input.
func (e *RuleEngine) Decide(current model.EnergySnapshot, fc model.ForecastResult, history []model.EnergySnapshot) (model.Decision, error) {
	if err := current.Validate(); err != nil {
		return model.Decision{}, fmt.Errorf("snapshot: %w", err)
	}
	if err := fc.Validate(); err != nil {
		return model.Decision{}, fmt.Errorf("forecast: %w", err)
	}

	dec := e.transition(current, fc)
	dec.Alerts = e.alerts(current)
	dec.Recommendations = e.recommendations(history)
	return dec, nil
}

// transition picks the battery action. Priority: charge from solar surplus
// when SoC is low, discharge into high prices when safely above the floor,
// otherwise idle with any shortfall imported from the grid.
func (e *RuleEngine) transition(cur model.EnergySnapshot, fc model.ForecastResult) model.Decision {
	uncovered := cur.LoadKWh - cur.SolarKWh
	if uncovered < 0 {
		uncovered = 0
	}

	if cur.BatterySoC < e.cfg.SoCLowPct && fc.PredictedSolarKWh > fc.PredictedLoadKWh {
		surplus := fc.PredictedSolarKWh - fc.PredictedLoadKWh
		rate := min3(surplus, e.battery.ChargeRateKWh, e.battery.HeadroomKWh(cur.BatterySoC))
		return model.Decision{
			BatteryAction:  model.ActionCharge,
			BatteryRateKWh: rate,
			GridImportKWh:  uncovered,
			Rationale: fmt.Sprintf("soc %.0f%% below %.0f%% with forecast solar surplus %.1f kWh: charging at %.1f kWh",
				cur.BatterySoC, e.cfg.SoCLowPct, surplus, rate),
		}
	}

	if cur.GridPrice >= e.cfg.PriceHighEUR && cur.BatterySoC > e.cfg.SoCDischargeSafePct {
		usable := e.battery.UsableAboveKWh(cur.BatterySoC, e.cfg.SoCDischargeSafePct)
		rate := min3(uncovered, e.battery.DischargeRateKWh, usable)
		imp := uncovered - rate
		if imp < 0 {
			imp = 0
		}
		return model.Decision{
			BatteryAction:  model.ActionDischarge,
			BatteryRateKWh: rate,
			GridImportKWh:  imp,
			Rationale: fmt.Sprintf("price %.3f in high band with soc %.0f%% above %.0f%%: discharging %.1f kWh to cover load",
				cur.GridPrice, cur.BatterySoC, e.cfg.SoCDischargeSafePct, rate),
		}
	}

	return model.Decision{
		BatteryAction: model.ActionIdle,
		GridImportKWh: uncovered,
		Rationale:     fmt.Sprintf("no rule fired: idle, importing %.1f kWh", uncovered),
	}
}

// alerts raises threshold-crossing alerts with escalating severity, in a
// fixed order so identical inputs yield identical sequences.
func (e *RuleEngine) alerts(cur model.EnergySnapshot) []model.Alert {
	var out []model.Alert
	if cur.BatterySoC < e.cfg.SoCCriticalPct {
		out = append(out, model.Alert{
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("battery soc %.1f%% below critical floor %.0f%%", cur.BatterySoC, e.cfg.SoCCriticalPct),
		})
	}
	if cur.GridPrice > e.cfg.PriceSpikeEUR {
		out = append(out, model.Alert{
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("grid price spike: %.3f EUR/kWh above %.3f", cur.GridPrice, e.cfg.PriceSpikeEUR),
		})
	}
	if cur.CO2Intensity > e.cfg.CO2HighGPerKWh {
		out = append(out, model.Alert{
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("high-emission grid: %.0f g/kWh above %.0f", cur.CO2Intensity, e.cfg.CO2HighGPerKWh),
		})
	}
	return out
}

// recommendations inspects the trailing history window for sustained
// conditions the per-tick rules cannot fix.
func (e *RuleEngine) recommendations(history []model.EnergySnapshot) []model.Recommendation {
	window := history
	if len(window) > e.cfg.RecommendationWindow {
		window = window[len(window)-e.cfg.RecommendationWindow:]
	}
	var highImport, highPrice int
	var importSum float64
	for _, s := range window {
		if imp := s.LoadKWh - s.SolarKWh; imp > e.cfg.HighImportKWh {
			highImport++
			importSum += imp
		}
		if s.GridPrice >= e.cfg.PriceHighEUR {
			highPrice++
		}
	}

	var out []model.Recommendation
	if highImport >= e.cfg.SustainedTicks {
		avg := importSum / float64(highImport)
		out = append(out, model.Recommendation{
			Description:     fmt.Sprintf("grid import above %.0f kWh for %d of the last %d ticks: expand solar or battery capacity", e.cfg.HighImportKWh, highImport, len(window)),
			EstimatedImpact: fmt.Sprintf("up to %.0f kWh per tick of import displaced", avg),
		})
	}
	if highPrice >= e.cfg.SustainedTicks {
		out = append(out, model.Recommendation{
			Description:     fmt.Sprintf("price in high band for %d of the last %d ticks: consider storage arbitrage or tariff change", highPrice, len(window)),
			EstimatedImpact: "reduced exposure to peak pricing",
		})
	}
	return out
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if m < 0 {
		return 0
	}
	return m
}
