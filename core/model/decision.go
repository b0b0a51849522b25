package model

// BatteryAction is the control action issued for the battery each tick.
type BatteryAction int

const (
	ActionIdle BatteryAction = iota
	ActionCharge
	ActionDischarge
)

// String returns the action name used in logs, metrics labels and payloads.
func (a BatteryAction) String() string {
	switch a {
	case ActionCharge:
		return "charge"
	case ActionDischarge:
		return "discharge"
	default:
		return "idle"
	}
}

// Severity orders alerts from informational to critical.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "info"
	}
}

// Alert flags a threshold crossing observed while deciding.
type Alert struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Recommendation is an infrastructure-upgrade hint derived from sustained
// conditions over a trailing history window.
type Recommendation struct {
	Description     string `json:"description"`
	EstimatedImpact string `json:"estimated_impact"`
}

// Decision is the control output of one tick.
type Decision struct {
	BatteryAction  BatteryAction `json:"battery_action"`
	BatteryRateKWh float64       `json:"battery_rate_kwh"`
	GridImportKWh  float64       `json:"grid_import_kwh"`
	// Rationale summarises the rule that fired, for operators and for the
	// optional explanation layer downstream.
	Rationale       string           `json:"rationale"`
	Alerts          []Alert          `json:"alerts,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}
