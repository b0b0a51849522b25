package scheduler

import (
	"fmt"
	"time"
)

// Config defines the tick loop parameters.
type Config struct {
	// CadenceSeconds is the interval between ticks. A soft target, not a
	// deadline.
	CadenceSeconds int `json:"cadence_seconds"`
	// StageTimeoutMS is the advisory per-stage budget; exceeding it logs a
	// warning and nothing else.
	StageTimeoutMS int `json:"stage_timeout_ms"`
	// MaxConsecutiveFailures full-tick failures in a row escalate to a
	// fatal stop.
	MaxConsecutiveFailures int `json:"max_consecutive_failures"`
	// HorizonTicks is passed to the forecaster each tick.
	HorizonTicks int `json:"horizon_ticks"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.CadenceSeconds <= 0 {
		c.CadenceSeconds = 5
	}
	if c.StageTimeoutMS <= 0 {
		c.StageTimeoutMS = 1000
	}
	if c.MaxConsecutiveFailures <= 0 {
		c.MaxConsecutiveFailures = 3
	}
	if c.HorizonTicks <= 0 {
		c.HorizonTicks = 3
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.CadenceSeconds <= 0 {
		return fmt.Errorf("cadence_seconds must be positive")
	}
	if c.MaxConsecutiveFailures <= 0 {
		return fmt.Errorf("max_consecutive_failures must be positive")
	}
	if c.HorizonTicks <= 0 {
		return fmt.Errorf("horizon_ticks must be positive")
	}
	return nil
}

// Cadence returns the tick interval.
func (c Config) Cadence() time.Duration {
	return time.Duration(c.CadenceSeconds) * time.Second
}

// StageTimeout returns the advisory per-stage budget.
func (c Config) StageTimeout() time.Duration {
	return time.Duration(c.StageTimeoutMS) * time.Millisecond
}
