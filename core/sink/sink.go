// Package sink defines the publish boundary: every committed tick is handed
// to a Sink exactly once, in commit order. Implementations live under infra.
package sink

import (
	"time"

	"github.com/gridpilot/gridpilot/core/model"
)

// TickRecord is the payload published after each successful tick.
type TickRecord struct {
	ID          string               `json:"id"`
	Tick        uint64               `json:"tick"`
	Snapshot    model.EnergySnapshot `json:"snapshot"`
	Forecast    model.ForecastResult `json:"forecast"`
	Decision    model.Decision       `json:"decision"`
	CommittedAt time.Time            `json:"committed_at"`
}

// Sink receives committed ticks. Record is called from the scheduler loop,
// so implementations should return quickly and never block indefinitely.
type Sink interface {
	Record(rec TickRecord) error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(TickRecord) error { return nil }

// Multi fans a record out to several sinks. Every sink is attempted even
// after a failure; the first error encountered is returned.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a Multi over the provided sinks.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Record(rec TickRecord) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Record(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
