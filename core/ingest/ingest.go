// Package ingest produces the raw energy reading for each tick. The
// Simulated implementation generates readings from a seeded statistical
// model; an external sensor feed satisfies the same interface.
package ingest

import "github.com/gridpilot/gridpilot/core/model"

// Ingestor produces the snapshot for the given tick from the previous one.
// Implementations must clamp every bounded field to its domain range and
// return strictly increasing timestamps.
type Ingestor interface {
	Produce(tick uint64, prev model.EnergySnapshot) (model.EnergySnapshot, error)
}
