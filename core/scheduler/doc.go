// Package scheduler orchestrates the agent pipeline. Each tick runs
// ingestion, forecasting and decision-making in sequence against the shared
// state store, commits the new snapshot and publishes the result. Failures
// are isolated per tick; only sustained failure stops the loop.
package scheduler
