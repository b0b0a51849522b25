package model

import "errors"

// Failure kinds the scheduler has a fixed policy for. Stage implementations
// wrap these with context via fmt.Errorf and %w.
var (
	// ErrInvalidSnapshot signals a commit whose timestamp does not advance
	// the store. The current tick is aborted.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrInvalidInput signals out-of-domain values reaching a stage. The
	// current tick is aborted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientHistory signals a forecast attempted with zero history.
	// The scheduler substitutes a neutral forecast and continues.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrStageTimeout is advisory: a stage exceeded its soft time budget.
	// It is logged, never aborts a tick.
	ErrStageTimeout = errors.New("stage timeout exceeded")

	// ErrRepeatedTickFailure stops the scheduler after consecutive
	// full-tick failures.
	ErrRepeatedTickFailure = errors.New("repeated tick failure")
)
