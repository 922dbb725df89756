package qresample

import (
	"fmt"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

// Errors returned by the resampler. Every failure wraps one of these and can be
// matched with errors.Is; none of them is fatal to the process.
var (
	// ErrDegenerateSignal indicates a zero-norm (or non-finite) input signal.
	ErrDegenerateSignal = errs.ErrDegenerateSignal

	// ErrUnsupportedFactor indicates a factor that is not a power of two, does
	// not divide the signal length, or needs more qubits than allowed.
	ErrUnsupportedFactor = errs.ErrUnsupportedFactor

	// ErrInvalidFactor indicates a zero or negative factor.
	ErrInvalidFactor = errs.ErrInvalidFactor

	// ErrDimensionMismatch indicates disagreeing shapes, factors or partitions.
	ErrDimensionMismatch = errs.ErrDimensionMismatch

	// ErrInsufficientShots indicates too few shots for the configured error bound.
	ErrInsufficientShots = errs.ErrInsufficientShots

	// ErrBackendExecution wraps failures reported by the simulation backend.
	ErrBackendExecution = errs.ErrBackendExecution

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errs.ErrInvalidConfig

	// ErrInvalidCircuit indicates a malformed or corrupted circuit description.
	ErrInvalidCircuit = errs.ErrInvalidCircuit
)

// StageError reports the pipeline state in which a run failed.
type StageError struct {
	State State
	Err   error
}

// Error implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error { return e.Err }
