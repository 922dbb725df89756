// Package errs defines the error taxonomy shared by the resampling packages.
// The root package re-exports these values so callers never import internal paths.
package errs

import "errors"

var (
	// ErrDegenerateSignal indicates a zero-norm (or empty) signal with no direction to encode.
	ErrDegenerateSignal = errors.New("degenerate signal")

	// ErrUnsupportedFactor indicates a factor that is not a power of two or does not divide the axis.
	ErrUnsupportedFactor = errors.New("unsupported resampling factor")

	// ErrInvalidFactor indicates a zero or negative factor.
	ErrInvalidFactor = errors.New("invalid resampling factor")

	// ErrDimensionMismatch indicates disagreement between signal shape, factors and register partition.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInsufficientShots indicates that the shot count is below the configured minimum.
	ErrInsufficientShots = errors.New("insufficient shots")

	// ErrBackendExecution wraps failures reported by a simulation backend.
	ErrBackendExecution = errors.New("backend execution failed")

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidCircuit indicates a circuit description that fails validation.
	ErrInvalidCircuit = errors.New("invalid circuit")
)
