package qresample

import (
	"context"
	"math/rand/v2"

	"github.com/tphakala/go-quantum-resampler/internal/circuit"
	"github.com/tphakala/go-quantum-resampler/internal/qstate"
	"github.com/tphakala/go-quantum-resampler/internal/statevector"
)

// Circuit is an immutable resampling circuit description. It round-trips
// through MarshalBinary/UnmarshalBinary and JSON.
type Circuit = circuit.Circuit

// AmplitudeVector is a complex amplitude vector over a qubit register.
type AmplitudeVector = qstate.Vector

// SimulationRequest asks a backend to run one circuit on one encoded state.
type SimulationRequest = qstate.Request

// SimulationResult is an exact state or a histogram of MSB-first bitstrings.
type SimulationResult = qstate.Result

// Backend executes circuits. Implementations need not be safe for concurrent
// use: the simulator calls a backend from one goroutine at a time.
type Backend interface {
	Simulate(ctx context.Context, req *SimulationRequest) (*SimulationResult, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req *SimulationRequest) (*SimulationResult, error)

// Simulate calls f.
func (f BackendFunc) Simulate(ctx context.Context, req *SimulationRequest) (*SimulationResult, error) {
	return f(ctx, req)
}

// NewStateVectorBackend returns the reference dense state-vector backend with
// a PCG source seeded from seed.
func NewStateVectorBackend(seed uint64) Backend {
	return statevector.NewSeeded(seed)
}

// NewStateVectorBackendWithSource returns the reference backend sampling from src.
func NewStateVectorBackendWithSource(src rand.Source) Backend {
	return statevector.New(src)
}

// MergeResults sums shot results from independent batches.
func MergeResults(results ...*SimulationResult) (*SimulationResult, error) {
	return qstate.Merge(results...)
}

// DecodeCircuit decodes and validates a circuit produced by Circuit.MarshalBinary.
func DecodeCircuit(data []byte) (*Circuit, error) {
	return circuit.Decode(data)
}
