// Package reconstruct turns simulator output back into a classical signal.
//
// The kept branch of a resampling circuit is the set of basis states whose flag
// qubits are all |0⟩. Each output grid position maps to exactly one such basis
// state; its amplitude times the encoding scale and the circuit gain is the
// resampled sample.
package reconstruct

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-quantum-resampler/internal/circuit"
	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/qstate"
	"github.com/tphakala/go-quantum-resampler/internal/simdops"
)

// Layout locates the output samples inside the register.
type Layout struct {
	Outputs   [][]int // qubits per output axis, least significant first
	Flags     []int
	Shape     []int // logical output shape
	NumQubits int
	Gain      float64
}

// LayoutOf returns the output layout of c.
func LayoutOf(c *circuit.Circuit) Layout {
	outputs := make([][]int, len(c.Outputs))
	for d, qs := range c.Outputs {
		outputs[d] = append([]int(nil), qs...)
	}
	return Layout{
		Outputs:   outputs,
		Flags:     append([]int(nil), c.Flags...),
		Shape:     append([]int(nil), c.OutputShape...),
		NumQubits: c.NumQubits,
		Gain:      c.Gain,
	}
}

// Len returns the number of output samples.
func (l Layout) Len() int {
	n := 1
	for _, s := range l.Shape {
		n *= s
	}
	return n
}

// Indices returns the basis index of every output sample in row-major order.
// Flags are zero in every returned index.
func (l Layout) Indices() []uint64 {
	out := make([]uint64, l.Len())
	pos := make([]int, len(l.Shape))
	for p := range out {
		var idx uint64
		for d, i := range pos {
			for k, q := range l.Outputs[d] {
				idx |= uint64(i>>k&1) << q
			}
		}
		out[p] = idx
		for d := len(pos) - 1; d >= 0; d-- {
			pos[d]++
			if pos[d] < l.Shape[d] {
				break
			}
			pos[d] = 0
		}
	}
	return out
}

// PhaseEstimator supplies unit phasors for magnitudes recovered from counts.
// Counts carry no phase, so without an estimator the signal is assumed real
// and non-negative.
//
// It is called once per reconstruction with the magnitudes of the whole
// row-major output signal and its shape, patches already reassembled, and
// never from more than one goroutine at a time for the same reconstruction.
type PhaseEstimator interface {
	EstimatePhases(magnitudes []float64, shape []int) ([]complex128, error)
}

// PhaseFunc adapts a function to PhaseEstimator.
type PhaseFunc func(magnitudes []float64, shape []int) ([]complex128, error)

// EstimatePhases calls f.
func (f PhaseFunc) EstimatePhases(magnitudes []float64, shape []int) ([]complex128, error) {
	return f(magnitudes, shape)
}

// Options tunes shot-mode reconstruction.
type Options struct {
	// MinShots is the smallest total shot count accepted. Zero or negative
	// accepts any positive count.
	MinShots int
}

// Signal is a reconstructed, row-major signal.
type Signal struct {
	Values []complex128
	Shape  []int

	// StdErr is the per-sample binomial standard error (shot mode only).
	StdErr []float64

	// Shots is the total shot count behind the estimate, 0 in exact mode.
	Shots int
}

// Reconstruct dispatches on the result mode.
func Reconstruct(res *qstate.Result, scale float64, layout Layout, opts Options) (*Signal, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: nil result", errs.ErrBackendExecution)
	}
	switch res.Mode {
	case qstate.ModeExact:
		return Exact(res, scale, layout)
	case qstate.ModeShots:
		return Shots(res, scale, layout, opts)
	default:
		return nil, fmt.Errorf("%w: unknown result mode %v", errs.ErrBackendExecution, res.Mode)
	}
}

// Exact reads kept amplitudes from a state vector: value = amplitude * scale * gain.
func Exact(res *qstate.Result, scale float64, layout Layout) (*Signal, error) {
	if err := check(res, layout); err != nil {
		return nil, err
	}
	idx := layout.Indices()
	values := make([]complex128, len(idx))
	for p, i := range idx {
		values[p] = res.State[i]
	}
	simdops.ScaleComplex(values, values, scale*layout.Gain)
	return &Signal{Values: values, Shape: append([]int(nil), layout.Shape...)}, nil
}

// Shots estimates magnitudes from counts: |value| = sqrt(count/shots) * scale * gain,
// with standard error scale * gain * sqrt(p(1-p)/shots).
func Shots(res *qstate.Result, scale float64, layout Layout, opts Options) (*Signal, error) {
	if err := check(res, layout); err != nil {
		return nil, err
	}
	if res.Shots <= 0 || res.Shots < opts.MinShots {
		return nil, fmt.Errorf("%w: %d shots, need at least %d",
			errs.ErrInsufficientShots, res.Shots, max(opts.MinShots, 1))
	}

	idx := layout.Indices()
	total := float64(res.Shots)
	mags := make([]float64, len(idx))
	stderr := make([]float64, len(idx))
	for p, i := range idx {
		prob := float64(res.Counts[qstate.Bitstring(i, layout.NumQubits)]) / total
		mags[p] = math.Sqrt(prob)
		stderr[p] = math.Sqrt(prob * (1 - prob) / total)
	}
	k := scale * layout.Gain
	simdops.Scale(mags, mags, k)
	simdops.Scale(stderr, stderr, k)

	values := make([]complex128, len(mags))
	for p, m := range mags {
		values[p] = complex(m, 0)
	}
	return &Signal{
		Values: values,
		Shape:  append([]int(nil), layout.Shape...),
		StdErr: stderr,
		Shots:  res.Shots,
	}, nil
}

// ApplyPhases multiplies the magnitudes of values by the phasors est returns
// for them. The result is a new slice.
func ApplyPhases(values []complex128, shape []int, est PhaseEstimator) ([]complex128, error) {
	mags := make([]float64, len(values))
	for i, v := range values {
		mags[i] = cmplx.Abs(v)
	}
	phases, err := est.EstimatePhases(mags, append([]int(nil), shape...))
	if err != nil {
		return nil, fmt.Errorf("phase estimation: %w", err)
	}
	if len(phases) != len(values) {
		return nil, fmt.Errorf("%w: phase estimator returned %d phasors for %d samples",
			errs.ErrDimensionMismatch, len(phases), len(values))
	}
	rotated := make([]complex128, len(mags))
	for i, m := range mags {
		rotated[i] = complex(m, 0)
	}
	phased := make([]complex128, len(values))
	simdops.MulComplex(phased, rotated, phases)
	return phased, nil
}

func check(res *qstate.Result, layout Layout) error {
	if err := res.Validate(); err != nil {
		return err
	}
	if res.NumQubits != layout.NumQubits {
		return fmt.Errorf("%w: result has %d qubits, layout expects %d",
			errs.ErrDimensionMismatch, res.NumQubits, layout.NumQubits)
	}
	return nil
}

// SignPhases returns a PhaseEstimator that applies known signs, for signals
// whose sign pattern is known in advance. Zero entries are treated as positive.
func SignPhases(signs []float64) PhaseEstimator {
	return PhaseFunc(func(magnitudes []float64, _ []int) ([]complex128, error) {
		if len(signs) != len(magnitudes) {
			return nil, fmt.Errorf("%w: %d signs for %d samples",
				errs.ErrDimensionMismatch, len(signs), len(magnitudes))
		}
		out := make([]complex128, len(signs))
		for i, s := range signs {
			out[i] = 1
			if s < 0 {
				out[i] = -1
			}
		}
		return out, nil
	})
}
