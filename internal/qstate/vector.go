// Package qstate holds the amplitude-domain data model shared by the encoder,
// the simulation backends and the reconstructor.
package qstate

import (
	"math"

	"github.com/tphakala/go-quantum-resampler/internal/simdops"
)

// Vector is a complex amplitude vector indexed by the binary encoding of basis states.
type Vector []complex128

// Norm2 returns the sum of squared magnitudes.
func (v Vector) Norm2() float64 { return simdops.Norm2(v) }

// Norm returns the L2 norm.
func (v Vector) Norm() float64 { return math.Sqrt(v.Norm2()) }

// Clone returns an independent copy.
func (v Vector) Clone() Vector { return append(Vector(nil), v...) }

// Probabilities returns |v[i]|^2 for every basis state.
func (v Vector) Probabilities() []float64 {
	p := make([]float64, len(v))
	simdops.Probabilities(p, v)
	return p
}

// IsUnit reports whether the vector has unit norm within tolerance.
func (v Vector) IsUnit(tolerance float64) bool {
	return math.Abs(v.Norm2()-1) <= tolerance
}
