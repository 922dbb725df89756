// Package filter provides the coefficient sets used by the resampling stages:
// the anti-aliasing unitary of a decimation stage and the rotation angle of an
// interpolation stage.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

const (
	// unitTolerance bounds |C0²+C1²-1| for a valid pair.
	unitTolerance = 1e-9

	invSqrt2 = 1 / math.Sqrt2
)

// Pair is the coefficient pair of the decimation unitary
//
//	[ C0  C1 ]
//	[ -C1 C0 ]
//
// Applied to the least-significant qubit of an axis, the |0⟩ branch keeps
// C0*a[2j] + C1*a[2j+1], a two-tap low-pass filter followed by decimation.
type Pair struct {
	C0 float64 `json:"c0" msgpack:"c0"`
	C1 float64 `json:"c1" msgpack:"c1"`
}

// EqualWeight returns the pair that averages neighbouring samples.
func EqualWeight() Pair { return Pair{C0: invSqrt2, C1: invSqrt2} }

// NearestNeighbor returns the pair that keeps even samples and drops odd ones.
func NearestNeighbor() Pair { return Pair{C0: 1, C1: 0} }

// FromWeights normalizes two non-negative filter weights into a unitary pair.
func FromWeights(w0, w1 float64) (Pair, error) {
	if w0 < 0 || w1 < 0 || math.IsNaN(w0) || math.IsNaN(w1) {
		return Pair{}, fmt.Errorf("%w: filter weights must be non-negative, got (%g, %g)",
			errs.ErrInvalidConfig, w0, w1)
	}
	n := math.Hypot(w0, w1)
	if n == 0 || math.IsInf(n, 0) {
		return Pair{}, fmt.Errorf("%w: filter weights (%g, %g) cannot be normalized",
			errs.ErrInvalidConfig, w0, w1)
	}
	return Pair{C0: w0 / n, C1: w1 / n}, nil
}

// IsZero reports whether p is the zero value, which callers treat as EqualWeight.
func (p Pair) IsZero() bool { return p.C0 == 0 && p.C1 == 0 }

// Validate checks that the pair is norm preserving and has positive DC gain.
func (p Pair) Validate() error {
	if d := math.Abs(p.C0*p.C0 + p.C1*p.C1 - 1); !(d <= unitTolerance) {
		return fmt.Errorf("%w: filter pair (%g, %g) is not unit norm (deviation %g)",
			errs.ErrInvalidConfig, p.C0, p.C1, d)
	}
	if p.DCGain() <= 0 {
		return fmt.Errorf("%w: filter pair (%g, %g) has non-positive DC gain",
			errs.ErrInvalidConfig, p.C0, p.C1)
	}
	return nil
}

// DCGain returns the response of the kept branch to a constant signal.
func (p Pair) DCGain() float64 { return p.C0 + p.C1 }

// Matrix returns the 2x2 unitary in row-major order.
func (p Pair) Matrix() [4]float64 {
	return [4]float64{p.C0, p.C1, -p.C1, p.C0}
}
