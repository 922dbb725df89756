// Package encoding maps classical signals onto normalized amplitude vectors.
//
// The encoder pads every axis to a power of two, divides by the L2 norm of the
// padded signal and keeps that norm as the normalization scale so the
// reconstructor can restore the original magnitude.
package encoding

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/qstate"
	"github.com/tphakala/go-quantum-resampler/internal/register"
	"github.com/tphakala/go-quantum-resampler/internal/simdops"
)

// DefaultTolerance is the unit-norm tolerance applied when none is given.
const DefaultTolerance = 1e-9

// Padding selects how axes whose length is not a power of two are extended.
type Padding int

const (
	// PadZero appends zeros.
	PadZero Padding = iota

	// PadRepeat repeats the last sample along the axis.
	PadRepeat

	// PadStrict rejects lengths that are not powers of two.
	PadStrict
)

// String returns the configuration name of the policy.
func (p Padding) String() string {
	switch p {
	case PadZero:
		return "zero"
	case PadRepeat:
		return "repeat"
	case PadStrict:
		return "strict"
	default:
		return fmt.Sprintf("Padding(%d)", int(p))
	}
}

// ParsePadding converts a configuration name into a Padding.
func ParsePadding(s string) (Padding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero":
		return PadZero, nil
	case "repeat", "repeat-last":
		return PadRepeat, nil
	case "strict":
		return PadStrict, nil
	default:
		return 0, fmt.Errorf("%w: unknown padding policy %q", errs.ErrInvalidConfig, s)
	}
}

// Encoded is the result of encoding one signal.
type Encoded struct {
	// Amplitudes is the unit-norm state over Register.
	Amplitudes qstate.Vector

	// Scale is the L2 norm of the padded signal.
	Scale float64

	// Register is the qubit partition derived from the signal shape.
	Register register.Register

	// Shape is the original (unpadded) shape.
	Shape []int
}

// Encode pads values (row-major with the given shape) and normalizes them.
func Encode(values []complex128, shape []int, policy Padding, tolerance float64) (*Encoded, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if err := checkShape(len(values), shape); err != nil {
		return nil, err
	}

	reg, err := register.FromShape(shape)
	if err != nil {
		return nil, err
	}

	padded, err := Pad(values, shape, reg.PaddedShape(), policy)
	if err != nil {
		return nil, err
	}

	norm := math.Sqrt(simdops.Norm2(padded))
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("%w: L2 norm is %v", errs.ErrDegenerateSignal, norm)
	}

	amps := make(qstate.Vector, len(padded))
	simdops.ScaleComplex(amps, padded, 1/norm)

	if dev := math.Abs(amps.Norm2() - 1); dev > tolerance {
		return nil, fmt.Errorf("%w: normalized state deviates from unit norm by %g", errs.ErrDegenerateSignal, dev)
	}

	return &Encoded{
		Amplitudes: amps,
		Scale:      norm,
		Register:   reg,
		Shape:      append([]int(nil), shape...),
	}, nil
}

// Pad extends a row-major signal of the given shape to the target shape.
func Pad(values []complex128, shape, target []int, policy Padding) ([]complex128, error) {
	if len(shape) != len(target) {
		return nil, fmt.Errorf("%w: shape has %d axes, target %d", errs.ErrDimensionMismatch, len(shape), len(target))
	}
	same := true
	for d := range shape {
		if target[d] < shape[d] {
			return nil, fmt.Errorf("%w: axis %d cannot shrink from %d to %d", errs.ErrDimensionMismatch, d, shape[d], target[d])
		}
		if target[d] != shape[d] {
			same = false
		}
	}
	if same {
		return append([]complex128(nil), values...), nil
	}
	if policy == PadStrict {
		for d := range shape {
			if shape[d] != target[d] {
				return nil, fmt.Errorf("%w: axis %d length %d is not a power of two (strict padding)",
					errs.ErrDimensionMismatch, d, shape[d])
			}
		}
	}

	out := make([]complex128, Product(target))
	srcStrides := Strides(shape)
	idx := make([]int, len(target))
	for flat := range out {
		src, ok := 0, true
		for d, i := range idx {
			if i >= shape[d] {
				if policy == PadZero {
					ok = false
					break
				}
				i = shape[d] - 1
			}
			src += i * srcStrides[d]
		}
		if ok {
			out[flat] = values[src]
		}
		next(idx, target)
	}
	return out, nil
}

// Product returns the number of elements of a shape.
func Product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// Strides returns row-major strides for a shape.
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	s := 1
	for d := len(shape) - 1; d >= 0; d-- {
		strides[d] = s
		s *= shape[d]
	}
	return strides
}

// next advances a row-major multi-index in place.
func next(idx, shape []int) {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < shape[d] {
			return
		}
		idx[d] = 0
	}
}

func checkShape(n int, shape []int) error {
	if n == 0 {
		return fmt.Errorf("%w: empty signal", errs.ErrDegenerateSignal)
	}
	if len(shape) == 0 {
		return fmt.Errorf("%w: empty shape", errs.ErrDimensionMismatch)
	}
	if p := Product(shape); p != n {
		return fmt.Errorf("%w: shape %v holds %d samples, signal has %d", errs.ErrDimensionMismatch, shape, p, n)
	}
	return nil
}
