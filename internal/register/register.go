// Package register describes the qubit register that holds an amplitude-encoded signal.
//
// A register is partitioned into one sub-register per signal axis. The layout is
// row-major: the last axis occupies the least-significant qubits, and qubit q is
// bit q of a basis-state index.
package register

import (
	"fmt"
	"math/bits"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

// Register is an immutable partition of qubit indices into per-axis sub-registers.
type Register struct {
	sizes   []int
	offsets []int
}

// FromShape builds the register for a signal of the given per-axis lengths.
// Axis d receives ceil(log2 shape[d]) qubits.
func FromShape(shape []int) (Register, error) {
	if len(shape) == 0 {
		return Register{}, fmt.Errorf("%w: empty shape", errs.ErrDimensionMismatch)
	}
	sizes := make([]int, len(shape))
	for d, n := range shape {
		if n < 1 {
			return Register{}, fmt.Errorf("%w: axis %d has length %d", errs.ErrDimensionMismatch, d, n)
		}
		sizes[d] = CeilLog2(n)
	}
	return FromSizes(sizes), nil
}

// FromSizes builds a register from explicit sub-register sizes.
func FromSizes(sizes []int) Register {
	r := Register{
		sizes:   append([]int(nil), sizes...),
		offsets: make([]int, len(sizes)),
	}
	offset := 0
	for d := len(sizes) - 1; d >= 0; d-- {
		r.offsets[d] = offset
		offset += sizes[d]
	}
	return r
}

// Dims returns the number of axes.
func (r Register) Dims() int { return len(r.sizes) }

// Size returns the total number of qubits.
func (r Register) Size() int {
	total := 0
	for _, s := range r.sizes {
		total += s
	}
	return total
}

// SubSize returns the number of qubits assigned to axis d.
func (r Register) SubSize(d int) int { return r.sizes[d] }

// Offset returns the index of the least-significant qubit of axis d.
func (r Register) Offset(d int) int { return r.offsets[d] }

// Sizes returns a copy of the per-axis sub-register sizes.
func (r Register) Sizes() []int { return append([]int(nil), r.sizes...) }

// Qubits returns the qubit indices of axis d, least significant first.
func (r Register) Qubits(d int) []int {
	q := make([]int, r.sizes[d])
	for i := range q {
		q[i] = r.offsets[d] + i
	}
	return q
}

// PaddedShape returns the per-axis lengths after padding to powers of two.
func (r Register) PaddedShape() []int {
	shape := make([]int, len(r.sizes))
	for d, s := range r.sizes {
		shape[d] = 1 << s
	}
	return shape
}

// StateLen returns the length of an amplitude vector over the register.
func (r Register) StateLen() int { return 1 << r.Size() }

// CeilLog2 returns the smallest k with 2^k >= n, for n >= 1.
func CeilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
