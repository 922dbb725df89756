// Package testutil provides reusable test helpers for the resampler packages.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	NormTolerance    = 1e-9
	SignalTolerance  = 1e-9
)

// AssertUnitNorm verifies that the squared magnitudes of v sum to one.
func AssertUnitNorm(t *testing.T, v []complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	var sum float64
	for _, a := range v {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return assert.InDelta(t, 1.0, sum, tolerance, msgAndArgs...)
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []complex128, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if cmplx.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if cmplx.IsInf(v) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertRealSignal verifies that got matches want element-wise and has no imaginary part.
func AssertRealSignal(t *testing.T, want []float64, got []complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return false
	}
	for i := range want {
		if !assert.InDelta(t, want[i], real(got[i]), tolerance, "sample %d real part", i) {
			return false
		}
		if !assert.InDelta(t, 0, imag(got[i]), tolerance, "sample %d imaginary part", i) {
			return false
		}
	}
	return true
}

// AssertMonotonicDecreasing verifies that a slice is strictly decreasing.
func AssertMonotonicDecreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] >= s[i-1] {
			return assert.Fail(t, "not decreasing",
				"s[%d]=%g >= s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// Sine returns n samples of offset + sin(2*pi*cycles*i/n).
func Sine(n int, cycles, offset float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = offset + math.Sin(2*math.Pi*cycles*float64(i)/float64(n))
	}
	return s
}
