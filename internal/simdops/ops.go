// Package simdops provides SIMD-accelerated kernels over amplitude and probability vectors.
//
// Complex vectors are split into real and imaginary planes so that the
// float64 kernels of github.com/tphakala/simd can do the heavy lifting.
package simdops

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// SplitComplex copies the real and imaginary parts of v into re and im.
// Both destinations must have at least len(v) elements.
func SplitComplex(re, im []float64, v []complex128) {
	for i, a := range v {
		re[i] = real(a)
		im[i] = imag(a)
	}
}

// Norm2 returns the squared L2 norm of v.
func Norm2(v []complex128) float64 {
	if len(v) == 0 {
		return 0
	}
	re := make([]float64, len(v))
	im := make([]float64, len(v))
	SplitComplex(re, im, v)
	return f64.DotProduct(re, re) + f64.DotProduct(im, im)
}

// Probabilities writes |v[i]|^2 into dst and returns the total mass.
func Probabilities(dst []float64, v []complex128) float64 {
	for i, a := range v {
		re, im := real(a), imag(a)
		dst[i] = re*re + im*im
	}
	return f64.Sum(dst[:len(v)])
}

// ScaleComplex writes v[i]*s into dst.
func ScaleComplex(dst, v []complex128, s float64) {
	if len(v) == 0 {
		return
	}
	re := make([]float64, len(v))
	im := make([]float64, len(v))
	SplitComplex(re, im, v)
	f64.Scale(re, re, s)
	f64.Scale(im, im, s)
	for i := range v {
		dst[i] = complex(re[i], im[i])
	}
}

// Scale writes a[i]*s into dst.
func Scale(dst, a []float64, s float64) {
	f64.Scale(dst, a, s)
}

// MulComplex writes the element-wise product a[i]*b[i] into dst.
func MulComplex(dst, a, b []complex128) {
	c128.Mul(dst, a, b)
}

// Info reports the SIMD instruction set detected at runtime.
func Info() string {
	return cpu.Info()
}
