// Package spectrum provides the signal-quality metrics used to judge a
// resampling result: low-band spectral agreement and RMSE.
package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

// LowBand returns the first bins DFT coefficients of x, normalized by len(x)
// so that signals of different lengths are comparable.
func LowBand(x []float64, bins int) ([]complex128, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty signal", errs.ErrDimensionMismatch)
	}
	half := len(x)/2 + 1
	if bins < 1 || bins > half {
		return nil, fmt.Errorf("%w: %d low bins requested from %d available",
			errs.ErrDimensionMismatch, bins, half)
	}
	fft := fourier.NewFFT(len(x))
	coeffs := fft.Coefficients(nil, x)
	out := make([]complex128, bins)
	scale := complex(1/float64(len(x)), 0)
	for i := range out {
		out[i] = coeffs[i] * scale
	}
	return out, nil
}

// LowBandDistance returns the relative L2 distance between the lowest bins
// coefficients of a and b: ||A-B|| / ||A||.
func LowBandDistance(a, b []float64, bins int) (float64, error) {
	ca, err := LowBand(a, bins)
	if err != nil {
		return 0, err
	}
	cb, err := LowBand(b, bins)
	if err != nil {
		return 0, err
	}
	var diff, ref float64
	for i := range ca {
		d := cmplx.Abs(ca[i] - cb[i])
		r := cmplx.Abs(ca[i])
		diff += d * d
		ref += r * r
	}
	if ref == 0 {
		return math.Sqrt(diff), nil
	}
	return math.Sqrt(diff / ref), nil
}

// RMSE returns the root-mean-square error between equal-length signals.
func RMSE(a, b []float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("%w: lengths %d and %d", errs.ErrDimensionMismatch, len(a), len(b))
	}
	return floats.Distance(a, b, 2) / math.Sqrt(float64(len(a))), nil
}
