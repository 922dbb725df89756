package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/testutil"
)

func TestLowBand_DC(t *testing.T) {
	c, err := LowBand([]float64{2, 2, 2, 2}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, real(c[0]), 1e-12)
	assert.InDelta(t, 0.0, math.Abs(real(c[1]))+math.Abs(imag(c[1])), 1e-12)
}

func TestLowBandDistance(t *testing.T) {
	a := testutil.Sine(64, 1, 1)

	d, err := LowBandDistance(a, a, 4)
	require.NoError(t, err)
	assert.Zero(t, d)

	// high-frequency ripple leaves the low band untouched
	b := make([]float64, len(a))
	for i := range b {
		b[i] = a[i] + 0.5*math.Cos(2*math.Pi*20*float64(i)/64)
	}
	d, err = LowBandDistance(a, b, 4)
	require.NoError(t, err)
	assert.Less(t, d, 1e-9)

	rmse, err := RMSE(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5/math.Sqrt2, rmse, 1e-9)
}

func TestErrors(t *testing.T) {
	_, err := LowBand(nil, 1)
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
	_, err = LowBand([]float64{1, 2}, 5)
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
	_, err = RMSE([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}
