package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

func TestPresetsAreValid(t *testing.T) {
	for name, p := range map[string]Pair{
		"equal":   EqualWeight(),
		"nearest": NearestNeighbor(),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Validate())
		})
	}
	assert.InDelta(t, math.Sqrt2, EqualWeight().DCGain(), 1e-12)
}

func TestFromWeights(t *testing.T) {
	p, err := FromWeights(3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, p.C0, 1e-12)
	assert.InDelta(t, 0.8, p.C1, 1e-12)
	require.NoError(t, p.Validate())

	_, err = FromWeights(0, 0)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	_, err = FromWeights(-1, 1)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestPairValidateRejects(t *testing.T) {
	require.ErrorIs(t, Pair{C0: 1, C1: 1}.Validate(), errs.ErrInvalidConfig)
	require.ErrorIs(t, Pair{C0: -1, C1: 0}.Validate(), errs.ErrInvalidConfig)
	require.ErrorIs(t, Pair{C0: math.NaN(), C1: 0}.Validate(), errs.ErrInvalidConfig)
}

func TestPairMatrixIsOrthogonal(t *testing.T) {
	m := EqualWeight().Matrix()
	// rows are orthonormal
	assert.InDelta(t, 1.0, m[0]*m[0]+m[1]*m[1], 1e-12)
	assert.InDelta(t, 1.0, m[2]*m[2]+m[3]*m[3], 1e-12)
	assert.InDelta(t, 0.0, m[0]*m[2]+m[1]*m[3], 1e-12)
}

func TestKernelAngle(t *testing.T) {
	a, err := Angle(KernelNearest, 1)
	require.NoError(t, err)
	assert.Zero(t, a)

	a, err = Angle(KernelLinear, 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, a, 1e-15)

	a, err = Angle(KernelCustom, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, a, 1e-15)

	_, err = Angle(KernelCustom, 2)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
	_, err = Angle(KernelCustom, -0.1)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestParseKernel(t *testing.T) {
	for _, k := range []Kernel{KernelNearest, KernelLinear, KernelCustom} {
		got, err := ParseKernel(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKernel("sinc")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestWeightsSumToOne(t *testing.T) {
	for _, theta := range []float64{0, 0.2, math.Pi / 4, 1.1, MaxAngle} {
		s, n := Weights(theta)
		assert.InDelta(t, 1.0, s+n, 1e-12)
	}
	s, n := Weights(math.Pi / 4)
	assert.InDelta(t, 0.5, s, 1e-12)
	assert.InDelta(t, 0.5, n, 1e-12)
}
