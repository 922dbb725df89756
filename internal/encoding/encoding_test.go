package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/testutil"
)

func complexOf(values ...float64) []complex128 {
	out := make([]complex128, len(values))
	for i, v := range values {
		out[i] = complex(v, 0)
	}
	return out
}

func TestEncode_UnitNormAndScale(t *testing.T) {
	enc, err := Encode(complexOf(1, 3, 5, 7), []int{4}, PadZero, 0)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(84), enc.Scale, 1e-12)
	testutil.AssertUnitNorm(t, enc.Amplitudes, DefaultTolerance)
	assert.Equal(t, 2, enc.Register.Size())
	assert.InDelta(t, 1/math.Sqrt(84), real(enc.Amplitudes[0]), 1e-12)
}

func TestEncode_ComplexInput(t *testing.T) {
	enc, err := Encode([]complex128{1i, complex(1, 1)}, []int{2}, PadStrict, 0)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(3), enc.Scale, 1e-12)
	testutil.AssertUnitNorm(t, enc.Amplitudes, DefaultTolerance)
}

func TestEncode_ZeroSignalIsDegenerate(t *testing.T) {
	_, err := Encode(complexOf(0, 0, 0, 0), []int{4}, PadZero, 0)
	require.ErrorIs(t, err, errs.ErrDegenerateSignal)

	_, err = Encode(nil, []int{0}, PadZero, 0)
	require.ErrorIs(t, err, errs.ErrDegenerateSignal)
}

func TestEncode_ZeroPadding(t *testing.T) {
	enc, err := Encode(complexOf(3, 4, 0, 0, 0, 0), []int{6}, PadZero, 0)
	require.NoError(t, err)

	require.Len(t, enc.Amplitudes, 8)
	assert.InDelta(t, 5, enc.Scale, 1e-12)
	assert.Zero(t, enc.Amplitudes[6])
	assert.Zero(t, enc.Amplitudes[7])
	assert.Equal(t, []int{6}, enc.Shape)
}

func TestEncode_RepeatPadding(t *testing.T) {
	enc, err := Encode(complexOf(1, 1, 2), []int{3}, PadRepeat, 0)
	require.NoError(t, err)

	// Padded signal is [1 1 2 2], whose norm is sqrt(10).
	assert.InDelta(t, math.Sqrt(10), enc.Scale, 1e-12)
	assert.Equal(t, enc.Amplitudes[2], enc.Amplitudes[3])
}

func TestEncode_StrictPaddingRejectsNonPowerOfTwo(t *testing.T) {
	_, err := Encode(complexOf(1, 2, 3), []int{3}, PadStrict, 0)
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}

func TestEncode_ShapeMismatch(t *testing.T) {
	_, err := Encode(complexOf(1, 2, 3), []int{2, 2}, PadZero, 0)
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}

func TestPad_TwoDimensional(t *testing.T) {
	// 2x3 signal padded to 2x4: the new column repeats the last one.
	values := complexOf(
		1, 2, 3,
		4, 5, 6,
	)
	out, err := Pad(values, []int{2, 3}, []int{2, 4}, PadRepeat)
	require.NoError(t, err)
	assert.Equal(t, complexOf(1, 2, 3, 3, 4, 5, 6, 6), out)

	out, err = Pad(values, []int{2, 3}, []int{2, 4}, PadZero)
	require.NoError(t, err)
	assert.Equal(t, complexOf(1, 2, 3, 0, 4, 5, 6, 0), out)
}

func TestParsePadding(t *testing.T) {
	for _, p := range []Padding{PadZero, PadRepeat, PadStrict} {
		got, err := ParsePadding(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePadding("mirror")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestPatchifyDepatchify(t *testing.T) {
	// 4x4 signal split into 2x2 patches.
	values := make([]complex128, 16)
	for i := range values {
		values[i] = complex(float64(i), 0)
	}

	patches, grid, err := Patchify(values, []int{4, 4}, []int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, grid)
	require.Len(t, patches, 4)
	assert.Equal(t, complexOf(0, 1, 4, 5), patches[0])
	assert.Equal(t, complexOf(2, 3, 6, 7), patches[1])
	assert.Equal(t, complexOf(10, 11, 14, 15), patches[3])

	out, shape, err := Depatchify(patches, []int{2, 2}, grid)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4}, shape)
	assert.Equal(t, values, out)
}

func TestPatchify_WholeSignal(t *testing.T) {
	values := complexOf(1, 2, 3, 4)
	patches, grid, err := Patchify(values, []int{4}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, grid)
	assert.Equal(t, [][]complex128{values}, patches)
}

func TestPatchify_NotDivisible(t *testing.T) {
	_, _, err := Patchify(complexOf(1, 2, 3, 4, 5, 6), []int{6}, []int{4})
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}

func TestDepatchify_ResampledPatches(t *testing.T) {
	// Two 1-sample patches (e.g. after downsampling 2-sample patches) on a 1x2 grid.
	out, shape, err := Depatchify([][]complex128{{7}, {9}}, []int{1}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, shape)
	assert.Equal(t, complexOf(7, 9), out)
}
