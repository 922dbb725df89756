package qresample

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsample(t *testing.T) {
	out, err := Downsample(context.Background(), []float64{1, 2, 3, 4, 5, 6, 7, 8}, 8)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4.5}, out, 1e-12)
}

func TestDownsample_Error(t *testing.T) {
	_, err := Downsample(context.Background(), []float64{1, 2, 3, 4}, 3)
	require.ErrorIs(t, err, ErrUnsupportedFactor)
}

func TestUpsample_PaddedTail(t *testing.T) {
	out, err := Upsample(context.Background(), []float64{1, 2, 3}, 2, KernelLinear)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2, 2.5, 3, 3}, out, 1e-12)

	// Zero padding blends the last sample with the padded zero.
	config := DefaultConfig()
	config.Padding = PadZero
	sim, err := New(config, NewStateVectorBackend(0))
	require.NoError(t, err)
	zero, err := sim.Resample(context.Background(), RealSignal([]float64{1, 2, 3}), ModeUpsample, []int{2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2, 2.5, 3, 1.5}, zero.Real(), 1e-12)
}

func TestInterleaveRoundTrip(t *testing.T) {
	left := []float64{1, 2, 3}
	right := []float64{10, 20, 30}

	interleaved := Interleave([][]float64{left, right})
	assert.Equal(t, []float64{1, 10, 2, 20, 3, 30}, interleaved)

	planar := Deinterleave(interleaved, 2)
	require.Len(t, planar, 2)
	assert.Equal(t, left, planar[0])
	assert.Equal(t, right, planar[1])
}

func TestInterleave_Edges(t *testing.T) {
	assert.Nil(t, Interleave(nil))
	assert.Nil(t, Deinterleave([]float64{1, 2}, 0))
	// Shorter channels truncate the frame count.
	assert.Equal(t, []float64{1, 3}, Interleave([][]float64{{1, 2}, {3}}))
}

func TestRMSE(t *testing.T) {
	got, err := RMSE([]float64{1, 2}, []float64{1, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.4142135623730951, got, 1e-12)

	_, err = RMSE([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
