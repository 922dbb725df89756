package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qresample "github.com/tphakala/go-quantum-resampler"
)

func testOptions() resampleOptions {
	return resampleOptions{factor: 2, patch: 8, seed: 1, kernel: qresample.KernelLinear}
}

func sine(n int, cycles float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 0.5 * math.Sin(2*math.Pi*cycles*float64(i)/float64(n))
	}
	return s
}

func TestOpenWAVInput_FileNotFound(t *testing.T) {
	_, err := openWAVInput("/nonexistent/file.wav", zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenWAVInput_InvalidWAV(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.wav")
	err := os.WriteFile(invalidFile, []byte("not a wav file"), 0o644)
	require.NoError(t, err)

	_, err = openWAVInput(invalidFile, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestCreateWAVOutput_InvalidDirectory(t *testing.T) {
	_, err := createWAVOutput("/nonexistent/dir/out.wav", 8000, 16, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	left := sine(64, 2)
	right := sine(64, 3)

	output, err := createWAVOutput(path, 16000, 16, 2)
	require.NoError(t, err)
	require.NoError(t, output.WriteChannels([][]float64{left, right}))
	require.NoError(t, output.Close())

	input, err := openWAVInput(path, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = input.Close() }()
	assert.Equal(t, 16000, input.rate)
	assert.Equal(t, 2, input.channels)
	assert.Equal(t, 16, input.bitDepth)

	channels, err := input.readChannels()
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.InDeltaSlice(t, left, channels[0], 1e-4)
	assert.InDeltaSlice(t, right, channels[1], 1e-4)
}

func TestCreateChannelResamplers(t *testing.T) {
	resamplers, err := createChannelResamplers(2, testOptions())
	require.NoError(t, err)
	assert.Len(t, resamplers, 2)

	opts := testOptions()
	opts.patch = 1
	_, err = createChannelResamplers(1, opts)
	assert.Error(t, err)
}

func TestChannelResampler_Downsample(t *testing.T) {
	resamplers, err := createChannelResamplers(1, testOptions())
	require.NoError(t, err)

	// 13 samples: the last patch is padded by repetition
	input := []float64{0.1, 0.3, -0.2, -0.4, 0.5, 0.7, 0, 0, 0.2, 0.2, -0.6, -0.2, 0.9}
	out, err := resamplers[0].Process(context.Background(), input)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.2, -0.3, 0.6, 0, 0.2, -0.4}, out, 1e-12)
}

func TestChannelResampler_Upsample(t *testing.T) {
	opts := testOptions()
	opts.up = true
	opts.kernel = qresample.KernelNearest
	resamplers, err := createChannelResamplers(1, opts)
	require.NoError(t, err)

	out, err := resamplers[0].Process(context.Background(), []float64{0.1, -0.2, 0.3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.1, -0.2, -0.2, 0.3, 0.3}, out, 1e-12)
}

func TestChannelResampler_Silence(t *testing.T) {
	resamplers, err := createChannelResamplers(1, testOptions())
	require.NoError(t, err)

	out, err := resamplers[0].Process(context.Background(), make([]float64, 16))
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 8), out)
}

func TestChannelResampler_Shots(t *testing.T) {
	opts := testOptions()
	opts.shots = 200_000
	resamplers, err := createChannelResamplers(1, opts)
	require.NoError(t, err)

	input := sine(32, 1)
	out, err := resamplers[0].Process(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, out, 16)
	for i, v := range out {
		want := (input[2*i] + input[2*i+1]) / 2
		assert.InDelta(t, want, v, 0.05, "sample %d", i)
	}
}

func TestResampleChannelData_ParallelMatchesSequential(t *testing.T) {
	channels := [][]float64{sine(64, 2), sine(64, 5), sine(64, 1)}

	seqResamplers, err := createChannelResamplers(len(channels), testOptions())
	require.NoError(t, err)
	seq, err := resampleChannelData(context.Background(), seqResamplers, channels, false)
	require.NoError(t, err)

	parResamplers, err := createChannelResamplers(len(channels), testOptions())
	require.NoError(t, err)
	par, err := resampleChannelData(context.Background(), parResamplers, channels, true)
	require.NoError(t, err)

	assert.Equal(t, seq, par)
}

func TestResampleChannelData_Mismatch(t *testing.T) {
	resamplers, err := createChannelResamplers(1, testOptions())
	require.NoError(t, err)
	_, err = resampleChannelData(context.Background(), resamplers, [][]float64{{1}, {2}}, false)
	assert.Error(t, err)
}

func TestResampleWAV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")

	output, err := createWAVOutput(in, 16000, 16, 1)
	require.NoError(t, err)
	require.NoError(t, output.WriteChannels([][]float64{sine(100, 2)}))
	require.NoError(t, output.Close())

	stats, err := resampleWAV(context.Background(), in, out, testOptions(), true, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 8000, stats.outputRate)
	assert.Equal(t, int64(100), stats.inputSamples)
	assert.Equal(t, int64(50), stats.outputSamples)

	input, err := openWAVInput(out, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = input.Close() }()
	assert.Equal(t, 8000, input.rate)
}

func TestGetMaxValue(t *testing.T) {
	assert.InDelta(t, maxInt16, getMaxValue(16), 0)
	assert.InDelta(t, maxInt24, getMaxValue(24), 0)
	assert.InDelta(t, maxInt32, getMaxValue(32), 0)
	assert.InDelta(t, maxInt16, getMaxValue(8), 0)
}
