package qresample

import (
	"context"

	"github.com/tphakala/go-quantum-resampler/internal/spectrum"
)

// exactSimulator returns an exact-mode simulator over the reference backend.
func exactSimulator(config Config) (*Simulator, error) {
	config.Execution = ExecExact
	return New(config, NewStateVectorBackend(0))
}

// Downsample is a convenience function for one-shot exact 1D downsampling with
// equal-weight averaging. factor must be a power of two dividing len(input).
func Downsample(ctx context.Context, input []float64, factor int) ([]float64, error) {
	sim, err := exactSimulator(DefaultConfig())
	if err != nil {
		return nil, err
	}
	out, err := sim.Resample(ctx, RealSignal(input), ModeDownsample1D, []int{factor})
	if err != nil {
		return nil, err
	}
	return out.Real(), nil
}

// Upsample is a convenience function for one-shot exact 1D upsampling with
// the given interpolation kernel.
//
// Interpolation wraps around: on a power-of-two input the samples after the
// last input sample blend it with the first one. Other lengths are padded by
// repeating the last sample, so their tail holds that sample instead.
func Upsample(ctx context.Context, input []float64, factor int, kernel Kernel) ([]float64, error) {
	config := DefaultConfig()
	config.Kernel = kernel
	config.Padding = PadRepeat
	sim, err := exactSimulator(config)
	if err != nil {
		return nil, err
	}
	out, err := sim.Resample(ctx, RealSignal(input), ModeUpsample, []int{factor})
	if err != nil {
		return nil, err
	}
	return out.Real(), nil
}

// Downsample2D downsamples a row-major rows x cols image by factor on both axes.
func Downsample2D(ctx context.Context, input []float64, rows, cols, factor int) ([]float64, error) {
	sim, err := exactSimulator(DefaultConfig())
	if err != nil {
		return nil, err
	}
	out, err := sim.Resample(ctx, RealSignal(input, rows, cols), ModeDownsampleMD, []int{factor, factor})
	if err != nil {
		return nil, err
	}
	return out.Real(), nil
}

// LowBandDistance returns the relative distance between the lowest bins DFT
// coefficients of two signals, normalized by their lengths.
func LowBandDistance(a, b []float64, bins int) (float64, error) {
	return spectrum.LowBandDistance(a, b, bins)
}

// RMSE returns the root-mean-square error between equal-length signals.
func RMSE(a, b []float64) (float64, error) {
	return spectrum.RMSE(a, b)
}

// Interleave converts planar channels to interleaved frames.
// Output format: [c0[0], c1[0], ..., c0[1], c1[1], ...]
func Interleave(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}
	n := len(channels)
	result := make([]float64, frames*n)
	for i := range frames {
		for c, ch := range channels {
			result[i*n+c] = ch[i]
		}
	}
	return result
}

// Deinterleave converts interleaved frames to planar channels.
func Deinterleave(interleaved []float64, channels int) [][]float64 {
	if channels < 1 {
		return nil
	}
	frames := len(interleaved) / channels
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
		for i := range frames {
			out[c][i] = interleaved[i*channels+c]
		}
	}
	return out
}
