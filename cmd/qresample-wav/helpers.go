package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"

	qresample "github.com/tphakala/go-quantum-resampler"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file         *os.File
	decoder      *wav.Decoder
	rate         int
	channels     int
	bitDepth     int
	totalSamples int64
	format       *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, log zerolog.Logger) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	log.Debug().
		Int("rate", format.SampleRate).
		Int("channels", format.NumChannels).
		Int("bit_depth", bitDepth).
		Msg("input format")

	// Duration is only used for reporting
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:         inputFile,
		decoder:      decoder,
		rate:         format.SampleRate,
		channels:     format.NumChannels,
		bitDepth:     bitDepth,
		totalSamples: int64(duration.Seconds() * float64(format.SampleRate)),
		format:       format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// readChannels decodes the whole file into planar channels normalized to [-1, 1].
func (w *wavInputInfo) readChannels() ([][]float64, error) {
	buf, err := w.decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	invMaxVal := 1.0 / getMaxValue(w.bitDepth)
	interleaved := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		interleaved[i] = float64(s) * invMaxVal
	}
	return qresample.Deinterleave(interleaved, w.channels), nil
}

// resampleOptions configures the per-channel simulators.
type resampleOptions struct {
	factor int
	up     bool
	patch  int
	shots  int
	seed   uint64
	kernel qresample.Kernel
	log    *zerolog.Logger
}

// outputLen returns the resampled length of n samples.
func (o resampleOptions) outputLen(n int) int {
	if o.up {
		return n * o.factor
	}
	return n / o.factor
}

// channelResampler resamples one channel in fixed-size patches.
type channelResampler struct {
	sim  *qresample.Simulator
	opts resampleOptions
}

// createChannelResamplers creates one simulator, with its own backend, per channel.
func createChannelResamplers(numChannels int, opts resampleOptions) ([]*channelResampler, error) {
	if opts.factor < 1 || opts.patch < opts.factor {
		return nil, fmt.Errorf("patch size %d must be at least the factor %d", opts.patch, opts.factor)
	}
	resamplers := make([]*channelResampler, numChannels)
	for ch := range numChannels {
		config := qresample.DefaultConfig()
		config.PatchShape = []int{opts.patch}
		config.Kernel = opts.kernel
		config.Padding = qresample.PadRepeat
		config.EnableParallel = true
		config.Logger = opts.log
		if opts.shots > 0 {
			config.Execution = qresample.ExecShots
			config.Shots = opts.shots
		}
		sim, err := qresample.New(config, qresample.NewStateVectorBackend(opts.seed+uint64(ch)))
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler for channel %d: %w", ch, err)
		}
		resamplers[ch] = &channelResampler{sim: sim, opts: opts}
	}
	return resamplers, nil
}

// Process resamples a whole channel. The tail is padded by repeating the last
// sample up to a patch boundary and trimmed afterwards. In shot mode the
// samples are offset into the positive range so that magnitudes carry the sign.
func (c *channelResampler) Process(ctx context.Context, samples []float64) ([]float64, error) {
	n := len(samples)
	outLen := c.opts.outputLen(n)
	if n == 0 || isSilent(samples) {
		return make([]float64, outLen), nil
	}

	patches := (n + c.opts.patch - 1) / c.opts.patch
	padded := make([]float64, patches*c.opts.patch)
	copy(padded, samples)
	for i := n; i < len(padded); i++ {
		padded[i] = samples[n-1]
	}

	offset := 0.0
	if c.opts.shots > 0 {
		offset = shotOffset
		for i := range padded {
			padded[i] += offset
		}
	}

	mode := qresample.ModeDownsample1D
	if c.opts.up {
		mode = qresample.ModeUpsample
	}
	out, err := c.sim.Resample(ctx, qresample.RealSignal(padded), mode, []int{c.opts.factor})
	if err != nil {
		return nil, err
	}

	result := out.Real()[:outLen]
	for i := range result {
		result[i] -= offset
	}
	return result, nil
}

func isSilent(samples []float64) bool {
	for _, s := range samples {
		if s != 0 {
			return false
		}
	}
	return true
}

// resampleChannelData resamples every channel, concurrently when parallel is set.
func resampleChannelData(
	ctx context.Context,
	resamplers []*channelResampler,
	channels [][]float64,
	parallel bool,
) ([][]float64, error) {
	if len(resamplers) != len(channels) {
		return nil, fmt.Errorf("%d resamplers for %d channels", len(resamplers), len(channels))
	}
	if parallel && len(channels) > 1 {
		return resampleParallel(ctx, resamplers, channels)
	}
	return resampleSequential(ctx, resamplers, channels)
}

// resampleParallel processes channels concurrently.
func resampleParallel(ctx context.Context, resamplers []*channelResampler, channels [][]float64) ([][]float64, error) {
	resampled := make([][]float64, len(channels))
	var wg sync.WaitGroup
	var processErr error
	var errMu sync.Mutex

	for ch := range channels {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()
			out, err := resamplers[channel].Process(ctx, channels[channel])
			if err != nil {
				errMu.Lock()
				if processErr == nil {
					processErr = fmt.Errorf("resampling failed on channel %d: %w", channel, err)
				}
				errMu.Unlock()
				return
			}
			resampled[channel] = out
		}(ch)
	}
	wg.Wait()

	if processErr != nil {
		return nil, processErr
	}
	return resampled, nil
}

// resampleSequential processes channels one by one.
func resampleSequential(ctx context.Context, resamplers []*channelResampler, channels [][]float64) ([][]float64, error) {
	resampled := make([][]float64, len(channels))
	for ch := range channels {
		out, err := resamplers[ch].Process(ctx, channels[ch])
		if err != nil {
			return nil, fmt.Errorf("resampling failed on channel %d: %w", ch, err)
		}
		resampled[ch] = out
	}
	return resampled, nil
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file     *os.File
	encoder  *wav.Encoder
	format   *audio.Format
	bitDepth int
}

// createWAVOutput creates the output file and a PCM encoder.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &wavOutputWriter{
		file:     outputFile,
		encoder:  wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		format:   &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		bitDepth: bitDepth,
	}, nil
}

// WriteChannels interleaves planar channels, clamps them to [-1, 1] and
// writes them as integer PCM samples.
func (w *wavOutputWriter) WriteChannels(channels [][]float64) error {
	interleaved := qresample.Interleave(channels)
	maxVal := getMaxValue(w.bitDepth)
	data := make([]int, len(interleaved))
	for i, s := range interleaved {
		s = max(-1, min(1, s))
		data[i] = int(s * maxVal)
	}
	buf := &audio.IntBuffer{Format: w.format, Data: data, SourceBitDepth: w.bitDepth}
	if err := w.encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}
