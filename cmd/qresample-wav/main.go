// Command qresample-wav resamples PCM WAV files by a power-of-two factor
// through the quantum circuit pipeline.
//
// Usage:
//
//	qresample-wav -factor 2 input.wav output.wav        # Halve the sample rate
//	qresample-wav -up -factor 2 input.wav output.wav    # Double the sample rate
//	qresample-wav -shots 100000 input.wav output.wav    # Sampled execution
//
// Each channel is cut into patches of -patch samples that share one circuit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	qresample "github.com/tphakala/go-quantum-resampler"
	"github.com/tphakala/go-quantum-resampler/internal/logger"
)

const (
	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// WAV audio format code for integer PCM
	wavFormatPCM = 1

	// CLI defaults
	defaultFactor    = 2
	defaultPatchSize = 1024
	minRequiredArgs  = 2

	// Added to normalized samples in shot mode so every amplitude is positive
	shotOffset = 1.5
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "qresample-wav:", err)
		os.Exit(1)
	}
}

func run() error {
	factor := flag.Int("factor", defaultFactor, "Power-of-two resampling factor")
	up := flag.Bool("up", false, "Upsample instead of downsample")
	patch := flag.Int("patch", defaultPatchSize, "Patch size in samples (power of two)")
	shots := flag.Int("shots", 0, "Shots per patch; 0 uses exact state-vector execution")
	seed := flag.Uint64("seed", 1, "Seed for shot sampling")
	kernel := flag.String("kernel", "linear", "Interpolation kernel for -up: nearest, linear")
	parallel := flag.Bool("parallel", true, "Enable parallel channel processing")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true})

	k, err := qresample.ParseKernel(*kernel)
	if err != nil {
		return err
	}
	if *patch < 1 || *patch&(*patch-1) != 0 {
		return fmt.Errorf("patch size %d is not a power of two", *patch)
	}

	opts := resampleOptions{
		factor: *factor,
		up:     *up,
		patch:  *patch,
		shots:  *shots,
		seed:   *seed,
		kernel: k,
	}
	if *verbose {
		opts.log = &log
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inputPath, outputPath := args[0], args[1]
	start := time.Now()
	stats, err := resampleWAV(ctx, inputPath, outputPath, opts, *parallel, log)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Resampled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth)
	fmt.Printf("  %d samples -> %d samples\n", stats.inputSamples, stats.outputSamples)
	fmt.Printf("  Duration: %.2fs\n", elapsed.Seconds())
	return nil
}

type resampleStats struct {
	inputRate     int
	outputRate    int
	channels      int
	bitDepth      int
	inputSamples  int64
	outputSamples int64
}

func resampleWAV(
	ctx context.Context,
	inputPath, outputPath string,
	opts resampleOptions,
	parallel bool,
	log zerolog.Logger,
) (stats *resampleStats, err error) {
	input, err := openWAVInput(inputPath, log)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	channels, err := input.readChannels()
	if err != nil {
		return nil, err
	}

	outputRate := input.rate / opts.factor
	if opts.up {
		outputRate = input.rate * opts.factor
	}

	resamplers, err := createChannelResamplers(input.channels, opts)
	if err != nil {
		return nil, err
	}
	resampled, err := resampleChannelData(ctx, resamplers, channels, parallel)
	if err != nil {
		return nil, err
	}

	output, err := createWAVOutput(outputPath, outputRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close errors matter on the success path: the encoder writes the header on close
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()
	if err := output.WriteChannels(resampled); err != nil {
		return nil, err
	}

	stats = &resampleStats{
		inputRate:  input.rate,
		outputRate: outputRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	if len(channels) > 0 {
		stats.inputSamples = int64(len(channels[0]))
		stats.outputSamples = int64(len(resampled[0]))
	}
	log.Debug().Int64("samples", stats.outputSamples).Msg("output written")
	return stats, nil
}
