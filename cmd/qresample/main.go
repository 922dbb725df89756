// Command qresample runs one resampling request through the quantum circuit
// pipeline and prints the reconstructed signal.
//
// Usage:
//
//	qresample -mode down -factor 2 -signal 1,3,5,7
//	qresample -mode up -factor 4 -kernel linear
//	qresample -mode md -shape 4,4 -factor 2,2 -signal 1,2,...,16
//	qresample -exec shots -shots 100000 -seed 7
//	qresample -qasm -mode up -factor 2
//
// Flag defaults may be set with QRESAMPLE_* environment variables or a .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"

	qresample "github.com/tphakala/go-quantum-resampler"
	"github.com/tphakala/go-quantum-resampler/internal/logger"
)

// options holds parsed command-line options.
type options struct {
	mode    qresample.Mode
	factors []int
	shape   []int
	signal  []float64
	config  qresample.Config
	seed    uint64
	qasm    bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "qresample:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	def := loadDefaults()

	fs := flag.NewFlagSet("qresample", flag.ContinueOnError)
	var (
		mode     = fs.String("mode", def.mode, "Resampling mode: down, md, up")
		factor   = fs.String("factor", defaultFactor, "Comma-separated power-of-two factors, one per axis")
		shape    = fs.String("shape", "", "Comma-separated signal shape (default: one axis)")
		execMode = fs.String("exec", def.exec, "Execution mode: exact, shots")
		shots    = fs.Int("shots", def.shots, "Shots per patch in shot mode")
		kernel   = fs.String("kernel", def.kernel, "Interpolation kernel: nearest, linear, custom")
		angle    = fs.Float64("angle", 0, "Kernel angle in radians for -kernel custom")
		padding  = fs.String("padding", def.padding, "Padding policy: zero, repeat, strict")
		seed     = fs.Uint64("seed", def.seed, "Seed for shot sampling")
		qasm     = fs.Bool("qasm", false, "Print the circuit as OpenQASM")
		verbose  = fs.Bool("v", false, "Verbose output")
		values   = fs.String("signal", "", "Comma-separated input samples (default: test sine)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := def.logLevel
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true})

	opts, err := parseOptions(*mode, *factor, *shape, *execMode, *kernel, *padding, *values)
	if err != nil {
		return err
	}
	opts.config.Shots = *shots
	opts.config.KernelAngle = *angle
	opts.config.Logger = &log
	opts.seed = *seed
	opts.qasm = *qasm

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, opts)
}

// parseOptions converts flag strings into typed options.
func parseOptions(mode, factor, shape, execMode, kernel, padding, values string) (*options, error) {
	opts := &options{config: qresample.DefaultConfig()}
	var err error

	if opts.mode, err = qresample.ParseMode(mode); err != nil {
		return nil, err
	}
	if opts.config.Execution, err = qresample.ParseExecutionMode(execMode); err != nil {
		return nil, err
	}
	if opts.config.Kernel, err = qresample.ParseKernel(kernel); err != nil {
		return nil, err
	}
	if opts.config.Padding, err = qresample.ParsePaddingPolicy(padding); err != nil {
		return nil, err
	}
	if opts.factors, err = parseInts(factor); err != nil {
		return nil, fmt.Errorf("invalid -factor: %w", err)
	}

	if values == "" {
		opts.signal = testSignal(testSignalSamples)
	} else if opts.signal, err = parseFloats(values); err != nil {
		return nil, fmt.Errorf("invalid -signal: %w", err)
	}

	opts.shape = []int{len(opts.signal)}
	if shape != "" {
		if opts.shape, err = parseInts(shape); err != nil {
			return nil, fmt.Errorf("invalid -shape: %w", err)
		}
	}
	// One factor applies to every axis.
	if len(opts.factors) == 1 && len(opts.shape) > 1 {
		f := opts.factors[0]
		opts.factors = make([]int, len(opts.shape))
		for i := range opts.factors {
			opts.factors[i] = f
		}
	}
	return opts, nil
}

func execute(ctx context.Context, opts *options) error {
	sim, err := qresample.New(opts.config, qresample.NewStateVectorBackend(opts.seed))
	if err != nil {
		return err
	}

	run, err := sim.Prepare(qresample.RealSignal(opts.signal, opts.shape...), opts.mode, opts.factors)
	if err != nil {
		return err
	}

	info := qresample.GetInfo(run)
	fmt.Printf("Circuit: %s\n", info.Mode)
	fmt.Printf("  Qubits: %d (%d input, %d ancilla, %d flags)\n",
		info.NumQubits, info.InputQubits, info.Ancillas, info.Flags)
	fmt.Printf("  Gates: %d\n", info.Gates)
	fmt.Printf("  Gain: %.6f\n", info.Gain)
	fmt.Printf("  SIMD: %s\n", info.SIMDType)

	if opts.qasm {
		fmt.Println()
		fmt.Print(run.Circuit().QASM())
	}

	if err := run.Execute(ctx, sim.Config().Shots); err != nil {
		return err
	}
	out, err := run.Reconstruct()
	if err != nil {
		return err
	}

	fmt.Printf("\nInput:  %s %v\n", formatValues(opts.signal), opts.shape)
	fmt.Printf("Output: %s %v\n", formatValues(out.Real()), out.Shape)
	if out.StdErr != nil {
		fmt.Printf("StdErr: %s (%d shots)\n", formatValues(out.StdErr), out.Shots)
	}
	return nil
}

// testSignal generates an offset sine wave.
func testSignal(samples int) []float64 {
	s := make([]float64, samples)
	for i := range s {
		s[i] = testSignalOffset + math.Sin(2*math.Pi*testSignalCycles*float64(i)/float64(samples))
	}
	return s
}

func parseInts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func formatValues(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
