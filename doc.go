// Package qresample simulates signal resampling expressed as quantum circuits.
//
// A classical signal is amplitude-encoded into a qubit register, transformed by
// a purpose-built circuit that halves or doubles each axis, simulated by a
// pluggable backend, and reconstructed into a classical signal.
//
// # Quick Start
//
// For simple one-shot resampling:
//
//	out, err := qresample.Downsample(ctx, []float64{1, 3, 5, 7}, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// out is [2 6]
//
// For shot-based simulation with a seeded backend:
//
//	config := qresample.DefaultConfig()
//	config.Execution = qresample.ExecShots
//	config.Shots = 100000
//	sim, err := qresample.New(config, qresample.NewStateVectorBackend(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := sim.Resample(ctx, qresample.RealSignal(samples), qresample.ModeUpsample, []int{4})
//
// # Modes
//
//   - [ModeDownsample1D]: k halving stages on a one-dimensional signal. Each
//     stage applies [[C0, C1], [-C1, C0]] to the axis' lowest qubit and keeps
//     the |0⟩ branch, C0*a[2j] + C1*a[2j+1].
//   - [ModeDownsampleMD]: the same stages, independently per axis. Per-axis
//     blocks act on disjoint qubits and are emitted in axis order, so the
//     construction order never changes the circuit or its output.
//   - [ModeUpsample]: k doubling stages per axis. A Hadamard ancilla spreads
//     each sample over two basis states, and a flag rotated by the kernel
//     angle θ blends each sample with its successor (cos²θ and sin²θ). θ = 0
//     duplicates, θ = π/4 interpolates linearly with a periodic boundary.
//
// # Errors
//
// Failures wrap the sentinel errors [ErrDegenerateSignal], [ErrUnsupportedFactor],
// [ErrInvalidFactor], [ErrDimensionMismatch], [ErrInsufficientShots] and
// [ErrBackendExecution], and are reported as a [*StageError] naming the pipeline
// state that failed. Nothing is retried automatically: after
// [ErrInsufficientShots], call [Run.Execute] again to add shots.
//
// # Shot Mode
//
// Counts carry no phase. Magnitudes are estimated as sqrt(count/shots) and
// assumed non-negative unless a [PhaseEstimator] is configured. The estimator
// sees the whole reassembled output once per reconstruction.
//
// # Thread Safety
//
// A [Simulator] may be shared by goroutines only if its backend is safe for
// concurrent use; the reference backend is not. A [Run] must not be used
// concurrently.
package qresample
