package qresample

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tphakala/go-quantum-resampler/internal/circuit"
	"github.com/tphakala/go-quantum-resampler/internal/encoding"
	"github.com/tphakala/go-quantum-resampler/internal/filter"
	"github.com/tphakala/go-quantum-resampler/internal/qstate"
	"github.com/tphakala/go-quantum-resampler/internal/reconstruct"
)

// Simulator runs resampling requests against one backend. The backend is
// an explicit handle; nothing is shared between simulators.
type Simulator struct {
	config  Config
	backend Backend
	log     zerolog.Logger
	angle   float64
}

// New creates a simulator. Zero-valued config fields take their defaults.
func New(config Config, backend Backend) (*Simulator, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()
	config.PatchShape = append([]int(nil), config.PatchShape...)
	if len(config.PatchShape) == 0 {
		config.PatchShape = nil
	}
	if config.Order != nil {
		config.Order = append([]int(nil), config.Order...)
	}

	angle, err := filter.Angle(config.Kernel, config.KernelAngle)
	if err != nil {
		return nil, err
	}
	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}
	return &Simulator{config: config, backend: backend, log: log, angle: angle}, nil
}

// Config returns the effective configuration.
func (s *Simulator) Config() Config { return s.config }

// Resample runs the whole pipeline once: encode, build, simulate with
// Config.Shots in shot mode, and reconstruct.
func (s *Simulator) Resample(ctx context.Context, sig Signal, mode Mode, factors []int) (*ResampledSignal, error) {
	run, err := s.Prepare(sig, mode, factors)
	if err != nil {
		return nil, err
	}
	if err := run.Execute(ctx, s.config.Shots); err != nil {
		return nil, err
	}
	return run.Reconstruct()
}

// Prepare encodes the signal and builds its circuit. The returned run is in
// StateSimulating, ready for Execute.
func (s *Simulator) Prepare(sig Signal, mode Mode, factors []int) (*Run, error) {
	r := s.newRun()
	shape := signalShape(sig)
	patchShape := s.config.PatchShape
	if patchShape == nil {
		patchShape = shape
	}
	if err := r.encode(sig.Values, shape, patchShape); err != nil {
		return nil, err
	}

	r.transition(StateCircuitBuilding)
	c, err := circuit.Build(circuit.Spec{
		Mode:    mode,
		Shape:   patchShape,
		Factors: factors,
		Filter:  s.config.Filter,
		Angle:   s.angle,
	}, circuit.Options{Order: s.config.Order, Parallel: s.config.EnableParallel})
	if err != nil {
		return nil, r.fail(err)
	}
	if err := r.attach(c); err != nil {
		return nil, err
	}
	return r, nil
}

// PrepareWithCircuit encodes the signal for a previously built (for example
// decoded) circuit. The signal is split into patches of the circuit's input shape.
func (s *Simulator) PrepareWithCircuit(sig Signal, c *Circuit) (*Run, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: circuit is nil", ErrInvalidCircuit)
	}
	r := s.newRun()
	if err := r.encode(sig.Values, signalShape(sig), c.InputShape); err != nil {
		return nil, err
	}
	r.transition(StateCircuitBuilding)
	if err := c.Validate(); err != nil {
		return nil, r.fail(err)
	}
	if err := r.attach(c); err != nil {
		return nil, err
	}
	return r, nil
}

func signalShape(sig Signal) []int {
	if len(sig.Shape) == 0 {
		return []int{len(sig.Values)}
	}
	return sig.Shape
}

// Run is one resampling request moving through the pipeline states. Shot
// results accumulate across Execute calls. A Run is not safe for concurrent use.
type Run struct {
	id    uuid.UUID
	sim   *Simulator
	log   zerolog.Logger
	state State
	err   error

	circuit *circuit.Circuit
	layout  reconstruct.Layout

	// patches holds one encoding per patch; nil marks an all-zero patch.
	patches []*encoding.Encoded
	grid    []int

	results  []*qstate.Result
	executed bool
	shots    int
}

func (s *Simulator) newRun() *Run {
	id := uuid.New()
	r := &Run{
		id:  id,
		sim: s,
		log: s.log.With().Str("run", id.String()).Logger(),
	}
	r.transition(StateEncoding)
	return r
}

// ID returns the run identifier used in log events.
func (r *Run) ID() uuid.UUID { return r.id }

// State returns the current pipeline state.
func (r *Run) State() State { return r.state }

// Err returns the failure of a run in StateFailed.
func (r *Run) Err() error { return r.err }

// Circuit returns the circuit shared by all patches.
func (r *Run) Circuit() *Circuit { return r.circuit }

// Shots returns the shots accumulated per patch.
func (r *Run) Shots() int { return r.shots }

// Patches returns the number of patches.
func (r *Run) Patches() int { return len(r.patches) }

func (r *Run) transition(st State) {
	r.state = st
	r.log.Debug().Str("state", st.String()).Msg("state transition")
}

func (r *Run) fail(err error) error {
	se := &StageError{State: r.state, Err: err}
	r.state, r.err = StateFailed, se
	r.log.Warn().Err(err).Str("stage", se.State.String()).Msg("resampling run failed")
	return se
}

// encode splits the signal into patches and encodes every non-zero patch.
func (r *Run) encode(values []complex128, shape, patchShape []int) error {
	cfg := r.sim.config
	parts, grid, err := encoding.Patchify(values, shape, patchShape)
	if err != nil {
		return r.fail(err)
	}
	encoded := make([]*encoding.Encoded, len(parts))
	err = r.sim.forEach(len(parts), func(i int) error {
		if isZero(parts[i]) {
			return nil
		}
		enc, err := encoding.Encode(parts[i], patchShape, cfg.Padding, cfg.Tolerance)
		if err != nil {
			if len(parts) > 1 {
				return fmt.Errorf("patch %d: %w", i, err)
			}
			return err
		}
		encoded[i] = enc
		return nil
	})
	if err != nil {
		return r.fail(err)
	}

	nonZero := 0
	for _, e := range encoded {
		if e != nil {
			nonZero++
		}
	}
	if nonZero == 0 {
		return r.fail(fmt.Errorf("%w: signal has zero norm", ErrDegenerateSignal))
	}
	r.patches, r.grid = encoded, grid
	r.log.Debug().Int("patches", len(parts)).Int("non_zero", nonZero).Msg("signal encoded")
	return nil
}

// attach checks the circuit against the register limit and moves to StateSimulating.
func (r *Run) attach(c *circuit.Circuit) error {
	if c.NumQubits > r.sim.config.MaxQubits {
		return r.fail(fmt.Errorf("%w: circuit needs %d qubits, limit is %d",
			ErrUnsupportedFactor, c.NumQubits, r.sim.config.MaxQubits))
	}
	r.circuit = c
	r.layout = reconstruct.LayoutOf(c)
	r.results = make([]*qstate.Result, len(r.patches))
	stats := c.Stats()
	r.log.Debug().
		Str("mode", c.Mode.String()).
		Int("qubits", stats.NumQubits).
		Int("ancillas", stats.Ancillas).
		Int("gates", stats.Gates).
		Msg("circuit built")
	r.transition(StateSimulating)
	return nil
}

// Execute simulates every patch. In shot mode it adds shots per patch to the
// counts accumulated so far, split into Config.ShotBatches sequential groups;
// in exact mode shots is ignored and repeated calls are no-ops.
//
// A run that failed with ErrInsufficientShots may be executed again.
func (r *Run) Execute(ctx context.Context, shots int) error {
	if r.state == StateFailed && !errors.Is(r.err, ErrInsufficientShots) {
		return r.err
	}
	if r.circuit == nil {
		return fmt.Errorf("%w: run has no circuit", ErrInvalidCircuit)
	}
	cfg := r.sim.config
	if cfg.Execution == ExecExact && r.executed {
		return nil
	}
	if cfg.Execution == ExecShots && shots <= 0 {
		return fmt.Errorf("%w: shots must be positive, got %d", ErrInvalidConfig, shots)
	}
	r.transition(StateSimulating)
	r.err = nil

	next := make([]*qstate.Result, len(r.patches))
	for i, enc := range r.patches {
		if enc == nil {
			continue
		}
		if cfg.Execution == ExecExact {
			res, err := r.simulate(ctx, &qstate.Request{Circuit: r.circuit, Input: enc.Amplitudes, Mode: ExecExact})
			if err != nil {
				return r.fail(err)
			}
			next[i] = res
			continue
		}

		batches := make([]*qstate.Result, 0, cfg.ShotBatches+1)
		if r.results[i] != nil {
			batches = append(batches, r.results[i])
		}
		for _, n := range splitShots(shots, cfg.ShotBatches) {
			res, err := r.simulate(ctx, &qstate.Request{
				Circuit: r.circuit, Input: enc.Amplitudes, Mode: ExecShots, Shots: n,
			})
			if err != nil {
				return r.fail(err)
			}
			batches = append(batches, res)
		}
		merged, err := qstate.Merge(batches...)
		if err != nil {
			return r.fail(err)
		}
		next[i] = merged
	}

	r.results = next
	r.executed = true
	if cfg.Execution == ExecShots {
		r.shots += shots
	}
	r.log.Debug().Int("shots", r.shots).Msg("simulation complete")
	return nil
}

// simulate calls the backend once and checks the shape of its answer.
func (r *Run) simulate(ctx context.Context, req *qstate.Request) (*qstate.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := r.sim.backend.Simulate(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrBackendExecution, err)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: backend returned no result", ErrBackendExecution)
	}
	if res.Mode != req.Mode || res.NumQubits != req.Circuit.NumQubits {
		return nil, fmt.Errorf("%w: backend answered %v over %d qubits, want %v over %d",
			ErrBackendExecution, res.Mode, res.NumQubits, req.Mode, req.Circuit.NumQubits)
	}
	if req.Mode == ExecShots && res.Shots != req.Shots {
		return nil, fmt.Errorf("%w: backend ran %d shots, want %d", ErrBackendExecution, res.Shots, req.Shots)
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// Reconstruct converts the accumulated results into the output signal.
func (r *Run) Reconstruct() (*ResampledSignal, error) {
	if r.state == StateFailed && !errors.Is(r.err, ErrInsufficientShots) {
		return nil, r.err
	}
	cfg := r.sim.config
	if cfg.Execution == ExecExact && !r.executed {
		return nil, &StageError{State: StateReconstructing,
			Err: fmt.Errorf("%w: run has not been executed", ErrInvalidConfig)}
	}
	r.transition(StateReconstructing)

	n := r.layout.Len()
	values := make([][]complex128, len(r.patches))
	stderr := make([][]float64, len(r.patches))
	opts := reconstruct.Options{MinShots: cfg.MinShots}
	shotMode := cfg.Execution == ExecShots

	err := r.sim.forEach(len(r.patches), func(i int) error {
		enc := r.patches[i]
		if enc == nil {
			values[i] = make([]complex128, n)
			stderr[i] = make([]float64, n)
			return nil
		}
		res := r.results[i]
		if res == nil {
			res = &qstate.Result{Mode: ExecShots, NumQubits: r.circuit.NumQubits, Counts: map[string]int{}}
		}
		sig, err := reconstruct.Reconstruct(res, enc.Scale, r.layout, opts)
		if err != nil {
			if len(r.patches) > 1 {
				return fmt.Errorf("patch %d: %w", i, err)
			}
			return err
		}
		values[i] = sig.Values
		stderr[i] = sig.StdErr
		if stderr[i] == nil {
			stderr[i] = make([]float64, n)
		}
		return nil
	})
	if err != nil {
		return nil, r.fail(err)
	}

	out, shape, err := encoding.Depatchify(values, r.layout.Shape, r.grid)
	if err != nil {
		return nil, r.fail(err)
	}
	result := &ResampledSignal{Values: out, Shape: shape}
	if shotMode {
		result.StdErr, _, err = encoding.Depatchify(stderr, r.layout.Shape, r.grid)
		if err != nil {
			return nil, r.fail(err)
		}
		result.Shots = r.shots
		if cfg.Phases != nil {
			result.Values, err = reconstruct.ApplyPhases(out, shape, cfg.Phases)
			if err != nil {
				return nil, r.fail(err)
			}
		}
	}
	r.transition(StateDone)
	return result, nil
}

// forEach calls fn for 0..n-1, concurrently when EnableParallel is set, and
// returns the error of the lowest failing index.
func (s *Simulator) forEach(n int, fn func(i int) error) error {
	if !s.config.EnableParallel || n <= 1 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn(i)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// splitShots divides shots into at most batches positive groups.
func splitShots(shots, batches int) []int {
	batches = max(1, min(batches, shots))
	out := make([]int, batches)
	for i := range out {
		out[i] = shots / batches
		if i < shots%batches {
			out[i]++
		}
	}
	return out
}

func isZero(v []complex128) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
