package qresample

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tphakala/go-quantum-resampler/internal/circuit"
	"github.com/tphakala/go-quantum-resampler/internal/encoding"
	"github.com/tphakala/go-quantum-resampler/internal/filter"
	"github.com/tphakala/go-quantum-resampler/internal/qstate"
	"github.com/tphakala/go-quantum-resampler/internal/reconstruct"
)

// PaddingPolicy selects how non-power-of-two axes are padded.
type PaddingPolicy = encoding.Padding

const (
	// PadZero appends zeros.
	PadZero = encoding.PadZero

	// PadRepeat repeats the last sample of the axis.
	PadRepeat = encoding.PadRepeat

	// PadStrict rejects axes whose length is not a power of two.
	PadStrict = encoding.PadStrict
)

// ExecutionMode selects exact state-vector or sampled-shot execution.
type ExecutionMode = qstate.Mode

const (
	// ExecExact returns the ideal output state.
	ExecExact = qstate.ModeExact

	// ExecShots returns measurement counts.
	ExecShots = qstate.ModeShots
)

// Kernel selects the interpolation kernel used when upsampling.
type Kernel = filter.Kernel

const (
	// KernelNearest duplicates samples.
	KernelNearest = filter.KernelNearest

	// KernelLinear averages neighbouring samples. The last sample of an axis
	// is paired with the first, or with the padding when the axis length is
	// not a power of two; PadRepeat keeps zeros out of the tail.
	KernelLinear = filter.KernelLinear

	// KernelCustom uses Config.KernelAngle.
	KernelCustom = filter.KernelCustom
)

// FilterPair is the decimation coefficient pair; see filter.Pair.
type FilterPair = filter.Pair

// Mode is the resampling algorithm: 1D downsampling, MD downsampling or upsampling.
type Mode = circuit.Mode

const (
	ModeDownsample1D = circuit.Downsample1D
	ModeDownsampleMD = circuit.DownsampleMD
	ModeUpsample     = circuit.Upsample
)

// PhaseEstimator restores phases of shot-mode magnitudes.
type PhaseEstimator = reconstruct.PhaseEstimator

// NoMinShots disables the Config.MinShots floor.
const NoMinShots = -1

// Config holds resampling configuration.
type Config struct {
	// Padding is applied to axes whose length is not a power of two.
	Padding PaddingPolicy

	// Execution selects exact or shot-based simulation.
	Execution ExecutionMode

	// Shots is the number of shots per patch in shot mode (default 8192).
	Shots int

	// MinShots is the smallest accumulated shot count accepted when
	// reconstructing from counts (default 100). NoMinShots accepts any
	// positive count.
	MinShots int

	// ShotBatches splits the shots of one execution into groups simulated one
	// after the other and summed (default 1).
	ShotBatches int

	// Kernel and KernelAngle select the interpolation used when upsampling.
	// The zero value is nearest-neighbour duplication.
	Kernel      Kernel
	KernelAngle float64

	// Filter is the decimation pair. The zero value selects equal weights.
	Filter FilterPair

	// PatchShape splits the signal into patches sharing one circuit.
	// Nil processes the signal as a single patch.
	PatchShape []int

	// Order is the axis order in which circuit blocks are built. It never
	// changes the result.
	Order []int

	// MaxQubits caps the register, ancillas included (default 24).
	MaxQubits int

	// Tolerance bounds the unit-norm deviation of encoded states (default 1e-9).
	Tolerance float64

	// EnableParallel builds axis blocks and encodes and reconstructs patches
	// on separate goroutines. Backend calls stay sequential.
	EnableParallel bool

	// Phases is consulted in shot mode to restore signs or phases. It is
	// called once per reconstruction, from the calling goroutine, with the
	// magnitudes and shape of the whole output after patches are reassembled.
	Phases PhaseEstimator

	// Logger receives state transitions. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns an exact-mode configuration with linear interpolation
// and every other default applied.
func DefaultConfig() Config {
	c := Config{Kernel: KernelLinear}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Shots == 0 {
		c.Shots = defaultShots
	}
	if c.MinShots == 0 {
		c.MinShots = defaultMinShots
	}
	if c.ShotBatches == 0 {
		c.ShotBatches = defaultShotBatches
	}
	if c.MaxQubits == 0 {
		c.MaxQubits = defaultMaxQubits
	}
	if c.Tolerance == 0 {
		c.Tolerance = defaultTolerance
	}
	if c.Filter.IsZero() {
		c.Filter = filter.EqualWeight()
	}
}

// Validate checks if the configuration is valid. Zero values are treated as defaults.
func (c *Config) Validate() error {
	switch c.Padding {
	case PadZero, PadRepeat, PadStrict:
	default:
		return fmt.Errorf("%w: unknown padding policy %v", ErrInvalidConfig, c.Padding)
	}
	switch c.Execution {
	case ExecExact, ExecShots:
	default:
		return fmt.Errorf("%w: unknown execution mode %v", ErrInvalidConfig, c.Execution)
	}
	if c.Shots < 0 {
		return fmt.Errorf("%w: shots must be positive", ErrInvalidConfig)
	}
	if c.MinShots < NoMinShots {
		return fmt.Errorf("%w: min shots must be positive or NoMinShots", ErrInvalidConfig)
	}
	if c.ShotBatches < 0 || (c.Shots > 0 && c.ShotBatches > c.Shots) {
		return fmt.Errorf("%w: shot batches must be between 1 and the shot count", ErrInvalidConfig)
	}
	if c.MaxQubits < 0 || c.MaxQubits > maxQubitsLimit {
		return fmt.Errorf("%w: max qubits must be 1-%d", ErrInvalidConfig, maxQubitsLimit)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidConfig)
	}
	if _, err := filter.Angle(c.Kernel, c.KernelAngle); err != nil {
		return err
	}
	if !c.Filter.IsZero() {
		if err := c.Filter.Validate(); err != nil {
			return err
		}
	}
	for d, n := range c.PatchShape {
		if n < 1 {
			return fmt.Errorf("%w: patch axis %d has length %d", ErrInvalidConfig, d, n)
		}
	}
	return nil
}

// ParsePaddingPolicy converts "zero", "repeat" or "strict" into a PaddingPolicy.
func ParsePaddingPolicy(s string) (PaddingPolicy, error) { return encoding.ParsePadding(s) }

// ParseExecutionMode converts "exact" or "shots" into an ExecutionMode.
func ParseExecutionMode(s string) (ExecutionMode, error) { return qstate.ParseMode(s) }

// ParseKernel converts "nearest", "linear" or "custom" into a Kernel.
func ParseKernel(s string) (Kernel, error) { return filter.ParseKernel(s) }

// ParseMode converts "down", "md" or "up" into a Mode.
func ParseMode(s string) (Mode, error) { return circuit.ParseMode(s) }

// PhaseFunc adapts a function to PhaseEstimator.
type PhaseFunc = reconstruct.PhaseFunc

// SignPhases returns a PhaseEstimator that applies known per-sample signs.
func SignPhases(signs []float64) PhaseEstimator { return reconstruct.SignPhases(signs) }
