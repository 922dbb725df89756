package circuit

import (
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/filter"
	"github.com/tphakala/go-quantum-resampler/internal/pipeline"
	"github.com/tphakala/go-quantum-resampler/internal/register"
)

// Spec describes the circuit to build.
type Spec struct {
	Mode    Mode
	Shape   []int // logical input shape
	Factors []int // per-axis power-of-two factors

	// Filter is the decimation pair; the zero value means filter.EqualWeight.
	Filter filter.Pair

	// Angle is the interpolation rotation angle in [0, π/2].
	Angle float64
}

// Options controls how a circuit is built. They never change the result.
type Options struct {
	// Order is the axis construction order; nil means ascending.
	Order []int

	// Parallel builds the per-axis blocks on separate goroutines.
	Parallel bool
}

// Build constructs the circuit for spec. Each mode is built by its own function.
func Build(spec Spec, opts Options) (*Circuit, error) {
	var (
		c   *Circuit
		err error
	)
	switch spec.Mode {
	case Downsample1D:
		c, err = buildDownsample1D(spec, opts)
	case DownsampleMD:
		c, err = buildDownsampleMD(spec, opts)
	case Upsample:
		c, err = buildUpsample(spec, opts)
	default:
		return nil, fmt.Errorf("%w: unknown circuit mode %v", errs.ErrInvalidConfig, spec.Mode)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// axisBuild is the output of building one axis block.
type axisBuild struct {
	block   Block
	outputs []int
}

func buildDownsample1D(spec Spec, opts Options) (*Circuit, error) {
	if len(spec.Shape) != 1 {
		return nil, fmt.Errorf("%w: 1D downsampling of a %d-dimensional signal",
			errs.ErrDimensionMismatch, len(spec.Shape))
	}
	return buildDownsampleMD(spec, opts)
}

func buildDownsampleMD(spec Spec, opts Options) (*Circuit, error) {
	pair := spec.Filter
	if pair.IsZero() {
		pair = filter.EqualWeight()
	}
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	plan, reg, err := prepare(spec, pipeline.Down, opts)
	if err != nil {
		return nil, err
	}

	c := newCircuit(spec.Mode, plan, reg, reg.Size())
	c.Filter = pair

	stages := 0
	builds := buildAxes(plan, opts, func(axis int) axisBuild {
		return decimateAxis(reg.Qubits(axis), axis, plan.StagesForAxis(axis), pair)
	})
	for axis := range plan.Dims() {
		stages += len(plan.StagesForAxis(axis))
		c.Outputs[axis] = builds[axis].outputs
	}
	c.Gain = math.Pow(1/pair.DCGain(), float64(stages))
	c.assemble(builds, order(opts, plan.Dims()))
	return c, nil
}

// decimateAxis halves an axis once per stage. Stage i filters the axis
// qubit i, the least significant one still unmeasured, and marks it for
// measurement.
func decimateAxis(qubits []int, axis int, stages []pipeline.StageSpec, pair filter.Pair) axisBuild {
	m := pair.Matrix()
	b := Block{Axis: axis, Gates: make([]Gate, 0, 2*len(stages))}
	for _, st := range stages {
		q := qubits[st.Index]
		b.Gates = append(b.Gates, Unitary(q, m), Measure(q))
	}
	return axisBuild{block: b, outputs: append([]int(nil), qubits[len(stages):]...)}
}

func buildUpsample(spec Spec, opts Options) (*Circuit, error) {
	if !(spec.Angle >= 0 && spec.Angle <= filter.MaxAngle) {
		return nil, fmt.Errorf("%w: interpolation angle %g outside [0, π/2]",
			errs.ErrInvalidConfig, spec.Angle)
	}
	plan, reg, err := prepare(spec, pipeline.Up, opts)
	if err != nil {
		return nil, err
	}

	perStage := 1
	if spec.Angle != 0 {
		perStage = 2
	}
	base := make([]int, plan.Dims())
	next, stages := reg.Size(), 0
	for axis := range plan.Dims() {
		n := len(plan.StagesForAxis(axis))
		base[axis] = next
		next += perStage * n
		stages += n
	}

	c := newCircuit(spec.Mode, plan, reg, next)
	c.Angle = spec.Angle

	builds := buildAxes(plan, opts, func(axis int) axisBuild {
		return interpolateAxis(reg.Qubits(axis), axis, plan.StagesForAxis(axis), base[axis], perStage, spec.Angle)
	})
	for axis := range plan.Dims() {
		c.Outputs[axis] = builds[axis].outputs
	}
	c.Gain = math.Pow(math.Sqrt2, float64(stages))
	c.assemble(builds, order(opts, plan.Dims()))
	return c, nil
}

// interpolateAxis doubles an axis once per stage. Stage i owns the ancillas
// base+perStage*i onwards.
//
// A stage puts a Hadamard ancilla below the axis (x -> 2x, 2x+1). For a
// non-zero angle a flag rotated by θ controls a cyclic decrement of the axis
// and is rotated back by -θ; the flag-|0⟩ branch then holds
// cos²θ·b[y] + sin²θ·b[y+1].
func interpolateAxis(qubits []int, axis int, stages []pipeline.StageSpec, base, perStage int, theta float64) axisBuild {
	axisQubits := append([]int(nil), qubits...)
	b := Block{Axis: axis}
	for _, st := range stages {
		spread := base + perStage*st.Index
		b.Gates = append(b.Gates, Allocate(spread), Hadamard(spread))
		axisQubits = append([]int{spread}, axisQubits...)
		if theta == 0 {
			continue
		}
		flag := spread + 1
		b.Gates = append(b.Gates,
			Allocate(flag),
			Rotation(flag, theta),
			ControlledShift(axisQubits, flag),
			Rotation(flag, -theta),
			Measure(flag),
		)
	}
	return axisBuild{block: b, outputs: axisQubits}
}

// prepare validates the request and derives the stage plan and input register.
func prepare(spec Spec, dir pipeline.Direction, opts Options) (*pipeline.Plan, register.Register, error) {
	plan, err := pipeline.BuildPlan(dir, spec.Shape, spec.Factors)
	if err != nil {
		return nil, register.Register{}, err
	}
	if err := checkOrder(opts.Order, plan.Dims()); err != nil {
		return nil, register.Register{}, err
	}
	reg, err := register.FromShape(spec.Shape)
	if err != nil {
		return nil, register.Register{}, err
	}
	return plan, reg, nil
}

func newCircuit(mode Mode, plan *pipeline.Plan, reg register.Register, numQubits int) *Circuit {
	return &Circuit{
		Mode:        mode,
		NumQubits:   numQubits,
		InputQubits: reg.Size(),
		InputShape:  plan.GetInputShape(),
		InputSizes:  reg.Sizes(),
		OutputShape: plan.GetOutputShape(),
		Ratio:       plan.GetTotalRatio(),
		Outputs:     make([][]int, plan.Dims()),
		Flags:       []int{},
	}
}

// buildAxes runs fn for every axis in construction order, concurrently when requested.
func buildAxes(plan *pipeline.Plan, opts Options, fn func(axis int) axisBuild) []axisBuild {
	dims := plan.Dims()
	out := make([]axisBuild, dims)
	axes := order(opts, dims)

	if !opts.Parallel || dims <= 1 {
		for _, axis := range axes {
			out[axis] = fn(axis)
		}
		return out
	}

	var wg sync.WaitGroup
	for _, axis := range axes {
		wg.Add(1)
		go func(axis int) {
			defer wg.Done()
			out[axis] = fn(axis)
		}(axis)
	}
	wg.Wait()
	return out
}

// assemble appends the non-empty blocks in construction order, canonicalizes
// them and records the measured flags.
func (c *Circuit) assemble(builds []axisBuild, axes []int) {
	for _, axis := range axes {
		if len(builds[axis].block.Gates) > 0 {
			c.Blocks = append(c.Blocks, builds[axis].block)
		}
	}
	c.Canonicalize()
	for _, b := range c.Blocks {
		for _, g := range b.Gates {
			if g.Kind == GateMeasure {
				c.Flags = append(c.Flags, g.Qubits[0])
			}
		}
	}
}

func order(opts Options, dims int) []int {
	if opts.Order != nil {
		return opts.Order
	}
	axes := make([]int, dims)
	for i := range axes {
		axes[i] = i
	}
	return axes
}

func checkOrder(o []int, dims int) error {
	if o == nil {
		return nil
	}
	if len(o) != dims {
		return fmt.Errorf("%w: order %v for %d axes", errs.ErrDimensionMismatch, o, dims)
	}
	seen := make([]bool, dims)
	for _, a := range o {
		if a < 0 || a >= dims || seen[a] {
			return fmt.Errorf("%w: order %v is not a permutation of the axes", errs.ErrInvalidConfig, o)
		}
		seen[a] = true
	}
	return nil
}
