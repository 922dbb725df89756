// Package pipeline decomposes per-axis resampling factors into the sequence of
// halving and doubling stages that the circuit builder turns into gates.
//
// Every supported factor is a power of two, 2^k, and is realized as k stages on
// its axis. Axes with factor 1 contribute no stages.
package pipeline

import (
	"fmt"
	"math/bits"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/register"
)

// Direction is the resampling direction of a plan.
type Direction int

const (
	// Down reduces the number of samples per axis.
	Down Direction = iota

	// Up increases the number of samples per axis.
	Up
)

// String returns a short name for the direction.
func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// StageSpec specifies one halving or doubling stage.
type StageSpec struct {
	Axis  int     // Signal axis the stage acts on
	Index int     // Position of the stage within its axis (0 first)
	Ratio float64 // Samples out / samples in
}

// Plan is the validated stage decomposition for one resampling request.
type Plan struct {
	direction   Direction
	inputShape  []int
	paddedShape []int
	outputShape []int
	stages      []StageSpec
}

// BuildPlan validates the factors for a signal of the given shape and
// decomposes them into stages, grouped by axis in axis order.
func BuildPlan(direction Direction, shape, factors []int) (*Plan, error) {
	if direction != Down && direction != Up {
		return nil, fmt.Errorf("%w: unknown direction %v", errs.ErrInvalidConfig, direction)
	}
	if len(factors) != len(shape) {
		return nil, fmt.Errorf("%w: %d factors for a %d-dimensional signal",
			errs.ErrDimensionMismatch, len(factors), len(shape))
	}
	reg, err := register.FromShape(shape)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		direction:   direction,
		inputShape:  append([]int(nil), shape...),
		paddedShape: reg.PaddedShape(),
		outputShape: make([]int, len(shape)),
		stages:      make([]StageSpec, 0, defaultStageCapacity),
	}

	for axis, f := range factors {
		k, err := p.checkFactor(axis, f)
		if err != nil {
			return nil, err
		}
		spec := StageSpec{Axis: axis, Ratio: halfRatio}
		p.outputShape[axis] = shape[axis] / f
		if direction == Up {
			spec.Ratio = doubleRatio
			p.outputShape[axis] = shape[axis] * f
		}
		for i := range k {
			spec.Index = i
			p.stages = append(p.stages, spec)
		}
	}
	return p, nil
}

// checkFactor validates one axis factor and returns its exponent.
func (p *Plan) checkFactor(axis, f int) (int, error) {
	if f <= 0 {
		return 0, fmt.Errorf("%w: axis %d factor %d", errs.ErrInvalidFactor, axis, f)
	}
	if !register.IsPowerOfTwo(f) {
		return 0, fmt.Errorf("%w: axis %d factor %d is not a power of two",
			errs.ErrUnsupportedFactor, axis, f)
	}
	k := bits.TrailingZeros(uint(f))
	if k > maxStagesPerAxis {
		return 0, fmt.Errorf("%w: axis %d factor %d exceeds 2^%d",
			errs.ErrUnsupportedFactor, axis, f, maxStagesPerAxis)
	}
	if p.direction == Down {
		n := p.inputShape[axis]
		if f > p.paddedShape[axis] {
			return 0, fmt.Errorf("%w: axis %d factor %d exceeds padded length %d",
				errs.ErrUnsupportedFactor, axis, f, p.paddedShape[axis])
		}
		if n%f != 0 {
			return 0, fmt.Errorf("%w: axis %d length %d is not divisible by factor %d",
				errs.ErrUnsupportedFactor, axis, n, f)
		}
	}
	return k, nil
}

// StagesForAxis returns the stages acting on one axis, in execution order.
func (p *Plan) StagesForAxis(axis int) []StageSpec {
	var out []StageSpec
	for _, s := range p.stages {
		if s.Axis == axis {
			out = append(out, s)
		}
	}
	return out
}

// Dims returns the number of axes.
func (p *Plan) Dims() int { return len(p.inputShape) }

// GetInputShape returns the logical input shape.
func (p *Plan) GetInputShape() []int { return append([]int(nil), p.inputShape...) }

// GetOutputShape returns the logical output shape (N/f or N*f per axis).
func (p *Plan) GetOutputShape() []int { return append([]int(nil), p.outputShape...) }

// GetTotalRatio returns the ratio of output to input sample counts, padding
// excluded.
func (p *Plan) GetTotalRatio() float64 {
	r := 1.0
	for _, s := range p.stages {
		r *= s.Ratio
	}
	return r
}
