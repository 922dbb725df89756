// Package circuit builds the resampling circuits: halving stages for 1D and
// multi-dimensional downsampling, and doubling stages with a rotation-controlled
// interpolation kernel for upsampling.
//
// A circuit declares its whole register up front. Qubits below InputQubits hold
// the encoded signal in the row-major layout of package register; ancillas
// follow, numbered by axis and then by stage. Gates are grouped into blocks, one
// per axis, and blocks on disjoint qubits are kept in axis order so that the
// gate sequence does not depend on the order in which axes were built.
package circuit

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/filter"
	"github.com/tphakala/go-quantum-resampler/internal/register"
)

const (
	// MaxRegisterQubits bounds a circuit so that basis indices fit a uint64.
	MaxRegisterQubits = 62

	// orthoTolerance bounds the deviation of a unitary gate from orthogonality.
	orthoTolerance = 1e-9

	// ratioTolerance is the relative slack on the declared sample ratio.
	ratioTolerance = 1e-12
)

// Mode is the tagged variant selecting a construction algorithm.
type Mode int

const (
	// Downsample1D halves a one-dimensional signal k times.
	Downsample1D Mode = iota

	// DownsampleMD halves each axis of a D-dimensional signal independently.
	DownsampleMD

	// Upsample doubles each axis with the configured interpolation kernel.
	Upsample
)

var modeNames = map[Mode]string{
	Downsample1D: "downsample-1d",
	DownsampleMD: "downsample-md",
	Upsample:     "upsample",
}

// String returns the mode name.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "down", "1d":
		return Downsample1D, nil
	case "md", "down-md":
		return DownsampleMD, nil
	case "up":
		return Upsample, nil
	}
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown circuit mode %q", errs.ErrInvalidConfig, s)
}

// IsDownsample reports whether the mode reduces the sample count.
func (m Mode) IsDownsample() bool { return m == Downsample1D || m == DownsampleMD }

// Block is the gate sequence acting on one signal axis.
type Block struct {
	Axis  int    `json:"axis" msgpack:"axis"`
	Gates []Gate `json:"gates" msgpack:"gates"`
}

func (b Block) support() map[int]struct{} {
	s := make(map[int]struct{})
	for _, g := range b.Gates {
		for _, q := range g.support() {
			s[q] = struct{}{}
		}
	}
	return s
}

// Circuit is an immutable resampling circuit description.
type Circuit struct {
	Mode        Mode `json:"mode" msgpack:"mode"`
	NumQubits   int  `json:"num_qubits" msgpack:"num_qubits"`
	InputQubits int  `json:"input_qubits" msgpack:"input_qubits"`

	// InputShape is the logical signal shape; InputSizes the qubits per input axis.
	InputShape []int `json:"input_shape" msgpack:"input_shape"`
	InputSizes []int `json:"input_sizes" msgpack:"input_sizes"`

	// OutputShape is the logical output shape. Outputs lists the qubits of each
	// output axis, least significant first.
	OutputShape []int   `json:"output_shape" msgpack:"output_shape"`
	Outputs     [][]int `json:"outputs" msgpack:"outputs"`

	// Ratio is the output to input sample count ratio.
	Ratio float64 `json:"ratio" msgpack:"ratio"`

	// Flags are the measured qubits; the kept branch has all of them in |0⟩.
	Flags []int `json:"flags" msgpack:"flags"`

	// Gain rescales kept amplitudes back to signal units.
	Gain float64 `json:"gain" msgpack:"gain"`

	Filter filter.Pair `json:"filter" msgpack:"filter"`
	Angle  float64     `json:"angle" msgpack:"angle"`

	Blocks []Block `json:"blocks" msgpack:"blocks"`
}

// Gates returns the flattened gate sequence.
func (c *Circuit) Gates() []Gate {
	n := 0
	for _, b := range c.Blocks {
		n += len(b.Gates)
	}
	out := make([]Gate, 0, n)
	for _, b := range c.Blocks {
		out = append(out, b.Gates...)
	}
	return out
}

// Ancillas returns the number of qubits allocated beyond the input register.
func (c *Circuit) Ancillas() int { return c.NumQubits - c.InputQubits }

// Equal reports whether two circuits are identical, comparing floats bitwise.
func (c *Circuit) Equal(o *Circuit) bool {
	if c.Mode != o.Mode || c.NumQubits != o.NumQubits || c.InputQubits != o.InputQubits ||
		math.Float64bits(c.Gain) != math.Float64bits(o.Gain) ||
		math.Float64bits(c.Ratio) != math.Float64bits(o.Ratio) ||
		math.Float64bits(c.Angle) != math.Float64bits(o.Angle) || c.Filter != o.Filter ||
		!intsEqual(c.InputShape, o.InputShape) || !intsEqual(c.InputSizes, o.InputSizes) ||
		!intsEqual(c.OutputShape, o.OutputShape) || !intsEqual(c.Flags, o.Flags) ||
		len(c.Outputs) != len(o.Outputs) || len(c.Blocks) != len(o.Blocks) {
		return false
	}
	for i := range c.Outputs {
		if !intsEqual(c.Outputs[i], o.Outputs[i]) {
			return false
		}
	}
	for i := range c.Blocks {
		a, b := c.Blocks[i], o.Blocks[i]
		if a.Axis != b.Axis || len(a.Gates) != len(b.Gates) {
			return false
		}
		for j := range a.Gates {
			if !a.Gates[j].equal(b.Gates[j]) {
				return false
			}
		}
	}
	return true
}

// Canonicalize reorders adjacent blocks with disjoint supports into axis order.
// Gates on disjoint qubits commute, so the circuit's action is unchanged.
func (c *Circuit) Canonicalize() {
	supports := make([]map[int]struct{}, len(c.Blocks))
	for i, b := range c.Blocks {
		supports[i] = b.support()
	}
	for i := 1; i < len(c.Blocks); i++ {
		for j := i; j > 0; j-- {
			if c.Blocks[j-1].Axis <= c.Blocks[j].Axis || !disjoint(supports[j-1], supports[j]) {
				break
			}
			c.Blocks[j-1], c.Blocks[j] = c.Blocks[j], c.Blocks[j-1]
			supports[j-1], supports[j] = supports[j], supports[j-1]
		}
	}
}

// Validate checks the structural invariants of the circuit.
func (c *Circuit) Validate() error {
	if c.NumQubits < 0 || c.NumQubits > MaxRegisterQubits {
		return invalid("register of %d qubits", c.NumQubits)
	}
	if c.InputQubits < 0 || c.InputQubits > c.NumQubits {
		return invalid("%d input qubits in a %d-qubit register", c.InputQubits, c.NumQubits)
	}
	if len(c.InputShape) != len(c.InputSizes) || len(c.OutputShape) != len(c.Outputs) {
		return invalid("shape and register partitions disagree")
	}
	reg, err := register.FromShape(c.InputShape)
	if err != nil {
		return invalid("input shape %v: %v", c.InputShape, err)
	}
	if !intsEqual(c.InputSizes, reg.Sizes()) {
		return invalid("input sizes %v, shape %v needs %v", c.InputSizes, c.InputShape, reg.Sizes())
	}
	if reg.Size() != c.InputQubits {
		return invalid("input sizes sum to %d, want %d", reg.Size(), c.InputQubits)
	}
	if !(c.Gain > 0) || math.IsInf(c.Gain, 0) {
		return invalid("gain %g", c.Gain)
	}
	if want := float64(product(c.OutputShape)) / float64(product(c.InputShape)); !(c.Ratio > 0) ||
		math.Abs(c.Ratio-want) > ratioTolerance*want {
		return invalid("ratio %g for %v -> %v", c.Ratio, c.InputShape, c.OutputShape)
	}

	allocated := make([]bool, c.NumQubits)
	measured := make([]bool, c.NumQubits)
	for q := range c.InputQubits {
		allocated[q] = true
	}
	var flags []int
	for _, b := range c.Blocks {
		for _, g := range b.Gates {
			if err := c.checkGate(g, allocated, measured); err != nil {
				return err
			}
			if g.Kind == GateMeasure {
				flags = append(flags, g.Qubits[0])
			}
		}
	}
	if !intsEqual(flags, c.Flags) {
		return invalid("flags %v do not match measured qubits %v", c.Flags, flags)
	}

	// every qubit is either an output bit or a flag, exactly once
	seen := make([]bool, c.NumQubits)
	mark := func(q int) error {
		if q < 0 || q >= c.NumQubits {
			return invalid("qubit %d out of range", q)
		}
		if seen[q] {
			return invalid("qubit %d assigned twice", q)
		}
		if !allocated[q] {
			return invalid("qubit %d is never allocated", q)
		}
		seen[q] = true
		return nil
	}
	for d, qs := range c.Outputs {
		if c.OutputShape[d] < 1 || c.OutputShape[d] > 1<<len(qs) {
			return invalid("output axis %d: length %d in %d qubits", d, c.OutputShape[d], len(qs))
		}
		for _, q := range qs {
			if err := mark(q); err != nil {
				return err
			}
		}
	}
	for _, q := range c.Flags {
		if err := mark(q); err != nil {
			return err
		}
	}
	for q, ok := range seen {
		if !ok {
			return invalid("qubit %d is neither an output nor a flag", q)
		}
	}
	return nil
}

func (c *Circuit) checkGate(g Gate, allocated, measured []bool) error {
	used := make(map[int]struct{}, len(g.Qubits)+len(g.Controls))
	for _, q := range g.support() {
		if q < 0 || q >= c.NumQubits {
			return invalid("%v: qubit %d out of range", g, q)
		}
		if _, dup := used[q]; dup {
			return invalid("%v: qubit %d repeated", g, q)
		}
		used[q] = struct{}{}
		if measured[q] {
			return invalid("%v: qubit %d used after measurement", g, q)
		}
		if g.Kind != GateAllocate && !allocated[q] {
			return invalid("%v: qubit %d used before allocation", g, q)
		}
	}

	switch g.Kind {
	case GateAllocate:
		if len(g.Qubits) != 1 || len(g.Controls) != 0 || len(g.Params) != 0 {
			return invalid("%v: malformed allocation", g)
		}
		q := g.Qubits[0]
		if allocated[q] {
			return invalid("%v: qubit %d allocated twice", g, q)
		}
		allocated[q] = true
	case GateHadamard, GateMeasure:
		if len(g.Qubits) != 1 || len(g.Controls) != 0 || len(g.Params) != 0 {
			return invalid("%v: expects one target", g)
		}
		if g.Kind == GateMeasure {
			measured[g.Qubits[0]] = true
		}
	case GateRotation:
		if len(g.Qubits) != 1 || len(g.Controls) != 0 || len(g.Params) != 1 ||
			math.IsNaN(g.Params[0]) || math.IsInf(g.Params[0], 0) {
			return invalid("%v: expects one target and a finite angle", g)
		}
	case GateUnitary:
		if len(g.Qubits) != 1 || len(g.Controls) != 0 || len(g.Params) != 4 {
			return invalid("%v: expects one target and four matrix entries", g)
		}
		if !isRotationMatrix(g.Params) {
			return invalid("%v: matrix is not a rotation", g)
		}
	case GateShift:
		if len(g.Qubits) == 0 || len(g.Params) != 0 {
			return invalid("%v: expects at least one target", g)
		}
	default:
		return invalid("unknown gate kind %v", g.Kind)
	}
	return nil
}

// isRotationMatrix reports whether m is [[a, b], [-b, a]] with a²+b² = 1.
func isRotationMatrix(m []float64) bool {
	a, b := m[0], m[1]
	if math.Abs(m[2]+b) > orthoTolerance || math.Abs(m[3]-a) > orthoTolerance {
		return false
	}
	return math.Abs(a*a+b*b-1) <= orthoTolerance
}

// Stats summarizes a circuit.
type Stats struct {
	Mode        Mode
	NumQubits   int
	InputQubits int
	Ancillas    int
	Flags       int
	Blocks      int
	Gates       int
	ByKind      map[GateKind]int
	Ratio       float64
}

// Stats returns gate and register counts.
func (c *Circuit) Stats() Stats {
	s := Stats{
		Mode:        c.Mode,
		NumQubits:   c.NumQubits,
		InputQubits: c.InputQubits,
		Ancillas:    c.Ancillas(),
		Flags:       len(c.Flags),
		Blocks:      len(c.Blocks),
		ByKind:      make(map[GateKind]int),
		Ratio:       c.Ratio,
	}
	for _, b := range c.Blocks {
		for _, g := range b.Gates {
			s.Gates++
			s.ByKind[g.Kind]++
		}
	}
	return s
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrInvalidCircuit, fmt.Sprintf(format, args...))
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func disjoint(a, b map[int]struct{}) bool {
	for q := range a {
		if _, ok := b[q]; ok {
			return false
		}
	}
	return true
}
