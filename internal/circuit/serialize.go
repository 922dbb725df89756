package circuit

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

// wire has the fields of Circuit without its methods, so msgpack does not
// recurse into MarshalBinary.
type wire Circuit

// MarshalBinary encodes the circuit with msgpack.
func (c *Circuit) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal((*wire)(c))
}

// UnmarshalBinary decodes a msgpack circuit and validates it.
func (c *Circuit) UnmarshalBinary(data []byte) error {
	var w wire
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: decode: %w", errs.ErrInvalidCircuit, err)
	}
	decoded := Circuit(w)
	if err := decoded.Validate(); err != nil {
		return err
	}
	*c = decoded
	return nil
}

// Decode is a convenience wrapper around UnmarshalBinary.
func Decode(data []byte) (*Circuit, error) {
	c := new(Circuit)
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return c, nil
}

// QASM renders the circuit as an OpenQASM 2.0 listing. Decimation unitaries and
// rotations become ry gates, allocations become resets, and controlled shifts
// use opaque cdec<m> gates (control first, then the value qubits, least
// significant first).
func (c *Circuit) QASM() string {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n\n")

	widths := map[int]struct{}{}
	for _, g := range c.Gates() {
		if g.Kind == GateShift {
			widths[len(g.Qubits)] = struct{}{}
		}
	}
	sorted := make([]int, 0, len(widths))
	for w := range widths {
		sorted = append(sorted, w)
	}
	sort.Ints(sorted)
	for _, w := range sorted {
		args := make([]string, w)
		for i := range args {
			args[i] = fmt.Sprintf("v%d", i)
		}
		fmt.Fprintf(&b, "opaque cdec%d ctrl,%s;\n", w, strings.Join(args, ","))
	}
	if len(sorted) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "qreg q[%d];\n", c.NumQubits)
	if len(c.Flags) > 0 {
		fmt.Fprintf(&b, "creg c[%d];\n", len(c.Flags))
	}

	clbit := 0
	for _, blk := range c.Blocks {
		fmt.Fprintf(&b, "\n// axis %d\n", blk.Axis)
		for _, g := range blk.Gates {
			switch g.Kind {
			case GateAllocate:
				fmt.Fprintf(&b, "reset q[%d];\n", g.Qubits[0])
			case GateHadamard:
				fmt.Fprintf(&b, "h q[%d];\n", g.Qubits[0])
			case GateRotation:
				fmt.Fprintf(&b, "ry(%s) q[%d];\n", angle(2*g.Params[0]), g.Qubits[0])
			case GateUnitary:
				fmt.Fprintf(&b, "ry(%s) q[%d];\n", angle(-2*math.Atan2(g.Params[1], g.Params[0])), g.Qubits[0])
			case GateShift:
				operands := make([]string, 0, len(g.Qubits)+1)
				for _, q := range append(append([]int(nil), g.Controls...), g.Qubits...) {
					operands = append(operands, fmt.Sprintf("q[%d]", q))
				}
				fmt.Fprintf(&b, "cdec%d %s;\n", len(g.Qubits), strings.Join(operands, ","))
			case GateMeasure:
				fmt.Fprintf(&b, "measure q[%d] -> c[%d];\n", g.Qubits[0], clbit)
				clbit++
			}
		}
	}
	return b.String()
}

func angle(v float64) string {
	return fmt.Sprintf("%.17g", v)
}
