package circuit

import (
	"fmt"
	"math"
	"strings"
)

// GateKind identifies a gate operation.
type GateKind uint8

const (
	// GateAllocate introduces a fresh ancilla in |0⟩.
	GateAllocate GateKind = iota + 1

	// GateHadamard applies H to one qubit.
	GateHadamard

	// GateRotation applies [[cos θ, -sin θ], [sin θ, cos θ]] to one qubit. Params: [θ].
	GateRotation

	// GateUnitary applies a real 2x2 rotation matrix to one qubit. Params: row-major [m00 m01 m10 m11].
	GateUnitary

	// GateShift maps |y⟩ to |y-1 mod 2^m⟩ on the ordered qubit list (least significant first),
	// only on basis states where every control qubit is |1⟩.
	GateShift

	// GateMeasure is a designated measurement point; the kept branch has the qubit in |0⟩.
	GateMeasure
)

var gateNames = map[GateKind]string{
	GateAllocate: "allocate",
	GateHadamard: "h",
	GateRotation: "rotation",
	GateUnitary:  "unitary",
	GateShift:    "shift",
	GateMeasure:  "measure",
}

// String returns the gate name.
func (k GateKind) String() string {
	if s, ok := gateNames[k]; ok {
		return s
	}
	return fmt.Sprintf("GateKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k GateKind) MarshalText() ([]byte, error) {
	if _, ok := gateNames[k]; !ok {
		return nil, fmt.Errorf("unknown gate kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *GateKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for kind, s := range gateNames {
		if s == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown gate kind %q", text)
}

// Gate is one operation of a circuit.
type Gate struct {
	Kind     GateKind  `json:"kind" msgpack:"k"`
	Qubits   []int     `json:"qubits" msgpack:"q"`
	Controls []int     `json:"controls,omitempty" msgpack:"c,omitempty"`
	Params   []float64 `json:"params,omitempty" msgpack:"p,omitempty"`
}

// Allocate returns a gate introducing ancilla q.
func Allocate(q int) Gate { return Gate{Kind: GateAllocate, Qubits: []int{q}} }

// Hadamard returns H on q.
func Hadamard(q int) Gate { return Gate{Kind: GateHadamard, Qubits: []int{q}} }

// Rotation returns the real rotation by theta on q.
func Rotation(q int, theta float64) Gate {
	return Gate{Kind: GateRotation, Qubits: []int{q}, Params: []float64{theta}}
}

// Unitary returns the 2x2 matrix m (row-major) on q.
func Unitary(q int, m [4]float64) Gate {
	return Gate{Kind: GateUnitary, Qubits: []int{q}, Params: m[:]}
}

// ControlledShift returns a cyclic decrement of the value held by qubits, controlled by controls.
func ControlledShift(qubits []int, controls ...int) Gate {
	return Gate{
		Kind:     GateShift,
		Qubits:   append([]int(nil), qubits...),
		Controls: append([]int(nil), controls...),
	}
}

// Measure returns a measurement point on q.
func Measure(q int) Gate { return Gate{Kind: GateMeasure, Qubits: []int{q}} }

// support returns every qubit the gate touches.
func (g Gate) support() []int {
	out := make([]int, 0, len(g.Qubits)+len(g.Controls))
	out = append(out, g.Qubits...)
	return append(out, g.Controls...)
}

// equal reports whether two gates are identical, comparing floats bitwise.
func (g Gate) equal(o Gate) bool {
	if g.Kind != o.Kind || len(g.Qubits) != len(o.Qubits) ||
		len(g.Controls) != len(o.Controls) || len(g.Params) != len(o.Params) {
		return false
	}
	for i := range g.Qubits {
		if g.Qubits[i] != o.Qubits[i] {
			return false
		}
	}
	for i := range g.Controls {
		if g.Controls[i] != o.Controls[i] {
			return false
		}
	}
	for i := range g.Params {
		if math.Float64bits(g.Params[i]) != math.Float64bits(o.Params[i]) {
			return false
		}
	}
	return true
}

// String renders the gate for diagnostics.
func (g Gate) String() string {
	var b strings.Builder
	b.WriteString(g.Kind.String())
	if len(g.Params) > 0 {
		fmt.Fprintf(&b, "%v", g.Params)
	}
	fmt.Fprintf(&b, " q%v", g.Qubits)
	if len(g.Controls) > 0 {
		fmt.Fprintf(&b, " ctrl%v", g.Controls)
	}
	return b.String()
}
