// Package statevector is the reference circuit simulator: a dense state vector
// over the full declared register, with measurements deferred to the end.
package statevector

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tphakala/go-quantum-resampler/internal/circuit"
	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/qstate"
)

// Simulator executes circuits on a dense state vector. Shot sampling draws from
// the injected source; a Simulator is not safe for concurrent use.
type Simulator struct {
	src rand.Source
}

// New returns a simulator sampling from src.
func New(src rand.Source) *Simulator {
	return &Simulator{src: src}
}

// NewSeeded returns a simulator with a PCG source seeded from seed.
func NewSeeded(seed uint64) *Simulator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Simulate runs the request in exact or shot mode.
func (s *Simulator) Simulate(ctx context.Context, req *qstate.Request) (*qstate.Result, error) {
	if req == nil || req.Circuit == nil {
		return nil, fmt.Errorf("%w: nil circuit", errs.ErrBackendExecution)
	}
	state, err := Evolve(ctx, req.Circuit, req.Input)
	if err != nil {
		return nil, err
	}

	n := req.Circuit.NumQubits
	switch req.Mode {
	case qstate.ModeExact:
		return &qstate.Result{Mode: qstate.ModeExact, NumQubits: n, State: state}, nil
	case qstate.ModeShots:
		if req.Shots <= 0 {
			return nil, fmt.Errorf("%w: shot count %d", errs.ErrBackendExecution, req.Shots)
		}
		if s.src == nil {
			return nil, fmt.Errorf("%w: shot mode needs a random source", errs.ErrBackendExecution)
		}
		counts := Sample(state.Probabilities(), req.Shots, s.src)
		res := &qstate.Result{
			Mode:      qstate.ModeShots,
			NumQubits: n,
			Counts:    make(map[string]int, len(counts)),
			Shots:     req.Shots,
		}
		for idx, c := range counts {
			res.Counts[qstate.Bitstring(idx, n)] = c
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: unsupported execution mode %v", errs.ErrBackendExecution, req.Mode)
	}
}

// Evolve applies c to the encoded input. Ancillas start in |0⟩, so the input
// occupies the first 2^InputQubits amplitudes of the full register.
func Evolve(ctx context.Context, c *circuit.Circuit, input qstate.Vector) (qstate.Vector, error) {
	if want := 1 << c.InputQubits; len(input) != want {
		return nil, fmt.Errorf("%w: input has %d amplitudes, circuit expects %d",
			errs.ErrDimensionMismatch, len(input), want)
	}
	state := make(qstate.Vector, 1<<c.NumQubits)
	copy(state, input)
	scratch := make(qstate.Vector, len(state))

	for _, blk := range c.Blocks {
		for _, g := range blk.Gates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			switch g.Kind {
			case circuit.GateAllocate, circuit.GateMeasure:
				// ancillas are already |0⟩; measurement is deferred
			case circuit.GateHadamard:
				h := 1 / math.Sqrt2
				apply2x2(state, g.Qubits[0], h, h, h, -h)
			case circuit.GateRotation:
				cs, sn := math.Cos(g.Params[0]), math.Sin(g.Params[0])
				apply2x2(state, g.Qubits[0], cs, -sn, sn, cs)
			case circuit.GateUnitary:
				p := g.Params
				apply2x2(state, g.Qubits[0], p[0], p[1], p[2], p[3])
			case circuit.GateShift:
				applyShift(scratch, state, g.Qubits, g.Controls)
				state, scratch = scratch, state
			default:
				return nil, fmt.Errorf("%w: unsupported gate %v", errs.ErrBackendExecution, g.Kind)
			}
		}
	}
	return state, nil
}

// apply2x2 applies the real matrix [[m00, m01], [m10, m11]] to qubit q in place.
func apply2x2(state qstate.Vector, q int, m00, m01, m10, m11 float64) {
	bit := 1 << q
	a, b, c, d := complex(m00, 0), complex(m01, 0), complex(m10, 0), complex(m11, 0)
	for i := range state {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		x, y := state[i], state[j]
		state[i] = a*x + b*y
		state[j] = c*x + d*y
	}
}

// applyShift writes into dst the state with the value of qubits decremented
// (mod 2^len(qubits)) wherever every control is set.
func applyShift(dst, src qstate.Vector, qubits, controls []int) {
	ctrl := 0
	for _, c := range controls {
		ctrl |= 1 << c
	}
	mask := 0
	for _, q := range qubits {
		mask |= 1 << q
	}
	size := 1 << len(qubits)
	for i, amp := range src {
		if i&ctrl != ctrl {
			dst[i] = amp
			continue
		}
		y := 0
		for k, q := range qubits {
			y |= (i >> q & 1) << k
		}
		y = (y - 1 + size) % size
		j := i &^ mask
		for k, q := range qubits {
			j |= (y >> k & 1) << q
		}
		dst[j] = amp
	}
}

// Sample draws a multinomial histogram of shots over probs by conditional
// binomial draws. Keys are basis indices.
func Sample(probs []float64, shots int, src rand.Source) map[uint64]int {
	counts := make(map[uint64]int)
	mass := 0.0
	last := -1
	for i, p := range probs {
		if p > 0 {
			mass += p
			last = i
		}
	}
	if last < 0 || shots <= 0 {
		return counts
	}

	remaining := shots
	for i, p := range probs {
		if remaining == 0 {
			break
		}
		if p <= 0 {
			continue
		}
		var n int
		q := p / mass
		if i == last || q >= 1 {
			n = remaining
		} else {
			n = int(distuv.Binomial{N: float64(remaining), P: math.Max(q, 0), Src: src}.Rand())
		}
		if n > 0 {
			counts[uint64(i)] += n
			remaining -= n
		}
		mass -= p
		if mass <= 0 {
			mass = 0
			if remaining > 0 {
				counts[uint64(last)] += remaining
				remaining = 0
			}
		}
	}
	return counts
}
