package qresample

import (
	"github.com/tphakala/go-quantum-resampler/internal/circuit"
	"github.com/tphakala/go-quantum-resampler/internal/filter"
	"github.com/tphakala/go-quantum-resampler/internal/simdops"
)

// Info describes a prepared run.
type Info struct {
	// ID is the run identifier used in log events.
	ID string

	// Mode is the resampling algorithm.
	Mode string

	// Execution is "exact" or "shots".
	Execution string

	// State is the current pipeline state.
	State string

	// NumQubits is the register size, ancillas included.
	NumQubits int

	// InputQubits is the size of the encoded signal register.
	InputQubits int

	// Ancillas and Flags count allocated and measured qubits.
	Ancillas int
	Flags    int

	// Gates is the circuit length.
	Gates int

	// Patches is the number of patches sharing the circuit.
	Patches int

	// Shots is the number of shots accumulated per patch.
	Shots int

	// Gain is the amplitude gain reapplied at reconstruction.
	Gain float64

	// Ratio is the output to input sample count ratio.
	Ratio float64

	// SelfWeight and NextWeight are the upsampling kernel's weights on a
	// sample and on its successor. Both are zero for downsampling.
	SelfWeight float64
	NextWeight float64

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// GetInfo returns information about a run.
func GetInfo(r *Run) Info {
	info := Info{
		ID:        r.id.String(),
		Execution: r.sim.config.Execution.String(),
		State:     r.state.String(),
		Patches:   len(r.patches),
		Shots:     r.shots,
		SIMDType:  simdops.Info(),
	}
	if r.circuit != nil {
		stats := r.circuit.Stats()
		info.Mode = stats.Mode.String()
		info.NumQubits = stats.NumQubits
		info.InputQubits = stats.InputQubits
		info.Ancillas = stats.Ancillas
		info.Flags = stats.Flags
		info.Gates = stats.Gates
		info.Gain = r.circuit.Gain
		info.Ratio = stats.Ratio
		if r.circuit.Mode == circuit.Upsample {
			info.SelfWeight, info.NextWeight = filter.Weights(r.circuit.Angle)
		}
	}
	return info
}
