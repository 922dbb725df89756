package qstate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tphakala/go-quantum-resampler/internal/circuit"
	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

// Mode selects how a backend executes a circuit.
type Mode int

const (
	// ModeExact returns the ideal output state vector.
	ModeExact Mode = iota

	// ModeShots returns sampled measurement counts.
	ModeShots
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeShots:
		return "shots"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "statevector":
		return ModeExact, nil
	case "shots", "sampled":
		return ModeShots, nil
	default:
		return 0, fmt.Errorf("%w: unknown execution mode %q", errs.ErrInvalidConfig, s)
	}
}

// Request asks a backend to run one circuit on one encoded input state.
type Request struct {
	Circuit *circuit.Circuit
	Input   Vector
	Mode    Mode
	Shots   int
}

// Result is either an exact state vector or a histogram of measured bitstrings.
type Result struct {
	Mode      Mode
	NumQubits int

	// State is set in exact mode.
	State Vector

	// Counts maps MSB-first bitstrings of length NumQubits to observation counts (shot mode).
	Counts map[string]int

	// Shots is the total number of shots behind Counts.
	Shots int
}

// Validate checks the invariants of a result.
func (r *Result) Validate() error {
	switch r.Mode {
	case ModeExact:
		if len(r.State) != 1<<r.NumQubits {
			return fmt.Errorf("%w: state has %d amplitudes for %d qubits",
				errs.ErrBackendExecution, len(r.State), r.NumQubits)
		}
	case ModeShots:
		total := 0
		for bits, n := range r.Counts {
			if len(bits) != r.NumQubits {
				return fmt.Errorf("%w: bitstring %q has length %d, register has %d qubits",
					errs.ErrBackendExecution, bits, len(bits), r.NumQubits)
			}
			if _, err := ParseBitstring(bits); err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("%w: negative count for %q", errs.ErrBackendExecution, bits)
			}
			total += n
		}
		if total != r.Shots {
			return fmt.Errorf("%w: counts sum to %d, result claims %d shots",
				errs.ErrBackendExecution, total, r.Shots)
		}
	default:
		return fmt.Errorf("%w: unknown result mode %v", errs.ErrBackendExecution, r.Mode)
	}
	return nil
}

// Merge sums shot results from independent batches into one result.
func Merge(results ...*Result) (*Result, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: nothing to merge", errs.ErrBackendExecution)
	}
	merged := &Result{
		Mode:      ModeShots,
		NumQubits: results[0].NumQubits,
		Counts:    make(map[string]int),
	}
	for i, r := range results {
		if r.Mode != ModeShots {
			return nil, fmt.Errorf("%w: batch %d is not a shot result", errs.ErrBackendExecution, i)
		}
		if r.NumQubits != merged.NumQubits {
			return nil, fmt.Errorf("%w: batch %d has %d qubits, want %d",
				errs.ErrBackendExecution, i, r.NumQubits, merged.NumQubits)
		}
		for bits, n := range r.Counts {
			merged.Counts[bits] += n
		}
		merged.Shots += r.Shots
	}
	return merged, nil
}

// Bitstring renders a basis index as an MSB-first bitstring of n characters.
func Bitstring(index uint64, n int) string {
	if n == 0 {
		return ""
	}
	s := strconv.FormatUint(index, 2)
	if len(s) < n {
		s = strings.Repeat("0", n-len(s)) + s
	}
	return s
}

// ParseBitstring converts an MSB-first bitstring back into a basis index.
func ParseBitstring(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad bitstring %q: %w", errs.ErrBackendExecution, s, err)
	}
	return v, nil
}
