package circuit

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
	"github.com/tphakala/go-quantum-resampler/internal/filter"
)

func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func TestBuild_Downsample1D(t *testing.T) {
	c, err := Build(Spec{Mode: Downsample1D, Shape: []int{4}, Factors: []int{2}}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, c.NumQubits)
	assert.Equal(t, 0, c.Ancillas())
	assert.Equal(t, []int{0}, c.Flags)
	assert.Equal(t, [][]int{{1}}, c.Outputs)
	assert.Equal(t, []int{2}, c.OutputShape)
	assert.InDelta(t, 1/math.Sqrt2, c.Gain, 1e-15)
	assert.InDelta(t, 0.5, c.Ratio, 1e-15)

	gates := c.Gates()
	require.Len(t, gates, 2)
	assert.Equal(t, GateUnitary, gates[0].Kind)
	assert.Equal(t, GateMeasure, gates[1].Kind)
	assert.Equal(t, filter.EqualWeight(), c.Filter)
}

func TestBuild_DownsampleConsumesLowQubits(t *testing.T) {
	c, err := Build(Spec{Mode: Downsample1D, Shape: []int{16}, Factors: []int{4}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, c.Flags)
	assert.Equal(t, [][]int{{2, 3}}, c.Outputs)
	assert.InDelta(t, 0.5, c.Gain, 1e-15)
	assert.InDelta(t, 0.25, c.Ratio, 1e-15)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		opts Options
		want error
	}{
		{"1D mode on 2D shape", Spec{Mode: Downsample1D, Shape: []int{4, 4}, Factors: []int{2, 2}}, Options{}, errs.ErrDimensionMismatch},
		{"not divisible", Spec{Mode: Downsample1D, Shape: []int{6}, Factors: []int{4}}, Options{}, errs.ErrUnsupportedFactor},
		{"zero factor", Spec{Mode: DownsampleMD, Shape: []int{4}, Factors: []int{0}}, Options{}, errs.ErrInvalidFactor},
		{"factor count", Spec{Mode: Upsample, Shape: []int{4, 4}, Factors: []int{2}}, Options{}, errs.ErrDimensionMismatch},
		{"bad filter", Spec{Mode: Downsample1D, Shape: []int{4}, Factors: []int{2}, Filter: filter.Pair{C0: 1, C1: 1}}, Options{}, errs.ErrInvalidConfig},
		{"bad angle", Spec{Mode: Upsample, Shape: []int{4}, Factors: []int{2}, Angle: 3}, Options{}, errs.ErrInvalidConfig},
		{"bad order", Spec{Mode: DownsampleMD, Shape: []int{4, 4}, Factors: []int{2, 2}}, Options{Order: []int{0, 0}}, errs.ErrInvalidConfig},
		{"short order", Spec{Mode: DownsampleMD, Shape: []int{4, 4}, Factors: []int{2, 2}}, Options{Order: []int{1}}, errs.ErrDimensionMismatch},
		{"unknown mode", Spec{Mode: Mode(9), Shape: []int{4}, Factors: []int{2}}, Options{}, errs.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.spec, tt.opts)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_MDOrderIndependence(t *testing.T) {
	spec := Spec{Mode: DownsampleMD, Shape: []int{4, 8, 2}, Factors: []int{2, 4, 2}}

	ref, err := Build(spec, Options{})
	require.NoError(t, err)
	refBytes, err := ref.MarshalBinary()
	require.NoError(t, err)

	for _, perm := range permutations(3) {
		for _, parallel := range []bool{false, true} {
			c, err := Build(spec, Options{Order: perm, Parallel: parallel})
			require.NoError(t, err)
			assert.True(t, ref.Equal(c), "order %v parallel %v", perm, parallel)

			data, err := c.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, refBytes, data, "order %v parallel %v", perm, parallel)
		}
	}

	axes := make([]int, 0, len(ref.Blocks))
	for _, b := range ref.Blocks {
		axes = append(axes, b.Axis)
	}
	assert.Equal(t, []int{0, 1, 2}, axes)
}

func TestBuild_UpsampleLinear(t *testing.T) {
	c, err := Build(Spec{Mode: Upsample, Shape: []int{4}, Factors: []int{2}, Angle: math.Pi / 4}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, c.NumQubits)
	assert.Equal(t, 2, c.InputQubits)
	assert.Equal(t, [][]int{{2, 0, 1}}, c.Outputs)
	assert.Equal(t, []int{3}, c.Flags)
	assert.Equal(t, []int{8}, c.OutputShape)
	assert.InDelta(t, math.Sqrt2, c.Gain, 1e-15)

	stats := c.Stats()
	assert.Equal(t, 7, stats.Gates)
	assert.Equal(t, 2, stats.ByKind[GateAllocate])
	assert.Equal(t, 2, stats.ByKind[GateRotation])
	assert.Equal(t, 1, stats.ByKind[GateShift])
	assert.Equal(t, 2, stats.Ancillas)
	assert.InDelta(t, 2.0, stats.Ratio, 1e-15)
}

func TestBuild_UpsampleNearestHasNoFlags(t *testing.T) {
	c, err := Build(Spec{Mode: Upsample, Shape: []int{3}, Factors: []int{4}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, c.NumQubits)
	assert.Empty(t, c.Flags)
	assert.Equal(t, [][]int{{3, 2, 0, 1}}, c.Outputs)
	assert.Equal(t, []int{12}, c.OutputShape)
	assert.InDelta(t, 2.0, c.Gain, 1e-12)
}

func TestBuild_UpsampleCanonicalAncillas(t *testing.T) {
	spec := Spec{Mode: Upsample, Shape: []int{2, 2}, Factors: []int{2, 2}, Angle: math.Pi / 4}
	for _, perm := range permutations(2) {
		c, err := Build(spec, Options{Order: perm})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{2, 1}, {4, 0}}, c.Outputs)
		assert.Equal(t, []int{3, 5}, c.Flags)
	}
}

func TestBuild_UpsampleAncillasFollowStageIndex(t *testing.T) {
	spec := Spec{Mode: Upsample, Shape: []int{2, 2}, Factors: []int{4, 2}, Angle: math.Pi / 4}
	c, err := Build(spec, Options{Parallel: true})
	require.NoError(t, err)

	assert.Equal(t, 8, c.NumQubits)
	assert.Equal(t, [][]int{{4, 2, 1}, {6, 0}}, c.Outputs)
	assert.Equal(t, []int{3, 5, 7}, c.Flags)
	assert.InDelta(t, 8.0, c.Ratio, 1e-15)
}

func TestCircuit_BinaryRoundTrip(t *testing.T) {
	for _, spec := range []Spec{
		{Mode: Downsample1D, Shape: []int{8}, Factors: []int{4}, Filter: filter.Pair{C0: 0.6, C1: 0.8}},
		{Mode: DownsampleMD, Shape: []int{4, 4}, Factors: []int{2, 4}},
		{Mode: Upsample, Shape: []int{3, 2}, Factors: []int{2, 4}, Angle: 0.3},
	} {
		t.Run(spec.Mode.String(), func(t *testing.T) {
			c, err := Build(spec, Options{})
			require.NoError(t, err)

			data, err := c.MarshalBinary()
			require.NoError(t, err)
			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.True(t, c.Equal(decoded))

			again, err := decoded.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, data, again)

			js, err := json.Marshal(c)
			require.NoError(t, err)
			var fromJSON Circuit
			require.NoError(t, json.Unmarshal(js, &fromJSON))
			require.NoError(t, fromJSON.Validate())
			assert.True(t, c.Equal(&fromJSON))
		})
	}
}

func TestDecode_RejectsInvalid(t *testing.T) {
	_, err := Decode([]byte{0xc1, 0x00})
	require.ErrorIs(t, err, errs.ErrInvalidCircuit)

	c, err := Build(Spec{Mode: Downsample1D, Shape: []int{4}, Factors: []int{2}}, Options{})
	require.NoError(t, err)
	c.Flags = nil
	data, err := c.MarshalBinary()
	require.NoError(t, err)
	_, err = Decode(data)
	require.ErrorIs(t, err, errs.ErrInvalidCircuit)
}

func TestValidate(t *testing.T) {
	base := func() *Circuit {
		c, err := Build(Spec{Mode: Upsample, Shape: []int{2}, Factors: []int{2}, Angle: 0.5}, Options{})
		require.NoError(t, err)
		return c
	}

	t.Run("use before allocation", func(t *testing.T) {
		c := base()
		c.Blocks[0].Gates = c.Blocks[0].Gates[1:]
		require.ErrorIs(t, c.Validate(), errs.ErrInvalidCircuit)
	})
	t.Run("non rotation unitary", func(t *testing.T) {
		c, err := Build(Spec{Mode: Downsample1D, Shape: []int{2}, Factors: []int{2}}, Options{})
		require.NoError(t, err)
		c.Blocks[0].Gates[0].Params = []float64{1, 1, 0, 1}
		require.ErrorIs(t, c.Validate(), errs.ErrInvalidCircuit)
	})
	t.Run("qubit out of range", func(t *testing.T) {
		c := base()
		c.Blocks[0].Gates[1].Qubits = []int{42}
		require.ErrorIs(t, c.Validate(), errs.ErrInvalidCircuit)
	})
	t.Run("gate after measurement", func(t *testing.T) {
		c := base()
		flag := c.Flags[0]
		c.Blocks[0].Gates = append(c.Blocks[0].Gates, Hadamard(flag))
		require.ErrorIs(t, c.Validate(), errs.ErrInvalidCircuit)
	})
	t.Run("unassigned qubit", func(t *testing.T) {
		c := base()
		c.Outputs[0] = c.Outputs[0][1:]
		c.OutputShape[0] = 2
		require.ErrorIs(t, c.Validate(), errs.ErrInvalidCircuit)
	})
	t.Run("bad gain", func(t *testing.T) {
		c := base()
		c.Gain = 0
		require.ErrorIs(t, c.Validate(), errs.ErrInvalidCircuit)
	})
	t.Run("ratio disagrees with shapes", func(t *testing.T) {
		c := base()
		c.Ratio = 0.5
		require.ErrorIs(t, c.Validate(), errs.ErrInvalidCircuit)
	})
}

func TestValidate_InputSizesMatchShape(t *testing.T) {
	c, err := Build(Spec{Mode: Upsample, Shape: []int{3}, Factors: []int{4}}, Options{})
	require.NoError(t, err)
	require.Equal(t, []int{2}, c.InputSizes)

	// A length-2 axis fits in the two qubits but only needs one.
	c.InputShape = []int{2}
	c.OutputShape = []int{8}
	require.ErrorIs(t, c.Validate(), errs.ErrInvalidCircuit)

	data, err := c.MarshalBinary()
	require.NoError(t, err)
	_, err = Decode(data)
	require.ErrorIs(t, err, errs.ErrInvalidCircuit)
}

func TestCanonicalize_KeepsOverlappingBlocks(t *testing.T) {
	c := &Circuit{Blocks: []Block{
		{Axis: 1, Gates: []Gate{Hadamard(0)}},
		{Axis: 0, Gates: []Gate{Hadamard(0)}},
		{Axis: 2, Gates: []Gate{Hadamard(3)}},
		{Axis: 1, Gates: []Gate{Hadamard(4)}},
	}}
	c.Canonicalize()

	axes := []int{}
	for _, b := range c.Blocks {
		axes = append(axes, b.Axis)
	}
	assert.Equal(t, []int{1, 0, 1, 2}, axes)
}

func TestQASM(t *testing.T) {
	c, err := Build(Spec{Mode: Upsample, Shape: []int{4}, Factors: []int{2}, Angle: math.Pi / 4}, Options{})
	require.NoError(t, err)

	q := c.QASM()
	assert.Contains(t, q, "OPENQASM 2.0;")
	assert.Contains(t, q, "qreg q[4];")
	assert.Contains(t, q, "creg c[1];")
	assert.Contains(t, q, "opaque cdec3 ctrl,v0,v1,v2;")
	assert.Contains(t, q, "cdec3 q[3],q[2],q[0],q[1];")
	assert.Contains(t, q, "h q[2];")
	assert.Contains(t, q, "measure q[3] -> c[0];")
}

func TestModeAndKindNames(t *testing.T) {
	for _, m := range []Mode{Downsample1D, DownsampleMD, Upsample} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("sideways")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	var k GateKind
	require.NoError(t, k.UnmarshalText([]byte("shift")))
	assert.Equal(t, GateShift, k)
	require.Error(t, k.UnmarshalText([]byte("cnot")))
}
