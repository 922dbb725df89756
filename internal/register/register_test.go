package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

func TestFromShape_SubRegisterSizes(t *testing.T) {
	r, err := FromShape([]int{6, 4, 1})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Dims())
	assert.Equal(t, []int{3, 2, 0}, r.Sizes())
	assert.Equal(t, 5, r.Size())
	assert.Equal(t, 32, r.StateLen())
	assert.Equal(t, []int{8, 4, 1}, r.PaddedShape())
}

func TestFromShape_RowMajorLayout(t *testing.T) {
	r, err := FromShape([]int{4, 8})
	require.NoError(t, err)

	// Last axis holds the least-significant qubits.
	assert.Equal(t, []int{0, 1, 2}, r.Qubits(1))
	assert.Equal(t, []int{3, 4}, r.Qubits(0))
	assert.Equal(t, 3, r.Offset(0))
	assert.Equal(t, 0, r.Offset(1))
}

func TestFromShape_Errors(t *testing.T) {
	_, err := FromShape(nil)
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)

	_, err = FromShape([]int{4, 0})
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}

func TestRegisterIsImmutable(t *testing.T) {
	r := FromSizes([]int{2, 3})
	sizes := r.Sizes()
	sizes[0] = 10
	q := r.Qubits(0)
	q[0] = 99

	assert.Equal(t, []int{2, 3}, r.Sizes())
	assert.Equal(t, []int{3, 4}, r.Qubits(0))
}

func TestCeilLog2(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4, 1024: 10}
	for n, want := range cases {
		assert.Equal(t, want, CeilLog2(n), "n=%d", n)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	assert.True(t, IsPowerOfTwo(1))
	assert.True(t, IsPowerOfTwo(64))
	assert.False(t, IsPowerOfTwo(0))
	assert.False(t, IsPowerOfTwo(-4))
	assert.False(t, IsPowerOfTwo(6))
}
