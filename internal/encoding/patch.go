package encoding

import (
	"fmt"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

// Patchify splits a row-major signal into equally shaped row-major patches.
// Patches are ordered row-major over the patch grid, which is returned alongside.
// A nil patchShape yields the whole signal as a single patch.
func Patchify[T any](values []T, shape, patchShape []int) (patches [][]T, grid []int, err error) {
	if err := checkShape(len(values), shape); err != nil {
		return nil, nil, err
	}
	if patchShape == nil {
		patchShape = shape
	}
	if len(patchShape) != len(shape) {
		return nil, nil, fmt.Errorf("%w: patch shape %v does not match signal shape %v",
			errs.ErrDimensionMismatch, patchShape, shape)
	}

	grid = make([]int, len(shape))
	for d := range shape {
		if patchShape[d] < 1 || shape[d]%patchShape[d] != 0 {
			return nil, nil, fmt.Errorf("%w: axis %d length %d is not divisible by patch length %d",
				errs.ErrDimensionMismatch, d, shape[d], patchShape[d])
		}
		grid[d] = shape[d] / patchShape[d]
	}

	strides := Strides(shape)
	patchLen := Product(patchShape)
	patches = make([][]T, Product(grid))

	cell := make([]int, len(grid))
	for p := range patches {
		patch := make([]T, patchLen)
		local := make([]int, len(patchShape))
		for i := range patch {
			src := 0
			for d := range local {
				src += (cell[d]*patchShape[d] + local[d]) * strides[d]
			}
			patch[i] = values[src]
			next(local, patchShape)
		}
		patches[p] = patch
		next(cell, grid)
	}
	return patches, grid, nil
}

// Depatchify reassembles patches produced by Patchify (possibly resampled to a
// new patch shape) into one row-major signal of shape grid*patchShape.
func Depatchify[T any](patches [][]T, patchShape, grid []int) ([]T, []int, error) {
	if len(patchShape) != len(grid) {
		return nil, nil, fmt.Errorf("%w: patch shape %v does not match grid %v",
			errs.ErrDimensionMismatch, patchShape, grid)
	}
	if len(patches) != Product(grid) {
		return nil, nil, fmt.Errorf("%w: grid %v needs %d patches, got %d",
			errs.ErrDimensionMismatch, grid, Product(grid), len(patches))
	}

	shape := make([]int, len(grid))
	for d := range grid {
		shape[d] = grid[d] * patchShape[d]
	}
	strides := Strides(shape)
	patchLen := Product(patchShape)
	out := make([]T, Product(shape))

	cell := make([]int, len(grid))
	for _, patch := range patches {
		if len(patch) != patchLen {
			return nil, nil, fmt.Errorf("%w: patch holds %d samples, want %d",
				errs.ErrDimensionMismatch, len(patch), patchLen)
		}
		local := make([]int, len(patchShape))
		for i := range patch {
			dst := 0
			for d := range local {
				dst += (cell[d]*patchShape[d] + local[d]) * strides[d]
			}
			out[dst] = patch[i]
			next(local, patchShape)
		}
		next(cell, grid)
	}
	return out, shape, nil
}
