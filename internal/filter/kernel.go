package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-quantum-resampler/internal/errs"
)

// Kernel selects the interpolation scheme of an upsampling stage.
type Kernel int

const (
	// KernelNearest duplicates each sample (rotation angle 0).
	KernelNearest Kernel = iota

	// KernelLinear blends neighbouring samples equally (rotation angle π/4).
	// The successor of the last sample on the padded axis is the first one.
	KernelLinear

	// KernelCustom uses a caller-supplied angle in [0, π/2].
	KernelCustom
)

// MaxAngle is the largest interpolation angle; at π/2 the stage shifts instead of blending.
const MaxAngle = math.Pi / 2

// String returns the configuration name of the kernel.
func (k Kernel) String() string {
	switch k {
	case KernelNearest:
		return "nearest"
	case KernelLinear:
		return "linear"
	case KernelCustom:
		return "custom"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}

// ParseKernel converts a configuration name into a Kernel.
func ParseKernel(s string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest", "nn":
		return KernelNearest, nil
	case "", "linear":
		return KernelLinear, nil
	case "custom", "custom-angle":
		return KernelCustom, nil
	default:
		return 0, fmt.Errorf("%w: unknown interpolation kernel %q", errs.ErrInvalidConfig, s)
	}
}

// Angle returns the rotation angle for the kernel. custom is only consulted for KernelCustom.
func Angle(k Kernel, custom float64) (float64, error) {
	switch k {
	case KernelNearest:
		return 0, nil
	case KernelLinear:
		return math.Pi / 4, nil
	case KernelCustom:
		if !(custom >= 0 && custom <= MaxAngle) {
			return 0, fmt.Errorf("%w: interpolation angle %g outside [0, π/2]", errs.ErrInvalidConfig, custom)
		}
		return custom, nil
	default:
		return 0, fmt.Errorf("%w: unknown interpolation kernel %v", errs.ErrInvalidConfig, k)
	}
}

// Weights returns the weights the flag-|0⟩ branch places on the current
// sample and on its successor: cos²θ and sin²θ.
func Weights(theta float64) (self, next float64) {
	c, s := math.Cos(theta), math.Sin(theta)
	return c * c, s * s
}
