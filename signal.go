package qresample

// Signal is a row-major real or complex signal.
type Signal struct {
	Values []complex128
	Shape  []int
}

// RealSignal wraps real samples. Without a shape the signal is one-dimensional.
func RealSignal(values []float64, shape ...int) Signal {
	v := make([]complex128, len(values))
	for i, x := range values {
		v[i] = complex(x, 0)
	}
	return ComplexSignal(v, shape...)
}

// ComplexSignal wraps complex samples. Without a shape the signal is one-dimensional.
func ComplexSignal(values []complex128, shape ...int) Signal {
	if len(shape) == 0 {
		shape = []int{len(values)}
	}
	return Signal{Values: values, Shape: append([]int(nil), shape...)}
}

// ResampledSignal is the reconstructed output of a run.
type ResampledSignal struct {
	// Values holds the samples in row-major order.
	Values []complex128

	// Shape is the output shape: N/f or N*f per axis.
	Shape []int

	// StdErr holds per-sample standard errors in shot mode, nil in exact mode.
	StdErr []float64

	// Shots is the number of shots accumulated per patch, 0 in exact mode.
	Shots int
}

// Real returns the real parts of the samples.
func (r *ResampledSignal) Real() []float64 {
	out := make([]float64, len(r.Values))
	for i, v := range r.Values {
		out[i] = real(v)
	}
	return out
}

// Len returns the number of samples.
func (r *ResampledSignal) Len() int { return len(r.Values) }
