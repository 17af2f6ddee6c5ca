// Package tensor implements a small dense N-dimensional float64 array with
// the handful of operations the source-space containers need: contraction
// of a kernel against sensor data, trailing-axis slicing, and resampling.
//
// Values are stored row-major in a flat backing slice. Dense values are
// treated as immutable by the container code; operations return new arrays.
package tensor

import (
	"fmt"
	"math"
)

// Dense is a dense N-dimensional array of float64 values.
type Dense struct {
	shape []int
	data  []float64
}

// New returns a zero-filled array with the given shape.
func New(shape ...int) *Dense {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Dense{
		shape: append([]int(nil), shape...),
		data:  make([]float64, n),
	}
}

// Ones returns an array with the given shape filled with 1.
func Ones(shape ...int) *Dense {
	d := New(shape...)
	for i := range d.data {
		d.data[i] = 1
	}
	return d
}

// FromFlat wraps a row-major flat slice in an array with the given shape.
// The slice length must match the shape volume exactly.
func FromFlat(data []float64, shape ...int) (*Dense, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if len(data) != n {
		return nil, fmt.Errorf("flat data length %d does not match shape %v (volume %d)", len(data), shape, n)
	}
	return &Dense{
		shape: append([]int(nil), shape...),
		data:  data,
	}, nil
}

// Shape returns a copy of the array's shape.
func (d *Dense) Shape() []int {
	return append([]int(nil), d.shape...)
}

// NDim returns the number of axes.
func (d *Dense) NDim() int {
	return len(d.shape)
}

// Dim returns the length of axis i. Negative i counts from the end, so
// Dim(-1) is the trailing axis.
func (d *Dense) Dim(i int) int {
	if i < 0 {
		i += len(d.shape)
	}
	return d.shape[i]
}

// Len returns the total number of elements.
func (d *Dense) Len() int {
	return len(d.data)
}

// At returns the element at the given multi-dimensional index.
func (d *Dense) At(idx ...int) float64 {
	return d.data[d.flatIndex(idx)]
}

// Set stores v at the given multi-dimensional index.
func (d *Dense) Set(v float64, idx ...int) {
	d.data[d.flatIndex(idx)] = v
}

func (d *Dense) flatIndex(idx []int) int {
	if len(idx) != len(d.shape) {
		panic(fmt.Sprintf("tensor: index %v does not match shape %v", idx, d.shape))
	}
	flat := 0
	for i, ix := range idx {
		if ix < 0 || ix >= d.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", idx, d.shape))
		}
		flat = flat*d.shape[i] + ix
	}
	return flat
}

// Flat returns the row-major backing slice. The slice is shared with the
// array; callers that need an independent copy should use Clone.
func (d *Dense) Flat() []float64 {
	return d.data
}

// Clone returns a deep copy of the array.
func (d *Dense) Clone() *Dense {
	return &Dense{
		shape: append([]int(nil), d.shape...),
		data:  append([]float64(nil), d.data...),
	}
}

// Equal reports whether two arrays have identical shape and elements.
func (d *Dense) Equal(other *Dense) bool {
	if len(d.shape) != len(other.shape) {
		return false
	}
	for i, s := range d.shape {
		if other.shape[i] != s {
			return false
		}
	}
	for i, v := range d.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// String returns a short shape-only description.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense%v", d.shape)
}

// Contract computes the tensor contraction of the kernel's trailing axis
// with the sensor data's leading axis: for kernel shape [V, S] and sensor
// data shape [S, d1, ..., dk], the result has shape [V, d1, ..., dk] with
//
//	out[v, j...] = sum over s of kernel[v, s] * sens[s, j...]
//
// This is the collapse primitive for factored source-space data.
func Contract(kernel, sens *Dense) (*Dense, error) {
	if kernel.NDim() != 2 {
		return nil, fmt.Errorf("kernel must have 2 axes, got shape %v", kernel.shape)
	}
	if sens.NDim() < 1 || kernel.shape[1] != sens.shape[0] {
		return nil, fmt.Errorf("kernel shape %v cannot contract with sensor data shape %v", kernel.shape, sens.shape)
	}

	nVerts := kernel.shape[0]
	nSens := kernel.shape[1]
	rest := 1
	for _, s := range sens.shape[1:] {
		rest *= s
	}

	outShape := append([]int{nVerts}, sens.shape[1:]...)
	out := New(outShape...)
	for v := 0; v < nVerts; v++ {
		row := kernel.data[v*nSens : (v+1)*nSens]
		dst := out.data[v*rest : (v+1)*rest]
		for s, w := range row {
			if w == 0 {
				continue
			}
			src := sens.data[s*rest : (s+1)*rest]
			for j, x := range src {
				dst[j] += w * x
			}
		}
	}
	return out, nil
}

// SliceLast returns a copy of the array restricted to [lo, hi) along the
// trailing axis.
func (d *Dense) SliceLast(lo, hi int) *Dense {
	last := d.shape[len(d.shape)-1]
	if lo < 0 || hi > last || lo > hi {
		panic(fmt.Sprintf("tensor: slice [%d:%d] out of range for trailing axis length %d", lo, hi, last))
	}

	outShape := d.Shape()
	outShape[len(outShape)-1] = hi - lo
	out := New(outShape...)

	blocks := len(d.data) / last
	width := hi - lo
	for b := 0; b < blocks; b++ {
		copy(out.data[b*width:(b+1)*width], d.data[b*last+lo:b*last+hi])
	}
	return out
}

// ResampleLast resamples the trailing axis from oldRate to newRate using
// linear interpolation. The output trailing axis has length
// round(n * newRate / oldRate). The interpolation here stands in for the
// acquisition toolchain's filter-based resampler; callers treat it as an
// opaque numeric primitive.
func ResampleLast(d *Dense, newRate, oldRate float64) (*Dense, error) {
	if newRate <= 0 || oldRate <= 0 {
		return nil, fmt.Errorf("sample rates must be positive, got new %g old %g", newRate, oldRate)
	}

	last := d.shape[len(d.shape)-1]
	ratio := newRate / oldRate
	newLast := int(math.Round(float64(last) * ratio))
	if newLast < 1 {
		return nil, fmt.Errorf("resampling %d samples by ratio %g leaves no samples", last, ratio)
	}

	outShape := d.Shape()
	outShape[len(outShape)-1] = newLast
	out := New(outShape...)

	blocks := len(d.data) / last
	for b := 0; b < blocks; b++ {
		src := d.data[b*last : (b+1)*last]
		dst := out.data[b*newLast : (b+1)*newLast]
		for i := range dst {
			x := float64(i) / ratio
			lo := int(math.Floor(x))
			if lo >= last-1 {
				dst[i] = src[last-1]
				continue
			}
			frac := x - float64(lo)
			dst[i] = src[lo]*(1-frac) + src[lo+1]*frac
		}
	}
	return out, nil
}
