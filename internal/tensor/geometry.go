package tensor

import "fmt"

// Widths describes a [before, after] padding amount for one dimension.
type Widths [2]int

// copyRegion copies a hyper-rectangular region of src into dst.
// srcStart/dstStart are per-dimension element offsets and size is the
// per-dimension extent of the region. Both tensors must share dtype and
// rank. Rows along the innermost dimension are copied contiguously.
func copyRegion(src, dst *Tensor, srcStart, dstStart, size []int) {
	ndim := len(src.shape)
	if ndim == 0 {
		copy(dst.data, src.data)
		return
	}
	for _, n := range size {
		if n == 0 {
			return
		}
	}

	es := src.dtype.Size()
	idx := make([]int, ndim-1) // iterate all but the innermost dim
	rowLen := size[ndim-1] * es

	for {
		srcOff := srcStart[ndim-1] * src.stride[ndim-1]
		dstOff := dstStart[ndim-1] * dst.stride[ndim-1]
		for d := 0; d < ndim-1; d++ {
			srcOff += (srcStart[d] + idx[d]) * src.stride[d]
			dstOff += (dstStart[d] + idx[d]) * dst.stride[d]
		}
		copy(dst.data[dstOff*es:dstOff*es+rowLen], src.data[srcOff*es:srcOff*es+rowLen])

		// Odometer increment over the outer dimensions.
		d := ndim - 2
		for ; d >= 0; d-- {
			idx[d]++
			if idx[d] < size[d] {
				break
			}
			idx[d] = 0
		}
		if d < 0 {
			return
		}
	}
}

// Pad returns a new tensor with the given widths of zeros added around
// each dimension. Negative widths are treated as zero. widths must have
// one entry per dimension.
func Pad(t *Tensor, widths []Widths) (*Tensor, error) {
	if len(widths) != len(t.shape) {
		return nil, fmt.Errorf("pad: got %d width pairs for %d dimensions", len(widths), len(t.shape))
	}

	outShape := make(Shape, len(t.shape))
	dstStart := make([]int, len(t.shape))
	for d, w := range widths {
		before, after := max(w[0], 0), max(w[1], 0)
		outShape[d] = t.shape[d] + before + after
		dstStart[d] = before
	}

	out := Zeros(outShape, t.dtype)
	copyRegion(t, out, make([]int, len(t.shape)), dstStart, t.shape)
	return out, nil
}

// Crop returns a new tensor containing the half-open region [starts, ends)
// of t. Bounds must satisfy 0 <= start <= end <= dim for every dimension;
// callers are expected to clamp beforehand.
func Crop(t *Tensor, starts, ends []int) (*Tensor, error) {
	if len(starts) != len(t.shape) || len(ends) != len(t.shape) {
		return nil, fmt.Errorf("crop: got %d/%d bounds for %d dimensions", len(starts), len(ends), len(t.shape))
	}

	outShape := make(Shape, len(t.shape))
	for d := range t.shape {
		if starts[d] < 0 || ends[d] < starts[d] || ends[d] > t.shape[d] {
			return nil, fmt.Errorf("crop: bounds [%d, %d) invalid for dimension %d (size %d)",
				starts[d], ends[d], d, t.shape[d])
		}
		outShape[d] = ends[d] - starts[d]
	}

	out := Zeros(outShape, t.dtype)
	copyRegion(t, out, starts, make([]int, len(t.shape)), outShape)
	return out, nil
}

// Stack combines tensors of identical shape and dtype into a single tensor
// with a new leading dimension of size len(ts).
func Stack(ts []*Tensor) (*Tensor, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("stack: at least one tensor required")
	}
	first := ts[0]
	for i, t := range ts[1:] {
		if t.dtype != first.dtype {
			return nil, fmt.Errorf("stack: tensor %d has dtype %s, want %s", i+1, t.dtype, first.dtype)
		}
		if !t.shape.Equal(first.shape) {
			return nil, fmt.Errorf("stack: tensor %d has shape %v, want %v", i+1, t.shape, first.shape)
		}
	}

	outShape := append(Shape{len(ts)}, first.shape.Clone()...)
	out := Zeros(outShape, first.dtype)
	chunk := first.ByteSize()
	for i, t := range ts {
		copy(out.data[i*chunk:(i+1)*chunk], t.data)
	}
	return out, nil
}

// Unstack splits a tensor along its leading dimension into independent
// copies, the inverse of Stack.
func Unstack(t *Tensor) ([]*Tensor, error) {
	if len(t.shape) == 0 {
		return nil, fmt.Errorf("unstack: scalar tensor has no leading dimension")
	}

	n := t.shape[0]
	inner := t.shape[1:].Clone()
	chunk := inner.NumElements() * t.dtype.Size()

	out := make([]*Tensor, n)
	for i := 0; i < n; i++ {
		part := Zeros(inner, t.dtype)
		copy(part.data, t.data[i*chunk:(i+1)*chunk])
		out[i] = part
	}
	return out, nil
}

// Unsqueeze returns a copy of t with a dimension of size 1 inserted at the
// given position.
func Unsqueeze(t *Tensor, dim int) (*Tensor, error) {
	if dim < 0 || dim > len(t.shape) {
		return nil, fmt.Errorf("unsqueeze: dim %d out of range [0, %d]", dim, len(t.shape))
	}
	out := t.Clone()
	shape := make(Shape, 0, len(t.shape)+1)
	shape = append(shape, t.shape[:dim]...)
	shape = append(shape, 1)
	shape = append(shape, t.shape[dim:]...)
	out.shape = shape
	out.stride = shape.ComputeStrides()
	return out, nil
}
