package transform

import (
	"fmt"

	"github.com/rewind-ml/rewind/internal/tensor"
)

// Extra keys under which realized geometry is recorded.
const (
	extraPadded  = "padded"  // []tensor.Widths per spatial dim
	extraCropped = "cropped" // [][2]int half-open bounds per spatial dim
)

// geometry is the realized effect of one geometric transform invocation:
// an optional zero-pad followed by an optional crop, both over spatial
// dimensions only (the leading channel dimension is never touched). All
// widths and bounds are stored clamped, so inversion is pure arithmetic
// with no re-clamping.
type geometry struct {
	padded  []tensor.Widths
	cropped [][2]int
}

func (g geometry) toExtra() map[string]any {
	if g.padded == nil && g.cropped == nil {
		return nil
	}
	extra := make(map[string]any, 2)
	if g.padded != nil {
		extra[extraPadded] = g.padded
	}
	if g.cropped != nil {
		extra[extraCropped] = g.cropped
	}
	return extra
}

func geometryFromExtra(extra map[string]any) (geometry, error) {
	var g geometry
	if v, ok := extra[extraPadded]; ok {
		w, ok := v.([]tensor.Widths)
		if !ok {
			return geometry{}, fmt.Errorf("recorded %q has type %T", extraPadded, v)
		}
		g.padded = w
	}
	if v, ok := extra[extraCropped]; ok {
		b, ok := v.([][2]int)
		if !ok {
			return geometry{}, fmt.Errorf("recorded %q has type %T", extraCropped, v)
		}
		g.cropped = b
	}
	return g, nil
}

// broadcastInts expands a 1-element configuration value to ndim entries,
// or validates that exactly ndim entries were given.
func broadcastInts(vals []int, ndim int) ([]int, error) {
	switch {
	case len(vals) == 1:
		out := make([]int, ndim)
		for d := range out {
			out[d] = vals[0]
		}
		return out, nil
	case len(vals) == ndim:
		return append([]int(nil), vals...), nil
	default:
		return nil, fmt.Errorf("got %d values for %d spatial dimensions", len(vals), ndim)
	}
}

// clampBounds clamps half-open bounds into [0, size] with end >= start.
// Degenerate configurations (negative starts, over-large ends) are clamped
// rather than rejected; only end-before-start collapses, to an empty range.
func clampBounds(start, end, size int) (int, int) {
	start = min(max(start, 0), size)
	end = min(max(end, start), size)
	return start, end
}

// clampBoundsTo clamps a shared per-dimension bounding box to one tensor's
// spatial extent.
func clampBoundsTo(bounds [][2]int, spatial tensor.Shape) ([][2]int, error) {
	if len(bounds) != len(spatial) {
		return nil, fmt.Errorf("bounding box has %d dimensions, tensor has %d spatial dimensions", len(bounds), len(spatial))
	}
	out := make([][2]int, len(bounds))
	for d, b := range bounds {
		s, e := clampBounds(b[0], b[1], spatial[d])
		out[d] = [2]int{s, e}
	}
	return out, nil
}

// apply runs the forward geometry: pad, then crop.
func (g geometry) apply(t *tensor.Tensor) (*tensor.Tensor, error) {
	cur := t
	if g.padded != nil {
		full := make([]tensor.Widths, len(cur.Shape()))
		for d, w := range g.padded {
			full[d+1] = w
		}
		var err error
		cur, err = tensor.Pad(cur, full)
		if err != nil {
			return nil, err
		}
	}
	if g.cropped != nil {
		starts := make([]int, len(cur.Shape()))
		ends := make([]int, len(cur.Shape()))
		ends[0] = cur.Shape()[0]
		for d, b := range g.cropped {
			starts[d+1] = b[0]
			ends[d+1] = b[1]
		}
		var err error
		cur, err = tensor.Crop(cur, starts, ends)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// invert reverses the recorded geometry on t, restoring the spatial extent
// of orig. Cropped-away margins come back zero-filled. The channel
// dimension is taken from t, not from orig, so the inverse also works on
// derived values whose channel count differs from the original (e.g. a
// model prediction).
func (g geometry) invert(t *tensor.Tensor, orig tensor.Shape) (*tensor.Tensor, error) {
	spatial := orig.Spatial()

	// Spatial extent after the forward pad step.
	inter := spatial.Clone()
	for d, w := range g.padded {
		inter[d] += w[0] + w[1]
	}

	cur := t
	if g.cropped != nil {
		// Undo the crop: pad the removed margins back.
		full := make([]tensor.Widths, len(cur.Shape()))
		for d, b := range g.cropped {
			full[d+1] = tensor.Widths{b[0], inter[d] - b[1]}
		}
		var err error
		cur, err = tensor.Pad(cur, full)
		if err != nil {
			return nil, err
		}
	}
	if g.padded != nil {
		// Undo the pad: crop the recorded widths off.
		starts := make([]int, len(cur.Shape()))
		ends := make([]int, len(cur.Shape()))
		ends[0] = cur.Shape()[0]
		for d, w := range g.padded {
			starts[d+1] = w[0]
			ends[d+1] = inter[d] - w[1]
		}
		var err error
		cur, err = tensor.Crop(cur, starts, ends)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}
