package transform

import (
	"fmt"

	"github.com/rewind-ml/rewind/internal/tensor"
)

// ResizeWithPadOrCrop brings each configured key's spatial dimensions to
// an exact target size, padding the dimensions that are too small and
// center-cropping the ones that are too large. Which operation was
// realized per dimension is captured in the recorded geometry, so the
// inverse undoes exactly what happened. A target <= 0 keeps the full
// extent of that dimension.
type ResizeWithPadOrCrop struct {
	keyed
	size   []int
	method Method
}

// NewResizeWithPadOrCrop creates a ResizeWithPadOrCrop. spatialSize holds
// one target per spatial dimension, or a single value applied to all of
// them. An empty method defaults to MethodSymmetric for the pad step.
func NewResizeWithPadOrCrop(keys []string, spatialSize []int, method Method) *ResizeWithPadOrCrop {
	if method == "" {
		method = MethodSymmetric
	}
	return &ResizeWithPadOrCrop{
		keyed:  newKeyed("ResizeWithPadOrCrop", keys),
		size:   append([]int(nil), spatialSize...),
		method: method,
	}
}

// Apply resizes each configured key and records the realized pad widths
// and crop bounds in one ledger record.
func (r *ResizeWithPadOrCrop) Apply(s Sample) (Sample, error) {
	return r.applyKeys(s, func(t *tensor.Tensor) (geometry, error) {
		spatial := t.Shape().Spatial()
		size, err := broadcastInts(r.size, len(spatial))
		if err != nil {
			return geometry{}, err
		}

		widths := make([]tensor.Widths, len(spatial))
		bounds := make([][2]int, len(spatial))
		for d, dim := range spatial {
			target := size[d]
			if target <= 0 {
				target = dim
			}
			widths[d] = splitPad(target-dim, r.method)

			// Crop the padded extent down to the target. For a dimension
			// that was padded this is the full (already exact) extent.
			padded := dim + widths[d][0] + widths[d][1]
			s0, e0 := centerBounds(target, padded)
			bounds[d] = [2]int{s0, e0}
		}
		return geometry{padded: widths, cropped: bounds}, nil
	})
}

// Inverse undoes the realized crop, then the realized pad, per dimension.
func (r *ResizeWithPadOrCrop) Inverse(s Sample) (Sample, error) {
	return r.invertKeys(s)
}

// AddChannel prepends a channel dimension of size 1 to each configured
// key. It participates in forward pipelines but is not invertible; a
// composed inverse passes over it and the channel dimension survives.
type AddChannel struct {
	keyed
}

// NewAddChannel creates an AddChannel.
func NewAddChannel(keys []string) *AddChannel {
	return &AddChannel{keyed: newKeyed("AddChannel", keys)}
}

// Apply unsqueezes each configured key at dimension 0.
func (a *AddChannel) Apply(s Sample) (Sample, error) {
	out := s.shallow()
	for _, key := range a.keys {
		v, ok := out[key]
		if !ok {
			if a.tolerateMissing {
				continue
			}
			return nil, &MissingKeyError{Transform: a.name, Key: key}
		}
		t, ok := v.(*tensor.Tensor)
		if !ok {
			return nil, fmt.Errorf("%s: key %q holds %T, want *tensor.Tensor", a.name, key, v)
		}
		nt, err := tensor.Unsqueeze(t, 0)
		if err != nil {
			return nil, err
		}
		out[key] = nt
	}
	return out, nil
}
