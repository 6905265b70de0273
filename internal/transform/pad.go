package transform

import (
	"fmt"

	"github.com/rewind-ml/rewind/internal/tensor"
)

// Method selects how a pad transform distributes the required widths.
type Method string

// Supported pad methods.
const (
	// MethodSymmetric splits the pad evenly, with the extra element going
	// to the end for odd widths.
	MethodSymmetric Method = "symmetric"
	// MethodEnd puts the whole pad after the data.
	MethodEnd Method = "end"
)

func splitPad(need int, method Method) tensor.Widths {
	if need < 0 {
		need = 0
	}
	if method == MethodEnd {
		return tensor.Widths{0, need}
	}
	before := need / 2
	return tensor.Widths{before, need - before}
}

// SpatialPad pads each configured key's spatial dimensions up to a target
// size. Dimensions already at or beyond the target are left alone, so a
// target smaller than the input is a no-op rather than an error.
type SpatialPad struct {
	keyed
	size   []int
	method Method
}

// NewSpatialPad creates a SpatialPad. spatialSize holds one target per
// spatial dimension, or a single value applied to all of them. An empty
// method defaults to MethodSymmetric.
func NewSpatialPad(keys []string, spatialSize []int, method Method) *SpatialPad {
	if method == "" {
		method = MethodSymmetric
	}
	return &SpatialPad{
		keyed:  newKeyed("SpatialPad", keys),
		size:   append([]int(nil), spatialSize...),
		method: method,
	}
}

// Apply pads each configured key and records the realized widths.
func (p *SpatialPad) Apply(s Sample) (Sample, error) {
	return p.applyKeys(s, func(t *tensor.Tensor) (geometry, error) {
		spatial := t.Shape().Spatial()
		size, err := broadcastInts(p.size, len(spatial))
		if err != nil {
			return geometry{}, err
		}
		widths := make([]tensor.Widths, len(spatial))
		for d := range spatial {
			widths[d] = splitPad(size[d]-spatial[d], p.method)
		}
		return geometry{padded: widths}, nil
	})
}

// Inverse crops the recorded widths back off.
func (p *SpatialPad) Inverse(s Sample) (Sample, error) {
	return p.invertKeys(s)
}

// BorderPad pads a fixed border around each configured key's spatial
// dimensions. The border spec holds one of:
//   - 1 value: padded on both sides of every spatial dimension,
//   - ndim values: per-dimension width, both sides,
//   - 2*ndim values: explicit [start, end] pairs per dimension.
//
// Negative widths are clamped to zero.
type BorderPad struct {
	keyed
	border []int
}

// NewBorderPad creates a BorderPad with the given border spec.
func NewBorderPad(keys []string, border []int) *BorderPad {
	return &BorderPad{
		keyed:  newKeyed("BorderPad", keys),
		border: append([]int(nil), border...),
	}
}

// Apply pads each configured key and records the realized widths.
func (p *BorderPad) Apply(s Sample) (Sample, error) {
	return p.applyKeys(s, func(t *tensor.Tensor) (geometry, error) {
		spatial := t.Shape().Spatial()
		ndim := len(spatial)
		widths := make([]tensor.Widths, ndim)
		switch len(p.border) {
		case 1:
			for d := range widths {
				w := max(p.border[0], 0)
				widths[d] = tensor.Widths{w, w}
			}
		case ndim:
			for d := range widths {
				w := max(p.border[d], 0)
				widths[d] = tensor.Widths{w, w}
			}
		case 2 * ndim:
			for d := range widths {
				widths[d] = tensor.Widths{max(p.border[2*d], 0), max(p.border[2*d+1], 0)}
			}
		default:
			return geometry{}, fmt.Errorf("border spec of length %d not valid for %d spatial dimensions", len(p.border), ndim)
		}
		return geometry{padded: widths}, nil
	})
}

// Inverse crops the recorded widths back off.
func (p *BorderPad) Inverse(s Sample) (Sample, error) {
	return p.invertKeys(s)
}

// DivisiblePad pads each spatial dimension up to the next multiple of k.
// The realized widths depend on the input size modulo k, so they are
// recorded rather than recomputed on inverse. A k <= 0 leaves the
// dimension untouched.
type DivisiblePad struct {
	keyed
	k []int
}

// NewDivisiblePad creates a DivisiblePad. k holds one divisor per spatial
// dimension, or a single divisor applied to all of them.
func NewDivisiblePad(keys []string, k []int) *DivisiblePad {
	return &DivisiblePad{
		keyed: newKeyed("DivisiblePad", keys),
		k:     append([]int(nil), k...),
	}
}

// Apply pads each configured key and records the realized widths.
func (p *DivisiblePad) Apply(s Sample) (Sample, error) {
	return p.applyKeys(s, func(t *tensor.Tensor) (geometry, error) {
		spatial := t.Shape().Spatial()
		k, err := broadcastInts(p.k, len(spatial))
		if err != nil {
			return geometry{}, err
		}
		widths := make([]tensor.Widths, len(spatial))
		for d, dim := range spatial {
			if k[d] <= 0 {
				continue
			}
			newDim := (dim + k[d] - 1) / k[d] * k[d]
			widths[d] = splitPad(newDim-dim, MethodSymmetric)
		}
		return geometry{padded: widths}, nil
	})
}

// Inverse crops the recorded widths back off.
func (p *DivisiblePad) Inverse(s Sample) (Sample, error) {
	return p.invertKeys(s)
}
