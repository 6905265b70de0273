package transform

import (
	"fmt"
	"math/rand"

	"github.com/rewind-ml/rewind/internal/tensor"
)

// centerBounds computes a centered half-open range of length roi within a
// dimension of the given size. A negative roi, or one exceeding the size,
// keeps the full extent.
func centerBounds(roi, size int) (int, int) {
	if roi < 0 || roi > size {
		roi = size
	}
	start := size/2 - roi/2
	return clampBounds(start, start+roi, size)
}

// firstTensor returns the first configured key present in the sample with
// a tensor value, for transforms that realize one shared geometry per
// sample.
func firstTensor(s Sample, keys []string) *tensor.Tensor {
	for _, key := range keys {
		if t := s.Tensor(key); t != nil {
			return t
		}
	}
	return nil
}

// SpatialCrop crops a fixed region of interest from each configured key,
// given either as explicit start/end bounds or as a center plus size.
// Bounds are clamped to the input extent; a negative size keeps the full
// extent of that dimension.
type SpatialCrop struct {
	keyed
	start, end   []int
	center, size []int
}

// NewSpatialCrop creates a SpatialCrop from half-open start/end bounds,
// one per spatial dimension (or a single value for all).
func NewSpatialCrop(keys []string, start, end []int) *SpatialCrop {
	return &SpatialCrop{
		keyed: newKeyed("SpatialCrop", keys),
		start: append([]int(nil), start...),
		end:   append([]int(nil), end...),
	}
}

// NewSpatialCropCenter creates a SpatialCrop from a region center and
// size, one per spatial dimension (or a single value for all).
func NewSpatialCropCenter(keys []string, center, size []int) *SpatialCrop {
	return &SpatialCrop{
		keyed:  newKeyed("SpatialCrop", keys),
		center: append([]int(nil), center...),
		size:   append([]int(nil), size...),
	}
}

// Apply crops each configured key and records the realized bounds.
func (c *SpatialCrop) Apply(s Sample) (Sample, error) {
	return c.applyKeys(s, func(t *tensor.Tensor) (geometry, error) {
		spatial := t.Shape().Spatial()
		bounds := make([][2]int, len(spatial))

		if c.center != nil {
			center, err := broadcastInts(c.center, len(spatial))
			if err != nil {
				return geometry{}, err
			}
			size, err := broadcastInts(c.size, len(spatial))
			if err != nil {
				return geometry{}, err
			}
			for d, dim := range spatial {
				if size[d] < 0 {
					bounds[d] = [2]int{0, dim}
					continue
				}
				start := center[d] - size[d]/2
				s0, e0 := clampBounds(start, start+size[d], dim)
				bounds[d] = [2]int{s0, e0}
			}
			return geometry{cropped: bounds}, nil
		}

		start, err := broadcastInts(c.start, len(spatial))
		if err != nil {
			return geometry{}, err
		}
		end, err := broadcastInts(c.end, len(spatial))
		if err != nil {
			return geometry{}, err
		}
		for d, dim := range spatial {
			s0, e0 := clampBounds(start[d], end[d], dim)
			bounds[d] = [2]int{s0, e0}
		}
		return geometry{cropped: bounds}, nil
	})
}

// Inverse pads the removed margins back, zero-filled.
func (c *SpatialCrop) Inverse(s Sample) (Sample, error) {
	return c.invertKeys(s)
}

// CenterSpatialCrop crops a centered region of interest from each
// configured key. A negative or over-large size keeps the full extent.
type CenterSpatialCrop struct {
	keyed
	size []int
}

// NewCenterSpatialCrop creates a CenterSpatialCrop. roiSize holds one
// length per spatial dimension, or a single value applied to all of them.
func NewCenterSpatialCrop(keys []string, roiSize []int) *CenterSpatialCrop {
	return &CenterSpatialCrop{
		keyed: newKeyed("CenterSpatialCrop", keys),
		size:  append([]int(nil), roiSize...),
	}
}

// Apply crops each configured key and records the realized bounds.
func (c *CenterSpatialCrop) Apply(s Sample) (Sample, error) {
	return c.applyKeys(s, func(t *tensor.Tensor) (geometry, error) {
		spatial := t.Shape().Spatial()
		size, err := broadcastInts(c.size, len(spatial))
		if err != nil {
			return geometry{}, err
		}
		bounds := make([][2]int, len(spatial))
		for d, dim := range spatial {
			s0, e0 := centerBounds(size[d], dim)
			bounds[d] = [2]int{s0, e0}
		}
		return geometry{cropped: bounds}, nil
	})
}

// Inverse pads the removed margins back, zero-filled.
func (c *CenterSpatialCrop) Inverse(s Sample) (Sample, error) {
	return c.invertKeys(s)
}

// RandSpatialCropConfig configures a RandSpatialCrop.
type RandSpatialCropConfig struct {
	// RandomCenter places the region at a uniformly random offset instead
	// of the center.
	RandomCenter bool
	// RandomSize draws the realized size uniformly between the requested
	// size and the full extent, per dimension.
	RandomSize bool
	// Prob is the probability that the crop fires at all. The zero value
	// means 1 (always). A skipped invocation still pushes a ledger record
	// so the inverse can skip it identically.
	Prob float64
	// Source is the random source. A nil source falls back to a
	// deterministic generator seeded with 0.
	Source *rand.Rand
}

// RandSpatialCrop crops a randomly placed (and optionally randomly sized)
// region of interest. The offsets are drawn once per sample and shared by
// every configured key; the realized bounds are recorded so the inverse
// replays the exact geometry without touching the generator.
type RandSpatialCrop struct {
	keyed
	size         []int
	randomCenter bool
	randomSize   bool
	prob         float64
	rng          *rand.Rand
}

// NewRandSpatialCrop creates a RandSpatialCrop. roiSize holds one length
// per spatial dimension, or a single value applied to all of them.
func NewRandSpatialCrop(keys []string, roiSize []int, cfg RandSpatialCropConfig) *RandSpatialCrop {
	if cfg.Prob == 0 {
		cfg.Prob = 1
	}
	if cfg.Source == nil {
		cfg.Source = rand.New(rand.NewSource(0))
	}
	return &RandSpatialCrop{
		keyed:        newKeyed("RandSpatialCrop", keys),
		size:         append([]int(nil), roiSize...),
		randomCenter: cfg.RandomCenter,
		randomSize:   cfg.RandomSize,
		prob:         cfg.Prob,
		rng:          cfg.Source,
	}
}

// Apply draws the region once, then crops every configured key to it.
func (c *RandSpatialCrop) Apply(s Sample) (Sample, error) {
	if c.prob < 1 && c.rng.Float64() >= c.prob {
		return c.applySkipped(s)
	}

	ref := firstTensor(s, c.keys)
	if ref == nil {
		if c.tolerateMissing {
			return s.shallow(), nil
		}
		return nil, &MissingKeyError{Transform: c.name, Key: c.keys[0]}
	}

	spatial := ref.Shape().Spatial()
	size, err := broadcastInts(c.size, len(spatial))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	bounds := make([][2]int, len(spatial))
	for d, dim := range spatial {
		roi := size[d]
		if roi < 0 || roi > dim {
			roi = dim
		}
		if c.randomSize {
			roi += c.rng.Intn(dim - roi + 1)
		}
		var start int
		if c.randomCenter {
			start = c.rng.Intn(dim - roi + 1)
		} else {
			start, _ = centerBounds(roi, dim)
		}
		bounds[d] = [2]int{start, start + roi}
	}

	return c.applyKeys(s, func(t *tensor.Tensor) (geometry, error) {
		clamped, err := clampBoundsTo(bounds, t.Shape().Spatial())
		if err != nil {
			return geometry{}, err
		}
		return geometry{cropped: clamped}, nil
	})
}

// Inverse pads the recorded margins back, zero-filled.
func (c *RandSpatialCrop) Inverse(s Sample) (Sample, error) {
	return c.invertKeys(s)
}

// CropForeground crops every configured key to the bounding box of the
// nonzero region of a designated source key, expanded by a margin. The
// realized box is recorded at apply time; the inverse never re-inspects
// the content.
type CropForeground struct {
	keyed
	source string
	margin int
}

// NewCropForeground creates a CropForeground driven by sourceKey.
func NewCropForeground(keys []string, sourceKey string, margin int) *CropForeground {
	return &CropForeground{
		keyed:  newKeyed("CropForeground", keys),
		source: sourceKey,
		margin: margin,
	}
}

// Apply computes the source bounding box once, then crops every
// configured key to it.
func (c *CropForeground) Apply(s Sample) (Sample, error) {
	src := s.Tensor(c.source)
	if src == nil {
		if c.tolerateMissing {
			return s.shallow(), nil
		}
		return nil, &MissingKeyError{Transform: c.name, Key: c.source}
	}

	bounds := foregroundBounds(src, c.margin)
	return c.applyKeys(s, func(t *tensor.Tensor) (geometry, error) {
		clamped, err := clampBoundsTo(bounds, t.Shape().Spatial())
		if err != nil {
			return geometry{}, err
		}
		return geometry{cropped: clamped}, nil
	})
}

// Inverse pads the recorded margins back, zero-filled.
func (c *CropForeground) Inverse(s Sample) (Sample, error) {
	return c.invertKeys(s)
}

// foregroundBounds finds the spatial bounding box of the nonzero elements
// of t, over all channels, expanded by margin and clamped to the extent.
// If the tensor is entirely zero the box is empty.
func foregroundBounds(t *tensor.Tensor, margin int) [][2]int {
	shape := t.Shape()
	strides := t.Strides()
	spatial := shape.Spatial()

	start := make([]int, len(spatial))
	end := make([]int, len(spatial))
	for d, dim := range spatial {
		start[d] = dim
	}

	found := false
	for flat := 0; flat < t.NumElements(); flat++ {
		if t.ZeroAt(flat) {
			continue
		}
		found = true
		for d := range spatial {
			coord := flat / strides[d+1] % shape[d+1]
			start[d] = min(start[d], coord)
			end[d] = max(end[d], coord+1)
		}
	}

	bounds := make([][2]int, len(spatial))
	if !found {
		return bounds // empty box at the origin
	}
	for d, dim := range spatial {
		s0, e0 := clampBounds(start[d]-margin, end[d]+margin, dim)
		bounds[d] = [2]int{s0, e0}
	}
	return bounds
}
