package transform

// Compose runs an ordered sequence of transforms. Nested compositions are
// flattened at construction, so the ledger records produced by
// Compose(Compose(A, B), C) are identical to those of Compose(A, B, C)
// and inversion order is unambiguous regardless of nesting depth.
type Compose struct {
	transforms []Transform
}

// NewCompose creates a Compose over the given transforms, flattening any
// nested *Compose members.
func NewCompose(transforms ...Transform) *Compose {
	return &Compose{transforms: flatten(transforms)}
}

func flatten(transforms []Transform) []Transform {
	out := make([]Transform, 0, len(transforms))
	for _, t := range transforms {
		if c, ok := t.(*Compose); ok {
			out = append(out, flatten(c.transforms)...)
			continue
		}
		out = append(out, t)
	}
	return out
}

// Name returns the registry tag of the composition.
func (c *Compose) Name() string { return "Compose" }

// Transforms returns the flattened member sequence.
func (c *Compose) Transforms() []Transform {
	return append([]Transform(nil), c.transforms...)
}

// NumInvertible returns how many members implement Invertible, which is
// the number of ledger records a full forward pass pushes per key.
func (c *Compose) NumInvertible() int {
	n := 0
	for _, t := range c.transforms {
		if _, ok := t.(Invertible); ok {
			n++
		}
	}
	return n
}

// Apply runs every member in order.
func (c *Compose) Apply(s Sample) (Sample, error) {
	cur := s
	for _, t := range c.transforms {
		var err error
		cur, err = t.Apply(cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// Inverse runs the invertible members in strict reverse order.
// Non-invertible members are skipped; their forward effect is permanent.
func (c *Compose) Inverse(s Sample) (Sample, error) {
	cur := s
	for i := len(c.transforms) - 1; i >= 0; i-- {
		inv, ok := c.transforms[i].(Invertible)
		if !ok {
			continue
		}
		var err error
		cur, err = inv.Inverse(cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// AllowMissingKeys runs fn with every key-addressed member temporarily
// tolerating missing keys, so a pipeline can be inverted over a subset of
// its keys (e.g. a prediction for "label" without the original "image").
// The prior strictness of every member is restored when fn returns,
// including on error and panic paths.
func (c *Compose) AllowMissingKeys(fn func() error) error {
	type saved struct {
		t    tolerant
		prev bool
	}
	var entries []saved
	for _, t := range c.transforms {
		if kt, ok := t.(tolerant); ok {
			entries = append(entries, saved{t: kt, prev: kt.missingKeysAllowed()})
			kt.setAllowMissingKeys(true)
		}
	}
	defer func() {
		for _, e := range entries {
			e.t.setAllowMissingKeys(e.prev)
		}
	}()
	return fn()
}
