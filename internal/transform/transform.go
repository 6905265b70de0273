package transform

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rewind-ml/rewind/internal/tensor"
)

// Transform mutates a sample and returns the result. Implementations
// replace values rather than mutating them in place, so the input sample
// stays usable.
type Transform interface {
	// Name returns the registry tag of the transform kind. Ledger records
	// carry this tag for inverse dispatch validation.
	Name() string

	// Apply runs the forward transform. For invertible transforms this
	// pushes one ledger record per configured key.
	Apply(s Sample) (Sample, error)
}

// Invertible is a Transform whose effect can be exactly undone using the
// realized parameters recorded at apply time.
type Invertible interface {
	Transform

	// Inverse validates that this instance's record is at the top of each
	// configured key's ledger, pops it, and restores the pre-transform
	// geometry. Content lost by the forward transform (cropped-away
	// regions) is zero-filled, not recovered.
	Inverse(s Sample) (Sample, error)
}

// tolerant is implemented by key-addressed transforms that can skip
// missing keys while missing-key tolerance mode is active.
type tolerant interface {
	missingKeysAllowed() bool
	setAllowMissingKeys(bool)
}

// keyed is the common base for key-addressed transforms. It owns the
// configured keys, the instance identity, and the ledger discipline shared
// by every geometric transform.
type keyed struct {
	name            string
	id              string
	keys            []string
	tolerateMissing bool
}

func newKeyed(name string, keys []string) keyed {
	return keyed{
		name: name,
		id:   uuid.NewString(),
		keys: append([]string(nil), keys...),
	}
}

// Name returns the transform's registry tag.
func (k *keyed) Name() string { return k.name }

// Keys returns the configured keys.
func (k *keyed) Keys() []string { return append([]string(nil), k.keys...) }

func (k *keyed) missingKeysAllowed() bool   { return k.tolerateMissing }
func (k *keyed) setAllowMissingKeys(v bool) { k.tolerateMissing = v }

// applyKeys drives the forward pass: for each configured key, realize the
// geometry for that key's current value, apply it, and push a record of
// the realized parameters.
func (k *keyed) applyKeys(s Sample, realize func(t *tensor.Tensor) (geometry, error)) (Sample, error) {
	out := s.shallow()
	for _, key := range k.keys {
		v, ok := out[key]
		if !ok {
			if k.tolerateMissing {
				continue
			}
			return nil, &MissingKeyError{Transform: k.name, Key: key}
		}
		t, ok := v.(*tensor.Tensor)
		if !ok {
			return nil, fmt.Errorf("%s: key %q holds %T, want *tensor.Tensor", k.name, key, v)
		}

		g, err := realize(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.name, err)
		}
		nt, err := g.apply(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.name, err)
		}

		out[key] = nt
		out.pushRecord(key, Record{
			ClassName:   k.name,
			ID:          k.id,
			OrigSize:    t.Shape().Clone(),
			Extra:       g.toExtra(),
			DoTransform: true,
		})
	}
	return out, nil
}

// applySkipped records a randomized transform that did not fire: the
// values stay untouched but a DoTransform=false record is pushed so the
// inverse can skip this invocation identically.
func (k *keyed) applySkipped(s Sample) (Sample, error) {
	out := s.shallow()
	for _, key := range k.keys {
		v, ok := out[key]
		if !ok {
			if k.tolerateMissing {
				continue
			}
			return nil, &MissingKeyError{Transform: k.name, Key: key}
		}
		t, ok := v.(*tensor.Tensor)
		if !ok {
			return nil, fmt.Errorf("%s: key %q holds %T, want *tensor.Tensor", k.name, key, v)
		}
		out.pushRecord(key, Record{
			ClassName: k.name,
			ID:        k.id,
			OrigSize:  t.Shape().Clone(),
		})
	}
	return out, nil
}

// invertKeys drives the inverse pass shared by every geometric transform:
// validate stack order per key, pop the record, and reverse the recorded
// geometry. Ordering violations fail fast on the first violated key; the
// state of later keys is unspecified at that point.
func (k *keyed) invertKeys(s Sample) (Sample, error) {
	out := s.shallow()
	for _, key := range k.keys {
		v, ok := out[key]
		if !ok {
			if k.tolerateMissing {
				continue
			}
			return nil, &MissingKeyError{Transform: k.name, Key: key}
		}
		t, ok := v.(*tensor.Tensor)
		if !ok {
			return nil, fmt.Errorf("%s: key %q holds %T, want *tensor.Tensor", k.name, key, v)
		}

		recs := out.Trace(key)
		if len(recs) == 0 {
			return nil, &OrderingError{Transform: k.name, Key: key}
		}
		top := recs[len(recs)-1]
		if top.ClassName != k.name || top.ID != k.id {
			return nil, &OrderingError{Transform: k.name, Key: key, Found: top.ClassName}
		}
		out.popRecord(key)

		if !top.DoTransform {
			continue
		}
		g, err := geometryFromExtra(top.Extra)
		if err != nil {
			return nil, fmt.Errorf("%s: key %q: %w", k.name, key, err)
		}
		nt, err := g.invert(t, top.OrigSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.name, err)
		}
		out[key] = nt
	}
	return out, nil
}
