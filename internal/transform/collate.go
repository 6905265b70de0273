package transform

import (
	"fmt"

	"github.com/rewind-ml/rewind/internal/tensor"
)

// Collate combines per-sample mappings into a single batched mapping.
// Tensor values are stacked along a new leading batch dimension; ledgers
// are gathered into a parallel list (one ledger per sample) under the same
// trace key; other values are gathered into plain slices. All samples must
// carry the same keys with compatible tensor shapes.
func Collate(samples []Sample) (Sample, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("collate: no samples")
	}

	batch := make(Sample, len(samples[0]))
	for key, first := range samples[0] {
		switch first.(type) {
		case *tensor.Tensor:
			ts := make([]*tensor.Tensor, len(samples))
			for i, s := range samples {
				t := s.Tensor(key)
				if t == nil {
					return nil, fmt.Errorf("collate: sample %d has no tensor at key %q", i, key)
				}
				ts[i] = t
			}
			stacked, err := tensor.Stack(ts)
			if err != nil {
				return nil, fmt.Errorf("collate: key %q: %w", key, err)
			}
			batch[key] = stacked

		case []Record:
			traces := make([][]Record, len(samples))
			for i, s := range samples {
				recs, _ := s[key].([]Record)
				traces[i] = cloneRecords(recs)
			}
			batch[key] = traces

		default:
			vals := make([]any, len(samples))
			for i, s := range samples {
				vals[i] = s[key]
			}
			batch[key] = vals
		}
	}
	return batch, nil
}

// Decollate splits a batched mapping back into independent per-sample
// mappings, the exact inverse of Collate. Each sample receives a deep copy
// of its own slice of history — no aliasing across samples. The batched
// tensors need not have been produced by Collate: any value with a
// matching leading batch dimension (e.g. a model output) is split by
// position, and history is reattached by position as well.
func Decollate(batch Sample) ([]Sample, error) {
	n := -1
	sizeOf := func(key string, size int) error {
		if n == -1 {
			n = size
			return nil
		}
		if size != n {
			return &BatchMismatchError{Key: key, Want: n, Got: size}
		}
		return nil
	}

	// First pass: agree on the batch size across every key.
	for key, v := range batch {
		switch v := v.(type) {
		case *tensor.Tensor:
			if len(v.Shape()) == 0 {
				return nil, fmt.Errorf("decollate: key %q holds a scalar tensor", key)
			}
			if err := sizeOf(key, v.Shape()[0]); err != nil {
				return nil, err
			}
		case [][]Record:
			if err := sizeOf(key, len(v)); err != nil {
				return nil, err
			}
		case []any:
			if err := sizeOf(key, len(v)); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("decollate: key %q holds %T, not a batched value", key, v)
		}
	}
	if n <= 0 {
		return nil, fmt.Errorf("decollate: empty batch")
	}

	out := make([]Sample, n)
	for i := range out {
		out[i] = make(Sample, len(batch))
	}

	for key, v := range batch {
		switch v := v.(type) {
		case *tensor.Tensor:
			parts, err := tensor.Unstack(v)
			if err != nil {
				return nil, fmt.Errorf("decollate: key %q: %w", key, err)
			}
			for i, p := range parts {
				out[i][key] = p
			}
		case [][]Record:
			for i, recs := range v {
				out[i][key] = cloneRecords(recs)
			}
		case []any:
			for i, e := range v {
				out[i][key] = e
			}
		}
	}
	return out, nil
}
