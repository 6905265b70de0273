// Package transform implements invertible, history-tracked geometric
// transforms over keyed data samples.
//
// A Sample maps string keys (e.g. "image", "label") to tensor values plus
// arbitrary auxiliary values. Every invertible transform records the
// realized parameters of each application in a per-key ledger stored inside
// the sample itself, so that the exact geometry can later be undone in
// strict last-applied-first-undone order — including on values (such as
// model predictions) that were derived from the transformed data rather
// than the data itself.
package transform

import (
	"maps"

	"github.com/rewind-ml/rewind/internal/tensor"
)

// TraceSuffix is appended to a data key to derive the key under which that
// key's transform ledger is stored.
const TraceSuffix = "_transforms"

// TraceKey returns the ledger key for a data key.
func TraceKey(key string) string {
	return key + TraceSuffix
}

// Sample is a mapping from key to a tensor value or arbitrary auxiliary
// value. Transform ledgers live in the same mapping under TraceKey(key).
type Sample map[string]any

// Tensor returns the tensor stored under key, or nil if the key is absent
// or holds a non-tensor value.
func (s Sample) Tensor(key string) *tensor.Tensor {
	t, _ := s[key].(*tensor.Tensor)
	return t
}

// Trace returns the ledger for key. The returned slice must not be
// modified; use pushRecord/popRecord.
func (s Sample) Trace(key string) []Record {
	recs, _ := s[TraceKey(key)].([]Record)
	return recs
}

// pushRecord appends a record to key's ledger. The ledger slice is
// reallocated so that samples sharing a backing array through shallow
// copies never observe each other's pushes.
func (s Sample) pushRecord(key string, rec Record) {
	recs := s.Trace(key)
	out := make([]Record, len(recs)+1)
	copy(out, recs)
	out[len(recs)] = rec
	s[TraceKey(key)] = out
}

// popRecord removes and returns the most recent record of key's ledger.
func (s Sample) popRecord(key string) (Record, bool) {
	recs := s.Trace(key)
	if len(recs) == 0 {
		return Record{}, false
	}
	out := make([]Record, len(recs)-1)
	copy(out, recs[:len(recs)-1])
	s[TraceKey(key)] = out
	return recs[len(recs)-1], true
}

// Clone returns a deep copy of the sample: tensors, ledgers and gathered
// batch ledgers are copied, so no mutable state is shared with the
// original. Unknown auxiliary values are copied by reference.
func (s Sample) Clone() Sample {
	out := make(Sample, len(s))
	for k, v := range s {
		switch v := v.(type) {
		case *tensor.Tensor:
			out[k] = v.Clone()
		case []Record:
			out[k] = cloneRecords(v)
		case [][]Record:
			traces := make([][]Record, len(v))
			for i, recs := range v {
				traces[i] = cloneRecords(recs)
			}
			out[k] = traces
		default:
			out[k] = v
		}
	}
	return out
}

// shallow returns a copy of the sample mapping itself. Values are shared;
// transforms replace values rather than mutate them, and ledger pushes and
// pops reallocate, so the original sample is never disturbed.
func (s Sample) shallow() Sample {
	return maps.Clone(s)
}
