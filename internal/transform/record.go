package transform

import (
	"maps"

	"github.com/rewind-ml/rewind/internal/tensor"
)

// Record is one entry in a key's transform ledger. It captures everything
// needed to undo one specific invocation of a transform: the tag of the
// transform kind, the identity of the transform instance, the shape of the
// value before the transform ran, and the realized parameters of the
// invocation (recorded, never re-derived — randomized and
// content-dependent transforms must replay the exact geometry on inverse).
type Record struct {
	// ClassName is the registry tag of the transform kind that produced
	// this record.
	ClassName string

	// ID identifies the transform instance, so two instances of the same
	// kind at different pipeline positions are distinguishable.
	ID string

	// OrigSize is the shape of the value before the transform ran.
	OrigSize tensor.Shape

	// Extra holds transform-specific realized parameters. It is opaque to
	// the ledger and interpreted only by the owning transform's inverse.
	Extra map[string]any

	// DoTransform reports whether a randomized transform actually fired
	// for this sample. When false the inverse pops the record and leaves
	// the value untouched.
	DoTransform bool
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.OrigSize = r.OrigSize.Clone()
	if r.Extra != nil {
		out.Extra = maps.Clone(r.Extra)
	}
	return out
}

func cloneRecords(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out
}
