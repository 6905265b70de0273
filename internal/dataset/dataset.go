// Package dataset provides a forward-applying cached dataset and a
// batching loader over transformed samples.
//
// A CacheDataset runs the transform pipeline once per source sample at
// construction and serves deep copies afterwards, so repeated epochs do
// not pay for the pipeline again and callers can mutate what they get.
// The Loader groups cached samples into batches via transform.Collate;
// batches flow to a model, and model outputs come back through
// transform.Decollate to be inverted per sample.
package dataset

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/rewind-ml/rewind/internal/parallel"
	"github.com/rewind-ml/rewind/internal/transform"
)

// CacheDataset applies a transform pipeline to every source sample once
// and caches the results.
type CacheDataset struct {
	items []transform.Sample
}

// NewCacheDataset builds the cache by applying t to every source sample,
// in parallel across samples. A nil transform caches the sources as-is.
// The logger may be nil.
func NewCacheDataset(sources []transform.Sample, t transform.Transform, logger *log.Logger) (*CacheDataset, error) {
	items := make([]transform.Sample, len(sources))
	err := parallel.ForErr(len(sources), func(i int) error {
		if t == nil {
			items[i] = sources[i].Clone()
			return nil
		}
		out, err := t.Apply(sources[i])
		if err != nil {
			return fmt.Errorf("dataset: sample %d: %w", i, err)
		}
		items[i] = out
		return nil
	}, parallel.DefaultConfig())
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Debug("cached dataset", "samples", len(items))
	}
	return &CacheDataset{items: items}, nil
}

// Len returns the number of cached samples.
func (d *CacheDataset) Len() int {
	return len(d.items)
}

// At returns a deep copy of the i-th cached sample, so callers can never
// corrupt the cache or each other through shared ledgers.
func (d *CacheDataset) At(i int) transform.Sample {
	return d.items[i].Clone()
}

// Loader iterates a dataset in fixed-size batches.
type Loader struct {
	ds        *CacheDataset
	batchSize int
	pos       int
}

// NewLoader creates a Loader. batchSize must be positive.
func NewLoader(ds *CacheDataset, batchSize int) (*Loader, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("loader: batch size must be positive, got %d", batchSize)
	}
	return &Loader{ds: ds, batchSize: batchSize}, nil
}

// Next returns the next batch, collated into a single batched sample.
// The final batch may be smaller than the configured size. Returns io.EOF
// once the dataset is exhausted.
func (l *Loader) Next() (transform.Sample, error) {
	if l.pos >= l.ds.Len() {
		return nil, io.EOF
	}

	end := min(l.pos+l.batchSize, l.ds.Len())
	samples := make([]transform.Sample, 0, end-l.pos)
	for i := l.pos; i < end; i++ {
		samples = append(samples, l.ds.At(i))
	}
	l.pos = end

	return transform.Collate(samples)
}

// Reset rewinds the loader to the first batch.
func (l *Loader) Reset() {
	l.pos = 0
}
