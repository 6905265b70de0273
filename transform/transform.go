// Copyright 2026 Rewind ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package transform provides the public API for invertible, ledger-backed
// sample transforms.
//
// Every invertible transform records its realized parameters in a
// per-key ledger inside the sample, so a pipeline applied to training
// data can later be undone on model outputs:
//
//	pipe := transform.NewCompose(
//	    transform.NewAddChannel(keys),
//	    transform.NewSpatialPad(keys, []int{96, 96}, transform.MethodSymmetric),
//	    transform.NewCenterSpatialCrop(keys, []int{64, 64}),
//	)
//	out, err := pipe.Apply(sample)
//	...
//	restored, err := pipe.Inverse(out)
package transform

import (
	"github.com/rewind-ml/rewind/internal/transform"
)

// Sample is a keyed collection of values flowing through a pipeline.
// Ledger entries live beside the data under TraceKey(key).
type Sample = transform.Sample

// TraceSuffix is appended to a data key to form its ledger key.
const TraceSuffix = transform.TraceSuffix

// TraceKey returns the ledger key for a data key.
func TraceKey(key string) string {
	return transform.TraceKey(key)
}

// Record is one ledger entry: the identity of the transform that fired
// and the realized parameters needed to undo it.
type Record = transform.Record

// Transform mutates a sample and returns the result.
type Transform = transform.Transform

// Invertible is a Transform whose effect can be exactly undone.
type Invertible = transform.Invertible

// Error types.
type (
	// OrderingError reports an inverse called out of stack order.
	OrderingError = transform.OrderingError
	// MissingKeyError reports a configured key absent from a sample.
	MissingKeyError = transform.MissingKeyError
	// BatchMismatchError reports disagreeing batch sizes at decollate.
	BatchMismatchError = transform.BatchMismatchError
)

// Method selects how a pad transform distributes the required widths.
type Method = transform.Method

// Supported pad methods.
const (
	MethodSymmetric Method = transform.MethodSymmetric
	MethodEnd       Method = transform.MethodEnd
)

// Transform kinds.
type (
	SpatialPad          = transform.SpatialPad
	BorderPad           = transform.BorderPad
	DivisiblePad        = transform.DivisiblePad
	SpatialCrop         = transform.SpatialCrop
	CenterSpatialCrop   = transform.CenterSpatialCrop
	RandSpatialCrop     = transform.RandSpatialCrop
	CropForeground      = transform.CropForeground
	ResizeWithPadOrCrop = transform.ResizeWithPadOrCrop
	AddChannel          = transform.AddChannel
	Compose             = transform.Compose
)

// RandSpatialCropConfig controls RandSpatialCrop randomization.
type RandSpatialCropConfig = transform.RandSpatialCropConfig

// Constructors

// NewSpatialPad pads spatial dimensions up to a target size.
func NewSpatialPad(keys []string, spatialSize []int, method Method) *SpatialPad {
	return transform.NewSpatialPad(keys, spatialSize, method)
}

// NewBorderPad pads a fixed border around spatial dimensions.
func NewBorderPad(keys []string, border []int) *BorderPad {
	return transform.NewBorderPad(keys, border)
}

// NewDivisiblePad pads spatial dimensions to the next multiple of k.
func NewDivisiblePad(keys []string, k []int) *DivisiblePad {
	return transform.NewDivisiblePad(keys, k)
}

// NewSpatialCrop crops the region [start, end) per spatial dimension.
func NewSpatialCrop(keys []string, start, end []int) *SpatialCrop {
	return transform.NewSpatialCrop(keys, start, end)
}

// NewSpatialCropCenter crops a sized region around a center point.
func NewSpatialCropCenter(keys []string, center, size []int) *SpatialCrop {
	return transform.NewSpatialCropCenter(keys, center, size)
}

// NewCenterSpatialCrop crops a centered region of the given size.
func NewCenterSpatialCrop(keys []string, roiSize []int) *CenterSpatialCrop {
	return transform.NewCenterSpatialCrop(keys, roiSize)
}

// NewRandSpatialCrop crops a randomized region, identically across keys.
func NewRandSpatialCrop(keys []string, roiSize []int, cfg RandSpatialCropConfig) *RandSpatialCrop {
	return transform.NewRandSpatialCrop(keys, roiSize, cfg)
}

// NewCropForeground crops to the bounding box of the source key's
// nonzero region, plus margin.
func NewCropForeground(keys []string, sourceKey string, margin int) *CropForeground {
	return transform.NewCropForeground(keys, sourceKey, margin)
}

// NewResizeWithPadOrCrop pads or crops each spatial dimension to an
// exact target size.
func NewResizeWithPadOrCrop(keys []string, spatialSize []int, method Method) *ResizeWithPadOrCrop {
	return transform.NewResizeWithPadOrCrop(keys, spatialSize, method)
}

// NewAddChannel prepends a size-1 channel dimension. Not invertible.
func NewAddChannel(keys []string) *AddChannel {
	return transform.NewAddChannel(keys)
}

// NewCompose chains transforms in order, flattening nested compositions.
func NewCompose(transforms ...Transform) *Compose {
	return transform.NewCompose(transforms...)
}

// Batch boundary

// Collate merges samples into one batched sample: tensors are stacked
// along a new leading dimension, ledgers are gathered per sample.
func Collate(samples []Sample) (Sample, error) {
	return transform.Collate(samples)
}

// Decollate splits a batched sample back into independent per-sample
// views, each carrying its own ledger copy.
func Decollate(batch Sample) ([]Sample, error) {
	return transform.Decollate(batch)
}
