// Copyright 2026 Rewind ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense n-dimensional
// arrays that transform pipelines operate on.
//
// The package re-exports the internal tensor implementation:
//   - Tensor: a dense array over a flat byte buffer
//   - Shape, DataType: core type definitions
//   - Pad, Crop, Stack, Unstack: the geometric primitives
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{1, 64, 64}, tensor.Float32)
//	y, err := tensor.Pad(x, []tensor.Widths{{0, 0}, {2, 2}, {2, 2}})
package tensor

import (
	"github.com/rewind-ml/rewind/internal/tensor"
)

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{1, 64, 64} is a one-channel 64x64 image.
type Shape = tensor.Shape

// Tensor is a dense n-dimensional array.
type Tensor = tensor.Tensor

// Widths holds the pad widths before and after one dimension.
type Widths = tensor.Widths

// Creation functions

// New creates a zero-initialized tensor with the given shape and dtype.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.New(shape, dtype)
}

// Zeros creates a zero-filled tensor with the given shape and dtype.
func Zeros(shape Shape, dtype DataType) *Tensor {
	return tensor.Zeros(shape, dtype)
}

// Full creates a float32 tensor filled with a specific value.
func Full(shape Shape, value float32) *Tensor {
	return tensor.Full(shape, value)
}

// ARange creates a 1D float32 tensor with values [0, 1, ..., n-1].
func ARange(n int) *Tensor {
	return tensor.ARange(n)
}

// Randn creates a float32 tensor filled with draws from randFloat64,
// typically rand.Float64 or the Float64 method of a seeded rand.Rand.
func Randn(shape Shape, randFloat64 func() float64) *Tensor {
	return tensor.Randn(shape, randFloat64)
}

// FromFloat32 creates a float32 tensor from a slice.
func FromFloat32(data []float32, shape Shape) (*Tensor, error) {
	return tensor.FromFloat32(data, shape)
}

// FromFloat64 creates a float64 tensor from a slice.
func FromFloat64(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromFloat64(data, shape)
}

// FromInt64 creates an int64 tensor from a slice.
func FromInt64(data []int64, shape Shape) (*Tensor, error) {
	return tensor.FromInt64(data, shape)
}

// Geometric primitives

// Pad returns a copy of t grown by the given widths per dimension, with
// the new border zero-filled. Negative widths are clamped to zero.
func Pad(t *Tensor, widths []Widths) (*Tensor, error) {
	return tensor.Pad(t, widths)
}

// Crop returns a copy of the region [start, end) per dimension.
func Crop(t *Tensor, starts, ends []int) (*Tensor, error) {
	return tensor.Crop(t, starts, ends)
}

// Stack stacks same-shaped tensors along a new leading dimension.
func Stack(tensors []*Tensor) (*Tensor, error) {
	return tensor.Stack(tensors)
}

// Unstack splits a tensor along its leading dimension.
func Unstack(t *Tensor) ([]*Tensor, error) {
	return tensor.Unstack(t)
}

// Unsqueeze returns a copy of t with a size-1 dimension inserted at dim.
func Unsqueeze(t *Tensor, dim int) (*Tensor, error) {
	return tensor.Unsqueeze(t, dim)
}
