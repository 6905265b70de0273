package tensor

import (
	"fmt"
	"math"
)

func errElementCount(shape Shape, n int) error {
	return fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), n)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType) *Tensor {
	t, err := New(shape, dtype)
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	// Data is already zero-initialized by make()
	return t
}

// FromFloat32 creates a Float32 tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromFloat32(data []float32, shape Shape) (*Tensor, error) {
	t, err := New(shape, Float32)
	if err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, errElementCount(shape, len(data))
	}
	copy(t.AsFloat32(), data)
	return t, nil
}

// FromFloat64 creates a Float64 tensor from a Go slice.
func FromFloat64(data []float64, shape Shape) (*Tensor, error) {
	t, err := New(shape, Float64)
	if err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, errElementCount(shape, len(data))
	}
	copy(t.AsFloat64(), data)
	return t, nil
}

// FromInt64 creates an Int64 tensor from a Go slice.
func FromInt64(data []int64, shape Shape) (*Tensor, error) {
	t, err := New(shape, Int64)
	if err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, errElementCount(shape, len(data))
	}
	copy(t.AsInt64(), data)
	return t, nil
}

// Full creates a Float32 tensor filled with a specific value.
func Full(shape Shape, value float32) *Tensor {
	t := Zeros(shape, Float32)
	data := t.AsFloat32()
	for i := range data {
		data[i] = value
	}
	return t
}

// ARange creates a rank-1 Float32 tensor with values [0, 1, ..., n-1].
func ARange(n int) *Tensor {
	t := Zeros(Shape{n}, Float32)
	data := t.AsFloat32()
	for i := range data {
		data[i] = float32(i)
	}
	return t
}

// Randn creates a Float32 tensor with samples from a standard normal
// distribution, drawn from the given source. Uses the Box-Muller transform.
func Randn(shape Shape, randFloat64 func() float64) *Tensor {
	t := Zeros(shape, Float32)
	data := t.AsFloat32()
	for i := 0; i < len(data); i += 2 {
		u1 := randFloat64()
		u2 := randFloat64()
		z0 := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
		z1 := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
		data[i] = float32(z0)
		if i+1 < len(data) {
			data[i+1] = float32(z1)
		}
	}
	return t
}
