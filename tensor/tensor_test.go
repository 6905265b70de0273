// Copyright 2026 Rewind ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/rewind-ml/rewind/tensor"
)

// TestAliasSurface verifies the public aliases expose the internal API.
func TestAliasSurface(t *testing.T) {
	x := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32)
	if x.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", x.NumElements())
	}
	if x.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", x.DType())
	}

	padded, err := tensor.Pad(x, []tensor.Widths{{0, 0}, {1, 2}})
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	if !padded.Shape().Equal(tensor.Shape{2, 6}) {
		t.Errorf("padded shape = %v, want [2 6]", padded.Shape())
	}

	cropped, err := tensor.Crop(padded, []int{0, 1}, []int{2, 4})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if !cropped.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("cropped shape = %v, want [2 3]", cropped.Shape())
	}
}

// TestStackUnstack verifies the batch primitives round trip.
func TestStackUnstack(t *testing.T) {
	a := tensor.Full(tensor.Shape{2, 2}, 1)
	b := tensor.Full(tensor.Shape{2, 2}, 2)

	stacked, err := tensor.Stack([]*tensor.Tensor{a, b})
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	if !stacked.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Errorf("stacked shape = %v, want [2 2 2]", stacked.Shape())
	}

	parts, err := tensor.Unstack(stacked)
	if err != nil {
		t.Fatalf("Unstack failed: %v", err)
	}
	if len(parts) != 2 || !parts[0].Equal(a) || !parts[1].Equal(b) {
		t.Error("unstacked parts do not match the inputs")
	}
}
