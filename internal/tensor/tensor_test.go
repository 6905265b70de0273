package tensor

import (
	"testing"
)

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustFromFloat32(t *testing.T, data []float32, shape Shape) *Tensor {
	t.Helper()
	tn, err := FromFloat32(data, shape)
	if err != nil {
		t.Fatalf("FromFloat32 failed: %v", err)
	}
	return tn
}

func TestShape(t *testing.T) {
	t.Run("num elements", func(t *testing.T) {
		if got := (Shape{2, 3, 4}).NumElements(); got != 24 {
			t.Errorf("expected 24 elements, got %d", got)
		}
		if got := (Shape{}).NumElements(); got != 1 {
			t.Errorf("expected scalar to have 1 element, got %d", got)
		}
		if got := (Shape{3, 0, 2}).NumElements(); got != 0 {
			t.Errorf("expected empty extent, got %d", got)
		}
	})

	t.Run("validate", func(t *testing.T) {
		if err := (Shape{1, 0, 5}).Validate(); err != nil {
			t.Errorf("zero-size dimension should be valid, got %v", err)
		}
		if err := (Shape{1, -2}).Validate(); err == nil {
			t.Errorf("expected error for negative dimension")
		}
	})

	t.Run("strides", func(t *testing.T) {
		got := (Shape{2, 3, 4}).ComputeStrides()
		if !sliceEqual(got, []int{12, 4, 1}) {
			t.Errorf("expected strides [12 4 1], got %v", got)
		}
	})

	t.Run("spatial", func(t *testing.T) {
		got := (Shape{1, 20, 15}).Spatial()
		if !got.Equal(Shape{20, 15}) {
			t.Errorf("expected spatial shape [20 15], got %v", got)
		}
		if got := (Shape{7}).Spatial(); len(got) != 0 {
			t.Errorf("rank-1 tensor should have no spatial dims, got %v", got)
		}
	})
}

func TestTensorAccessors(t *testing.T) {
	t.Run("float32 round trip", func(t *testing.T) {
		tn := mustFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
		got := tn.AsFloat32()
		if !sliceEqual(got, []float32{1, 2, 3, 4, 5, 6}) {
			t.Errorf("unexpected data %v", got)
		}
	})

	t.Run("element count mismatch", func(t *testing.T) {
		if _, err := FromFloat32([]float32{1, 2}, Shape{3}); err == nil {
			t.Errorf("expected error for element count mismatch")
		}
	})

	t.Run("dtype mismatch panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		Zeros(Shape{2}, Float32).AsInt64()
	})

	t.Run("offset", func(t *testing.T) {
		tn := mustFromFloat32(t, []float32{0, 1, 2, 3, 4, 5}, Shape{2, 3})
		if got := tn.Offset(1, 2); got != 5 {
			t.Errorf("expected flat offset 5, got %d", got)
		}
	})

	t.Run("zero at", func(t *testing.T) {
		tn := mustFromFloat32(t, []float32{0, 3}, Shape{2})
		if !tn.ZeroAt(0) {
			t.Errorf("expected element 0 to be zero")
		}
		if tn.ZeroAt(1) {
			t.Errorf("expected element 1 to be nonzero")
		}
	})
}

func TestClone(t *testing.T) {
	orig := mustFromFloat32(t, []float32{1, 2, 3, 4}, Shape{2, 2})
	clone := orig.Clone()

	if !clone.Equal(orig) {
		t.Fatalf("clone differs from original")
	}

	clone.AsFloat32()[0] = 99
	if orig.AsFloat32()[0] != 1 {
		t.Errorf("clone shares memory with original")
	}
}

func TestARange(t *testing.T) {
	tn := ARange(4)
	if !sliceEqual(tn.AsFloat32(), []float32{0, 1, 2, 3}) {
		t.Errorf("unexpected data %v", tn.AsFloat32())
	}
}
