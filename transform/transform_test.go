// Copyright 2026 Rewind ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package transform_test

import (
	"testing"

	"github.com/rewind-ml/rewind/tensor"
	"github.com/rewind-ml/rewind/transform"
)

// TestPublicRoundTrip verifies the alias surface supports the full
// apply, collate, decollate, inverse cycle.
func TestPublicRoundTrip(t *testing.T) {
	keys := []string{"image", "label"}
	pipe := transform.NewCompose(
		transform.NewAddChannel(keys),
		transform.NewSpatialPad(keys, []int{18, 19}, transform.MethodSymmetric),
		transform.NewCenterSpatialCrop(keys, []int{16, 14}),
	)

	im := tensor.Full(tensor.Shape{13, 15}, 1)
	samples := make([]transform.Sample, 2)
	for i := range samples {
		out, err := pipe.Apply(transform.Sample{"image": im.Clone(), "label": im.Clone()})
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		samples[i] = out
	}

	batch, err := transform.Collate(samples)
	if err != nil {
		t.Fatalf("Collate failed: %v", err)
	}
	if !batch.Tensor("image").Shape().Equal(tensor.Shape{2, 1, 16, 14}) {
		t.Errorf("batch shape = %v, want [2 1 16 14]", batch.Tensor("image").Shape())
	}

	split, err := transform.Decollate(batch)
	if err != nil {
		t.Fatalf("Decollate failed: %v", err)
	}
	for i, s := range split {
		inv, err := pipe.Inverse(s)
		if err != nil {
			t.Fatalf("Inverse failed for sample %d: %v", i, err)
		}
		if !inv.Tensor("image").Shape().Equal(tensor.Shape{1, 13, 15}) {
			t.Errorf("sample %d inverse shape = %v, want [1 13 15]", i, inv.Tensor("image").Shape())
		}
	}
}

// TestPublicOrderingError verifies the error aliases are the internal
// types, so errors.As works across the package boundary.
func TestPublicOrderingError(t *testing.T) {
	keys := []string{"image"}
	pad := transform.NewSpatialPad(keys, []int{20}, transform.MethodEnd)

	s := transform.Sample{"image": tensor.Full(tensor.Shape{1, 13}, 1)}
	out, err := pad.Apply(s)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	other := transform.NewBorderPad(keys, []int{2})
	if _, err := other.Inverse(out); err == nil {
		t.Fatal("expected ordering error, got nil")
	} else if _, ok := err.(*transform.OrderingError); !ok {
		t.Errorf("error type = %T, want *transform.OrderingError", err)
	}
}
