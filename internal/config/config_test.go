package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewind-ml/rewind/internal/tensor"
	"github.com/rewind-ml/rewind/internal/transform"
)

const segDoc = `
keys = ["image", "label"]

[[transform]]
name = "AddChannel"

[[transform]]
name = "SpatialPad"
size = [18, 19]

[[transform]]
name = "CenterSpatialCrop"
size = [16, 14]
`

func TestParseAndBuild(t *testing.T) {
	p, err := Parse(segDoc)
	require.NoError(t, err)
	require.Equal(t, []string{"image", "label"}, p.Keys)
	require.Len(t, p.Transforms, 3)

	pipe, err := p.Build()
	require.NoError(t, err)
	require.Equal(t, 2, pipe.NumInvertible())

	im := tensor.Full(tensor.Shape{13, 15}, 1)
	s := transform.Sample{"image": im, "label": im.Clone()}

	out, err := pipe.Apply(s)
	require.NoError(t, err)
	require.True(t, out.Tensor("image").Shape().Equal(tensor.Shape{1, 16, 14}))

	inv, err := pipe.Inverse(out)
	require.NoError(t, err)
	require.True(t, inv.Tensor("image").Shape().Equal(tensor.Shape{1, 13, 15}))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.toml")
	require.NoError(t, os.WriteFile(path, []byte(segDoc), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "SpatialPad", p.Transforms[1].Name)

	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestBuildAllTransforms(t *testing.T) {
	p, err := Parse(`
keys = ["image"]

[[transform]]
name = "BorderPad"
border = [2, 3]

[[transform]]
name = "DivisiblePad"
k = [4]

[[transform]]
name = "SpatialCrop"
start = [1, 1]
end = [12, 14]

[[transform]]
name = "SpatialCrop"
center = [8, 8]
size = [6, 6]

[[transform]]
name = "RandSpatialCrop"
size = [4, 4]
random_center = true
seed = 7

[[transform]]
name = "CropForeground"
source = "image"
margin = 1

[[transform]]
name = "ResizeWithPadOrCrop"
size = [20, 20]
method = "end"
`)
	require.NoError(t, err)

	pipe, err := p.Build()
	require.NoError(t, err)
	require.Equal(t, 7, pipe.NumInvertible())

	names := make([]string, 0, 7)
	for _, member := range pipe.Transforms() {
		names = append(names, member.Name())
	}
	assert.Equal(t, []string{
		"BorderPad", "DivisiblePad", "SpatialCrop", "SpatialCrop",
		"RandSpatialCrop", "CropForeground", "ResizeWithPadOrCrop",
	}, names)
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no keys", `
[[transform]]
name = "AddChannel"
`},
		{"no transforms", `keys = ["image"]`},
		{"unknown name", `
keys = ["image"]

[[transform]]
name = "FlipEverything"
`},
		{"bad toml", `keys = [`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.doc)
			require.Error(t, err)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"SpatialPad without size", `
keys = ["image"]

[[transform]]
name = "SpatialPad"
`},
		{"SpatialCrop without bounds", `
keys = ["image"]

[[transform]]
name = "SpatialCrop"
`},
		{"CropForeground without source", `
keys = ["image"]

[[transform]]
name = "CropForeground"
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.doc)
			require.NoError(t, err)
			_, err = p.Build()
			require.Error(t, err)
		})
	}
}
