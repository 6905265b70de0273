// Package config loads TOML pipeline definitions and builds transform
// compositions from them.
//
// A pipeline file names the keys the transforms address and an ordered
// list of transform specs:
//
//	keys = ["image", "label"]
//
//	[[transform]]
//	name = "SpatialPad"
//	size = [150, 153]
//
//	[[transform]]
//	name = "CenterSpatialCrop"
//	size = [110, 99]
//
// Spec names are the same tags that ledger records carry.
package config

import (
	"fmt"
	"math/rand"

	"github.com/BurntSushi/toml"

	"github.com/rewind-ml/rewind/internal/transform"
)

// Pipeline is a parsed pipeline definition.
type Pipeline struct {
	Keys       []string `toml:"keys"`
	Transforms []Spec   `toml:"transform"`
}

// Spec is one transform entry. Which fields are required depends on the
// transform name; unused fields are ignored.
type Spec struct {
	Name         string  `toml:"name"`
	Size         []int   `toml:"size"`
	Method       string  `toml:"method"`
	Border       []int   `toml:"border"`
	K            []int   `toml:"k"`
	Start        []int   `toml:"start"`
	End          []int   `toml:"end"`
	Center       []int   `toml:"center"`
	Source       string  `toml:"source"`
	Margin       int     `toml:"margin"`
	RandomCenter bool    `toml:"random_center"`
	RandomSize   bool    `toml:"random_size"`
	Prob         float64 `toml:"prob"`
	Seed         int64   `toml:"seed"`
}

// builders maps a transform tag to its constructor, the open registry of
// spec §"name" → transform pairs available to pipeline files.
var builders = map[string]func(keys []string, s Spec) (transform.Transform, error){
	"AddChannel": func(keys []string, _ Spec) (transform.Transform, error) {
		return transform.NewAddChannel(keys), nil
	},
	"SpatialPad": func(keys []string, s Spec) (transform.Transform, error) {
		if len(s.Size) == 0 {
			return nil, fmt.Errorf("SpatialPad requires size")
		}
		return transform.NewSpatialPad(keys, s.Size, transform.Method(s.Method)), nil
	},
	"BorderPad": func(keys []string, s Spec) (transform.Transform, error) {
		if len(s.Border) == 0 {
			return nil, fmt.Errorf("BorderPad requires border")
		}
		return transform.NewBorderPad(keys, s.Border), nil
	},
	"DivisiblePad": func(keys []string, s Spec) (transform.Transform, error) {
		if len(s.K) == 0 {
			return nil, fmt.Errorf("DivisiblePad requires k")
		}
		return transform.NewDivisiblePad(keys, s.K), nil
	},
	"SpatialCrop": func(keys []string, s Spec) (transform.Transform, error) {
		switch {
		case len(s.Center) > 0 && len(s.Size) > 0:
			return transform.NewSpatialCropCenter(keys, s.Center, s.Size), nil
		case len(s.Start) > 0 && len(s.End) > 0:
			return transform.NewSpatialCrop(keys, s.Start, s.End), nil
		default:
			return nil, fmt.Errorf("SpatialCrop requires start/end or center/size")
		}
	},
	"CenterSpatialCrop": func(keys []string, s Spec) (transform.Transform, error) {
		if len(s.Size) == 0 {
			return nil, fmt.Errorf("CenterSpatialCrop requires size")
		}
		return transform.NewCenterSpatialCrop(keys, s.Size), nil
	},
	"RandSpatialCrop": func(keys []string, s Spec) (transform.Transform, error) {
		if len(s.Size) == 0 {
			return nil, fmt.Errorf("RandSpatialCrop requires size")
		}
		return transform.NewRandSpatialCrop(keys, s.Size, transform.RandSpatialCropConfig{
			RandomCenter: s.RandomCenter,
			RandomSize:   s.RandomSize,
			Prob:         s.Prob,
			Source:       rand.New(rand.NewSource(s.Seed)),
		}), nil
	},
	"CropForeground": func(keys []string, s Spec) (transform.Transform, error) {
		if s.Source == "" {
			return nil, fmt.Errorf("CropForeground requires source")
		}
		return transform.NewCropForeground(keys, s.Source, s.Margin), nil
	},
	"ResizeWithPadOrCrop": func(keys []string, s Spec) (transform.Transform, error) {
		if len(s.Size) == 0 {
			return nil, fmt.Errorf("ResizeWithPadOrCrop requires size")
		}
		return transform.NewResizeWithPadOrCrop(keys, s.Size, transform.Method(s.Method)), nil
	},
}

// Load reads and validates a pipeline definition from a TOML file.
func Load(path string) (*Pipeline, error) {
	var p Pipeline
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Parse parses a pipeline definition from TOML text.
func Parse(data string) (*Pipeline, error) {
	var p Pipeline
	if _, err := toml.Decode(data, &p); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Pipeline) validate() error {
	if len(p.Keys) == 0 {
		return fmt.Errorf("config: keys must not be empty")
	}
	if len(p.Transforms) == 0 {
		return fmt.Errorf("config: at least one transform required")
	}
	for i, s := range p.Transforms {
		if _, ok := builders[s.Name]; !ok {
			return fmt.Errorf("config: transform %d: unknown name %q", i, s.Name)
		}
	}
	return nil
}

// Build constructs the composed pipeline.
func (p *Pipeline) Build() (*transform.Compose, error) {
	members := make([]transform.Transform, 0, len(p.Transforms))
	for i, s := range p.Transforms {
		t, err := builders[s.Name](p.Keys, s)
		if err != nil {
			return nil, fmt.Errorf("config: transform %d: %w", i, err)
		}
		members = append(members, t)
	}
	return transform.NewCompose(members...), nil
}
