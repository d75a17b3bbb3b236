package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-gpu-raytracer/pkg/core"
)

// ErrUnknownMaterial is returned when a tag or name does not name a material variant
var ErrUnknownMaterial = errors.New("unknown material")

// Flat is the fixed-layout form shared with the kernel: one struct carries every
// field and fields unused by the tag are zero.
type Flat struct {
	Tag             Kind
	Albedo          core.Vec3
	Fuzz            float32
	RefractionIndex float32
}

// Flatten converts a material into its fixed-layout form
func Flatten(m Material) Flat {
	switch v := m.(type) {
	case *Diffuse:
		return Flat{Tag: KindDiffuse, Albedo: v.Albedo}
	case *Metal:
		return Flat{Tag: KindMetal, Albedo: v.Albedo, Fuzz: v.Fuzz}
	case *Glass:
		return Flat{Tag: KindGlass, RefractionIndex: v.RefractionIndex}
	default:
		// A nil material flattens to black diffuse, which absorbs everything after one bounce
		return Flat{Tag: KindDiffuse}
	}
}

// Unflatten converts a fixed-layout material back into its variant
func Unflatten(f Flat) (Material, error) {
	switch f.Tag {
	case KindDiffuse:
		return NewDiffuse(f.Albedo), nil
	case KindMetal:
		return NewMetal(f.Albedo, f.Fuzz), nil
	case KindGlass:
		return NewGlass(f.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownMaterial, f.Tag)
	}
}

// ParseKind maps a material name to its kind
func ParseKind(name string) (Kind, error) {
	switch name {
	case "diffuse", "lambertian":
		return KindDiffuse, nil
	case "metal":
		return KindMetal, nil
	case "glass", "dielectric":
		return KindGlass, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
}
