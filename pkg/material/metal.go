package material

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/rng"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float32   // 0.0 = perfect mirror
}

// NewMetal creates a new metal material.
// Fuzz is stored as given; the kernel applies it unclamped.
func NewMetal(albedo core.Vec3, fuzz float32) *Metal {
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Kind implements Material
func (m *Metal) Kind() Kind { return KindMetal }

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, random *rng.Rand) ScatterResult {
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// The unit vector is drawn even when fuzz is zero
	direction := reflected.Add(random.NextUnitVector().Mul(m.Fuzz))

	// Scattered below the surface: absorbed
	if direction.Dot(hit.Normal) <= 0 {
		return NoScatter()
	}

	return ScatterResult{
		DidScatter:  true,
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Albedo,
	}
}
