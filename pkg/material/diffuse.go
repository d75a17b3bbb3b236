package material

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/rng"
)

// Diffuse represents a lambertian surface that scatters in random directions
type Diffuse struct {
	Albedo core.Vec3 // Base reflectance
}

// NewDiffuse creates a new diffuse material
func NewDiffuse(albedo core.Vec3) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// Kind implements Material
func (d *Diffuse) Kind() Kind { return KindDiffuse }

// Scatter implements the Material interface for diffuse scattering
func (d *Diffuse) Scatter(rayIn core.Ray, hit HitRecord, random *rng.Rand) ScatterResult {
	direction := hit.Normal.Add(random.NextUnitVector())

	// Random vector nearly opposite the normal
	if core.NearZero(direction) {
		direction = hit.Normal
	}

	return ScatterResult{
		DidScatter:  true,
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: d.Albedo,
	}
}
