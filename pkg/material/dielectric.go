package material

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/rng"
)

// Glass represents a transparent dielectric that both reflects and refracts
type Glass struct {
	RefractionIndex float32 // Index of refraction (e.g., 1.5 for glass)
}

// NewGlass creates a new glass material
func NewGlass(refractionIndex float32) *Glass {
	return &Glass{RefractionIndex: refractionIndex}
}

// Kind implements Material
func (g *Glass) Kind() Kind { return KindGlass }

// Scatter implements the Material interface for dielectric scattering
func (g *Glass) Scatter(rayIn core.Ray, hit HitRecord, random *rng.Rand) ScatterResult {
	refractionRatio := g.RefractionIndex
	if hit.Face == core.Front {
		refractionRatio = 1 / g.RefractionIndex // Entering the material
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := min(core.Negate(unitDirection).Dot(hit.Normal), 1)
	sinTheta := core.Sqrt32(1 - cosTheta*cosTheta)

	// Total internal reflection short-circuits the reflectance draw
	cannotRefract := refractionRatio*sinTheta > 1 ||
		Reflectance(cosTheta, refractionRatio) > random.NextFloat()

	var direction core.Vec3
	if cannotRefract {
		direction = Reflect(unitDirection, hit.Normal)
	} else {
		direction = Refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		DidScatter:  true,
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: core.One(),
	}
}
