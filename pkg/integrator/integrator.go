package integrator

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/rng"
)

// Intersector finds the closest surface along a ray within a range
type Intersector interface {
	Hit(ray core.Ray, tRange core.Range[float32]) material.HitRecord
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	RayColor(ray core.Ray, world Intersector, random *rng.Rand) core.Vec3
}
