package integrator

import (
	"math"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/rng"
)

// MinHitDistance keeps scattered rays from re-hitting their originating surface
const MinHitDistance = 0.001

var (
	skyHorizon = core.NewVec3(1, 1, 1)
	skyZenith  = core.NewVec3(0.5, 0.7, 1.0)
)

// PathTracingIntegrator implements unidirectional path tracing with a fixed bounce limit
type PathTracingIntegrator struct {
	MaxDepth uint32
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth uint32) *PathTracingIntegrator {
	return &PathTracingIntegrator{MaxDepth: maxDepth}
}

// RayColor implements Integrator
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world Intersector, random *rng.Rand) core.Vec3 {
	return RayColor(ray, world, pt.MaxDepth, random)
}

// RayColor traces a path through the world and returns its linear radiance.
// The loop is iterative so stack usage stays constant regardless of depth.
func RayColor(ray core.Ray, world Intersector, maxDepth uint32, random *rng.Rand) core.Vec3 {
	tRange := core.NewRange[float32](MinHitDistance, math.MaxFloat32)
	throughput := core.One()

	for depth := uint32(0); depth < maxDepth; depth++ {
		hit := world.Hit(ray, tRange)
		if !hit.DidHit {
			return core.MulVec(throughput, Background(ray.Direction))
		}

		scatter := hit.Material.Scatter(ray, hit, random)
		if !scatter.DidScatter {
			// Absorbed
			return core.Vec3{}
		}

		throughput = core.MulVec(throughput, scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce limit reached, no more light is gathered
	return core.Vec3{}
}

// Background returns the sky gradient for a ray direction
func Background(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()
	t := 0.5 * (unitDirection.Y() + 1)
	return core.Lerp(skyHorizon, skyZenith, t)
}
