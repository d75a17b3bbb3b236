package rng

import "github.com/df07/go-gpu-raytracer/pkg/core"

// Rand is a deterministic generator owning a single 32-bit state.
// It is not safe for concurrent use; each invocation owns its own.
type Rand struct {
	current uint32
}

// New creates a generator from a raw seed
func New(seed uint32) *Rand {
	return &Rand{current: seed}
}

// FromPixel seeds a generator from a pixel coordinate and a frame seed
func FromPixel(x, y, frameSeed uint32) *Rand {
	return New(Hash3(x, y, frameSeed))
}

// State returns the current internal state
func (r *Rand) State() uint32 {
	return r.current
}

// NextUint advances the state and returns it
func (r *Rand) NextUint() uint32 {
	r.current = Hash1(r.current)
	return r.current
}

// NextFloat returns a uniform float in [0, 1)
func (r *Rand) NextFloat() float32 {
	return UnitFloat(r.NextUint())
}

// NextInRange returns a uniform float in [min, max)
func (r *Rand) NextInRange(min, max float32) float32 {
	return min + r.NextFloat()*(max-min)
}

// NextVec2 returns two independent floats in [0, 1)
func (r *Rand) NextVec2() core.Vec2 {
	x := r.NextFloat()
	y := r.NextFloat()
	return core.NewVec2(x, y)
}

// NextInUnitDisk rejection-samples a point strictly inside the unit disk
func (r *Rand) NextInUnitDisk() core.Vec2 {
	for {
		x := r.NextInRange(-1, 1)
		y := r.NextInRange(-1, 1)
		if x*x+y*y < 1 {
			return core.NewVec2(x, y)
		}
	}
}

// NextInUnitSphere rejection-samples a point strictly inside the unit sphere
func (r *Rand) NextInUnitSphere() core.Vec3 {
	for {
		x := r.NextInRange(-1, 1)
		y := r.NextInRange(-1, 1)
		z := r.NextInRange(-1, 1)
		p := core.NewVec3(x, y, z)
		if core.LengthSquared(p) < 1 {
			return p
		}
	}
}

// NextUnitVector returns a uniformly distributed direction
func (r *Rand) NextUnitVector() core.Vec3 {
	return r.NextInUnitSphere().Normalize()
}

// NextOnHemisphere returns a unit vector in the hemisphere around normal
func (r *Rand) NextOnHemisphere(normal core.Vec3) core.Vec3 {
	v := r.NextUnitVector()
	if v.Dot(normal) > 0 {
		return v
	}
	return core.Negate(v)
}
