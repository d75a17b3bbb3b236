package geometry

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float32
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32, mat material.Material) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere within the half-open range.
// A zero-length ray direction is not supported.
func (s Sphere) Hit(ray core.Ray, tRange core.Range[float32]) material.HitRecord {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Sub(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := core.LengthSquared(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := core.LengthSquared(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return material.NoHit()
	}

	sqrtD := core.Sqrt32(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !tRange.Contains(root) {
		root = (-halfB + sqrtD) / a
		if !tRange.Contains(root) {
			return material.NoHit()
		}
	}

	point := ray.At(root)
	outwardNormal := point.Sub(s.Center).Mul(1 / s.Radius)
	face := ray.GetFace(outwardNormal)
	normal := outwardNormal
	if face == core.Back {
		normal = core.Negate(outwardNormal)
	}

	return material.HitRecord{
		DidHit:   true,
		Distance: root,
		Point:    point,
		Face:     face,
		Normal:   normal,
		Material: s.Material,
	}
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s Sphere) BoundingBox() core.AABB {
	radius := core.Splat(s.Radius)
	return core.NewAABBFromPoints(s.Center.Sub(radius), s.Center.Add(radius))
}
