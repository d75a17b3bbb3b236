package geometry

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/material"
)

// ClosestHit scans every sphere in order and returns the nearest hit in range.
// The range end is narrowed to each improvement, so the first sphere found
// at the minimal distance wins.
func ClosestHit(spheres []Sphere, ray core.Ray, tRange core.Range[float32]) material.HitRecord {
	_, hit := ClosestHitIndex(spheres, ray, tRange)
	return hit
}

// ClosestHitIndex is ClosestHit that also reports which sphere was hit, or -1
func ClosestHitIndex(spheres []Sphere, ray core.Ray, tRange core.Range[float32]) (int, material.HitRecord) {
	index, closest := -1, material.NoHit()
	for i := range spheres {
		hit := spheres[i].Hit(ray, tRange)
		if hit.DidHit {
			index, closest = i, hit
			tRange = tRange.WithEnd(hit.Distance)
		}
	}
	return index, closest
}

// SphereList is the linear-scan world
type SphereList []Sphere

// Hit implements integrator.Intersector with a linear scan
func (l SphereList) Hit(ray core.Ray, tRange core.Range[float32]) material.HitRecord {
	return ClosestHit(l, ray, tRange)
}

// BoundingBox returns the box enclosing every sphere in the list
func (l SphereList) BoundingBox() core.AABB {
	if len(l) == 0 {
		return core.AABB{}
	}
	box := l[0].BoundingBox()
	for _, s := range l[1:] {
		box = box.Union(s.BoundingBox())
	}
	return box
}
