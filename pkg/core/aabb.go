package core

// AABB represents an axis-aligned bounding box as one range per axis
type AABB struct {
	Axes [3]Range[float32]
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	var box AABB
	for axis := 0; axis < 3; axis++ {
		box.Axes[axis] = NewRange(points[0][axis], points[0][axis])
	}
	for _, p := range points[1:] {
		for axis := 0; axis < 3; axis++ {
			box.Axes[axis] = Combine(box.Axes[axis], NewRange(p[axis], p[axis]))
		}
	}
	return box
}

// Min returns the minimum corner
func (b AABB) Min() Vec3 {
	return Vec3{b.Axes[0].Start, b.Axes[1].Start, b.Axes[2].Start}
}

// Max returns the maximum corner
func (b AABB) Max() Vec3 {
	return Vec3{b.Axes[0].End, b.Axes[1].End, b.Axes[2].End}
}

// Hit tests if a ray intersects with this AABB within the given range using the slab method
func (b AABB) Hit(ray Ray, tRange Range[float32]) bool {
	tMin, tMax := tRange.Start, tRange.End
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin[axis]
		direction := ray.Direction[axis]
		lo, hi := b.Axes[axis].Start, b.Axes[axis].End

		// Parallel to this slab: inside or never
		if direction == 0 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1 / direction
		t0 := (lo - origin) * invDirection
		t1 := (hi - origin) * invDirection
		if invDirection < 0 {
			t0, t1 = t1, t0
		}

		tMin = max(tMin, t0)
		tMax = min(tMax, t1)
		if tMax < tMin {
			return false
		}
	}
	return true
}

// Union returns an AABB that bounds both this AABB and another
func (b AABB) Union(other AABB) AABB {
	var out AABB
	for axis := 0; axis < 3; axis++ {
		out.Axes[axis] = Combine(b.Axes[axis], other.Axes[axis])
	}
	return out
}

// Center returns the center point of the AABB
func (b AABB) Center() Vec3 {
	return b.Min().Add(b.Max()).Mul(0.5)
}

// Size returns the extent of the AABB along each axis
func (b AABB) Size() Vec3 {
	return b.Max().Sub(b.Min())
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (b AABB) LongestAxis() int {
	size := b.Size()
	if size[0] > size[1] && size[0] > size[2] {
		return 0
	}
	if size[1] > size[2] {
		return 1
	}
	return 2
}
