package geometry

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Spheres     []Sphere // Leaf contents (nil for internal nodes)
}

// BVH is an optional accelerator over spheres. It returns the same nearest
// distance as ClosestHit; which sphere wins an exact tie may differ.
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer spheres, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH from a slice of spheres
func NewBVH(spheres []Sphere) *BVH {
	if len(spheres) == 0 {
		return &BVH{}
	}

	// Partitioning reorders, so work on a copy
	spheresCopy := make([]Sphere, len(spheres))
	copy(spheresCopy, spheres)

	return &BVH{Root: buildBVH(spheresCopy)}
}

// buildBVH recursively builds the tree using median splits on the longest axis
func buildBVH(spheres []Sphere) *BVHNode {
	box := pad(SphereList(spheres).BoundingBox())

	if len(spheres) <= leafThreshold {
		return &BVHNode{BoundingBox: box, Spheres: spheres}
	}

	axis := box.LongestAxis()
	extent := box.Axes[axis]
	if extent.End <= extent.Start {
		return &BVHNode{BoundingBox: box, Spheres: spheres}
	}

	left, right := partitionSpheres(spheres, axis, (extent.Start+extent.End)*0.5)

	// Ensure we don't create empty partitions
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{BoundingBox: box, Spheres: spheres}
	}

	return &BVHNode{
		BoundingBox: box,
		Left:        buildBVH(left),
		Right:       buildBVH(right),
	}
}

// partitionSpheres splits spheres by their center along the chosen axis
func partitionSpheres(spheres []Sphere, axis int, splitPos float32) ([]Sphere, []Sphere) {
	var left, right []Sphere
	for _, s := range spheres {
		if s.Center[axis] < splitPos {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return left, right
}

// pad grows a box slightly so grazing sphere hits are not culled by slab rounding
func pad(box core.AABB) core.AABB {
	for axis := range box.Axes {
		delta := (box.Axes[axis].End-box.Axes[axis].Start)*1e-5 + 1e-5
		box.Axes[axis] = core.NewRange(box.Axes[axis].Start-delta, box.Axes[axis].End+delta)
	}
	return box
}

// Hit implements integrator.Intersector
func (bvh *BVH) Hit(ray core.Ray, tRange core.Range[float32]) material.HitRecord {
	if bvh.Root == nil {
		return material.NoHit()
	}
	return bvh.hitNode(bvh.Root, ray, tRange)
}

func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tRange core.Range[float32]) material.HitRecord {
	if !node.BoundingBox.Hit(ray, tRange) {
		return material.NoHit()
	}

	if node.Spheres != nil {
		return ClosestHit(node.Spheres, ray, tRange)
	}

	closest := bvh.hitNode(node.Left, ray, tRange)
	if closest.DidHit {
		tRange = tRange.WithEnd(closest.Distance)
	}
	if hit := bvh.hitNode(node.Right, ray, tRange); hit.DidHit {
		closest = hit
	}
	return closest
}

// Depth returns the height of the tree
func (bvh *BVH) Depth() int {
	return nodeDepth(bvh.Root)
}

func nodeDepth(node *BVHNode) int {
	if node == nil {
		return 0
	}
	return 1 + max(nodeDepth(node.Left), nodeDepth(node.Right))
}
