package material

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/rng"
)

// Kind identifies a material variant. The numeric values are the wire tags
// shared with the GPU kernel.
type Kind uint32

const (
	KindDiffuse Kind = iota
	KindMetal
	KindGlass
)

func (k Kind) String() string {
	switch k {
	case KindDiffuse:
		return "diffuse"
	case KindMetal:
		return "metal"
	case KindGlass:
		return "glass"
	default:
		return "unknown"
	}
}

// Material interface for surfaces that can scatter rays
type Material interface {
	Scatter(rayIn core.Ray, hit HitRecord, random *rng.Rand) ScatterResult
	Kind() Kind
}

// HitRecord contains information about a ray-object intersection.
// The zero value is the "no hit" sentinel.
type HitRecord struct {
	DidHit   bool
	Distance float32   // Parameter t along the ray
	Point    core.Vec3 // Point of intersection
	Face     core.Face // Which side the ray arrived from
	Normal   core.Vec3 // Unit normal, facing against the incoming ray
	Material Material
}

// NoHit returns the "no hit" sentinel
func NoHit() HitRecord {
	return HitRecord{}
}

// ScatterResult contains the result of material scattering.
// The zero value is the "no scatter" sentinel.
type ScatterResult struct {
	DidScatter  bool
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// NoScatter returns the "no scatter" sentinel, signalling absorption
func NoScatter() ScatterResult {
	return ScatterResult{}
}
