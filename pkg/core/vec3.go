package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 represents a 3D vector in single precision, the precision the kernel runs at
type Vec3 = mgl32.Vec3

// Vec2 represents a 2D vector in single precision
type Vec2 = mgl32.Vec2

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Splat returns a vector with every component set to s
func Splat(s float32) Vec3 {
	return Vec3{s, s, s}
}

// One returns (1, 1, 1)
func One() Vec3 {
	return Splat(1)
}

// LengthSquared returns the squared magnitude of the vector
func LengthSquared(v Vec3) float32 {
	return v.Dot(v)
}

// MulVec returns component-wise multiplication of two vectors
func MulVec(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Negate returns the negative of the vector
func Negate(v Vec3) Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Lerp linearly interpolates between a and b: (1-t)*a + t*b
func Lerp(a, b Vec3, t float32) Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// NearZero reports whether every component is below 1e-8.
// The comparison is signed, so large negative components also count.
func NearZero(v Vec3) bool {
	const s = 1e-8
	return v[0] < s && v[1] < s && v[2] < s
}

// Clamp returns a vector with components clamped to [minVal, maxVal]
func Clamp(v Vec3, minVal, maxVal float32) Vec3 {
	return Vec3{
		max(minVal, min(maxVal, v[0])),
		max(minVal, min(maxVal, v[1])),
		max(minVal, min(maxVal, v[2])),
	}
}

// Sqrt returns the component-wise square root, used for gamma-2 correction
func Sqrt(v Vec3) Vec3 {
	return Vec3{Sqrt32(v[0]), Sqrt32(v[1]), Sqrt32(v[2])}
}

// Luminance returns the perceptual luminance of an RGB color
func Luminance(v Vec3) float32 {
	return 0.299*v[0] + 0.587*v[1] + 0.114*v[2]
}

// IsFinite reports whether no component is NaN or infinite
func IsFinite(v Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Sqrt32 is math.Sqrt in single precision
func Sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Tan32 is math.Tan in single precision
func Tan32(x float32) float32 {
	return float32(math.Tan(float64(x)))
}
