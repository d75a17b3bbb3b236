// Package rng implements the stateless-per-invocation hash generator that drives
// Monte Carlo sampling. Every function here has an exact counterpart in the WGSL
// kernel, so CPU and GPU renders of the same seed draw the same numbers.
package rng

import "math"

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223

	mantissaMask = 0x007FFFFF
	floatOne     = 0x3F800000
)

// Hash1 is a shift-xor avalanche over a single 32-bit value
func Hash1(x uint32) uint32 {
	x += x << 10
	x ^= x >> 6
	x += x << 3
	x ^= x >> 11
	x += x << 15
	return x
}

// HashCombine2 mixes two values with an LCG step followed by Mersenne Twister tempering
func HashCombine2(x, y uint32) uint32 {
	seed := (x*lcgMultiplier + y + lcgIncrement) * lcgMultiplier
	seed ^= seed >> 11
	seed ^= (seed << 7) & 0x9d2c5680
	seed ^= (seed << 15) & 0xefc60000
	seed ^= seed >> 18
	return seed
}

// Hash2 hashes a 2D coordinate
func Hash2(x, y uint32) uint32 {
	return HashCombine2(x, Hash1(y))
}

// Hash3 hashes a 3D coordinate
func Hash3(x, y, z uint32) uint32 {
	return HashCombine2(x, Hash2(y, z))
}

// UnitFloat maps h onto [0, 1) by placing its low 23 bits in the mantissa of a
// float in [1, 2) and subtracting one.
func UnitFloat(h uint32) float32 {
	return math.Float32frombits((h&mantissaMask)|floatOne) - 1
}
