package core

import (
	"math"
	"testing"
)

func TestAABBFromPoints(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, -2, 3), NewVec3(-1, 4, 0), NewVec3(0, 0, 5))

	if box.Min() != NewVec3(-1, -2, 0) {
		t.Errorf("Expected min (-1,-2,0), got %v", box.Min())
	}
	if box.Max() != NewVec3(1, 4, 5) {
		t.Errorf("Expected max (1,4,5), got %v", box.Max())
	}
	if axis := box.LongestAxis(); axis != 1 {
		t.Errorf("Expected longest axis 1, got %d", axis)
	}
}

func TestAABBHit(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	all := NewRange[float32](0, math.MaxFloat32)

	tests := []struct {
		name     string
		ray      Ray
		tRange   Range[float32]
		expected bool
	}{
		{"straight through", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), all, true},
		{"miss to the side", NewRay(NewVec3(2, 0, 5), NewVec3(0, 0, -1)), all, false},
		{"pointing away", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), all, false},
		{"from inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 1, 0)), all, true},
		{"range ends before box", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), NewRange[float32](0, 3), false},
		{"parallel outside slab", NewRay(NewVec3(0, 3, 5), NewVec3(0, 0, -1)), all, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, tt.tRange); got != tt.expected {
				t.Errorf("Hit = %t, expected %t", got, tt.expected)
			}
		})
	}
}

func TestAABBUnion(t *testing.T) {
	a := NewAABBFromPoints(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABBFromPoints(NewVec3(-1, 0.5, 0.5), NewVec3(0.5, 2, 3))
	u := a.Union(b)

	if u.Min() != NewVec3(-1, 0, 0) || u.Max() != NewVec3(1, 2, 3) {
		t.Errorf("Unexpected union [%v, %v]", u.Min(), u.Max())
	}
	if c := u.Center(); c != NewVec3(0, 1, 1.5) {
		t.Errorf("Expected center (0,1,1.5), got %v", c)
	}
}
