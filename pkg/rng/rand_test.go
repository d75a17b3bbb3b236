package rng

import (
	"math"
	"testing"

	"github.com/df07/go-gpu-raytracer/pkg/core"
)

var testSeeds = []uint32{1, 7, 42, 12345, 0xdeadbeef, 0xffffffff}

func TestNextUintSequence(t *testing.T) {
	r := New(12345)
	want := []uint32{0x2bc3c9e3, 0x09ab7f43, 0x09435030, 0xaaefba30, 0xe695f467}

	for i, w := range want {
		if got := r.NextUint(); got != w {
			t.Fatalf("draw %d: got %#x, want %#x", i, got, w)
		}
	}
	if r.State() != want[len(want)-1] {
		t.Errorf("State should equal the last returned value")
	}
}

func TestNextUintDeterministic(t *testing.T) {
	for _, seed := range testSeeds {
		a, b := New(seed), New(seed)
		for i := 0; i < 1000; i++ {
			if x, y := a.NextUint(), b.NextUint(); x != y {
				t.Fatalf("seed %d draw %d: %#x != %#x", seed, i, x, y)
			}
		}
	}
}

func TestZeroSeedIsFixedPoint(t *testing.T) {
	r := New(0)
	for i := 0; i < 10; i++ {
		if got := r.NextUint(); got != 0 {
			t.Fatalf("expected zero to be a fixed point of the hash, got %#x", got)
		}
	}

	// Pixel seeding never starts from the raw zero state
	if FromPixel(0, 0, 0).State() == 0 {
		t.Error("FromPixel(0,0,0) should not produce a zero state")
	}
}

func TestNextFloatRange(t *testing.T) {
	for _, seed := range append(testSeeds, 0) {
		r := New(seed)
		for i := 0; i < 10000; i++ {
			f := r.NextFloat()
			if f < 0 || f >= 1 {
				t.Fatalf("seed %d draw %d: %v outside [0,1)", seed, i, f)
			}
		}
	}
}

func TestNextFloatMean(t *testing.T) {
	r := FromPixel(10, 20, 30)
	const n = 100000
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(r.NextFloat())
	}
	mean := sum / n
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Expected mean near 0.5, got %f", mean)
	}
}

func TestNextInRange(t *testing.T) {
	r := New(99)
	for i := 0; i < 10000; i++ {
		v := r.NextInRange(-3, 5)
		if v < -3 || v >= 5 {
			t.Fatalf("draw %d: %v outside [-3,5)", i, v)
		}
	}
}

func TestRejectionSamplers(t *testing.T) {
	for _, seed := range testSeeds {
		r := New(seed)
		for i := 0; i < 10000; i++ {
			p := r.NextInUnitSphere()
			if core.LengthSquared(p) >= 1 {
				t.Fatalf("seed %d: in-sphere sample %v has squared length >= 1", seed, p)
			}

			d := r.NextInUnitDisk()
			if d.Dot(d) >= 1 {
				t.Fatalf("seed %d: in-disk sample %v has squared length >= 1", seed, d)
			}

			u := r.NextUnitVector()
			if l := u.Len(); math.Abs(float64(l)-1) > 1e-5 {
				t.Fatalf("seed %d: unit vector %v has length %v", seed, u, l)
			}
		}
	}
}

func TestNextOnHemisphere(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	r := New(2024)
	for i := 0; i < 1000; i++ {
		v := r.NextOnHemisphere(normal)
		if v.Dot(normal) < 0 {
			t.Fatalf("sample %v is below the hemisphere", v)
		}
	}
}

func TestFromPixelDistinctSeeds(t *testing.T) {
	seen := make(map[uint32]bool)
	for y := uint32(0); y < 16; y++ {
		for x := uint32(0); x < 16; x++ {
			s := FromPixel(x, y, 7).State()
			if seen[s] {
				t.Fatalf("duplicate seed %#x at (%d,%d)", s, x, y)
			}
			seen[s] = true
		}
	}
}
