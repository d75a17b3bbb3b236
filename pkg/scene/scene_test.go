package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Lookup(name, 1)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Name = %q, want %q", s.Name, name)
			}
			if len(s.Spheres) == 0 {
				t.Error("scene has no spheres")
			}
			if _, err := s.Settings(renderer.SamplingConfig{}); err != nil {
				t.Errorf("Settings: %v", err)
			}
		})
	}
}

func TestLookup_Default(t *testing.T) {
	s, err := Lookup("", 1)
	if err != nil {
		t.Fatalf("Lookup(\"\"): %v", err)
	}
	if s.Name != DefaultSceneName {
		t.Errorf("Name = %q, want %q", s.Name, DefaultSceneName)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := Lookup("cornell-box", 1); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Lookup(unknown) = %v, want ErrUnknownScene", err)
	}
}

func TestSettings_Override(t *testing.T) {
	s := NewSingleSphere()
	settings, err := s.Settings(renderer.SamplingConfig{Width: 64, SamplesPerPixel: 3})
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if settings.ScreenSize != [2]uint32{64, uint32(s.SamplingConfig.Height)} {
		t.Errorf("ScreenSize = %v", settings.ScreenSize)
	}
	if settings.AmountOfSamples != 3 {
		t.Errorf("AmountOfSamples = %d, want 3", settings.AmountOfSamples)
	}
	if settings.MaxDepth != uint32(s.SamplingConfig.MaxDepth) {
		t.Errorf("MaxDepth = %d, want %d", settings.MaxDepth, s.SamplingConfig.MaxDepth)
	}
}

func TestRandomSpheres_FixedSpheres(t *testing.T) {
	s := NewRandomSpheres(7)
	if len(s.Spheres) < 4 {
		t.Fatalf("got %d spheres, want at least 4", len(s.Spheres))
	}

	tests := []struct {
		center core.Vec3
		radius float32
		flat   material.Flat
	}{
		{core.NewVec3(0, -1000, 0), 1000, material.Flat{Tag: material.KindDiffuse, Albedo: core.NewVec3(0.5, 0.5, 0.5)}},
		{core.NewVec3(0, 1, 0), 1, material.Flat{Tag: material.KindGlass, RefractionIndex: 1.5}},
		{core.NewVec3(-4, 1, 0), 1, material.Flat{Tag: material.KindDiffuse, Albedo: core.NewVec3(0.4, 0.2, 0.1)}},
		{core.NewVec3(4, 1, 0), 1, material.Flat{Tag: material.KindMetal, Albedo: core.NewVec3(0.7, 0.6, 0.5)}},
	}
	for i, tt := range tests {
		got := s.Spheres[i]
		if got.Center != tt.center || got.Radius != tt.radius {
			t.Errorf("sphere %d = (%v, %v), want (%v, %v)", i, got.Center, got.Radius, tt.center, tt.radius)
		}
		if flat := material.Flatten(got.Material); flat != tt.flat {
			t.Errorf("sphere %d material = %+v, want %+v", i, flat, tt.flat)
		}
	}
}

func TestRandomSpheres_Field(t *testing.T) {
	s := NewRandomSpheres(42)
	field := s.Spheres[4:]
	if len(field) == 0 || len(field) > 22*22 {
		t.Fatalf("field has %d spheres, want 1..484", len(field))
	}

	keepClear := core.NewVec3(4, 0.2, 0)
	for i, sp := range field {
		if sp.Radius != 0.2 || sp.Center.Y() != 0.2 {
			t.Errorf("field sphere %d: radius %v, y %v", i, sp.Radius, sp.Center.Y())
		}
		if sp.Center.Sub(keepClear).Len() <= 0.9 {
			t.Errorf("field sphere %d at %v is too close to the metal sphere", i, sp.Center)
		}

		flat := material.Flatten(sp.Material)
		switch flat.Tag {
		case material.KindMetal:
			for c := 0; c < 3; c++ {
				if flat.Albedo[c] < 0.5 || flat.Albedo[c] >= 1 {
					t.Errorf("metal sphere %d albedo %v outside [0.5, 1)", i, flat.Albedo)
				}
			}
			if flat.Fuzz < 0 || flat.Fuzz >= 0.5 {
				t.Errorf("metal sphere %d fuzz %v outside [0, 0.5)", i, flat.Fuzz)
			}
		case material.KindGlass:
			if flat.RefractionIndex != 1.5 {
				t.Errorf("glass sphere %d ior = %v", i, flat.RefractionIndex)
			}
		}
	}
}

func TestRandomSpheres_Deterministic(t *testing.T) {
	a := NewRandomSpheres(99)
	b := NewRandomSpheres(99)
	if len(a.Spheres) != len(b.Spheres) {
		t.Fatalf("sphere counts differ: %d vs %d", len(a.Spheres), len(b.Spheres))
	}
	for i := range a.Spheres {
		if a.Spheres[i].Center != b.Spheres[i].Center ||
			material.Flatten(a.Spheres[i].Material) != material.Flatten(b.Spheres[i].Material) {
			t.Fatalf("sphere %d differs between runs", i)
		}
	}
}

func TestRandomSpheres_Camera(t *testing.T) {
	s := NewRandomSpheres(1)
	if s.Camera.Position != core.NewVec3(13, 2, 3) || s.Camera.Target != core.NewVec3(0, 0, 0) {
		t.Errorf("camera = %+v", s.Camera)
	}
	if s.Camera.FocusDistance != 10 {
		t.Errorf("FocusDistance = %v, want 10", s.Camera.FocusDistance)
	}
	want := renderer.SamplingConfig{Width: 800, Height: 400, SamplesPerPixel: 10, MaxDepth: 50}
	if s.SamplingConfig != want {
		t.Errorf("SamplingConfig = %+v, want %+v", s.SamplingConfig, want)
	}
}

func TestSphereGrid(t *testing.T) {
	s := NewSphereGrid()
	if got, want := len(s.Spheres), 1+SphereGridSize*SphereGridSize; got != want {
		t.Fatalf("got %d spheres, want %d", got, want)
	}
	for i, sp := range s.Spheres[1:] {
		if sp.Material.Kind() != material.KindMetal {
			t.Fatalf("grid sphere %d is %v, want metal", i, sp.Material.Kind())
		}
	}
}

func TestOklchToRGB(t *testing.T) {
	// Zero chroma is a neutral gray
	gray := oklchToRGB(0.5, 0, 123)
	if d := gray.X() - gray.Z(); d > 1e-3 || d < -1e-3 {
		t.Errorf("zero chroma gave %v, want a gray", gray)
	}
	for _, h := range []float64{0, 90, 180, 270} {
		c := oklchToRGB(0.7, 0.4, h)
		for i := 0; i < 3; i++ {
			if c[i] < 0 || c[i] > 1 {
				t.Errorf("oklchToRGB(0.7, 0.4, %v) = %v outside [0, 1]", h, c)
			}
		}
	}
}
