package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned by Lookup for names not in the registry
var ErrUnknownScene = errors.New("unknown scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         renderer.Camera
	Spheres        []geometry.Sphere
	SamplingConfig renderer.SamplingConfig
}

// Settings derives kernel settings from the scene, with every non-zero field
// of override replacing the scene's own sampling value
func (s *Scene) Settings(override renderer.SamplingConfig) (renderer.RaytraceSettings, error) {
	config := renderer.MergeSamplingConfig(s.SamplingConfig, override)
	return renderer.NewRaytraceSettings(s.Camera, config)
}

// Constructor builds a scene. Seed only matters for randomized scenes.
type Constructor func(seed int64) *Scene

var registry = map[string]Constructor{
	"random-spheres": NewRandomSpheres,
	"showcase":       func(int64) *Scene { return NewMaterialShowcase() },
	"sphere-grid":    func(int64) *Scene { return NewSphereGrid() },
	"single-sphere":  func(int64) *Scene { return NewSingleSphere() },
}

// DefaultSceneName is the scene rendered when none is requested
const DefaultSceneName = "random-spheres"

// Lookup builds a registered scene by name
func Lookup(name string, seed int64) (*Scene, error) {
	if name == "" {
		name = DefaultSceneName
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return ctor(seed), nil
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSingleSphere creates the smallest useful scene: one diffuse sphere in
// front of a camera at the origin looking down -z
func NewSingleSphere() *Scene {
	return &Scene{
		Name: "single-sphere",
		Camera: renderer.Camera{
			Position:      core.NewVec3(0, 0, 0),
			Target:        core.NewVec3(0, 0, -1),
			Up:            core.NewVec3(0, 1, 0),
			VerticalFOV:   renderer.Degrees(90),
			FocusDistance: 1,
		},
		Spheres: []geometry.Sphere{
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))),
		},
		SamplingConfig: renderer.SamplingConfig{
			Width:           200,
			Height:          100,
			SamplesPerPixel: 10,
			MaxDepth:        50,
		},
	}
}
