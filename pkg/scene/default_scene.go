package scene

import (
	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// NewMaterialShowcase creates a small scene with one sphere of each material
// and a glass bubble, resting on a large ground sphere
func NewMaterialShowcase() *Scene {
	s := &Scene{
		Name: "showcase",
		Camera: renderer.Camera{
			Position:      core.NewVec3(0, 0.75, 2), // Higher and farther back
			Target:        core.NewVec3(0, 0.5, -1), // Center sphere
			Up:            core.NewVec3(0, 1, 0),
			VerticalFOV:   renderer.Degrees(40),
			DefocusAngle:  renderer.Degrees(1),
			FocusDistance: 3.01, // Distance to the center sphere
		},
		SamplingConfig: renderer.SamplingConfig{
			Width:           400,
			Height:          225,
			SamplesPerPixel: 100,
			MaxDepth:        50,
		},
	}

	diffuseGreen := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0).Mul(0.6))
	diffuseBlue := material.NewDiffuse(core.NewVec3(0.1, 0.2, 0.5))
	diffuseRed := material.NewDiffuse(core.NewVec3(0.65, 0.25, 0.2))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glass := material.NewGlass(1.5)

	s.Spheres = append(s.Spheres,
		geometry.NewSphere(core.NewVec3(0, -1000, -1), 1000, diffuseGreen),
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, diffuseRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, metalSilver),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, glass),
		// Glass shell with a blue core
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, glass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.15, diffuseBlue),
	)

	return s
}
