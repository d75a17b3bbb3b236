package scene

import (
	"math/rand"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// NewRandomSpheres creates the classic cover scene: three large spheres on a
// huge ground sphere surrounded by a 22x22 field of small random spheres.
// The same seed always produces the same scene.
func NewRandomSpheres(seed int64) *Scene {
	rnd := rand.New(rand.NewSource(seed))

	s := &Scene{
		Name: "random-spheres",
		Camera: renderer.Camera{
			Position:      core.NewVec3(13, 2, 3),
			Target:        core.NewVec3(0, 0, 0),
			Up:            core.NewVec3(0, 1, 0),
			VerticalFOV:   renderer.Degrees(20),
			DefocusAngle:  renderer.Degrees(0.6),
			FocusDistance: 10,
		},
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}

	s.Spheres = append(s.Spheres,
		// Ground
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewGlass(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewDiffuse(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)),
	)

	inRange := func(lo, hi float32) float32 { return lo + (hi-lo)*rnd.Float32() }
	keepClear := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMaterial := rnd.Float32()
			center := core.NewVec3(float32(a)+0.9*rnd.Float32(), 0.2, float32(b)+0.9*rnd.Float32())
			if center.Sub(keepClear).Len() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMaterial < 0.8:
				albedo := core.NewVec3(
					rnd.Float32()*rnd.Float32(),
					rnd.Float32()*rnd.Float32(),
					rnd.Float32()*rnd.Float32(),
				)
				mat = material.NewDiffuse(albedo)
			case chooseMaterial < 0.95:
				albedo := core.NewVec3(inRange(0.5, 1), inRange(0.5, 1), inRange(0.5, 1))
				mat = material.NewMetal(albedo, inRange(0, 0.5))
			default:
				mat = material.NewGlass(1.5)
			}
			s.Spheres = append(s.Spheres, geometry.NewSphere(center, 0.2, mat))
		}
	}

	return s
}
