package scene

import (
	"math"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to cone response
	lc := l + 0.3963377774*a + 0.2158037573*b
	mc := l - 0.1055613458*a - 0.0638541728*b
	sc := l - 0.0894841775*a - 1.2914855480*b
	lc, mc, sc = lc*lc*lc, mc*mc*mc, sc*sc*sc

	r := +4.0767416621*lc - 3.3077115913*mc + 0.2309699292*sc
	g := -1.2684380046*lc + 2.6097574011*mc - 0.3413193965*sc
	blue := -0.0041960863*lc - 0.7034186147*mc + 1.7076147010*sc

	clamp := func(v float64) float32 { return float32(math.Max(0, math.Min(1, v))) }
	return core.NewVec3(clamp(r), clamp(g), clamp(blue))
}

// SphereGridSize is the number of spheres along each side of the grid
const SphereGridSize = 20

// NewSphereGrid creates a grid of metal spheres with hue varying along x and
// chroma along z, resting on a large ground sphere
func NewSphereGrid() *Scene {
	s := &Scene{
		Name: "sphere-grid",
		Camera: renderer.Camera{
			Position:      core.NewVec3(4.5, 6, 18),    // Farther back and slightly lower
			Target:        core.NewVec3(4.5, 0.8, 4.5), // Center of grid, slightly lower
			Up:            core.NewVec3(0, 1, 0),
			VerticalFOV:   renderer.Degrees(40),
			DefocusAngle:  renderer.Degrees(0.2),
			FocusDistance: 14.2,
		},
		SamplingConfig: renderer.SamplingConfig{
			Width:           800,
			Height:          450,
			SamplesPerPixel: 50,
			MaxDepth:        40,
		},
	}

	s.Spheres = append(s.Spheres,
		geometry.NewSphere(core.NewVec3(4.5, -1000, 4.5), 1000, material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))))

	// Fit the grid in roughly 9x9 units regardless of its size
	targetArea := 9.0
	spacing := targetArea / float64(SphereGridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	const (
		baseLightness = 0.65
		minChroma     = 0.05 // Near gray
		maxChroma     = 0.25 // Vivid
	)

	for i := 0; i < SphereGridSize; i++ {
		for j := 0; j < SphereGridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(float32(x), float32(radius), float32(z))

			hue := (float64(i) / float64(SphereGridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(SphereGridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			fuzz := float32(0.05 + 0.1*float64((i+j)%3)/2.0)
			mat := material.NewMetal(oklchToRGB(lightness, chroma, hue), fuzz)
			s.Spheres = append(s.Spheres, geometry.NewSphere(position, float32(radius), mat))
		}
	}

	return s
}
