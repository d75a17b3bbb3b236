package renderer

import (
	"image"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/integrator"
	"github.com/df07/go-gpu-raytracer/pkg/rng"
)

// Kernel is the CPU form of the per-pixel entry point. It only reads its
// fields, so one Kernel may be invoked from many goroutines at once.
type Kernel struct {
	Settings RaytraceSettings
	World    integrator.Intersector
}

// NewKernel creates a kernel over a world
func NewKernel(settings RaytraceSettings, world integrator.Intersector) *Kernel {
	return &Kernel{Settings: settings, World: world}
}

// PrimaryRay builds the jittered, defocused camera ray for a pixel.
// It draws the pixel jitter first and the lens sample second.
func (k *Kernel) PrimaryRay(x, y uint32, random *rng.Rand) core.Ray {
	vp := k.Settings.Viewport

	offset := random.NextVec2().Sub(core.NewVec2(0.5, 0.5))
	sx := float32(x) + offset.X()
	sy := float32(y) + offset.Y()
	pixelCenter := vp.UpperLeftPixelPosition.
		Add(vp.HorizontalPixelDelta.Mul(sx)).
		Add(vp.VerticalPixelDelta.Mul(sy))

	disk := random.NextInUnitDisk()
	origin := vp.Origin.
		Add(vp.HorizontalDefocusDisk.Mul(disk.X())).
		Add(vp.VerticalDefocusDisk.Mul(disk.Y()))

	return core.NewRay(origin, pixelCenter.Sub(origin))
}

// Invoke runs one invocation for pixel (x, y) and adds its share of the
// final average into out[y*width+x]. Out-of-grid coordinates are ignored.
func (k *Kernel) Invoke(x, y, seed uint32, out []core.Vec3) {
	width, height := k.Settings.ScreenSize[0], k.Settings.ScreenSize[1]
	if x >= width || y >= height {
		return
	}

	random := rng.FromPixel(x, y, seed)
	ray := k.PrimaryRay(x, y, random)
	color := integrator.RayColor(ray, k.World, k.Settings.MaxDepth, random)

	i := y*width + x
	out[i] = out[i].Add(color.Mul(1 / float32(k.Settings.AmountOfSamples)))
}

// RenderBounds invokes the kernel once for every pixel inside bounds
func (k *Kernel) RenderBounds(bounds image.Rectangle, seed uint32, out []core.Vec3) int {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			k.Invoke(uint32(x), uint32(y), seed, out)
		}
	}
	return bounds.Dx() * bounds.Dy()
}
