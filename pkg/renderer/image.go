package renderer

import "github.com/df07/go-gpu-raytracer/pkg/core"

// Image is the accumulated kernel output. Each finished sample adds
// color/SamplesTarget to a pixel, so the buffer is the final average only
// once SamplesDone reaches SamplesTarget.
type Image struct {
	Width, Height int
	Pixels        []core.Vec3 // Row-major linear radiance
	SamplesDone   int
	SamplesTarget int
}

// Scale is the factor that turns a partial accumulation into an average
func (img *Image) Scale() float32 {
	if img.SamplesDone == 0 {
		return 0
	}
	return float32(img.SamplesTarget) / float32(img.SamplesDone)
}

// Color returns the current average linear color at (x, y)
func (img *Image) Color(x, y int) core.Vec3 {
	return img.Pixels[y*img.Width+x].Mul(img.Scale())
}

// Complete reports whether every target sample has been accumulated
func (img *Image) Complete() bool {
	return img.SamplesDone >= img.SamplesTarget
}
