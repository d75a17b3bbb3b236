// Package export converts accumulated renders to 8-bit images and writes
// them to disk.
package export

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// Channel maps a linear channel value to gamma 2 and 8 bits. Values outside
// [0, 1] and NaN are clamped.
func Channel(c float32) uint8 {
	if !(c > 0) {
		return 0
	}
	if c > 1 {
		c = 1
	}
	return uint8(math.Round(255 * math.Sqrt(float64(c))))
}

// RGB maps a linear color to gamma-corrected 8-bit channels
func RGB(c core.Vec3) (r, g, b uint8) {
	return Channel(c.X()), Channel(c.Y()), Channel(c.Z())
}

// ToRGBA converts the current average of img to an 8-bit image
func ToRGBA(img *renderer.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := RGB(img.Color(x, y))
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

// FromImage converts a decoded 8-bit image back to linear colors, inverting
// the gamma 2 mapping
func FromImage(src image.Image) *renderer.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			pixels[y*width+x] = core.NewVec3(linear(r), linear(g), linear(b))
		}
	}

	return &renderer.Image{
		Width:         width,
		Height:        height,
		Pixels:        pixels,
		SamplesDone:   1,
		SamplesTarget: 1,
	}
}

func linear(c uint32) float32 {
	v := float32(c) / 65535.0
	return v * v
}
