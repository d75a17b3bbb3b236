package export

import (
	"fmt"
	"math"

	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// RMSE returns the root mean squared difference between the displayed
// (gamma-mapped, 8-bit) colors of two images of equal size, in [0, 1]
func RMSE(a, b *renderer.Image) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	if a.Width == 0 || a.Height == 0 {
		return 0, nil
	}

	var sum float64
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			ar, ag, ab := RGB(a.Color(x, y))
			br, bg, bb := RGB(b.Color(x, y))
			for _, d := range [3]float64{
				float64(ar) - float64(br),
				float64(ag) - float64(bg),
				float64(ab) - float64(bb),
			} {
				sum += d * d
			}
		}
	}
	n := float64(a.Width * a.Height * 3)
	return math.Sqrt(sum/n) / 255, nil
}
