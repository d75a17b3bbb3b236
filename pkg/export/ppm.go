package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// ErrInvalidPPM is returned when a PPM stream cannot be parsed
var ErrInvalidPPM = errors.New("invalid PPM")

// WritePPM writes img as plain-text PPM: a P3 header, then one "R G B" line
// per pixel in row-major order
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := RGB(img.Color(x, y))
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadPPM decodes a plain-text PPM into an 8-bit image. Comments are not supported.
func ReadPPM(r io.Reader) (*image.RGBA, error) {
	br := bufio.NewReader(r)

	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxVal); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidPPM, err)
	}
	if magic != "P3" {
		return nil, fmt.Errorf("%w: magic %q", ErrInvalidPPM, magic)
	}
	if width <= 0 || height <= 0 || maxVal <= 0 || maxVal > 255 {
		return nil, fmt.Errorf("%w: %dx%d max %d", ErrInvalidPPM, width, height, maxVal)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var cr, cg, cb int
			if _, err := fmt.Fscan(br, &cr, &cg, &cb); err != nil {
				return nil, fmt.Errorf("%w: pixel (%d, %d): %v", ErrInvalidPPM, x, y, err)
			}
			img.SetRGBA(x, y, color.RGBA{
				R: scaleChannel(cr, maxVal),
				G: scaleChannel(cg, maxVal),
				B: scaleChannel(cb, maxVal),
				A: 255,
			})
		}
	}
	return img, nil
}

func scaleChannel(c, maxVal int) uint8 {
	if c < 0 {
		c = 0
	}
	if c > maxVal {
		c = maxVal
	}
	return uint8(c * 255 / maxVal)
}
