package export

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder

	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// LoadImage reads a previously exported render (PPM, PNG, JPEG, BMP or TIFF)
// back into linear colors
func LoadImage(filename string) (*renderer.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(filename)) == ".ppm" {
		img, err := ReadPPM(file)
		if err != nil {
			return nil, err
		}
		return FromImage(img), nil
	}

	// Format is detected from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}
