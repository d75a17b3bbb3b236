package export

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// WriteFunc encodes an image to w
type WriteFunc func(w io.Writer, img *renderer.Image) error

// WritePNG writes img as an 8-bit PNG
func WritePNG(w io.Writer, img *renderer.Image) error {
	return png.Encode(w, ToRGBA(img))
}

// WriteBMP writes img as a 32-bit BMP
func WriteBMP(w io.Writer, img *renderer.Image) error {
	return bmp.Encode(w, ToRGBA(img))
}

// WriteTIFF writes img as a deflate-compressed TIFF
func WriteTIFF(w io.Writer, img *renderer.Image) error {
	return tiff.Encode(w, ToRGBA(img), &tiff.Options{Compression: tiff.Deflate})
}

var writers = map[string]WriteFunc{
	".ppm":  WritePPM,
	".png":  WritePNG,
	".bmp":  WriteBMP,
	".tif":  WriteTIFF,
	".tiff": WriteTIFF,
}

// WriterFor selects the encoder for path's extension
func WriterFor(path string) (WriteFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	write, ok := writers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
	return write, nil
}

// SaveFile writes img to path, creating parent directories as needed
func SaveFile(path string, img *renderer.Image) error {
	write, err := WriterFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
