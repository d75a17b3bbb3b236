package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-gpu-raytracer/pkg/core"
)

// ErrInvalidSettings is returned when settings fail host-side validation
var ErrInvalidSettings = errors.New("invalid raytrace settings")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width in pixels
	Height          int // Image height in pixels
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           800,
		Height:          400,
		SamplesPerPixel: 10,
		MaxDepth:        50,
	}
}

// MergeSamplingConfig overrides fields of base with every non-zero field of override
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	if override.Width != 0 {
		base.Width = override.Width
	}
	if override.Height != 0 {
		base.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		base.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		base.MaxDepth = override.MaxDepth
	}
	return base
}

// RaytraceSettings is the full per-render configuration consumed by the kernel
type RaytraceSettings struct {
	Viewport        Viewport
	ScreenSize      [2]uint32 // Width, height
	AmountOfSamples uint32
	MaxDepth        uint32
}

// NewRaytraceSettings builds kernel settings from a camera and sampling config
func NewRaytraceSettings(camera Camera, config SamplingConfig) (RaytraceSettings, error) {
	if config.Width <= 0 || config.Height <= 0 || config.SamplesPerPixel <= 0 || config.MaxDepth < 0 {
		return RaytraceSettings{}, fmt.Errorf("%w: %dx%d, %d samples, depth %d",
			ErrInvalidSettings, config.Width, config.Height, config.SamplesPerPixel, config.MaxDepth)
	}

	width, height := uint32(config.Width), uint32(config.Height)
	settings := RaytraceSettings{
		Viewport:        NewViewport(camera, width, height),
		ScreenSize:      [2]uint32{width, height},
		AmountOfSamples: uint32(config.SamplesPerPixel),
		MaxDepth:        uint32(config.MaxDepth),
	}
	return settings, settings.Validate()
}

// Width returns the screen width in pixels
func (s RaytraceSettings) Width() int { return int(s.ScreenSize[0]) }

// Height returns the screen height in pixels
func (s RaytraceSettings) Height() int { return int(s.ScreenSize[1]) }

// PixelCount returns the number of output slots
func (s RaytraceSettings) PixelCount() int { return s.Width() * s.Height() }

// Validate checks the settings before they are handed to a backend
func (s RaytraceSettings) Validate() error {
	if s.ScreenSize[0] == 0 || s.ScreenSize[1] == 0 {
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalidSettings, s.ScreenSize[0], s.ScreenSize[1])
	}
	if s.AmountOfSamples == 0 {
		return fmt.Errorf("%w: zero samples", ErrInvalidSettings)
	}
	for i, v := range s.Viewport.Vectors() {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: viewport vector %d is not finite: %v", ErrInvalidSettings, i, v)
		}
	}
	return nil
}
