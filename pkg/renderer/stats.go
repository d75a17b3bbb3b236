package renderer

import (
	"time"

	"github.com/df07/go-gpu-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Backend          string        // Backend that produced the image
	TotalPixels      int           // Total number of pixels rendered
	SamplesCompleted int           // Dispatches finished so far
	TargetSamples    int           // Dispatches requested
	Elapsed          time.Duration // Wall time spent dispatching
}

// Invocations returns the number of pixel-samples evaluated
func (s RenderStats) Invocations() int {
	return s.TotalPixels * s.SamplesCompleted
}

// InvocationsPerSecond returns throughput in pixel-samples per second
func (s RenderStats) InvocationsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Invocations()) / s.Elapsed.Seconds()
}

// CalculateAverageLuminance returns the mean luminance of an image's current average
func CalculateAverageLuminance(img *Image) float64 {
	if img == nil || len(img.Pixels) == 0 {
		return 0
	}
	scale := img.Scale()
	var total float64
	for _, p := range img.Pixels {
		total += float64(core.Luminance(p.Mul(scale)))
	}
	return total / float64(len(img.Pixels))
}
