package renderer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() core.Logger {
	return nopLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	Seed        int64 // Source of the per-sample frame seeds
	ReportEvery int   // Read back a preview every N samples (0 = only the final image)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		Seed:        42,
		ReportEvery: 1,
	}
}

// PassResult contains the state after one sample dispatch
type PassResult struct {
	Sample int // 1-based sample number
	Image  *Image
	Stats  RenderStats
	IsLast bool
}

// ProgressiveRenderer is the host loop: it uploads the scene once and then
// dispatches one full grid per sample with a fresh frame seed.
type ProgressiveRenderer struct {
	backend  Backend
	settings RaytraceSettings
	spheres  []geometry.Sphere
	config   ProgressiveConfig
	logger   core.Logger
}

// NewProgressiveRenderer creates a new progressive renderer
func NewProgressiveRenderer(backend Backend, settings RaytraceSettings, spheres []geometry.Sphere, config ProgressiveConfig, logger core.Logger) *ProgressiveRenderer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &ProgressiveRenderer{
		backend:  backend,
		settings: settings,
		spheres:  spheres,
		config:   config,
		logger:   logger,
	}
}

// FrameSeeds returns the frame seed used for each sample, in dispatch order
func FrameSeeds(seed int64, samples int) []uint32 {
	random := rand.New(rand.NewSource(seed))
	seeds := make([]uint32, samples)
	for i := range seeds {
		seeds[i] = random.Uint32()
	}
	return seeds
}

// Render dispatches every sample and returns the accumulated image. When ctx
// is cancelled between samples it stops early and returns the partial image
// together with ctx.Err().
func (pr *ProgressiveRenderer) Render(ctx context.Context, onPass func(PassResult)) (*Image, RenderStats, error) {
	stats := RenderStats{
		Backend:       pr.backend.Name(),
		TotalPixels:   pr.settings.PixelCount(),
		TargetSamples: int(pr.settings.AmountOfSamples),
	}

	if err := pr.backend.Upload(pr.settings, pr.spheres); err != nil {
		return nil, stats, fmt.Errorf("upload scene: %w", err)
	}

	pr.logger.Printf("Rendering %dx%d, %d samples, depth %d, %d spheres on %s\n",
		pr.settings.Width(), pr.settings.Height(), pr.settings.AmountOfSamples,
		pr.settings.MaxDepth, len(pr.spheres), stats.Backend)

	start := time.Now()
	seeds := FrameSeeds(pr.config.Seed, stats.TargetSamples)
	for i, seed := range seeds {
		// Coarse-grained early stop: an in-flight dispatch is never interrupted
		if err := ctx.Err(); err != nil {
			pr.logger.Printf("Rendering cancelled before sample %d\n", i+1)
			return pr.finish(stats, start, err)
		}

		if err := pr.backend.Dispatch(ctx, seed); err != nil {
			return nil, stats, fmt.Errorf("dispatch sample %d: %w", i+1, err)
		}
		stats.SamplesCompleted = i + 1
		stats.Elapsed = time.Since(start)

		isLast := stats.SamplesCompleted == stats.TargetSamples
		if onPass != nil && pr.config.ReportEvery > 0 && !isLast && stats.SamplesCompleted%pr.config.ReportEvery == 0 {
			img, err := pr.readImage(stats.SamplesCompleted)
			if err != nil {
				return nil, stats, err
			}
			onPass(PassResult{Sample: stats.SamplesCompleted, Image: img, Stats: stats})
		}
	}

	img, stats, err := pr.finish(stats, start, nil)
	if err == nil && onPass != nil {
		onPass(PassResult{Sample: stats.SamplesCompleted, Image: img, Stats: stats, IsLast: true})
	}
	return img, stats, err
}

func (pr *ProgressiveRenderer) finish(stats RenderStats, start time.Time, cause error) (*Image, RenderStats, error) {
	stats.Elapsed = time.Since(start)
	img, err := pr.readImage(stats.SamplesCompleted)
	if err != nil {
		return nil, stats, err
	}
	pr.logger.Printf("Finished %d/%d samples in %v (%.0f samples/s)\n",
		stats.SamplesCompleted, stats.TargetSamples, stats.Elapsed, stats.InvocationsPerSecond())
	return img, stats, cause
}

func (pr *ProgressiveRenderer) readImage(samplesDone int) (*Image, error) {
	pixels, err := pr.backend.ReadBack()
	if err != nil {
		return nil, fmt.Errorf("read back output: %w", err)
	}
	return &Image{
		Width:         pr.settings.Width(),
		Height:        pr.settings.Height(),
		Pixels:        pixels,
		SamplesDone:   samplesDone,
		SamplesTarget: int(pr.settings.AmountOfSamples),
	}, nil
}

// RenderProgressive renders with channel-based communication.
// The pass channel is closed when rendering ends; at most one error is sent.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		_, _, err := pr.Render(ctx, func(result PassResult) {
			select {
			case passChan <- result:
			case <-ctx.Done():
			}
		})
		if err != nil {
			errChan <- err
		}
	}()

	return passChan, errChan
}
