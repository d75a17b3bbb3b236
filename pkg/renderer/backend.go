package renderer

import (
	"context"
	"errors"
	"fmt"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/integrator"
)

// ErrNotUploaded is returned when a backend is dispatched before Upload
var ErrNotUploaded = errors.New("backend has no uploaded scene")

// Backend is the device-side collaborator: it holds the scene and the
// output buffer, runs one full-grid dispatch per call and hands back the
// accumulated output.
type Backend interface {
	Name() string
	// Upload replaces the scene and settings and zeroes the output buffer
	Upload(settings RaytraceSettings, spheres []geometry.Sphere) error
	// Dispatch runs one invocation per pixel with the given frame seed and
	// returns once all of them have finished
	Dispatch(ctx context.Context, seed uint32) error
	// ReadBack returns a copy of the accumulated output in row-major order
	ReadBack() ([]core.Vec3, error)
	Close() error
}

// Accel selects the CPU scene resolver
type Accel int

const (
	AccelLinear Accel = iota // Linear scan, the reference resolver
	AccelBVH                 // Median-split BVH
)

func (a Accel) String() string {
	if a == AccelBVH {
		return "bvh"
	}
	return "linear"
}

// ParseAccel maps a flag value to an Accel
func ParseAccel(name string) (Accel, error) {
	switch name {
	case "", "linear":
		return AccelLinear, nil
	case "bvh":
		return AccelBVH, nil
	default:
		return AccelLinear, fmt.Errorf("unknown accelerator %q", name)
	}
}

// DefaultTileSize is the tile edge used when none is configured
const DefaultTileSize = 32

// CPUConfig configures the CPU backend
type CPUConfig struct {
	TileSize   int   // Tile edge in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Accel      Accel // Scene resolver
}

// DefaultCPUConfig returns sensible default values
func DefaultCPUConfig() CPUConfig {
	return CPUConfig{
		TileSize:   DefaultTileSize,
		NumWorkers: 0, // Auto-detect CPU count
		Accel:      AccelLinear,
	}
}

// CPUBackend runs the kernel on a goroutine worker pool, one tile per task
type CPUBackend struct {
	config CPUConfig
	kernel *Kernel
	tiles  []*Tile
	pool   *WorkerPool
	output []core.Vec3
}

// NewCPUBackend creates a CPU backend
func NewCPUBackend(config CPUConfig) *CPUBackend {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	return &CPUBackend{config: config}
}

// Name implements Backend
func (b *CPUBackend) Name() string {
	return "cpu/" + b.config.Accel.String()
}

// Upload implements Backend
func (b *CPUBackend) Upload(settings RaytraceSettings, spheres []geometry.Sphere) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if b.pool != nil {
		b.pool.Stop()
	}

	var world integrator.Intersector = geometry.SphereList(spheres)
	if b.config.Accel == AccelBVH {
		world = geometry.NewBVH(spheres)
	}

	b.kernel = NewKernel(settings, world)
	b.tiles = NewTileGrid(settings.Width(), settings.Height(), b.config.TileSize)
	b.output = make([]core.Vec3, settings.PixelCount())
	b.pool = NewWorkerPool(b.kernel, len(b.tiles), b.config.NumWorkers)
	b.pool.Start()
	return nil
}

// Dispatch implements Backend. Cancellation is only observed before the
// grid is submitted; a submitted grid always runs to completion.
func (b *CPUBackend) Dispatch(ctx context.Context, seed uint32) error {
	if b.kernel == nil {
		return ErrNotUploaded
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, tile := range b.tiles {
		b.pool.SubmitTask(TileTask{Tile: tile, Seed: seed, TaskID: i, Output: b.output})
	}

	var firstErr error
	for range b.tiles {
		result, ok := b.pool.GetResult()
		if !ok {
			return fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
	}
	return firstErr
}

// ReadBack implements Backend
func (b *CPUBackend) ReadBack() ([]core.Vec3, error) {
	if b.kernel == nil {
		return nil, ErrNotUploaded
	}
	out := make([]core.Vec3, len(b.output))
	copy(out, b.output)
	return out, nil
}

// Close implements Backend
func (b *CPUBackend) Close() error {
	if b.pool != nil {
		b.pool.Stop()
		b.pool = nil
	}
	b.kernel = nil
	return nil
}
