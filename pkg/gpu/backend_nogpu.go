//go:build nogpu

package gpu

import (
	"context"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// Backend is a placeholder in builds without GPU support
type Backend struct{}

// New always fails in nogpu builds
func New() (*Backend, error) {
	return nil, ErrUnavailable
}

func (*Backend) Name() string { return "gpu/unavailable" }

func (*Backend) Upload(renderer.RaytraceSettings, []geometry.Sphere) error { return ErrUnavailable }

func (*Backend) Dispatch(context.Context, uint32) error { return ErrUnavailable }

func (*Backend) ReadBack() ([]core.Vec3, error) { return nil, ErrUnavailable }

func (*Backend) Close() error { return nil }
