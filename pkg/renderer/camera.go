package renderer

import (
	"math"

	"github.com/df07/go-gpu-raytracer/pkg/core"
)

// Camera is a thin-lens camera. Angles are in radians.
type Camera struct {
	Position      core.Vec3
	Target        core.Vec3
	Up            core.Vec3
	VerticalFOV   float32 // Full vertical field of view
	DefocusAngle  float32 // Cone angle of rays through each pixel; 0 disables depth of field
	FocusDistance float32 // Distance from position to the plane of perfect focus
}

// Degrees converts an angle in degrees to radians
func Degrees(deg float32) float32 {
	return deg * math.Pi / 180
}

// Viewport is the projection basis derived once per render from a camera and screen size
type Viewport struct {
	Origin                 core.Vec3
	UpperLeftPixelPosition core.Vec3 // Center of pixel (0, 0)
	HorizontalPixelDelta   core.Vec3
	VerticalPixelDelta     core.Vec3
	HorizontalDefocusDisk  core.Vec3
	VerticalDefocusDisk    core.Vec3
}

// NewViewport computes the viewport for a camera rendering width x height pixels
func NewViewport(camera Camera, width, height uint32) Viewport {
	viewportHeight := 2 * core.Tan32(camera.VerticalFOV/2) * camera.FocusDistance
	viewportWidth := viewportHeight * float32(width) / float32(height)

	// Orthonormal camera basis
	w := camera.Position.Sub(camera.Target).Normalize()
	u := camera.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Image rows run top to bottom, so the vertical edge points down
	viewportU := u.Mul(viewportWidth)
	viewportV := core.Negate(v).Mul(viewportHeight)

	pixelDeltaU := viewportU.Mul(1 / float32(width))
	pixelDeltaV := viewportV.Mul(1 / float32(height))

	upperLeft := camera.Position.
		Sub(w.Mul(camera.FocusDistance)).
		Sub(viewportU.Mul(0.5)).
		Sub(viewportV.Mul(0.5))
	pixel00 := upperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Mul(0.5))

	defocusRadius := camera.FocusDistance * core.Tan32(camera.DefocusAngle/2)

	return Viewport{
		Origin:                 camera.Position,
		UpperLeftPixelPosition: pixel00,
		HorizontalPixelDelta:   pixelDeltaU,
		VerticalPixelDelta:     pixelDeltaV,
		HorizontalDefocusDisk:  u.Mul(defocusRadius),
		VerticalDefocusDisk:    v.Mul(defocusRadius),
	}
}

// Vectors returns the viewport fields in wire order
func (vp Viewport) Vectors() [6]core.Vec3 {
	return [6]core.Vec3{
		vp.Origin,
		vp.UpperLeftPixelPosition,
		vp.HorizontalPixelDelta,
		vp.VerticalPixelDelta,
		vp.HorizontalDefocusDisk,
		vp.VerticalDefocusDisk,
	}
}

// ViewportFromVectors is the inverse of Viewport.Vectors
func ViewportFromVectors(v [6]core.Vec3) Viewport {
	return Viewport{
		Origin:                 v[0],
		UpperLeftPixelPosition: v[1],
		HorizontalPixelDelta:   v[2],
		VerticalPixelDelta:     v[3],
		HorizontalDefocusDisk:  v[4],
		VerticalDefocusDisk:    v[5],
	}
}

// PixelCenterRay returns the ray from the lens center through the center of
// pixel (x, y), with neither jitter nor defocus
func (vp Viewport) PixelCenterRay(x, y int) core.Ray {
	target := vp.UpperLeftPixelPosition.
		Add(vp.HorizontalPixelDelta.Mul(float32(x))).
		Add(vp.VerticalPixelDelta.Mul(float32(y)))
	return core.NewRay(vp.Origin, target.Sub(vp.Origin))
}
