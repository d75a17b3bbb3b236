// Package layout encodes kernel inputs and outputs in the fixed byte layout
// shared between the host and the WGSL kernel: little-endian, in field
// order, with every field 4-byte aligned and no padding.
package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// Sizes in bytes of each encoded record
const (
	FrameSize    = 16 // seed, sphere count, two words of padding to the minimum uniform block
	Vec3Size     = 12
	SettingsSize = 6*Vec3Size + 4*4 // viewport, screen_size[2], samples, max_depth
	SphereSize   = 40               // center[3], radius, tag, albedo[3], fuzz, ior
	PixelSize    = Vec3Size
)

// ErrShortBuffer is returned when a buffer is too small for what it should hold
var ErrShortBuffer = errors.New("buffer too short")

var le = binary.LittleEndian

func putF32(b []byte, v float32) {
	le.PutUint32(b, math.Float32bits(v))
}

func getF32(b []byte) float32 {
	return math.Float32frombits(le.Uint32(b))
}

func putVec3(b []byte, v core.Vec3) {
	putF32(b[0:], v[0])
	putF32(b[4:], v[1])
	putF32(b[8:], v[2])
}

func getVec3(b []byte) core.Vec3 {
	return core.NewVec3(getF32(b[0:]), getF32(b[4:]), getF32(b[8:]))
}

// EncodeFrame encodes the per-dispatch uniform: the frame seed and the
// number of live spheres in the scene binding
func EncodeFrame(seed, sphereCount uint32) []byte {
	buf := make([]byte, FrameSize)
	le.PutUint32(buf[0:], seed)
	le.PutUint32(buf[4:], sphereCount)
	return buf
}

// DecodeFrame is the inverse of EncodeFrame
func DecodeFrame(buf []byte) (seed, sphereCount uint32, err error) {
	if len(buf) < FrameSize {
		return 0, 0, fmt.Errorf("%w: frame needs %d bytes, got %d", ErrShortBuffer, FrameSize, len(buf))
	}
	return le.Uint32(buf[0:]), le.Uint32(buf[4:]), nil
}

// EncodeSettings encodes the raytrace settings
func EncodeSettings(s renderer.RaytraceSettings) []byte {
	buf := make([]byte, SettingsSize)
	off := 0
	for _, v := range s.Viewport.Vectors() {
		putVec3(buf[off:], v)
		off += Vec3Size
	}
	le.PutUint32(buf[off:], s.ScreenSize[0])
	le.PutUint32(buf[off+4:], s.ScreenSize[1])
	le.PutUint32(buf[off+8:], s.AmountOfSamples)
	le.PutUint32(buf[off+12:], s.MaxDepth)
	return buf
}

// DecodeSettings is the inverse of EncodeSettings
func DecodeSettings(buf []byte) (renderer.RaytraceSettings, error) {
	if len(buf) < SettingsSize {
		return renderer.RaytraceSettings{}, fmt.Errorf("%w: settings need %d bytes, got %d", ErrShortBuffer, SettingsSize, len(buf))
	}
	var vectors [6]core.Vec3
	off := 0
	for i := range vectors {
		vectors[i] = getVec3(buf[off:])
		off += Vec3Size
	}
	return renderer.RaytraceSettings{
		Viewport:        renderer.ViewportFromVectors(vectors),
		ScreenSize:      [2]uint32{le.Uint32(buf[off:]), le.Uint32(buf[off+4:])},
		AmountOfSamples: le.Uint32(buf[off+8:]),
		MaxDepth:        le.Uint32(buf[off+12:]),
	}, nil
}

// EncodeSpheres encodes the scene array. An empty scene encodes to one
// zeroed record since storage bindings cannot be empty; the frame's sphere
// count keeps the kernel from reading it.
func EncodeSpheres(spheres []geometry.Sphere) []byte {
	if len(spheres) == 0 {
		return make([]byte, SphereSize)
	}
	buf := make([]byte, len(spheres)*SphereSize)
	for i, s := range spheres {
		b := buf[i*SphereSize:]
		flat := material.Flatten(s.Material)
		putVec3(b[0:], s.Center)
		putF32(b[12:], s.Radius)
		le.PutUint32(b[16:], uint32(flat.Tag))
		putVec3(b[20:], flat.Albedo)
		putF32(b[32:], flat.Fuzz)
		putF32(b[36:], flat.RefractionIndex)
	}
	return buf
}

// DecodeSpheres decodes count spheres from an encoded scene array
func DecodeSpheres(buf []byte, count int) ([]geometry.Sphere, error) {
	if len(buf) < count*SphereSize {
		return nil, fmt.Errorf("%w: %d spheres need %d bytes, got %d", ErrShortBuffer, count, count*SphereSize, len(buf))
	}
	spheres := make([]geometry.Sphere, 0, count)
	for off := 0; off < count*SphereSize; off += SphereSize {
		b := buf[off:]
		mat, err := material.Unflatten(material.Flat{
			Tag:             material.Kind(le.Uint32(b[16:])),
			Albedo:          getVec3(b[20:]),
			Fuzz:            getF32(b[32:]),
			RefractionIndex: getF32(b[36:]),
		})
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", off/SphereSize, err)
		}
		spheres = append(spheres, geometry.NewSphere(getVec3(b[0:]), getF32(b[12:]), mat))
	}
	return spheres, nil
}

// OutputSize returns the byte size of the output buffer for n pixels
func OutputSize(pixels int) int {
	return pixels * PixelSize
}

// EncodeOutput encodes a pixel buffer
func EncodeOutput(pixels []core.Vec3) []byte {
	buf := make([]byte, OutputSize(len(pixels)))
	for i, p := range pixels {
		putVec3(buf[i*PixelSize:], p)
	}
	return buf
}

// DecodeOutput decodes n pixels from a read-back output buffer
func DecodeOutput(buf []byte, pixels int) ([]core.Vec3, error) {
	if len(buf) < OutputSize(pixels) {
		return nil, fmt.Errorf("%w: output needs %d bytes, got %d", ErrShortBuffer, OutputSize(pixels), len(buf))
	}
	out := make([]core.Vec3, pixels)
	for i := range out {
		out[i] = getVec3(buf[i*PixelSize:])
	}
	return out, nil
}
