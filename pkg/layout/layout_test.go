package layout

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

func TestSizes(t *testing.T) {
	if SettingsSize != 88 {
		t.Errorf("Expected settings size 88, got %d", SettingsSize)
	}
	if SphereSize != 40 {
		t.Errorf("Expected sphere size 40, got %d", SphereSize)
	}
	if OutputSize(10) != 120 {
		t.Errorf("Expected 120 output bytes for 10 pixels, got %d", OutputSize(10))
	}
}

func TestEncodeFrame(t *testing.T) {
	buf := EncodeFrame(0xdeadbeef, 7)
	if len(buf) != FrameSize {
		t.Fatalf("Expected %d bytes, got %d", FrameSize, len(buf))
	}
	if buf[0] != 0xef || buf[3] != 0xde {
		t.Errorf("Seed should be little-endian, got % x", buf[:4])
	}
	seed, count, err := DecodeFrame(buf)
	if err != nil || seed != 0xdeadbeef || count != 7 {
		t.Errorf("DecodeFrame = %x, %d, %v", seed, count, err)
	}
	if _, _, err := DecodeFrame(buf[:8]); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Expected ErrShortBuffer, got %v", err)
	}
}

func TestEncodeSpheres_FieldOffsets(t *testing.T) {
	spheres := []geometry.Sphere{
		geometry.NewSphere(core.NewVec3(1, 2, 3), 0.5, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.25)),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewGlass(1.5)),
	}
	buf := EncodeSpheres(spheres)
	if len(buf) != 2*SphereSize {
		t.Fatalf("Expected %d bytes, got %d", 2*SphereSize, len(buf))
	}

	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }

	tests := []struct {
		name     string
		got      float32
		expected float32
	}{
		{"center.x", f32(0), 1},
		{"center.z", f32(8), 3},
		{"radius", f32(12), 0.5},
		{"albedo.x", f32(20), 0.7},
		{"albedo.z", f32(28), 0.5},
		{"fuzz", f32(32), 0.25},
		{"metal ior unused", f32(36), 0},
		{"glass albedo unused", f32(SphereSize + 20), 0},
		{"glass ior", f32(SphereSize + 36), 1.5},
	}
	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, tt.got)
		}
	}
	if u32(16) != uint32(material.KindMetal) || u32(SphereSize+16) != uint32(material.KindGlass) {
		t.Errorf("Unexpected tags %d, %d", u32(16), u32(SphereSize+16))
	}
}

func TestSpheresRoundTrip(t *testing.T) {
	spheres := []geometry.Sphere{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewGlass(1.5)),
	}
	decoded, err := DecodeSpheres(EncodeSpheres(spheres), len(spheres))
	if err != nil {
		t.Fatalf("DecodeSpheres: %v", err)
	}
	for i := range spheres {
		if decoded[i].Center != spheres[i].Center || decoded[i].Radius != spheres[i].Radius {
			t.Errorf("Sphere %d geometry changed: %+v", i, decoded[i])
		}
		if material.Flatten(decoded[i].Material) != material.Flatten(spheres[i].Material) {
			t.Errorf("Sphere %d material changed", i)
		}
	}
}

func TestEncodeSpheres_EmptyScene(t *testing.T) {
	buf := EncodeSpheres(nil)
	if len(buf) != SphereSize {
		t.Fatalf("Empty scene should still fill one record, got %d bytes", len(buf))
	}
	decoded, err := DecodeSpheres(buf, 0)
	if err != nil || len(decoded) != 0 {
		t.Errorf("Expected no spheres, got %v, %v", decoded, err)
	}
}

func TestDecodeSpheres_Errors(t *testing.T) {
	if _, err := DecodeSpheres(make([]byte, SphereSize-1), 1); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Expected ErrShortBuffer, got %v", err)
	}
	buf := make([]byte, SphereSize)
	binary.LittleEndian.PutUint32(buf[16:], 9)
	if _, err := DecodeSpheres(buf, 1); !errors.Is(err, material.ErrUnknownMaterial) {
		t.Errorf("Expected ErrUnknownMaterial, got %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	camera := renderer.Camera{
		Position:      core.NewVec3(13, 2, 3),
		Target:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VerticalFOV:   renderer.Degrees(20),
		DefocusAngle:  renderer.Degrees(0.6),
		FocusDistance: 10,
	}
	settings, err := renderer.NewRaytraceSettings(camera, renderer.SamplingConfig{Width: 800, Height: 400, SamplesPerPixel: 10, MaxDepth: 50})
	if err != nil {
		t.Fatalf("NewRaytraceSettings: %v", err)
	}

	buf := EncodeSettings(settings)
	if len(buf) != SettingsSize {
		t.Fatalf("Expected %d bytes, got %d", SettingsSize, len(buf))
	}
	// screen_size follows the six viewport vectors
	if binary.LittleEndian.Uint32(buf[72:]) != 800 || binary.LittleEndian.Uint32(buf[76:]) != 400 {
		t.Errorf("screen_size at wrong offset")
	}
	if binary.LittleEndian.Uint32(buf[80:]) != 10 || binary.LittleEndian.Uint32(buf[84:]) != 50 {
		t.Errorf("samples/max_depth at wrong offset")
	}

	decoded, err := DecodeSettings(buf)
	if err != nil {
		t.Fatalf("DecodeSettings: %v", err)
	}
	if decoded != settings {
		t.Errorf("Settings changed in round trip:\n%+v\n%+v", decoded, settings)
	}
	if _, err := DecodeSettings(buf[:SettingsSize-1]); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Expected ErrShortBuffer, got %v", err)
	}
}

func TestOutputRoundTrip(t *testing.T) {
	pixels := []core.Vec3{{1, 0, 0}, {0, 1, 0}, {0.25, 0.5, 0.75}}
	buf := EncodeOutput(pixels)
	decoded, err := DecodeOutput(buf, len(pixels))
	if err != nil {
		t.Fatalf("DecodeOutput: %v", err)
	}
	for i := range pixels {
		if decoded[i] != pixels[i] {
			t.Errorf("Pixel %d: %v vs %v", i, decoded[i], pixels[i])
		}
	}
	if _, err := DecodeOutput(buf, 4); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Expected ErrShortBuffer, got %v", err)
	}
}
