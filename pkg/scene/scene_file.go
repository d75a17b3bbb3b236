package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// ErrInvalidSceneFile is returned for scene files that decode but describe an unusable scene
var ErrInvalidSceneFile = errors.New("invalid scene file")

// DefaultRefractionIndex is used for glass spheres that leave refractionIndex unset
const DefaultRefractionIndex = 1.5

// File is the on-disk JSON form of a scene. Angles are in degrees.
type File struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Group       string       `json:"group,omitempty"`
	Camera      FileCamera   `json:"camera"`
	Sampling    FileSampling `json:"sampling"`
	Spheres     []FileSphere `json:"spheres"`
}

// FileCamera is the JSON form of renderer.Camera
type FileCamera struct {
	Position      [3]float32 `json:"position"`
	Target        [3]float32 `json:"target"`
	Up            [3]float32 `json:"up"`
	VerticalFOV   float32    `json:"vfov"`
	DefocusAngle  float32    `json:"defocusAngle"`
	FocusDistance float32    `json:"focusDistance"`
}

// FileSampling is the JSON form of renderer.SamplingConfig; zero fields take defaults
type FileSampling struct {
	Width           int `json:"width"`
	Height          int `json:"height"`
	SamplesPerPixel int `json:"samples"`
	MaxDepth        int `json:"maxDepth"`
}

// FileSphere is the JSON form of geometry.Sphere
type FileSphere struct {
	Center   [3]float32   `json:"center"`
	Radius   float32      `json:"radius"`
	Material FileMaterial `json:"material"`
}

// FileMaterial is the JSON form of a material; fields unused by Type are ignored
type FileMaterial struct {
	Type            string     `json:"type"`
	Albedo          [3]float32 `json:"albedo"`
	Fuzz            float32    `json:"fuzz"`
	RefractionIndex float32    `json:"refractionIndex"`
}

// LoadFile reads a JSON scene file
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Decode reads a JSON scene from r
func Decode(r io.Reader) (*Scene, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return file.Scene()
}

// Scene converts the file form into a renderable scene
func (f File) Scene() (*Scene, error) {
	if f.Camera.VerticalFOV <= 0 || f.Camera.VerticalFOV >= 180 {
		return nil, fmt.Errorf("%w: vertical fov %v", ErrInvalidSceneFile, f.Camera.VerticalFOV)
	}
	up := f.Camera.Up
	if up == [3]float32{} {
		up = [3]float32{0, 1, 0}
	}
	focus := f.Camera.FocusDistance
	if focus == 0 {
		focus = core.Vec3(f.Camera.Target).Sub(core.Vec3(f.Camera.Position)).Len()
	}
	if focus <= 0 {
		return nil, fmt.Errorf("%w: camera position equals target", ErrInvalidSceneFile)
	}

	s := &Scene{
		Name: f.Name,
		Camera: renderer.Camera{
			Position:      core.Vec3(f.Camera.Position),
			Target:        core.Vec3(f.Camera.Target),
			Up:            core.Vec3(up),
			VerticalFOV:   renderer.Degrees(f.Camera.VerticalFOV),
			DefocusAngle:  renderer.Degrees(f.Camera.DefocusAngle),
			FocusDistance: focus,
		},
		SamplingConfig: renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), renderer.SamplingConfig{
			Width:           f.Sampling.Width,
			Height:          f.Sampling.Height,
			SamplesPerPixel: f.Sampling.SamplesPerPixel,
			MaxDepth:        f.Sampling.MaxDepth,
		}),
	}

	for i, fs := range f.Spheres {
		if fs.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere %d has radius %v", ErrInvalidSceneFile, i, fs.Radius)
		}
		mat, err := fs.Material.material()
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.Spheres = append(s.Spheres, geometry.NewSphere(core.Vec3(fs.Center), fs.Radius, mat))
	}
	return s, nil
}

func (m FileMaterial) material() (material.Material, error) {
	kind, err := material.ParseKind(m.Type)
	if err != nil {
		return nil, err
	}
	ior := m.RefractionIndex
	if kind == material.KindGlass && ior == 0 {
		ior = DefaultRefractionIndex
	}
	return material.Unflatten(material.Flat{
		Tag:             kind,
		Albedo:          core.Vec3(m.Albedo),
		Fuzz:            m.Fuzz,
		RefractionIndex: ior,
	})
}
