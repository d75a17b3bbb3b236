package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/integrator"
	"github.com/df07/go-gpu-raytracer/pkg/material"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType"`
	Point        [3]float32             `json:"point"`
	Normal       [3]float32             `json:"normal"`
	Distance     float32                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Background   [3]float32             `json:"background"` // Sky color on a miss
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Diffuse:
		properties["albedo"] = [3]float32(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "diffuse", properties

	case *material.Metal:
		properties["albedo"] = [3]float32(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *material.Glass:
		properties["refractionIndex"] = m.RefractionIndex
		properties["color"] = "#ffffff" // Clear glass
		return "glass", properties

	default:
		return "unknown", properties
	}
}

func hexColor(c core.Vec3) string {
	channel := func(v float32) int { return int(math.Max(0, math.Min(1, float64(v))) * 255) }
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X()), channel(c.Y()), channel(c.Z()))
}

// inspectPixel casts the undisturbed ray through the center of pixel (x, y)
// and returns the index of the nearest sphere with its hit record
func inspectPixel(settings renderer.RaytraceSettings, spheres []geometry.Sphere, x, y int) (core.Ray, int, material.HitRecord) {
	ray := settings.Viewport.PixelCenterRay(x, y)
	tRange := core.NewRange[float32](integrator.MinHitDistance, math.MaxFloat32)
	index, hit := geometry.ClosestHitIndex(spheres, ray, tRange)
	return ray, index, hit
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := parseSceneParams(r.URL.Query(), req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, settings, err := s.resolveScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if pixelX < 0 || pixelX >= settings.Width() || pixelY < 0 || pixelY >= settings.Height() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	ray, index, hit := inspectPixel(settings, sceneObj.Spheres, pixelX, pixelY)
	if !hit.DidHit {
		writeJSON(w, http.StatusOK, InspectResponse{
			Hit:         false,
			SphereIndex: -1,
			Background:  [3]float32(integrator.Background(ray.Direction)),
		})
		return
	}

	materialType, materialProps := extractMaterialInfo(hit.Material)
	sphere := sceneObj.Spheres[index]
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		SphereIndex:  index,
		MaterialType: materialType,
		Point:        [3]float32(hit.Point),
		Normal:       [3]float32(hit.Normal),
		Distance:     hit.Distance,
		FrontFace:    hit.Face == core.Front,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": map[string]interface{}{
				"center": [3]float32(sphere.Center),
				"radius": sphere.Radius,
			},
		},
	})
}
