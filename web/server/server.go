package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-gpu-raytracer/pkg/renderer"
	"github.com/df07/go-gpu-raytracer/pkg/scene"
)

// Request limits shared by the render and inspect endpoints
const (
	MinImageSize = 16
	MaxImageSize = 2000
	MaxSamples   = 10000
	MaxDepth     = 500
)

// BackendFactory opens a backend for one render
type BackendFactory func() (renderer.Backend, error)

// CPUBackendFactory returns a factory for CPU backends with the given config
func CPUBackendFactory(config renderer.CPUConfig) BackendFactory {
	return func() (renderer.Backend, error) {
		return renderer.NewCPUBackend(config), nil
	}
}

// Server handles web requests for the progressive path tracer
type Server struct {
	port       int
	scenesDir  string
	staticDir  string
	newBackend BackendFactory
}

// NewServer creates a new web server rendering on CPU backends
func NewServer(port int) *Server {
	return &Server{
		port:       port,
		scenesDir:  "scenes",
		staticDir:  "static",
		newBackend: CPUBackendFactory(renderer.DefaultCPUConfig()),
	}
}

// WithBackend replaces the backend factory used for renders
func (s *Server) WithBackend(factory BackendFactory) *Server {
	s.newBackend = factory
	return s
}

// WithScenesDir sets the directory scanned for JSON scene files
func (s *Server) WithScenesDir(dir string) *Server {
	s.scenesDir = dir
	return s
}

// WithStaticDir sets the directory of the browser client
func (s *Server) WithStaticDir(dir string) *Server {
	s.staticDir = dir
	return s
}

// RenderRequest represents a render request from the client. Zero sampling
// fields keep the scene's defaults.
type RenderRequest struct {
	Scene       string `json:"scene"`       // Scene ID (e.g., "random-spheres" or "file:glass-bubbles")
	Width       int    `json:"width"`       // Image width
	Height      int    `json:"height"`      // Image height
	Samples     int    `json:"samples"`     // Samples per pixel
	MaxDepth    int    `json:"maxDepth"`    // Maximum bounce depth
	Seed        int64  `json:"seed"`        // Scene and frame seed
	ReportEvery int    `json:"reportEvery"` // Preview every N samples
}

// Handler returns the HTTP routes served by s
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default sampling configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	sceneObj, err := scene.Resolve(sceneID, s.scenesDir, 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneObj.Name,
		"defaults": map[string]int{
			"width":    config.Width,
			"height":   config.Height,
			"samples":  config.SamplesPerPixel,
			"maxDepth": config.MaxDepth,
		},
		"limits": map[string]map[string]int{
			"width":    {"min": MinImageSize, "max": MaxImageSize},
			"height":   {"min": MinImageSize, "max": MaxImageSize},
			"samples":  {"min": 1, "max": MaxSamples},
			"maxDepth": {"min": 1, "max": MaxDepth},
		},
		"spheres": len(sceneObj.Spheres),
	}
	writeJSON(w, http.StatusOK, response)
}

// parseSceneParams parses the parameters shared by render and inspect
func parseSceneParams(values url.Values, req *RenderRequest) error {
	req.Scene = values.Get("scene")

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(values, "height", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	seed, err := parseIntParam(values, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return err
	}
	req.Seed = int64(seed)
	return nil
}

// resolveScene builds the requested scene and its kernel settings
func (s *Server) resolveScene(req *RenderRequest) (*scene.Scene, renderer.RaytraceSettings, error) {
	sceneObj, err := scene.Resolve(req.Scene, s.scenesDir, req.Seed)
	if err != nil {
		return nil, renderer.RaytraceSettings{}, err
	}
	settings, err := sceneObj.Settings(renderer.SamplingConfig{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.MaxDepth,
	})
	if err != nil {
		return nil, renderer.RaytraceSettings{}, err
	}
	return sceneObj, settings, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
