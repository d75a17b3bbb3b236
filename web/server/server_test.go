package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/df07/go-gpu-raytracer/pkg/renderer"
	"github.com/df07/go-gpu-raytracer/pkg/scene"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(0).
		WithScenesDir(t.TempDir()).
		WithBackend(CPUBackendFactory(renderer.CPUConfig{TileSize: 8, NumWorkers: 2}))
}

type sseEvent struct {
	Type string
	Data string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.Data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if current.Type != "" {
				events = append(events, current)
			}
			current = sseEvent{}
		}
	}
	return events
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 7, false},
		{"n=3", 3, false},
		{"n=1", 1, false},
		{"n=10", 10, false},
		{"n=0", 0, true},
		{"n=11", 0, true},
		{"n=abc", 0, true},
	}
	for _, tt := range tests {
		values, _ := url.ParseQuery(tt.query)
		got, err := parseIntParam(values, "n", 7, 1, 10)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIntParam(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseIntParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("body = %v, err = %v", body, err)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scenes", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(response.Groups) == 0 || len(response.Groups[0].Scenes) != len(scene.Names()) {
		t.Errorf("unexpected scenes response: %+v", response)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scene-config?scene=single-sphere", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Scene    string         `json:"scene"`
		Defaults map[string]int `json:"defaults"`
		Spheres  int            `json:"spheres"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Scene != "single-sphere" || body.Spheres != 1 || body.Defaults["samples"] == 0 {
		t.Errorf("unexpected config: %+v", body)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scene-config?scene=nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown scene status = %d, want 400", rec.Code)
	}
}

func TestHandleInspect(t *testing.T) {
	handler := newTestServer(t).Handler()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantHit    bool
	}{
		{"center hits the sphere", "scene=single-sphere&width=64&height=32&x=32&y=16", http.StatusOK, true},
		{"corner sees the sky", "scene=single-sphere&width=64&height=32&x=0&y=0", http.StatusOK, false},
		{"out of bounds", "scene=single-sphere&width=64&height=32&x=64&y=0", http.StatusBadRequest, false},
		{"bad coordinate", "scene=single-sphere&x=a&y=0", http.StatusBadRequest, false},
		{"unknown scene", "scene=nope&x=0&y=0", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect?"+tt.query, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp InspectResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Hit != tt.wantHit {
				t.Fatalf("Hit = %v, want %v", resp.Hit, tt.wantHit)
			}
			if tt.wantHit {
				if resp.SphereIndex != 0 || resp.MaterialType != "diffuse" || !resp.FrontFace {
					t.Errorf("unexpected hit: %+v", resp)
				}
				// Sphere at z=-1 with radius 0.5: the near surface is 0.5 away along the view axis
				if resp.Distance < 0.49 || resp.Distance > 0.51 {
					t.Errorf("Distance = %v, want about 0.5", resp.Distance)
				}
			} else if resp.SphereIndex != -1 || resp.Background[2] < 0.999 {
				t.Errorf("unexpected miss: %+v", resp)
			}
		})
	}
}

func TestHandleRender_StreamsProgress(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/render?scene=single-sphere&width=16&height=16&samples=3&maxDepth=4", nil)
	newTestServer(t).Handler().ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	events := parseSSE(t, rec.Body.String())
	var progress []ProgressUpdate
	for _, e := range events {
		switch e.Type {
		case "progress":
			var update ProgressUpdate
			if err := json.Unmarshal([]byte(e.Data), &update); err != nil {
				t.Fatalf("decode progress: %v", err)
			}
			progress = append(progress, update)
		case "error":
			t.Fatalf("render error event: %s", e.Data)
		}
	}

	if len(progress) != 3 {
		t.Fatalf("got %d progress events, want 3", len(progress))
	}
	for i, update := range progress {
		if update.Sample != i+1 || update.TotalSamples != 3 {
			t.Errorf("update %d: sample %d/%d", i, update.Sample, update.TotalSamples)
		}
		if update.ImageData == "" {
			t.Errorf("update %d has no image", i)
		}
	}
	if !progress[2].IsComplete || progress[1].IsComplete {
		t.Error("only the last update should be complete")
	}
	if last := events[len(events)-1]; last.Type != "complete" {
		t.Errorf("last event = %q, want complete", last.Type)
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	tests := []string{
		"/api/render?width=5",
		"/api/render?samples=0",
		"/api/render?scene=nope",
	}
	for _, target := range tests {
		rec := httptest.NewRecorder()
		newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		events := parseSSE(t, rec.Body.String())
		if len(events) != 1 || events[0].Type != "error" {
			t.Errorf("%s: events = %+v, want one error", target, events)
		}
	}
}

func TestHandleRender_BackendUnavailable(t *testing.T) {
	s := newTestServer(t).WithBackend(func() (renderer.Backend, error) {
		return nil, errors.New("no device")
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render?scene=single-sphere&width=16&height=16", nil))

	events := parseSSE(t, rec.Body.String())
	if len(events) != 1 || events[0].Type != "error" || !strings.Contains(events[0].Data, "no device") {
		t.Errorf("events = %+v, want backend error", events)
	}
}

func TestHandleRender_ClientGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/render?scene=single-sphere&width=16&height=16&samples=50", nil).WithContext(ctx)
	newTestServer(t).Handler().ServeHTTP(rec, req)

	for _, e := range parseSSE(t, rec.Body.String()) {
		if e.Type == "complete" {
			t.Error("cancelled render should not complete")
		}
	}
}
