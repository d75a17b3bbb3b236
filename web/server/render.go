package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-gpu-raytracer/pkg/export"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
)

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	Sample       int    `json:"sample"`
	TotalSamples int    `json:"totalSamples"`
	ImageData    string `json:"imageData"` // Base64 encoded PNG of the current average
	Stats        Stats  `json:"stats"`
	IsComplete   bool   `json:"isComplete"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Backend              string  `json:"backend"`
	TotalPixels          int     `json:"totalPixels"`
	Invocations          int     `json:"invocations"`
	InvocationsPerSecond float64 `json:"invocationsPerSecond"`
	AverageLuminance     float64 `json:"averageLuminance"`
	SphereCount          int     `json:"sphereCount"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data or a plain message
}

// handleRender streams a progressive render as Server-Sent Events. A client
// disconnect cancels the remaining samples.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Every event goes through one writer goroutine; the handler waits for it
	// before returning so nothing writes to w afterwards
	events := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, events)
	}()
	defer func() {
		close(events)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendEvent(ctx, events, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sceneObj, settings, err := s.resolveScene(req)
	if err != nil {
		s.sendEvent(ctx, events, "error", err.Error())
		return
	}

	backend, err := s.newBackend()
	if err != nil {
		s.sendEvent(ctx, events, "error", fmt.Sprintf("Backend unavailable: %v", err))
		return
	}
	defer backend.Close()

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan)

	config := renderer.ProgressiveConfig{Seed: req.Seed, ReportEvery: req.ReportEvery}
	pr := renderer.NewProgressiveRenderer(backend, settings, sceneObj.Spheres, config, logger)

	startTime := time.Now()
	passChan, errChan := pr.RenderProgressive(ctx)

	for passChan != nil || errChan != nil {
		select {
		case msg := <-consoleChan:
			s.sendConsole(ctx, events, msg)

		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePass(ctx, events, pass, len(sceneObj.Spheres), startTime)

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			s.drainConsole(ctx, events, consoleChan)
			s.sendEvent(ctx, events, "error", fmt.Sprintf("Rendering failed: %v", err))
			return

		case <-ctx.Done():
			// Client disconnected; the backend may only close once the render loop has stopped
			waitForRender(passChan, errChan)
			return
		}
	}

	s.drainConsole(ctx, events, consoleChan)
	s.sendEvent(ctx, events, "complete", "Rendering completed")
}

// waitForRender blocks until the render goroutine has closed its channels
func waitForRender(passChan <-chan renderer.PassResult, errChan <-chan error) {
	if passChan != nil {
		for range passChan {
		}
	}
	if errChan != nil {
		for range errChan {
		}
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	values := r.URL.Query()

	if err := parseSceneParams(values, req); err != nil {
		return nil, err
	}

	var err error
	if req.Samples, err = parseIntParam(values, "samples", 0, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", 0, 1, MaxDepth); err != nil {
		return nil, err
	}
	if req.ReportEvery, err = parseIntParam(values, "reportEvery", 1, 1, MaxSamples); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until the channel closes or the client goes away
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// handlePass encodes a preview and sends it as a progress event
func (s *Server) handlePass(ctx context.Context, events chan<- SSEEvent, pass renderer.PassResult, sphereCount int, startTime time.Time) {
	imageData, err := imageToBase64PNG(pass.Image)
	if err != nil {
		log.Printf("Error encoding sample %d preview: %v", pass.Sample, err)
		return
	}

	update := ProgressUpdate{
		Sample:       pass.Sample,
		TotalSamples: pass.Stats.TargetSamples,
		ImageData:    imageData,
		Stats: Stats{
			Backend:              pass.Stats.Backend,
			TotalPixels:          pass.Stats.TotalPixels,
			Invocations:          pass.Stats.Invocations(),
			InvocationsPerSecond: pass.Stats.InvocationsPerSecond(),
			AverageLuminance:     renderer.CalculateAverageLuminance(pass.Image),
			SphereCount:          sphereCount,
		},
		IsComplete: pass.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling progress update: %v", err)
		return
	}
	s.sendEvent(ctx, events, "progress", string(data))
}

func (s *Server) sendConsole(ctx context.Context, events chan<- SSEEvent, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return
	}
	s.sendEvent(ctx, events, "console", string(data))
}

// drainConsole forwards console messages already queued without waiting for more
func (s *Server) drainConsole(ctx context.Context, events chan<- SSEEvent, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsole(ctx, events, msg)
		default:
			return
		}
	}
}

// sendEvent queues an event unless the client is gone
func (s *Server) sendEvent(ctx context.Context, events chan<- SSEEvent, eventType, data string) {
	select {
	case events <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts the current average of an image to base64-encoded PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
