package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/df07/go-gpu-raytracer/pkg/gpu"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
	"github.com/df07/go-gpu-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of JSON scene files")
	staticDir := flag.String("static", "web/static", "Directory of the browser client")
	backendName := flag.String("backend", "cpu", "Render backend: 'cpu' or 'gpu'")
	workers := flag.Int("workers", 0, "CPU worker goroutines (0 = CPU count)")
	verbose := flag.Bool("v", false, "Log GPU backend activity")
	flag.Parse()

	if *verbose {
		gpu.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cpuConfig := renderer.DefaultCPUConfig()
	cpuConfig.NumWorkers = *workers
	factory := server.CPUBackendFactory(cpuConfig)

	if *backendName == "gpu" {
		cpuFactory := factory
		factory = func() (renderer.Backend, error) {
			backend, err := gpu.New()
			if err != nil {
				log.Printf("GPU backend unavailable, rendering on CPU: %v", err)
				return cpuFactory()
			}
			return backend, nil
		}
	}

	webServer := server.NewServer(*port).
		WithScenesDir(*scenesDir).
		WithStaticDir(*staticDir).
		WithBackend(factory)

	log.Printf("Progressive Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
