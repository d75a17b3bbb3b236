package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/export"
	"github.com/df07/go-gpu-raytracer/pkg/gpu"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"
	"github.com/df07/go-gpu-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName   string
	sceneFile   string
	width       int
	height      int
	samples     int
	depth       int
	seed        int64
	backend     string
	accel       string
	workers     int
	tile        int
	output      string
	compare     string
	checkShader bool
	listScenes  bool
	verbose     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.sceneName, "scene", scene.DefaultSceneName, "Built-in scene: "+strings.Join(scene.Names(), ", "))
	fs.StringVar(&opts.sceneFile, "scene-file", "", "Render a JSON scene file instead of a built-in scene")
	fs.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.Int64Var(&opts.seed, "seed", 42, "Seed for random scenes and frame seeds")
	fs.StringVar(&opts.backend, "backend", "cpu", "Render backend: 'cpu' or 'gpu' (falls back to cpu)")
	fs.StringVar(&opts.accel, "accel", "linear", "CPU scene resolver: 'linear' or 'bvh'")
	fs.IntVar(&opts.workers, "workers", 0, "CPU worker goroutines (0 = CPU count)")
	fs.IntVar(&opts.tile, "tile", renderer.DefaultTileSize, "CPU tile size in pixels")
	fs.StringVar(&opts.output, "o", "", "Output file; extension selects ppm, png, bmp or tiff (default output/<scene>/render_<timestamp>.ppm)")
	fs.StringVar(&opts.compare, "compare", "", "Reference image to report the RMSE against")
	fs.BoolVar(&opts.checkShader, "check-shader", false, "Compile the GPU kernel to SPIR-V and exit")
	fs.BoolVar(&opts.listScenes, "list", false, "List built-in scenes and exit")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose GPU backend logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.verbose {
		gpu.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if opts.listScenes {
		for _, info := range scene.BuiltInScenes() {
			fmt.Fprintf(stdout, "  %-16s %s\n", info.ID, info.Description)
		}
		return nil
	}

	if opts.checkShader {
		spirv, err := gpu.CompileKernel()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Kernel compiled to %d bytes of SPIR-V\n", len(spirv))
		return nil
	}

	selectedScene, err := createScene(opts.sceneName, opts.sceneFile, opts.seed)
	if err != nil {
		return err
	}
	settings, err := selectedScene.Settings(renderer.SamplingConfig{
		Width:           opts.width,
		Height:          opts.height,
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
	})
	if err != nil {
		return err
	}

	logger := newWriterLogger(stdout)
	backend, err := createBackend(opts, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	config := renderer.ProgressiveConfig{Seed: opts.seed}
	pr := renderer.NewProgressiveRenderer(backend, settings, selectedScene.Spheres, config, logger)

	img, stats, err := pr.Render(ctx, nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if stats.SamplesCompleted == 0 {
		return errors.New("render cancelled before any sample completed")
	}

	filename := opts.output
	if filename == "" {
		filename = filepath.Join(createOutputDir(selectedScene.Name),
			fmt.Sprintf("render_%s.ppm", time.Now().Format("20060102_150405")))
	}
	if err := export.SaveFile(filename, img); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)

	if opts.compare != "" {
		reference, err := export.LoadImage(opts.compare)
		if err != nil {
			return err
		}
		rmse, err := export.RMSE(img, reference)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "RMSE against %s: %.5f\n", opts.compare, rmse)
	}
	return nil
}

// createScene builds a built-in scene, or loads sceneFile when it is set
func createScene(name, sceneFile string, seed int64) (*scene.Scene, error) {
	if sceneFile != "" {
		return scene.LoadFile(sceneFile)
	}
	return scene.Lookup(name, seed)
}

// createBackend opens the requested backend. A GPU that cannot be opened
// falls back to the CPU backend.
func createBackend(opts *options, logger core.Logger) (renderer.Backend, error) {
	accel, err := renderer.ParseAccel(opts.accel)
	if err != nil {
		return nil, err
	}
	cpuBackend := renderer.NewCPUBackend(renderer.CPUConfig{
		TileSize:   opts.tile,
		NumWorkers: opts.workers,
		Accel:      accel,
	})

	switch opts.backend {
	case "cpu", "":
		return cpuBackend, nil
	case "gpu":
		backend, err := gpu.New()
		if err != nil {
			logger.Printf("GPU backend unavailable (%v), using %s\n", err, cpuBackend.Name())
			return cpuBackend, nil
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.backend)
	}
}

// createOutputDir returns the default output directory for a scene
func createOutputDir(sceneName string) string {
	base := filepath.Base(sceneName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "scene"
	}
	return filepath.Join("output", base)
}

// writerLogger implements core.Logger on an io.Writer
type writerLogger struct {
	w io.Writer
}

func newWriterLogger(w io.Writer) core.Logger {
	return &writerLogger{w: w}
}

func (l *writerLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, format, args...)
}
