package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType string
	SceneFile string
	OBJFile   string
	Width     int
	Height    int
	FOV       float64 // Degrees; 0 keeps the scene's field of view
	MaxDepth  int     // Negative keeps the scene's suggested depth
	Workers   int
	TileSize  int
	Format    string
	Output    string
	Timeout   time.Duration
	Help      bool
}

func main() {
	config := parseFlags()

	if config.Help {
		showHelp()
		return
	}

	if err := run(config, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SceneType, "scene", "default", "Built-in scene id, or file:<name> for scenes/<name>.json")
	flag.StringVar(&config.SceneFile, "scene-file", "", "Path to a JSON scene file (overrides -scene)")
	flag.StringVar(&config.OBJFile, "obj", "", "Path to a Wavefront OBJ model to render on a floor (overrides -scene)")
	flag.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&config.Height, "height", 0, "Image height in pixels (0 = keep aspect ratio)")
	flag.Float64Var(&config.FOV, "fov", 0, "Field of view in degrees (0 = scene default)")
	flag.IntVar(&config.MaxDepth, "depth", -1, "Reflection/refraction depth, 0 disables both (-1 = scene default)")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&config.TileSize, "tile", 32, "Tile size in pixels")
	flag.StringVar(&config.Format, "format", "png", "Output format: png, ppm, bmp or tiff")
	flag.StringVar(&config.Output, "out", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	flag.DurationVar(&config.Timeout, "timeout", 0, "Abort the render after this long (0 = no limit)")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()
	return config
}

func showHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Printf("  %-14s - %s\n", info.ID, info.Description)
	}
	if files, err := scene.ListFileScenes(""); err == nil {
		for _, info := range files {
			fmt.Printf("  %-14s - %s\n", info.ID, info.DisplayName)
		}
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
}

// run loads the scene, renders it and writes the image
func run(config Config, logger core.Logger) error {
	if !renderer.SupportedFormat(config.Format) {
		return fmt.Errorf("format %q: %w", config.Format, renderer.ErrUnsupportedFormat)
	}

	overrides := scene.CameraConfig{
		Width:       config.Width,
		Height:      config.Height,
		FieldOfView: config.FOV * math.Pi / 180,
	}
	sceneObj, err := createScene(config, overrides)
	if err != nil {
		return err
	}
	logger.Printf("Scene %q: %d primitives, %dx%d pixels\n",
		sceneObj.Name, sceneObj.GetPrimitiveCount(), sceneObj.Camera.HSize, sceneObj.Camera.VSize)

	renderConfig := newRenderConfig(config, sceneObj)

	ctx := context.Background()
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	raytracer := renderer.NewRaytracer(sceneObj.World, sceneObj.Camera, renderConfig, logger)
	canvas, stats, err := raytracer.Render(ctx, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("render exceeded timeout of %v after %d of %d pixels: %w",
				config.Timeout, stats.TotalPixels, canvas.Width*canvas.Height, err)
		}
		return fmt.Errorf("render failed: %w", err)
	}

	filename := config.Output
	if filename == "" {
		filename = outputPath(createOutputDir(sceneObj.Name), config.Format, time.Now())
	}
	if err := canvas.WriteFile(filename); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// newRenderConfig applies the depth, worker and tile flags over the scene's suggestions
func newRenderConfig(config Config, sceneObj *scene.Scene) renderer.RenderConfig {
	renderConfig := renderer.DefaultRenderConfig()
	renderConfig.MaxDepth = sceneObj.MaxDepth
	if config.MaxDepth >= 0 {
		renderConfig.MaxDepth = config.MaxDepth
	}
	renderConfig.NumWorkers = config.Workers
	if config.TileSize > 0 {
		renderConfig.TileSize = config.TileSize
	}
	return renderConfig
}

// createScene resolves the scene selected by the flags, in order -obj, -scene-file, -scene
func createScene(config Config, overrides scene.CameraConfig) (*scene.Scene, error) {
	switch {
	case config.OBJFile != "":
		return scene.NewOBJScene(config.OBJFile, overrides)
	case config.SceneFile != "":
		return scene.LoadFileScene(config.SceneFile, overrides)
	case config.SceneType == "":
		return nil, fmt.Errorf("no scene given: %w", scene.ErrUnknownScene)
	default:
		return scene.Create(config.SceneType, overrides)
	}
}

// createOutputDir returns the directory renders of the named scene are written to
func createOutputDir(sceneName string) string {
	base := strings.TrimPrefix(sceneName, "file:")
	base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == os.PathSeparator {
			return '-'
		}
		return r
	}, strings.ToLower(base))
	if base == "" || base == "." {
		base = "scene"
	}
	return filepath.Join("output", base)
}

// outputPath returns a timestamped file name inside dir
func outputPath(dir, format string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("render_%s.%s", timestamp, strings.ToLower(format)))
}
