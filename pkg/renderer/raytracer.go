package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	MaxDepth   int // Reflection/refraction bounces per camera ray
	NumWorkers int // Number of parallel workers (0 = use CPU count)
	TileSize   int // Edge length of the square tiles handed to workers
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		MaxDepth:   DefaultMaxDepth,
		NumWorkers: 0, // Auto-detect CPU count
		TileSize:   32,
	}
}

// TileCompletionResult describes a finished tile for progress callbacks
type TileCompletionResult struct {
	TileX, TileY int             // Tile coordinates (not pixel coordinates)
	Bounds       image.Rectangle // Pixel bounds of the tile
	TileNumber   int             // Tiles finished so far, including this one
	TotalTiles   int
	TileImage    *image.RGBA     // The finished pixels of this tile
}

// Raytracer renders a world through a camera onto a canvas
type Raytracer struct {
	world  *World
	camera *Camera
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world *World, camera *Camera, config RenderConfig, logger core.Logger) *Raytracer {
	if config.MaxDepth < 0 {
		config.MaxDepth = 0
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultRenderConfig().TileSize
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Raytracer{world: world, camera: camera, config: config, logger: logger}
}

// Config returns the settings the raytracer renders with
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// Render shades every pixel of the camera's canvas using a pool of workers.
// Cancelling ctx stops the render between rows; the partial canvas is returned with the error.
func (rt *Raytracer) Render(ctx context.Context, onTile func(TileCompletionResult)) (*Canvas, RenderStats, error) {
	start := time.Now()
	width, height := rt.camera.HSize, rt.camera.VSize
	canvas := NewCanvas(width, height)

	tiles := NewTileGrid(width, height, rt.config.TileSize)
	tasks := make([]TileTask, len(tiles))
	for i, tile := range tiles {
		tasks[i] = TileTask{Tile: tile, TaskID: i}
	}

	pool := NewWorkerPool(rt.config.NumWorkers)
	renderer := NewTileRenderer(rt.world, rt.camera, rt.config.MaxDepth)
	stats := RenderStats{Workers: pool.NumWorkers()}

	rt.logger.Printf("Rendering %dx%d in %d tiles (depth %d, %d workers)...\n",
		width, height, len(tiles), rt.config.MaxDepth, pool.NumWorkers())

	tilesX := (width + rt.config.TileSize - 1) / rt.config.TileSize
	work := func(ctx context.Context, task TileTask) (RenderStats, error) {
		return renderer.RenderTile(ctx, task.Tile.Bounds, canvas)
	}
	collect := func(result TileResult) {
		stats.Merge(result.Stats)
		if onTile != nil {
			onTile(TileCompletionResult{
				TileX:      result.TaskID % tilesX,
				TileY:      result.TaskID / tilesX,
				Bounds:     tiles[result.TaskID].Bounds,
				TileNumber: stats.Tiles,
				TotalTiles: len(tiles),
				TileImage:  canvas.SubImage(tiles[result.TaskID].Bounds),
			})
		}
	}

	err := pool.Run(ctx, tasks, work, collect)
	stats.Elapsed = time.Since(start)
	if err != nil {
		rt.logger.Printf("Render stopped after %d/%d tiles: %v\n", stats.Tiles, len(tiles), err)
		return canvas, stats, fmt.Errorf("render cancelled: %w", err)
	}

	rt.logger.Printf("Render completed in %v (%.0f pixels/s)\n", stats.Elapsed, stats.PixelsPerSecond())
	return canvas, stats, nil
}
