package renderer

import (
	"context"
	"errors"
	"image"
	"math"
	"sync/atomic"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// silentLogger discards render progress output
type silentLogger struct{}

func (silentLogger) Printf(string, ...interface{}) {}

func defaultWorldCamera(size int) *Camera {
	camera := NewCamera(size, size, math.Pi/2)
	camera.SetTransform(core.ViewTransform(core.NewVec3(0, 0, -5), core.Origin, core.NewVec3(0, 1, 0)))
	return camera
}

func TestRaytracer_Render(t *testing.T) {
	config := DefaultRenderConfig()
	config.TileSize = 4
	config.NumWorkers = 3
	rt := NewRaytracer(DefaultWorld(), defaultWorldCamera(11), config, silentLogger{})

	var calls int
	seen := make(map[image.Rectangle]bool)
	canvas, stats, err := rt.Render(context.Background(), func(tile TileCompletionResult) {
		calls++
		seen[tile.Bounds] = true
		if tile.TileNumber != calls {
			t.Errorf("Expected tile number %d, got %d", calls, tile.TileNumber)
		}
		if tile.TotalTiles != 9 {
			t.Errorf("Expected 9 total tiles, got %d", tile.TotalTiles)
		}
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if canvas.Width != 11 || canvas.Height != 11 {
		t.Fatalf("Expected 11x11 canvas, got %dx%d", canvas.Width, canvas.Height)
	}
	assertColor(t, canvas.PixelAt(5, 5), core.NewVec3(0.38066, 0.47583, 0.2855), tolerance)
	if got := canvas.PixelAt(0, 0); got != core.Black {
		t.Errorf("Expected corner pixel to miss, got %v", got)
	}

	if calls != 9 || len(seen) != 9 {
		t.Errorf("Expected 9 distinct tile callbacks, got %d calls over %d tiles", calls, len(seen))
	}
	if stats.TotalPixels != 121 {
		t.Errorf("Expected 121 pixels, got %d", stats.TotalPixels)
	}
	if stats.Tiles != 9 {
		t.Errorf("Expected 9 tiles, got %d", stats.Tiles)
	}
	if stats.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", stats.Workers)
	}
}

func TestRaytracer_RenderMatchesSerial(t *testing.T) {
	world := DefaultWorld()
	camera := defaultWorldCamera(16)
	config := DefaultRenderConfig()
	config.TileSize = 5

	canvas, _, err := NewRaytracer(world, camera, config, silentLogger{}).Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for y := 0; y < camera.VSize; y++ {
		for x := 0; x < camera.HSize; x++ {
			want := world.ColorAt(camera.RayForPixel(x, y), DefaultMaxDepth)
			if got := canvas.PixelAt(x, y); got != want {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestRaytracer_RenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rt := NewRaytracer(DefaultWorld(), defaultWorldCamera(20), DefaultRenderConfig(), silentLogger{})
	canvas, stats, err := rt.Render(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if canvas == nil {
		t.Fatal("Expected partial canvas on cancellation")
	}
	if stats.Tiles != 0 {
		t.Errorf("Expected no finished tiles, got %d", stats.Tiles)
	}
}

func TestNewRaytracer_SanitizesConfig(t *testing.T) {
	rt := NewRaytracer(DefaultWorld(), defaultWorldCamera(3), RenderConfig{MaxDepth: -2, TileSize: 0}, nil)
	if rt.config.MaxDepth != 0 {
		t.Errorf("Expected negative depth clamped to 0, got %d", rt.config.MaxDepth)
	}
	if rt.config.TileSize != DefaultRenderConfig().TileSize {
		t.Errorf("Expected default tile size, got %d", rt.config.TileSize)
	}
	if rt.logger == nil {
		t.Error("Expected default logger")
	}
}

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"exact fit", 64, 64, 32, 4},
		{"ragged edges", 70, 40, 32, 6},
		{"single tile", 10, 10, 32, 1},
		{"non-positive tile size", 10, 7, 0, 1},
		{"empty image", 0, 0, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			area := 0
			full := image.Rect(0, 0, tt.width, tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				if !tile.Bounds.In(full) {
					t.Errorf("Tile %d bounds %v outside image %v", i, tile.Bounds, full)
				}
				for _, other := range tiles[:i] {
					if tile.Bounds.Overlaps(other.Bounds) {
						t.Errorf("Tile %d overlaps tile %d", i, other.ID)
					}
				}
				area += tile.Bounds.Dx() * tile.Bounds.Dy()
			}
			if area != tt.width*tt.height {
				t.Errorf("Expected tiles to cover %d pixels, got %d", tt.width*tt.height, area)
			}
		})
	}
}

func TestTileRenderer_RenderTile(t *testing.T) {
	world := DefaultWorld()
	camera := defaultWorldCamera(11)
	canvas := NewCanvas(11, 11)
	tr := NewTileRenderer(world, camera, DefaultMaxDepth)

	bounds := image.Rect(4, 4, 7, 6)
	stats, err := tr.RenderTile(context.Background(), bounds, canvas)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.TotalPixels != 6 || stats.Tiles != 1 {
		t.Errorf("Expected 6 pixels in 1 tile, got %+v", stats)
	}
	if canvas.PixelAt(5, 5) == core.Black {
		t.Error("Expected pixel inside the tile to be shaded")
	}
	if canvas.PixelAt(5, 7) != core.Black {
		t.Error("Expected pixel outside the tile to stay black")
	}
}

func TestWorkerPool_Run(t *testing.T) {
	if got := NewWorkerPool(0).NumWorkers(); got < 1 {
		t.Errorf("Expected at least one worker, got %d", got)
	}

	tasks := make([]TileTask, 20)
	for i := range tasks {
		tasks[i] = TileTask{Tile: &Tile{ID: i}, TaskID: i}
	}

	t.Run("runs every task within the limit", func(t *testing.T) {
		pool := NewWorkerPool(4)
		var running, peak atomic.Int32
		results := make(map[int]bool)

		err := pool.Run(context.Background(), tasks, func(ctx context.Context, task TileTask) (RenderStats, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			running.Add(-1)
			return RenderStats{Tiles: 1}, nil
		}, func(result TileResult) {
			results[result.TaskID] = true
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(results) != len(tasks) {
			t.Errorf("Expected %d results, got %d", len(tasks), len(results))
		}
		if peak.Load() > 4 {
			t.Errorf("Expected at most 4 concurrent tasks, saw %d", peak.Load())
		}
	})

	t.Run("first error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		err := NewWorkerPool(2).Run(context.Background(), tasks, func(ctx context.Context, task TileTask) (RenderStats, error) {
			if task.TaskID == 3 {
				return RenderStats{}, boom
			}
			return RenderStats{}, ctx.Err()
		}, nil)
		if !errors.Is(err, boom) {
			t.Errorf("Expected boom, got %v", err)
		}
	})
}

func TestRenderStats(t *testing.T) {
	var stats RenderStats
	if stats.PixelsPerSecond() != 0 {
		t.Error("Expected zero throughput before timing")
	}
	stats.Merge(RenderStats{TotalPixels: 100, Tiles: 1})
	stats.Merge(RenderStats{TotalPixels: 50, Tiles: 1, Workers: 9})
	if stats.TotalPixels != 150 || stats.Tiles != 2 || stats.Workers != 0 {
		t.Errorf("Unexpected merged stats %+v", stats)
	}
}
