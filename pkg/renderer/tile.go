package renderer

import (
	"context"
	"image"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier, row-major
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	if tileSize <= 0 {
		tileSize = max(width, height, 1)
	}

	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: tileID, Bounds: image.Rect(x0, y0, x1, y1)})
			tileID++
		}
	}

	return tiles
}

// TileRenderer shades the pixels of one tile into a shared canvas
type TileRenderer struct {
	world    *World
	camera   *Camera
	maxDepth int
}

// NewTileRenderer creates a new tile renderer for the given world and camera
func NewTileRenderer(world *World, camera *Camera, maxDepth int) *TileRenderer {
	return &TileRenderer{world: world, camera: camera, maxDepth: maxDepth}
}

// RenderTile renders pixels within bounds into canvas. Tiles never overlap, so
// concurrent calls on one canvas write disjoint pixels. The context is checked
// between rows.
func (tr *TileRenderer) RenderTile(ctx context.Context, bounds image.Rectangle, canvas *Canvas) (RenderStats, error) {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return RenderStats{}, err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ray := tr.camera.RayForPixel(x, y)
			canvas.WritePixel(x, y, tr.world.ColorAt(ray, tr.maxDepth))
		}
	}

	return RenderStats{TotalPixels: bounds.Dx() * bounds.Dy(), Tiles: 1}, nil
}
