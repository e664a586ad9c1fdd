package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int           // Pixels rendered
	Tiles       int           // Tiles completed
	Workers     int           // Parallel workers used
	Elapsed     time.Duration // Wall-clock time of the render
}

// Merge adds the pixel and tile counts of a finished tile
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.Tiles += other.Tiles
}

// PixelsPerSecond returns the render throughput, or 0 before the render has timed anything
func (s RenderStats) PixelsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalPixels) / s.Elapsed.Seconds()
}
