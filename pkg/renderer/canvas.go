package renderer

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrUnsupportedFormat is returned when asked to encode an unknown image format
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ppmLineLimit is the longest line a PPM file may contain
const ppmLineLimit = 70

// Canvas is a grid of linear RGB colors, row-major with (0, 0) at the top left
type Canvas struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewCanvas creates a black canvas
func NewCanvas(width, height int) *Canvas {
	return &Canvas{Width: width, Height: height, Pixels: make([]core.Vec3, width*height)}
}

// WritePixel sets the color at (x, y); out-of-range coordinates are ignored
func (c *Canvas) WritePixel(x, y int, color core.Vec3) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Pixels[y*c.Width+x] = color
}

// PixelAt returns the color at (x, y)
func (c *Canvas) PixelAt(x, y int) core.Vec3 {
	return c.Pixels[y*c.Width+x]
}

// toByte scales a channel to 0-255 with rounding, clamping out-of-range values
func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ToPPM serializes the canvas as plain (P3) PPM with lines wrapped at 70 characters
func (c *Canvas) ToPPM() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "P3\n%d %d\n255\n", c.Width, c.Height)

	for y := 0; y < c.Height; y++ {
		lineLen := 0
		for x := 0; x < c.Width; x++ {
			p := c.PixelAt(x, y)
			for _, channel := range [3]float64{p.X, p.Y, p.Z} {
				s := strconv.Itoa(int(toByte(channel)))
				if lineLen > 0 {
					if lineLen+1+len(s) > ppmLineLimit {
						sb.WriteByte('\n')
						lineLen = 0
					} else {
						sb.WriteByte(' ')
						lineLen++
					}
				}
				sb.WriteString(s)
				lineLen += len(s)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ToImage converts the canvas to an 8-bit RGBA image
func (c *Canvas) ToImage() *image.RGBA {
	return c.SubImage(image.Rect(0, 0, c.Width, c.Height))
}

// SubImage converts the part of the canvas inside r to an RGBA image whose
// origin is the top left corner of r
func (c *Canvas) SubImage(r image.Rectangle) *image.RGBA {
	r = r.Intersect(image.Rect(0, 0, c.Width, c.Height))
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := c.PixelAt(x, y)
			img.SetRGBA(x-r.Min.X, y-r.Min.Y, color.RGBA{R: toByte(p.X), G: toByte(p.Y), B: toByte(p.Z), A: 255})
		}
	}
	return img
}

// SupportedFormat reports whether Encode can write the named format
func SupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case "ppm", "png", "bmp", "tif", "tiff":
		return true
	default:
		return false
	}
}

// Encode writes the canvas in the given format: ppm, png, bmp or tiff
func (c *Canvas) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "ppm":
		_, err := io.WriteString(w, c.ToPPM())
		return err
	case "png":
		return png.Encode(w, c.ToImage())
	case "bmp":
		return bmp.Encode(w, c.ToImage())
	case "tif", "tiff":
		return tiff.Encode(w, c.ToImage(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// WriteFile saves the canvas, choosing the format from the file extension
func (c *Canvas) WriteFile(path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !SupportedFormat(format) {
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if err := c.Encode(buf, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
