package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera maps pixels of an HSize x VSize canvas onto rays. The canvas sits one
// unit in front of the eye; Transform orients the world relative to the camera.
type Camera struct {
	HSize       int
	VSize       int
	FieldOfView float64 // Horizontal or vertical field of view in radians, whichever side is longer

	transform  core.Matrix
	inverse    core.Matrix
	halfWidth  float64
	halfHeight float64
	pixelSize  float64
}

// NewCamera creates a camera at the origin looking down -z
func NewCamera(hsize, vsize int, fieldOfView float64) *Camera {
	halfView := math.Tan(fieldOfView / 2)
	aspect := float64(hsize) / float64(vsize)

	c := &Camera{HSize: hsize, VSize: vsize, FieldOfView: fieldOfView}
	if aspect >= 1 {
		c.halfWidth = halfView
		c.halfHeight = halfView / aspect
	} else {
		c.halfWidth = halfView * aspect
		c.halfHeight = halfView
	}
	c.pixelSize = c.halfWidth * 2 / float64(hsize)
	c.transform = core.Identity()
	c.inverse = core.Identity()
	return c
}

// SetTransform sets the view transform. Singular matrices are ignored.
func (c *Camera) SetTransform(m core.Matrix) bool {
	inverse, ok := m.Inverse()
	if !ok {
		return false
	}
	c.transform, c.inverse = m, inverse
	return true
}

// Transform returns the view transform
func (c *Camera) Transform() core.Matrix {
	return c.transform
}

// PixelSize returns the size of one pixel on the canvas plane
func (c *Camera) PixelSize() float64 {
	return c.pixelSize
}

// RayForPixel returns the world-space ray through the center of pixel (px, py)
func (c *Camera) RayForPixel(px, py int) core.Ray {
	xOffset := (float64(px) + 0.5) * c.pixelSize
	yOffset := (float64(py) + 0.5) * c.pixelSize

	// The camera looks toward -z, so +x is to the left
	worldX := c.halfWidth - xOffset
	worldY := c.halfHeight - yOffset

	pixel := c.inverse.MulPoint(core.NewVec3(worldX, worldY, -1))
	origin := c.inverse.MulPoint(core.Origin)
	return core.NewRay(origin, pixel.Subtract(origin).Normalize())
}
