package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cube is the axis-aligned cube spanning [-1, 1] on every axis of its object space
type Cube struct{}

// Kind returns KindCube
func (Cube) Kind() Kind { return KindCube }
func (Cube) sealed()    {}

func (c Cube) localIntersect(ray core.Ray, id ShapeID) Intersections {
	box, _ := c.localBounds()
	tmin, tmax := box.CheckAxes(ray).MinMax()
	if tmin >= tmax {
		return nil
	}
	return Intersections{NewIntersection(tmin, id), NewIntersection(tmax, id)}
}

// localNormalAt picks the face whose axis has the largest magnitude
func (c Cube) localNormalAt(point core.Vec3) core.Vec3 {
	ax, ay, az := math.Abs(point.X), math.Abs(point.Y), math.Abs(point.Z)
	maxc := math.Max(ax, math.Max(ay, az))

	switch maxc {
	case ax:
		return core.NewVec3(point.X, 0, 0)
	case ay:
		return core.NewVec3(0, point.Y, 0)
	default:
		return core.NewVec3(0, 0, point.Z)
	}
}

func (c Cube) localBounds() (Bounds, bool) {
	return NewBounds(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)), true
}
