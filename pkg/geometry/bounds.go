package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Bounds represents an axis-aligned bounding box
type Bounds struct {
	Min core.Vec3 // Minimum corner
	Max core.Vec3 // Maximum corner
}

// NewBounds creates a new Bounds from min and max points
func NewBounds(min, max core.Vec3) Bounds {
	return Bounds{Min: min, Max: max}
}

// BoundsFromPoints creates the smallest box containing every point.
// Returns false for an empty set or when any coordinate is NaN.
func BoundsFromPoints(points ...core.Vec3) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	min := points[0]
	max := points[0]

	for _, point := range points {
		if math.IsNaN(point.X) || math.IsNaN(point.Y) || math.IsNaN(point.Z) {
			return Bounds{}, false
		}

		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return Bounds{Min: min, Max: max}, true
}

// AllPoints returns the 8 corners of the box
func (b Bounds) AllPoints() [8]core.Vec3 {
	return [8]core.Vec3{
		b.Min,
		core.NewVec3(b.Max.X, b.Min.Y, b.Min.Z),
		core.NewVec3(b.Min.X, b.Max.Y, b.Min.Z),
		core.NewVec3(b.Min.X, b.Min.Y, b.Max.Z),
		core.NewVec3(b.Max.X, b.Max.Y, b.Min.Z),
		core.NewVec3(b.Max.X, b.Min.Y, b.Max.Z),
		core.NewVec3(b.Min.X, b.Max.Y, b.Max.Z),
		b.Max,
	}
}

// Transform returns the box containing all 8 corners after transformation.
// Infinite extents can turn into NaN under rotation (0 * Inf); any axis that
// does is widened to (-Inf, Inf) so the result still contains the shape.
func (b Bounds) Transform(m core.Matrix) Bounds {
	corners := b.AllPoints()
	min := core.NewVec3(math.Inf(1), math.Inf(1), math.Inf(1))
	max := core.NewVec3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	var unbounded [3]bool

	for _, corner := range corners {
		p := m.MulPoint(corner)
		for axis, v := range [3]float64{p.X, p.Y, p.Z} {
			if math.IsNaN(v) {
				unbounded[axis] = true
				continue
			}
			setAxis(&min, axis, math.Min(min.Axis(axis), v))
			setAxis(&max, axis, math.Max(max.Axis(axis), v))
		}
	}

	for axis, u := range unbounded {
		if u {
			setAxis(&min, axis, math.Inf(-1))
			setAxis(&max, axis, math.Inf(1))
		}
	}
	return Bounds{Min: min, Max: max}
}

func setAxis(v *core.Vec3, axis int, value float64) {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}

// checkAxis returns the entry and exit t of a ray against one slab.
// Rays parallel to the slab are either always inside it or never.
func checkAxis(origin, direction, min, max float64) (float64, float64) {
	if math.Abs(direction) < core.ParallelEpsilon {
		if origin < min || origin > max {
			return math.Inf(1), math.Inf(-1)
		}
		return math.Inf(-1), math.Inf(1)
	}

	tmin := (min - origin) / direction
	tmax := (max - origin) / direction
	if tmin > tmax {
		tmin, tmax = tmax, tmin
	}
	return tmin, tmax
}

// CheckAxes runs the slab test on every axis. The result packs the per-axis
// entry values in Min and the per-axis exit values in Max.
func (b Bounds) CheckAxes(ray core.Ray) Bounds {
	var tmin, tmax core.Vec3
	tmin.X, tmax.X = checkAxis(ray.Origin.X, ray.Direction.X, b.Min.X, b.Max.X)
	tmin.Y, tmax.Y = checkAxis(ray.Origin.Y, ray.Direction.Y, b.Min.Y, b.Max.Y)
	tmin.Z, tmax.Z = checkAxis(ray.Origin.Z, ray.Direction.Z, b.Min.Z, b.Max.Z)
	return Bounds{Min: tmin, Max: tmax}
}

// MinMax returns the largest component of Min and the smallest of Max
func (b Bounds) MinMax() (float64, float64) {
	return math.Max(b.Min.X, math.Max(b.Min.Y, b.Min.Z)),
		math.Min(b.Max.X, math.Min(b.Max.Y, b.Max.Z))
}

// IntersectedBy reports whether the ray's line crosses the box grown by
// core.Epsilon on every side. Hits on a face or edge of a tight box still pass.
func (b Bounds) IntersectedBy(ray core.Ray) bool {
	tmin, tmax := b.Pad(core.Epsilon).CheckAxes(ray).MinMax()
	return tmin <= tmax
}

// Pad returns the box grown by margin along every axis
func (b Bounds) Pad(margin float64) Bounds {
	m := core.NewVec3(margin, margin, margin)
	return Bounds{Min: b.Min.Subtract(m), Max: b.Max.Add(m)}
}

// Union returns a box that bounds both this box and another
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		Min: core.Vec3{
			X: math.Min(b.Min.X, other.Min.X),
			Y: math.Min(b.Min.Y, other.Min.Y),
			Z: math.Min(b.Min.Z, other.Min.Z),
		},
		Max: core.Vec3{
			X: math.Max(b.Max.X, other.Max.X),
			Y: math.Max(b.Max.Y, other.Max.Y),
			Z: math.Max(b.Max.Z, other.Max.Z),
		},
	}
}

// Contains reports whether other lies entirely inside this box
func (b Bounds) Contains(other Bounds) bool {
	return other.Min.X >= b.Min.X && other.Max.X <= b.Max.X &&
		other.Min.Y >= b.Min.Y && other.Max.Y <= b.Max.Y &&
		other.Min.Z >= b.Min.Z && other.Max.Z <= b.Max.Z
}

// Center returns the center point of the box
func (b Bounds) Center() core.Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Size returns the extent of the box along each axis
func (b Bounds) Size() core.Vec3 {
	return b.Max.Subtract(b.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (b Bounds) LongestAxis() int {
	size := b.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}
