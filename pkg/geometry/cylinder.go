package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cylinder is a unit-radius cylinder around the y axis of its object space,
// truncated to Minimum < y < Maximum (exclusive) and optionally capped
type Cylinder struct {
	Minimum float64
	Maximum float64
	Closed  bool
}

// NewInfiniteCylinder returns an uncapped cylinder with no truncation
func NewInfiniteCylinder() Cylinder {
	return Cylinder{Minimum: math.Inf(-1), Maximum: math.Inf(1)}
}

// Kind returns KindCylinder
func (Cylinder) Kind() Kind { return KindCylinder }
func (Cylinder) sealed()    {}

func (c Cylinder) localIntersect(ray core.Ray, id ShapeID) Intersections {
	// Quadratic in x and z only: at² + bt + cc = 0
	a := ray.Direction.X*ray.Direction.X + ray.Direction.Z*ray.Direction.Z

	// Ray is parallel to the y axis and can only hit the caps
	if math.Abs(a) < core.ParallelEpsilon {
		return c.intersectCaps(ray, id, nil)
	}

	b := 2 * (ray.Origin.X*ray.Direction.X + ray.Origin.Z*ray.Direction.Z)
	cc := ray.Origin.X*ray.Origin.X + ray.Origin.Z*ray.Origin.Z - 1

	discriminant := b*b - 4*a*cc
	if discriminant < 0 {
		return nil
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := (-b - sqrtD) / (2 * a)
	t1 := (-b + sqrtD) / (2 * a)

	var xs Intersections
	for _, t := range [2]float64{t0, t1} {
		y := ray.Origin.Y + t*ray.Direction.Y
		if c.Minimum < y && y < c.Maximum {
			xs = append(xs, NewIntersection(t, id))
		}
	}

	xs = c.intersectCaps(ray, id, xs)
	sort.SliceStable(xs, func(i, j int) bool { return xs[i].T < xs[j].T })
	return xs
}

func (c Cylinder) intersectCaps(ray core.Ray, id ShapeID, xs Intersections) Intersections {
	if !c.Closed || math.Abs(ray.Direction.Y) < core.ParallelEpsilon {
		return xs
	}
	for _, y := range [2]float64{c.Minimum, c.Maximum} {
		t := (y - ray.Origin.Y) / ray.Direction.Y
		if checkCap(ray, t, 1) {
			xs = append(xs, NewIntersection(t, id))
		}
	}
	return xs
}

// checkCap reports whether the ray at t lies within radius of the y axis
func checkCap(ray core.Ray, t, radius float64) bool {
	x := ray.Origin.X + t*ray.Direction.X
	z := ray.Origin.Z + t*ray.Direction.Z
	return x*x+z*z <= radius*radius
}

func (c Cylinder) localNormalAt(point core.Vec3) core.Vec3 {
	dist := point.X*point.X + point.Z*point.Z
	if dist < 1 && math.Abs(point.Y-c.Maximum) < core.Epsilon {
		return core.NewVec3(0, 1, 0)
	}
	if dist < 1 && math.Abs(point.Y-c.Minimum) < core.Epsilon {
		return core.NewVec3(0, -1, 0)
	}
	return core.NewVec3(point.X, 0, point.Z)
}

func (c Cylinder) localBounds() (Bounds, bool) {
	return NewBounds(core.NewVec3(-1, c.Minimum, -1), core.NewVec3(1, c.Maximum, 1)), true
}
