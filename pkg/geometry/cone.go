package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cone is a double-napped cone around the y axis of its object space whose radius
// equals |y|, truncated to Minimum < y < Maximum (exclusive) and optionally capped
type Cone struct {
	Minimum float64
	Maximum float64
	Closed  bool
}

// NewInfiniteCone returns an uncapped cone with no truncation
func NewInfiniteCone() Cone {
	return Cone{Minimum: math.Inf(-1), Maximum: math.Inf(1)}
}

// Kind returns KindCone
func (Cone) Kind() Kind { return KindCone }
func (Cone) sealed()    {}

func (c Cone) localIntersect(ray core.Ray, id ShapeID) Intersections {
	o, d := ray.Origin, ray.Direction

	a := d.X*d.X - d.Y*d.Y + d.Z*d.Z
	b := 2 * (o.X*d.X - o.Y*d.Y + o.Z*d.Z)
	cc := o.X*o.X - o.Y*o.Y + o.Z*o.Z

	var xs Intersections
	if math.Abs(a) < core.ParallelEpsilon {
		// Ray is parallel to one of the cone's halves: at most one lateral hit
		if math.Abs(b) >= core.ParallelEpsilon {
			t := -cc / (2 * b)
			if y := o.Y + t*d.Y; c.Minimum < y && y < c.Maximum {
				xs = append(xs, NewIntersection(t, id))
			}
		}
	} else {
		discriminant := b*b - 4*a*cc
		if discriminant < 0 {
			return nil
		}

		sqrtD := math.Sqrt(discriminant)
		t0 := (-b - sqrtD) / (2 * a)
		t1 := (-b + sqrtD) / (2 * a)
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		for _, t := range [2]float64{t0, t1} {
			y := o.Y + t*d.Y
			if c.Minimum < y && y < c.Maximum {
				xs = append(xs, NewIntersection(t, id))
			}
		}
	}

	xs = c.intersectCaps(ray, id, xs)
	sort.SliceStable(xs, func(i, j int) bool { return xs[i].T < xs[j].T })
	return xs
}

// intersectCaps tests the end caps, whose radius is the |y| of the cap plane
func (c Cone) intersectCaps(ray core.Ray, id ShapeID, xs Intersections) Intersections {
	if !c.Closed || math.Abs(ray.Direction.Y) < core.ParallelEpsilon {
		return xs
	}
	for _, y := range [2]float64{c.Minimum, c.Maximum} {
		t := (y - ray.Origin.Y) / ray.Direction.Y
		if checkCap(ray, t, math.Abs(y)) {
			xs = append(xs, NewIntersection(t, id))
		}
	}
	return xs
}

func (c Cone) localNormalAt(point core.Vec3) core.Vec3 {
	dist := point.X*point.X + point.Z*point.Z
	if dist < c.Maximum*c.Maximum && math.Abs(point.Y-c.Maximum) < core.Epsilon {
		return core.NewVec3(0, 1, 0)
	}
	if dist < c.Minimum*c.Minimum && math.Abs(point.Y-c.Minimum) < core.Epsilon {
		return core.NewVec3(0, -1, 0)
	}

	y := math.Sqrt(dist)
	if point.Y > 0 {
		y = -y
	}
	return core.NewVec3(point.X, y, point.Z)
}

func (c Cone) localBounds() (Bounds, bool) {
	r := math.Max(math.Abs(c.Minimum), math.Abs(c.Maximum))
	return NewBounds(core.NewVec3(-r, c.Minimum, -r), core.NewVec3(r, c.Maximum, r)), true
}
