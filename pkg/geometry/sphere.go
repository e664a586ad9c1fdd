package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere is a unit sphere centered at the origin of its object space
type Sphere struct{}

// Kind returns KindSphere
func (Sphere) Kind() Kind { return KindSphere }
func (Sphere) sealed()    {}

func (s Sphere) localIntersect(ray core.Ray, id ShapeID) Intersections {
	// Vector from sphere center to ray origin
	oc := ray.Origin

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - 1

	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return nil
	}

	// Tangent rays produce a single root
	if discriminant == 0 {
		return Intersections{NewIntersection(-b/(2*a), id)}
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := (-b - sqrtD) / (2 * a)
	t1 := (-b + sqrtD) / (2 * a)
	return Intersections{NewIntersection(t0, id), NewIntersection(t1, id)}
}

func (s Sphere) localNormalAt(point core.Vec3) core.Vec3 {
	return point
}

func (s Sphere) localBounds() (Bounds, bool) {
	return NewBounds(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)), true
}
