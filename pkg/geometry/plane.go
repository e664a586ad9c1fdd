package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Plane is the infinite xz plane (y = 0) of its object space
type Plane struct{}

// Kind returns KindPlane
func (Plane) Kind() Kind { return KindPlane }
func (Plane) sealed()    {}

func (p Plane) localIntersect(ray core.Ray, id ShapeID) Intersections {
	// Parallel rays (including rays inside the plane) never hit it
	if math.Abs(ray.Direction.Y) < core.ParallelEpsilon {
		return nil
	}
	t := -ray.Origin.Y / ray.Direction.Y
	return Intersections{NewIntersection(t, id)}
}

func (p Plane) localNormalAt(point core.Vec3) core.Vec3 {
	return core.NewVec3(0, 1, 0)
}

// localBounds is infinite in x and z
func (p Plane) localBounds() (Bounds, bool) {
	return NewBounds(
		core.NewVec3(math.Inf(-1), 0, math.Inf(-1)),
		core.NewVec3(math.Inf(1), 0, math.Inf(1)),
	), true
}
