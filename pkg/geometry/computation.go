package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Computation holds the shading inputs derived from one intersection
type Computation struct {
	T     float64
	Shape ShapeID

	Point      core.Vec3 // Hit point in world space
	Eye        core.Vec3 // Unit vector toward the viewer
	Normal     core.Vec3 // Surface normal, flipped to face the eye
	Inside     bool      // The normal was flipped because the ray started inside the shape
	Reflect    core.Vec3 // Ray direction mirrored about the normal
	OverPoint  core.Vec3 // Point lifted off the surface, origin for shadow and reflection rays
	UnderPoint core.Vec3 // Point pushed below the surface, origin for refraction rays

	N1 float64 // Refractive index of the medium being exited
	N2 float64 // Refractive index of the medium being entered
}

// Precompute derives the shading inputs for hit. xs must be the full t-sorted
// list of intersections along ray, and hit must be one of its members: the
// refractive indices come from walking xs and tracking which shapes contain the ray.
//
// When hit is missing from xs, N1 and N2 fall back to vacuum and ErrNotInList
// is returned alongside the otherwise complete computation.
func (g *Graph) Precompute(hit Intersection, ray core.Ray, xs Intersections) (Computation, error) {
	comps := Computation{
		T:     hit.T,
		Shape: hit.Shape,
		Point: ray.Position(hit.T),
		Eye:   ray.Direction.Negate(),
	}

	normal, ok := g.NormalAt(hit.Shape, comps.Point, hit.U, hit.V)
	if !ok {
		return comps, fmt.Errorf("normal of %s %d: %w", g.Kind(hit.Shape), hit.Shape, ErrNoSurface)
	}
	if normal.Dot(comps.Eye) < 0 {
		comps.Inside = true
		normal = normal.Negate()
	}
	comps.Normal = normal

	comps.Reflect = ray.Direction.Reflect(normal)
	comps.OverPoint = comps.Point.Add(normal.Multiply(core.Epsilon))
	comps.UnderPoint = comps.Point.Subtract(normal.Multiply(core.Epsilon))

	var found bool
	comps.N1, comps.N2, found = g.refractiveIndices(hit, xs)
	if !found {
		return comps, fmt.Errorf("precompute t=%g on shape %d: %w", hit.T, hit.Shape, ErrNotInList)
	}
	return comps, nil
}

// refractiveIndices walks xs keeping the stack of shapes the ray is currently inside
func (g *Graph) refractiveIndices(hit Intersection, xs Intersections) (n1, n2 float64, found bool) {
	n1, n2 = material.IndexVacuum, material.IndexVacuum
	var containers []ShapeID

	for _, x := range xs {
		isHit := x == hit
		if isHit {
			n1 = g.topIndex(containers)
		}

		if i := indexOf(containers, x.Shape); i >= 0 {
			containers = append(containers[:i], containers[i+1:]...)
		} else {
			containers = append(containers, x.Shape)
		}

		if isHit {
			n2 = g.topIndex(containers)
			return n1, n2, true
		}
	}
	return n1, n2, false
}

func (g *Graph) topIndex(containers []ShapeID) float64 {
	if len(containers) == 0 {
		return material.IndexVacuum
	}
	mat, ok := g.Material(containers[len(containers)-1])
	if !ok {
		return material.IndexVacuum
	}
	return mat.RefractiveIndex
}

func indexOf(ids []ShapeID, id ShapeID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// NRatio is n1/n2
func (c Computation) NRatio() float64 {
	return c.N1 / c.N2
}

// CosI is the cosine of the angle between the eye and the normal
func (c Computation) CosI() float64 {
	return c.Eye.Dot(c.Normal)
}

// Sin2T is the squared sine of the refracted angle (Snell's law). Above 1 means total internal reflection.
func (c Computation) Sin2T() float64 {
	ratio := c.NRatio()
	cosI := c.CosI()
	return ratio * ratio * (1 - cosI*cosI)
}

// CosT is the cosine of the refracted angle, only meaningful when Sin2T <= 1
func (c Computation) CosT() float64 {
	return math.Sqrt(1 - c.Sin2T())
}

// Schlick approximates the Fresnel reflectance at the hit
func (c Computation) Schlick() float64 {
	if c.N1 > c.N2 && c.Sin2T() > 1 {
		return 1.0
	}

	cos := c.CosI()
	if c.N1 > c.N2 {
		cos = c.CosT()
	}

	r0 := (c.N1 - c.N2) / (c.N1 + c.N2)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cos, 5)
}
