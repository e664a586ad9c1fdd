package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// DefaultMaxDepth is the default number of reflection/refraction bounces per camera ray
const DefaultMaxDepth = 5

// World is the scene seen by the shading pipeline: one light and the top-level shapes of a graph.
// It is read-only while rendering, so ColorAt may be called from many goroutines.
type World struct {
	Light   lights.PointLight
	Graph   *geometry.Graph
	Objects []geometry.ShapeID // Top-level shapes, intersected in order
}

// NewWorld creates a world over an existing graph
func NewWorld(light lights.PointLight, graph *geometry.Graph, objects ...geometry.ShapeID) *World {
	return &World{Light: light, Graph: graph, Objects: objects}
}

// DefaultWorld returns the two concentric spheres lit from the upper left
// that the shading tests are written against
func DefaultWorld() *World {
	g := geometry.NewGraph()

	outer := material.NewColorMaterial(core.NewVec3(0.8, 1.0, 0.6))
	outer.Diffuse = 0.7
	outer.Specular = 0.2

	s1 := g.AddSphere(core.Identity(), outer)
	s2 := g.AddSphere(core.Scaling(0.5, 0.5, 0.5), material.DefaultMaterial())

	light := lights.NewPointLight(core.NewVec3(-10, 10, -10), core.White)
	return NewWorld(light, g, s1, s2)
}

// AddObject appends a root shape of the graph to the world
func (w *World) AddObject(id geometry.ShapeID) {
	w.Objects = append(w.Objects, id)
}

// Intersect returns every intersection of the ray with the world, sorted by t
func (w *World) Intersect(ray core.Ray) geometry.Intersections {
	var xs geometry.Intersections
	for _, id := range w.Objects {
		xs = append(xs, w.Graph.Intersect(id, ray)...)
	}
	xs.Sort()
	return xs
}

// ColorAt returns the color seen along ray. remaining is the number of
// reflection/refraction bounces still allowed; misses are black.
func (w *World) ColorAt(ray core.Ray, remaining int) core.Vec3 {
	xs := w.Intersect(ray)
	hit, ok := xs.Hit()
	if !ok {
		return core.Black
	}
	return w.ShadeHit(w.precompute(hit, ray, xs), remaining)
}

// precompute panics on failure: every hit comes from xs and every leaf has a surface
func (w *World) precompute(hit geometry.Intersection, ray core.Ray, xs geometry.Intersections) geometry.Computation {
	comps, err := w.Graph.Precompute(hit, ray, xs)
	if err != nil {
		panic(fmt.Sprintf("renderer: %v", err))
	}
	return comps
}

// ShadeHit combines direct lighting with the reflected and refracted contributions
func (w *World) ShadeHit(comps geometry.Computation, remaining int) core.Vec3 {
	mat, _ := w.Graph.Material(comps.Shape)

	objectPoint, ok := w.Graph.WorldToObject(comps.Shape, comps.OverPoint)
	if !ok {
		objectPoint = comps.OverPoint
	}

	shadowed := w.IsShadowed(comps.OverPoint)
	surface := mat.Lighting(w.Light, objectPoint, comps.OverPoint, comps.Eye, comps.Normal, shadowed)

	reflected := w.ReflectedColor(comps, remaining)
	refracted := w.RefractedColor(comps, remaining)

	if mat.Reflective > 0 && mat.Transparency > 0 {
		reflectance := comps.Schlick()
		return surface.
			Add(reflected.Multiply(reflectance)).
			Add(refracted.Multiply(1 - reflectance))
	}
	return surface.Add(reflected).Add(refracted)
}

// ReflectedColor traces the mirror ray from the over point
func (w *World) ReflectedColor(comps geometry.Computation, remaining int) core.Vec3 {
	mat, _ := w.Graph.Material(comps.Shape)
	if remaining <= 0 || mat.Reflective == 0 {
		return core.Black
	}

	reflectRay := core.NewRay(comps.OverPoint, comps.Reflect)
	return w.ColorAt(reflectRay, remaining-1).Multiply(mat.Reflective)
}

// RefractedColor traces the transmitted ray from the under point using Snell's law
func (w *World) RefractedColor(comps geometry.Computation, remaining int) core.Vec3 {
	mat, _ := w.Graph.Material(comps.Shape)
	if remaining <= 0 || mat.Transparency == 0 {
		return core.Black
	}

	sin2T := comps.Sin2T()
	if sin2T > 1 {
		return core.Black // total internal reflection
	}

	nRatio := comps.NRatio()
	cosT := math.Sqrt(1 - sin2T)
	direction := comps.Normal.Multiply(nRatio*comps.CosI() - cosT).
		Subtract(comps.Eye.Multiply(nRatio))

	refractRay := core.NewRay(comps.UnderPoint, direction)
	return w.ColorAt(refractRay, remaining-1).Multiply(mat.Transparency)
}

// IsShadowed reports whether anything lies between point and the light
func (w *World) IsShadowed(point core.Vec3) bool {
	sample := w.Light.Sample(point)
	if sample.Distance == 0 {
		return false
	}

	hit, ok := w.Intersect(core.NewRay(point, sample.Direction)).Hit()
	return ok && hit.T < sample.Distance
}
