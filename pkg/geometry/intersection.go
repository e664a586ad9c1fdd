package geometry

import (
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Intersection records where along a ray a shape was hit
type Intersection struct {
	T     float64 // Parameter t along the ray
	Shape ShapeID // Leaf that was hit
	U, V  float64 // Barycentric coordinates, triangles only
	HasUV bool
}

// NewIntersection creates an intersection without barycentric coordinates
func NewIntersection(t float64, shape ShapeID) Intersection {
	return Intersection{T: t, Shape: shape}
}

// NewIntersectionUV creates an intersection carrying barycentric coordinates
func NewIntersectionUV(t float64, shape ShapeID, u, v float64) Intersection {
	return Intersection{T: t, Shape: shape, U: u, V: v, HasUV: true}
}

// Intersections is a list of intersections for a single ray
type Intersections []Intersection

// Sort orders the list by ascending t, keeping the order of equal values
func (xs Intersections) Sort() {
	sort.SliceStable(xs, func(i, j int) bool { return xs[i].T < xs[j].T })
}

// Hit returns the visible intersection: the smallest t strictly above core.Epsilon.
// The list does not need to be sorted.
func (xs Intersections) Hit() (Intersection, bool) {
	var best Intersection
	found := false
	for _, x := range xs {
		if x.T <= core.Epsilon {
			continue
		}
		if !found || x.T < best.T {
			best, found = x, true
		}
	}
	return best, found
}
