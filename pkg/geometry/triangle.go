package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Triangle represents a flat triangle defined by three vertices in object space
type Triangle struct {
	P1, P2, P3 core.Vec3 // The three vertices
	E1, E2     core.Vec3 // Cached edges P2-P1 and P3-P1
	Normal     core.Vec3 // Cached unit normal
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(p1, p2, p3 core.Vec3) Triangle {
	e1 := p2.Subtract(p1)
	e2 := p3.Subtract(p1)
	return Triangle{
		P1: p1, P2: p2, P3: p3,
		E1: e1, E2: e2,
		Normal: e2.Cross(e1).Normalize(),
	}
}

// Kind returns KindTriangle
func (Triangle) Kind() Kind { return KindTriangle }
func (Triangle) sealed()    {}

// localIntersect uses the Möller-Trumbore algorithm and records the barycentric (u, v) of the hit
func (tr Triangle) localIntersect(ray core.Ray, id ShapeID) Intersections {
	t, u, v, ok := tr.mollerTrumbore(ray)
	if !ok {
		return nil
	}
	return Intersections{NewIntersectionUV(t, id, u, v)}
}

func (tr Triangle) mollerTrumbore(ray core.Ray) (t, u, v float64, ok bool) {
	dirCrossE2 := ray.Direction.Cross(tr.E2)
	det := tr.E1.Dot(dirCrossE2)

	// Ray lies in the plane of the triangle, or the triangle is degenerate
	if math.Abs(det) < core.ParallelEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / det
	p1ToOrigin := ray.Origin.Subtract(tr.P1)
	u = f * p1ToOrigin.Dot(dirCrossE2)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	originCrossE1 := p1ToOrigin.Cross(tr.E1)
	v = f * ray.Direction.Dot(originCrossE1)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = f * tr.E2.Dot(originCrossE1)
	return t, u, v, true
}

func (tr Triangle) localNormalAt(point core.Vec3) core.Vec3 {
	return tr.Normal
}

func (tr Triangle) localBounds() (Bounds, bool) {
	return BoundsFromPoints(tr.P1, tr.P2, tr.P3)
}

// SmoothTriangle is a triangle whose normal is interpolated from per-vertex normals
type SmoothTriangle struct {
	Triangle
	N1, N2, N3 core.Vec3 // Vertex normals matching P1, P2, P3
}

// NewSmoothTriangle creates a new smooth triangle
func NewSmoothTriangle(p1, p2, p3, n1, n2, n3 core.Vec3) SmoothTriangle {
	return SmoothTriangle{Triangle: NewTriangle(p1, p2, p3), N1: n1, N2: n2, N3: n3}
}

// Kind returns KindSmoothTriangle
func (SmoothTriangle) Kind() Kind { return KindSmoothTriangle }
func (SmoothTriangle) sealed()    {}

// localIntersect shares the flat triangle's geometry; (u, v) is kept for normal interpolation
func (st SmoothTriangle) localIntersect(ray core.Ray, id ShapeID) Intersections {
	return st.Triangle.localIntersect(ray, id)
}

// localNormalAt blends the vertex normals by barycentric weight. The result is
// renormalized on the way back to world space.
func (st SmoothTriangle) localNormalAt(point core.Vec3, u, v float64) core.Vec3 {
	return st.N2.Multiply(u).
		Add(st.N3.Multiply(v)).
		Add(st.N1.Multiply(1 - u - v))
}
