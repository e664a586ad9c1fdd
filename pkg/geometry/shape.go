package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ShapeID indexes a node in a Graph
type ShapeID int

// NoShape marks an absent node, e.g. the parent of a root
const NoShape ShapeID = -1

// node is one entry of the arena. Parent is a plain index, so the upward
// walk used by WorldToObject/NormalToWorld holds no ownership.
type node struct {
	primitive Primitive
	material  material.Material
	parent    ShapeID

	transform  core.Matrix
	inverse    core.Matrix
	normalXf   core.Matrix // inverse transpose
	invertible bool

	// bounds in the node's own object space, kept in sync on every mutation
	bounds  Bounds
	bounded bool
}

// Graph owns every shape of a scene. Children refer to each other by ShapeID.
// Build the graph first; once rendering starts it is only read, and concurrent
// readers need no locking.
type Graph struct {
	nodes []node
}

// NewGraph creates an empty scene graph
func NewGraph() *Graph {
	return &Graph{}
}

// Len returns the number of nodes in the graph
func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) valid(id ShapeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

func (g *Graph) add(p Primitive, transform core.Matrix, mat material.Material) ShapeID {
	id := ShapeID(len(g.nodes))
	g.nodes = append(g.nodes, node{primitive: p, material: mat, parent: NoShape})
	g.setTransform(id, transform)
	g.nodes[id].bounds, g.nodes[id].bounded = g.computeBounds(id)
	return id
}

// AddSphere adds a unit sphere centered at the origin of its object space
func (g *Graph) AddSphere(transform core.Matrix, mat material.Material) ShapeID {
	return g.add(Sphere{}, transform, mat)
}

// AddPlane adds the xz plane of its object space
func (g *Graph) AddPlane(transform core.Matrix, mat material.Material) ShapeID {
	return g.add(Plane{}, transform, mat)
}

// AddCube adds an axis-aligned cube spanning [-1, 1] on every axis
func (g *Graph) AddCube(transform core.Matrix, mat material.Material) ShapeID {
	return g.add(Cube{}, transform, mat)
}

// AddCylinder adds a unit-radius cylinder around the y axis, truncated to (minimum, maximum)
func (g *Graph) AddCylinder(transform core.Matrix, mat material.Material, minimum, maximum float64, closed bool) ShapeID {
	return g.add(Cylinder{Minimum: minimum, Maximum: maximum, Closed: closed}, transform, mat)
}

// AddCone adds a double-napped cone around the y axis, truncated to (minimum, maximum)
func (g *Graph) AddCone(transform core.Matrix, mat material.Material, minimum, maximum float64, closed bool) ShapeID {
	return g.add(Cone{Minimum: minimum, Maximum: maximum, Closed: closed}, transform, mat)
}

// AddTriangle adds a flat triangle with the given vertices
func (g *Graph) AddTriangle(p1, p2, p3 core.Vec3, mat material.Material) ShapeID {
	return g.add(NewTriangle(p1, p2, p3), core.Identity(), mat)
}

// AddSmoothTriangle adds a triangle whose normal is interpolated from per-vertex normals
func (g *Graph) AddSmoothTriangle(p1, p2, p3, n1, n2, n3 core.Vec3, mat material.Material) ShapeID {
	return g.add(NewSmoothTriangle(p1, p2, p3, n1, n2, n3), core.Identity(), mat)
}

// AddGroup adds an empty group
func (g *Graph) AddGroup(transform core.Matrix) ShapeID {
	return g.add(Group{}, transform, material.Material{})
}

// AddCSG combines two existing root nodes with a boolean operation
func (g *Graph) AddCSG(op Operation, left, right ShapeID) (ShapeID, error) {
	for _, operand := range []ShapeID{left, right} {
		if !g.valid(operand) {
			return NoShape, fmt.Errorf("csg operand %d: %w", operand, ErrUnknownShape)
		}
		if g.nodes[operand].parent != NoShape {
			return NoShape, fmt.Errorf("csg operand %d: %w", operand, ErrAlreadyParented)
		}
	}
	if left == right {
		return NoShape, fmt.Errorf("csg operands must differ: %w", ErrAlreadyParented)
	}

	id := ShapeID(len(g.nodes))
	g.nodes = append(g.nodes, node{primitive: CSG{Op: op, Left: left, Right: right}, parent: NoShape})
	g.setTransform(id, core.Identity())
	g.nodes[left].parent = id
	g.nodes[right].parent = id
	g.nodes[id].bounds, g.nodes[id].bounded = g.computeBounds(id)
	return id, nil
}

// AddChild attaches child to a group. A node may have at most one parent.
func (g *Graph) AddChild(group, child ShapeID) error {
	if !g.valid(group) {
		return fmt.Errorf("group %d: %w", group, ErrUnknownShape)
	}
	if !g.valid(child) {
		return fmt.Errorf("child %d: %w", child, ErrUnknownShape)
	}
	grp, ok := g.nodes[group].primitive.(Group)
	if !ok {
		return fmt.Errorf("add child to %s %d: %w", g.nodes[group].primitive.Kind(), group, ErrNotComposite)
	}
	if g.nodes[child].parent != NoShape {
		return fmt.Errorf("child %d: %w", child, ErrAlreadyParented)
	}
	for a := group; a != NoShape; a = g.nodes[a].parent {
		if a == child {
			return fmt.Errorf("child %d of group %d: %w", child, group, ErrCycle)
		}
	}

	grp.Children = append(grp.Children, child)
	g.nodes[group].primitive = grp
	g.nodes[child].parent = group
	g.growAncestors(child)
	return nil
}

// SetTransform replaces a node's transform. Meant for scene construction only.
func (g *Graph) SetTransform(id ShapeID, transform core.Matrix) error {
	if !g.valid(id) {
		return fmt.Errorf("shape %d: %w", id, ErrUnknownShape)
	}
	g.setTransform(id, transform)
	g.refreshAncestors(id)
	return nil
}

// SetMaterial replaces a leaf's material. Meant for scene construction only.
func (g *Graph) SetMaterial(id ShapeID, mat material.Material) error {
	if !g.valid(id) {
		return fmt.Errorf("shape %d: %w", id, ErrUnknownShape)
	}
	if isComposite(g.nodes[id].primitive) {
		return fmt.Errorf("set material on %s %d: %w", g.nodes[id].primitive.Kind(), id, ErrNoSurface)
	}
	g.nodes[id].material = mat
	return nil
}

func (g *Graph) setTransform(id ShapeID, transform core.Matrix) {
	n := &g.nodes[id]
	n.transform = transform
	n.inverse, n.invertible = transform.Inverse()
	if n.invertible {
		n.normalXf = n.inverse.Transpose()
	}
}

// Transform returns the node's own transform (not chained through its parents)
func (g *Graph) Transform(id ShapeID) core.Matrix {
	return g.nodes[id].transform
}

// Material returns the node's material; composite nodes have none
func (g *Graph) Material(id ShapeID) (material.Material, bool) {
	n := &g.nodes[id]
	if isComposite(n.primitive) {
		return material.Material{}, false
	}
	return n.material, true
}

// Parent returns the node's parent, or false for a root
func (g *Graph) Parent(id ShapeID) (ShapeID, bool) {
	p := g.nodes[id].parent
	return p, p != NoShape
}

// Children returns a group's children in insertion order, or a CSG's left and right operands
func (g *Graph) Children(id ShapeID) []ShapeID {
	switch p := g.nodes[id].primitive.(type) {
	case Group:
		return append([]ShapeID(nil), p.Children...)
	case CSG:
		return []ShapeID{p.Left, p.Right}
	default:
		return nil
	}
}

// Kind returns the node's variant
func (g *Graph) Kind(id ShapeID) Kind {
	return g.nodes[id].primitive.Kind()
}

// Primitive returns the node's variant with its parameters
func (g *Graph) Primitive(id ShapeID) Primitive {
	return g.nodes[id].primitive
}

// Bounds returns the node's bounding box in its own object space.
// Absent only for composites with nothing inside them, such as empty groups.
func (g *Graph) Bounds(id ShapeID) (Bounds, bool) {
	n := &g.nodes[id]
	return n.bounds, n.bounded
}

// ParentSpaceBounds returns the node's bounds transformed into its parent's space
func (g *Graph) ParentSpaceBounds(id ShapeID) (Bounds, bool) {
	n := &g.nodes[id]
	if !n.bounded {
		return Bounds{}, false
	}
	return n.bounds.Transform(n.transform), true
}

// computeBounds derives a node's bounds from its primitive or from its children's cached bounds
func (g *Graph) computeBounds(id ShapeID) (Bounds, bool) {
	switch p := g.nodes[id].primitive.(type) {
	case Sphere:
		return p.localBounds()
	case Plane:
		return p.localBounds()
	case Cube:
		return p.localBounds()
	case Cylinder:
		return p.localBounds()
	case Cone:
		return p.localBounds()
	case Triangle:
		return p.localBounds()
	case SmoothTriangle:
		return p.localBounds()
	case Group:
		return g.unionBounds(p.Children)
	case CSG:
		return g.unionBounds([]ShapeID{p.Left, p.Right})
	default:
		return Bounds{}, false
	}
}

func (g *Graph) unionBounds(children []ShapeID) (Bounds, bool) {
	var result Bounds
	found := false
	for _, child := range children {
		b, ok := g.ParentSpaceBounds(child)
		if !ok {
			continue
		}
		if found {
			result = result.Union(b)
		} else {
			result, found = b, true
		}
	}
	return result, found
}

// growAncestors merges a newly attached child's bounds into every ancestor.
// Bounds only grow when a child is added, so a union is exact.
func (g *Graph) growAncestors(child ShapeID) {
	for c, p := child, g.nodes[child].parent; p != NoShape; c, p = p, g.nodes[p].parent {
		b, ok := g.ParentSpaceBounds(c)
		if !ok {
			return
		}
		pn := &g.nodes[p]
		if pn.bounded {
			pn.bounds = pn.bounds.Union(b)
		} else {
			pn.bounds, pn.bounded = b, true
		}
	}
}

// refreshAncestors recomputes the bounds of every ancestor of id from scratch
func (g *Graph) refreshAncestors(id ShapeID) {
	for p := g.nodes[id].parent; p != NoShape; p = g.nodes[p].parent {
		g.nodes[p].bounds, g.nodes[p].bounded = g.computeBounds(p)
	}
}

func isComposite(p Primitive) bool {
	switch p.(type) {
	case Group, CSG:
		return true
	default:
		return false
	}
}

// Intersect returns every intersection of a world-space ray with the node's subtree, sorted by t.
// A node whose transform cannot be inverted is never hit.
func (g *Graph) Intersect(id ShapeID, ray core.Ray) Intersections {
	return g.intersect(id, ray, true)
}

// BruteIntersect is Intersect without bounding-box culling
func (g *Graph) BruteIntersect(id ShapeID, ray core.Ray) Intersections {
	return g.intersect(id, ray, false)
}

func (g *Graph) intersect(id ShapeID, ray core.Ray, cull bool) Intersections {
	n := &g.nodes[id]
	if !n.invertible {
		return nil
	}
	local := ray.Transform(n.inverse)

	switch p := n.primitive.(type) {
	case Sphere:
		return p.localIntersect(local, id)
	case Plane:
		return p.localIntersect(local, id)
	case Cube:
		return p.localIntersect(local, id)
	case Cylinder:
		return p.localIntersect(local, id)
	case Cone:
		return p.localIntersect(local, id)
	case Triangle:
		return p.localIntersect(local, id)
	case SmoothTriangle:
		return p.localIntersect(local, id)
	case Group:
		return g.intersectGroup(id, p, local, cull)
	case CSG:
		return g.intersectCSG(id, p, local, cull)
	default:
		return nil
	}
}

// NormalAt returns the world-space surface normal of a leaf at a world-space point.
// u and v are only used by smooth triangles.
func (g *Graph) NormalAt(id ShapeID, worldPoint core.Vec3, u, v float64) (core.Vec3, bool) {
	localPoint, ok := g.WorldToObject(id, worldPoint)
	if !ok {
		return core.Vec3{}, false
	}

	var localNormal core.Vec3
	switch p := g.nodes[id].primitive.(type) {
	case Sphere:
		localNormal = p.localNormalAt(localPoint)
	case Plane:
		localNormal = p.localNormalAt(localPoint)
	case Cube:
		localNormal = p.localNormalAt(localPoint)
	case Cylinder:
		localNormal = p.localNormalAt(localPoint)
	case Cone:
		localNormal = p.localNormalAt(localPoint)
	case Triangle:
		localNormal = p.localNormalAt(localPoint)
	case SmoothTriangle:
		localNormal = p.localNormalAt(localPoint, u, v)
	default:
		return core.Vec3{}, false
	}

	return g.NormalToWorld(id, localNormal)
}

// WorldToObject converts a world-space point into the node's object space,
// applying every ancestor's inverse transform from the root down.
func (g *Graph) WorldToObject(id ShapeID, point core.Vec3) (core.Vec3, bool) {
	n := &g.nodes[id]
	if n.parent != NoShape {
		var ok bool
		if point, ok = g.WorldToObject(n.parent, point); !ok {
			return core.Vec3{}, false
		}
	}
	if !n.invertible {
		return core.Vec3{}, false
	}
	return n.inverse.MulPoint(point), true
}

// NormalToWorld converts an object-space normal into world space, applying the
// inverse transpose of each transform from the node up to the root and renormalizing at every level.
func (g *Graph) NormalToWorld(id ShapeID, normal core.Vec3) (core.Vec3, bool) {
	n := &g.nodes[id]
	if !n.invertible {
		return core.Vec3{}, false
	}
	normal = n.normalXf.MulVector(normal).Normalize()
	if n.parent != NoShape {
		return g.NormalToWorld(n.parent, normal)
	}
	return normal, true
}
