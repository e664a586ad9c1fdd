package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Group is a composite node; its children are positioned by the group's transform
type Group struct {
	Children []ShapeID
}

// Kind returns KindGroup
func (Group) Kind() Kind { return KindGroup }
func (Group) sealed()    {}

// intersectGroup skips the children when the ray provably misses the group's bounds.
// Unbounded groups are always traversed.
func (g *Graph) intersectGroup(id ShapeID, grp Group, ray core.Ray, cull bool) Intersections {
	if cull {
		if b, ok := g.Bounds(id); ok && !b.IntersectedBy(ray) {
			return nil
		}
	}

	var xs Intersections
	for _, child := range grp.Children {
		xs = append(xs, g.intersect(child, ray, cull)...)
	}
	xs.Sort()
	return xs
}

// Divide splits every group in the subtree that has more than threshold bounded
// children into two sub-groups along the longest axis of its bounds. Unbounded
// children stay where they are. The set of intersections is unchanged; only
// traversal gets cheaper.
func (g *Graph) Divide(id ShapeID, threshold int) {
	switch p := g.nodes[id].primitive.(type) {
	case Group:
		g.partition(id, p, threshold)
		// Reload: partition may have replaced the children with two sub-groups
		for _, child := range g.nodes[id].primitive.(Group).Children {
			if isComposite(g.nodes[child].primitive) {
				g.Divide(child, threshold)
			}
		}
	case CSG:
		g.Divide(p.Left, threshold)
		g.Divide(p.Right, threshold)
	}
}

// partition moves a group's sortable children into two new sub-groups using a
// median split along the longest axis. It reports whether a split happened.
func (g *Graph) partition(id ShapeID, grp Group, threshold int) bool {
	type entry struct {
		id     ShapeID
		center core.Vec3
	}

	var sortable []entry
	var rest []ShapeID
	for _, child := range grp.Children {
		b, ok := g.ParentSpaceBounds(child)
		center := b.Center()
		if !ok || !isFinite(center) {
			rest = append(rest, child)
			continue
		}
		sortable = append(sortable, entry{child, center})
	}

	if len(sortable) < 2 || len(sortable) <= threshold {
		return false
	}

	var extent Bounds
	for i, e := range sortable {
		b, _ := g.ParentSpaceBounds(e.id)
		if i == 0 {
			extent = b
		} else {
			extent = extent.Union(b)
		}
	}
	axis := extent.LongestAxis()
	sort.SliceStable(sortable, func(i, j int) bool {
		return sortable[i].center.Axis(axis) < sortable[j].center.Axis(axis)
	})

	mid := len(sortable) / 2
	left := g.AddGroup(core.Identity())
	right := g.AddGroup(core.Identity())
	for i, e := range sortable {
		target := left
		if i >= mid {
			target = right
		}
		g.nodes[e.id].parent = NoShape
		// Cannot fail: target is a fresh group and e.id was just detached
		_ = g.AddChild(target, e.id)
	}

	grp.Children = append(rest, left, right)
	g.nodes[id].primitive = grp
	g.nodes[left].parent = id
	g.nodes[right].parent = id
	g.nodes[id].bounds, g.nodes[id].bounded = g.computeBounds(id)
	return true
}

func isFinite(v core.Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
