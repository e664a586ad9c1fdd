package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Operation is the boolean operation applied by a CSG node
type Operation int

const (
	Union Operation = iota
	Intersect
	Difference
)

var operationNames = [...]string{Union: "union", Intersect: "intersect", Difference: "difference"}

func (op Operation) String() string {
	if op >= 0 && int(op) < len(operationNames) {
		return operationNames[op]
	}
	return fmt.Sprintf("operation(%d)", int(op))
}

// ParseOperation maps a scene-file name to its operation
func ParseOperation(name string) (Operation, bool) {
	for op, n := range operationNames {
		if n == name {
			return Operation(op), true
		}
	}
	return 0, false
}

// CSG combines two subtrees with a boolean operation
type CSG struct {
	Op    Operation
	Left  ShapeID
	Right ShapeID
}

// Kind returns KindCSG
func (CSG) Kind() Kind { return KindCSG }
func (CSG) sealed()    {}

// IntersectionAllowed decides whether a hit survives the operation.
// lhit is true when the hit belongs to the left operand; inl and inr tell
// whether the ray is currently inside the left and right operands.
func IntersectionAllowed(op Operation, lhit, inl, inr bool) bool {
	switch op {
	case Union:
		return (lhit && !inr) || (!lhit && !inl)
	case Intersect:
		return (lhit && inr) || (!lhit && inl)
	case Difference:
		return (lhit && !inr) || (!lhit && inl)
	default:
		return false
	}
}

// Includes reports whether target is id itself or reachable in id's subtree
func (g *Graph) Includes(id, target ShapeID) bool {
	if id == target {
		return true
	}
	switch p := g.nodes[id].primitive.(type) {
	case Group:
		for _, child := range p.Children {
			if g.Includes(child, target) {
				return true
			}
		}
		return false
	case CSG:
		return g.Includes(p.Left, target) || g.Includes(p.Right, target)
	default:
		return false
	}
}

// FilterIntersections sweeps a t-sorted list once and keeps the hits allowed by
// the CSG node's operation, in their original order.
func (g *Graph) FilterIntersections(id ShapeID, xs Intersections) Intersections {
	c, ok := g.nodes[id].primitive.(CSG)
	if !ok {
		return xs
	}

	inl, inr := false, false
	var result Intersections
	for _, x := range xs {
		lhit := g.Includes(c.Left, x.Shape)
		if IntersectionAllowed(c.Op, lhit, inl, inr) {
			result = append(result, x)
		}
		if lhit {
			inl = !inl
		} else {
			inr = !inr
		}
	}
	return result
}

func (g *Graph) intersectCSG(id ShapeID, c CSG, ray core.Ray, cull bool) Intersections {
	xs := append(g.intersect(c.Left, ray, cull), g.intersect(c.Right, ray, cull)...)
	xs.Sort()
	return g.FilterIntersections(id, xs)
}
