package geometry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInList is returned by Precompute when the hit is not a member of the intersection list
	ErrNotInList = errors.New("intersection not in list")
	// ErrNotComposite is returned when adding a child to a node that is not a group
	ErrNotComposite = errors.New("shape is not a group")
	// ErrAlreadyParented is returned when a node is attached to a second parent
	ErrAlreadyParented = errors.New("shape already has a parent")
	// ErrCycle is returned when attaching a node would make it its own ancestor
	ErrCycle = errors.New("shape would become its own ancestor")
	// ErrUnknownShape is returned for ids outside the graph
	ErrUnknownShape = errors.New("unknown shape")
	// ErrNoSurface is returned when a surface normal is requested from a composite node
	ErrNoSurface = errors.New("shape has no surface")
)

// Kind identifies a primitive variant
type Kind int

const (
	KindSphere Kind = iota
	KindPlane
	KindCube
	KindCylinder
	KindCone
	KindTriangle
	KindSmoothTriangle
	KindGroup
	KindCSG
)

var kindNames = [...]string{
	KindSphere:         "sphere",
	KindPlane:          "plane",
	KindCube:           "cube",
	KindCylinder:       "cylinder",
	KindCone:           "cone",
	KindTriangle:       "triangle",
	KindSmoothTriangle: "smooth_triangle",
	KindGroup:          "group",
	KindCSG:            "csg",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Primitive is the closed set of node variants stored in a Graph.
// Only types in this package implement it.
type Primitive interface {
	Kind() Kind
	sealed()
}

