package material

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PatternKind identifies a pattern variant
type PatternKind int

const (
	PatternSolid PatternKind = iota
	PatternStripe
	PatternGradient
	PatternRing
	PatternChecker
	PatternTest
)

var patternNames = map[PatternKind]string{
	PatternSolid:    "solid",
	PatternStripe:   "stripe",
	PatternGradient: "gradient",
	PatternRing:     "ring",
	PatternChecker:  "checker",
	PatternTest:     "test",
}

// String returns the lowercase name used in scene files
func (k PatternKind) String() string {
	if name, ok := patternNames[k]; ok {
		return name
	}
	return fmt.Sprintf("pattern(%d)", int(k))
}

// ParsePatternKind maps a scene-file name back to its kind
func ParsePatternKind(name string) (PatternKind, bool) {
	for kind, n := range patternNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// Pattern provides spatially-varying colors for materials.
// A and B are the two colors alternated or blended by the variant.
type Pattern struct {
	Kind PatternKind
	A, B core.Vec3

	transform core.Matrix
	inverse   core.Matrix
}

// NewSolidPattern creates a uniform color pattern
func NewSolidPattern(color core.Vec3) Pattern {
	return newPattern(PatternSolid, color, color)
}

// NewStripePattern alternates a and b along x
func NewStripePattern(a, b core.Vec3) Pattern {
	return newPattern(PatternStripe, a, b)
}

// NewGradientPattern blends linearly from a to b along x
func NewGradientPattern(a, b core.Vec3) Pattern {
	return newPattern(PatternGradient, a, b)
}

// NewRingPattern alternates a and b in concentric rings in the xz plane
func NewRingPattern(a, b core.Vec3) Pattern {
	return newPattern(PatternRing, a, b)
}

// NewCheckerPattern alternates a and b in unit cubes
func NewCheckerPattern(a, b core.Vec3) Pattern {
	return newPattern(PatternChecker, a, b)
}

// NewTestPattern returns the pattern-space point itself as the color
func NewTestPattern() Pattern {
	return newPattern(PatternTest, core.Black, core.Black)
}

func newPattern(kind PatternKind, a, b core.Vec3) Pattern {
	return Pattern{Kind: kind, A: a, B: b, transform: core.Identity(), inverse: core.Identity()}
}

// WithTransform returns a copy of the pattern placed by transform.
// A singular transform leaves the pattern at identity.
func (p Pattern) WithTransform(transform core.Matrix) Pattern {
	inverse, ok := transform.Inverse()
	if !ok {
		return p
	}
	p.transform = transform
	p.inverse = inverse
	return p
}

// Transform returns the pattern's transform
func (p Pattern) Transform() core.Matrix {
	return p.transform
}

// At returns the color at a point in pattern space
func (p Pattern) At(point core.Vec3) core.Vec3 {
	switch p.Kind {
	case PatternStripe:
		if isEven(math.Floor(point.X)) {
			return p.A
		}
		return p.B
	case PatternGradient:
		fraction := point.X - math.Floor(point.X)
		return p.A.Add(p.B.Subtract(p.A).Multiply(fraction))
	case PatternRing:
		if isEven(math.Floor(math.Sqrt(point.X*point.X + point.Z*point.Z))) {
			return p.A
		}
		return p.B
	case PatternChecker:
		if isEven(math.Floor(point.X) + math.Floor(point.Y) + math.Floor(point.Z)) {
			return p.A
		}
		return p.B
	case PatternTest:
		return point
	default:
		return p.A
	}
}

// AtObject returns the color at a point given in the owning shape's object space
func (p Pattern) AtObject(objectPoint core.Vec3) core.Vec3 {
	return p.At(p.inverse.MulPoint(objectPoint))
}

func isEven(v float64) bool {
	return math.Mod(v, 2) == 0
}
