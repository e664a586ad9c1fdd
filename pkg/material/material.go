package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Refractive indices of common media
const (
	IndexVacuum  = 1.0
	IndexAir     = 1.00029
	IndexWater   = 1.333
	IndexGlass   = 1.5
	IndexDiamond = 2.417
)

// Material describes how a surface responds to light under the Phong model,
// plus the reflective and refractive terms used by the recursive shader.
type Material struct {
	Pattern         Pattern
	Ambient         float64
	Diffuse         float64
	Specular        float64
	Shininess       float64
	Reflective      float64 // 0 = matte, 1 = perfect mirror
	Transparency    float64 // 0 = opaque, 1 = fully transparent
	RefractiveIndex float64
}

// DefaultMaterial returns a white, non-reflective, opaque material
func DefaultMaterial() Material {
	return Material{
		Pattern:         NewSolidPattern(core.White),
		Ambient:         0.1,
		Diffuse:         0.9,
		Specular:        0.9,
		Shininess:       200,
		Reflective:      0,
		Transparency:    0,
		RefractiveIndex: IndexVacuum,
	}
}

// NewColorMaterial returns the default material with a solid color
func NewColorMaterial(color core.Vec3) Material {
	m := DefaultMaterial()
	m.Pattern = NewSolidPattern(color)
	return m
}

// Glass returns a fully transparent material with the refractive index of glass
func Glass() Material {
	m := DefaultMaterial()
	m.Transparency = 1.0
	m.RefractiveIndex = IndexGlass
	return m
}

// Lighting computes the Phong color of a surface point.
// objectPoint is the same point in the shape's object space and drives the pattern lookup;
// point, eye and normal are in world space.
func (m Material) Lighting(light lights.PointLight, objectPoint, point, eye, normal core.Vec3, inShadow bool) core.Vec3 {
	color := m.Pattern.AtObject(objectPoint)

	// Combine surface color with the light's color/intensity
	effectiveColor := color.MultiplyVec(light.Intensity)
	ambient := effectiveColor.Multiply(m.Ambient)
	if inShadow {
		return ambient
	}

	sample := light.Sample(point)

	// A negative cosine means the light is on the other side of the surface
	lightDotNormal := sample.Direction.Dot(normal)
	if lightDotNormal < 0 {
		return ambient
	}
	diffuse := effectiveColor.Multiply(m.Diffuse * lightDotNormal)

	// A negative cosine means the light reflects away from the eye
	reflectv := sample.Direction.Negate().Reflect(normal)
	reflectDotEye := reflectv.Dot(eye)
	if reflectDotEye <= 0 {
		return ambient.Add(diffuse)
	}
	factor := math.Pow(reflectDotEye, m.Shininess)
	specular := light.Intensity.Multiply(m.Specular * factor)

	return ambient.Add(diffuse).Add(specular)
}
