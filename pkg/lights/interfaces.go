package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint LightType = "point"
)

// LightSample describes the light as seen from a shading point
type LightSample struct {
	Point     core.Vec3 // Position of the light
	Direction core.Vec3 // Unit direction from the shading point to the light
	Distance  float64   // Distance from the shading point to the light
	Intensity core.Vec3 // Light color/intensity
}
