package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// PointLight is a light source with no size, existing at a single point in space
type PointLight struct {
	Position  core.Vec3 // Light position in world space
	Intensity core.Vec3 // Light color/intensity
}

// NewPointLight creates a new point light
func NewPointLight(position, intensity core.Vec3) PointLight {
	return PointLight{Position: position, Intensity: intensity}
}

// Type returns the light type
func (pl PointLight) Type() LightType {
	return LightTypePoint
}

// Sample returns the direction and distance from point to the light
func (pl PointLight) Sample(point core.Vec3) LightSample {
	toLight := pl.Position.Subtract(point)
	distance := toLight.Length()

	if distance == 0 {
		// Shading point sits on the light: any direction will do, nothing can occlude it
		return LightSample{
			Point:     pl.Position,
			Direction: core.NewVec3(0, 1, 0),
			Distance:  0,
			Intensity: pl.Intensity,
		}
	}

	return LightSample{
		Point:     pl.Position,
		Direction: toLight.Multiply(1.0 / distance),
		Distance:  distance,
		Intensity: pl.Intensity,
	}
}
