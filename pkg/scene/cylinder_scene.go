package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCylinderScene showcases capped and open cylinders, cones and frustums
func NewCylinderScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Width:       400,
		Height:      225,
		FieldOfView: 60 * math.Pi / 180,
		From:        core.NewVec3(0, 1.5, -4),
		To:          core.NewVec3(0, 0.8, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(-3, 5, -4), core.White)
	s := newScene("cylinders", defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	gray := colorMaterial(core.NewVec3(0.5, 0.5, 0.5), withSpecular(0))
	red := colorMaterial(core.NewVec3(0.8, 0.2, 0.2))
	blue := colorMaterial(core.NewVec3(0.2, 0.2, 0.8))
	gold := colorMaterial(core.NewVec3(0.8, 0.6, 0.2), withReflective(0.3))
	glass := material.Glass()
	glass.Pattern = material.NewSolidPattern(core.Black)
	glass.Reflective = 0.9

	ground := NewGroundPlane(g, gray)

	// Gold tube pointing toward the camera, open so its inside is visible
	tube := NewCylinderBetween(g, core.NewVec3(0.3, 1.0, 1.5), core.NewVec3(0, 1.2, -1.0), 0.35, false, gold)
	// Tall capped cylinder standing on the ground
	tall := NewCylinderBetween(g, core.NewVec3(1.8, 0, 0), core.NewVec3(1.8, 2, 0), 0.5, true, red)
	// Horizontal capped cylinder
	lying := NewCylinderBetween(g, core.NewVec3(-2.5, 0.3, 0), core.NewVec3(-1.5, 0.3, 0), 0.3, true, blue)
	// Short glass cylinder in front
	puck := NewCylinderBetween(g, core.NewVec3(0.5, 0, -1), core.NewVec3(0.5, 0.6, -1), 0.2, true, glass)

	// Double cone standing on its tip, and a capped frustum
	doubleCone := g.AddCone(core.Scaling(0.4, 0.5, 0.4).Then(core.Translation(-1, 0.5, 1.5)), blue, -1, 1, false)
	frustum := NewFrustumBetween(g, core.NewVec3(-1.2, 0, -0.6), 0.4, core.NewVec3(-1.2, 0.7, -0.6), 0.15, true, red)

	s.Add(ground, tube, tall, lying, puck, doubleCone, frustum)
	return s
}
