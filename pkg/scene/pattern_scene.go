package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewPatternScene lines up one shape per pattern kind on a checkered floor
func NewPatternScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Width:       600,
		Height:      300,
		FieldOfView: math.Pi / 3,
		From:        core.NewVec3(0, 3, -9),
		To:          core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(-6, 10, -10), core.White)
	s := newScene("patterns", defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	white := core.NewVec3(0.9, 0.9, 0.9)
	blue := core.NewVec3(0.2, 0.2, 0.8)
	orange := core.NewVec3(0.7, 0.3, 0.1)
	brown := core.NewVec3(0.5, 0.2, 0.05)

	floorMat := material.DefaultMaterial()
	floorMat.Pattern = material.NewCheckerPattern(white, core.NewVec3(0.3, 0.3, 0.3))
	floorMat.Specular = 0
	floorMat.Reflective = 0.1
	floor := NewGroundPlane(g, floorMat)

	wallMat := material.DefaultMaterial()
	wallMat.Pattern = material.NewStripePattern(orange, brown).
		WithTransform(core.Scaling(0.5, 1, 1).Then(core.RotationY(math.Pi / 2)))
	wallMat.Specular = 0
	wall := g.AddPlane(core.RotationX(math.Pi/2).Then(core.Translation(0, 0, 6)), wallMat)

	stripe := material.DefaultMaterial()
	stripe.Pattern = material.NewStripePattern(white, blue).
		WithTransform(core.Scaling(0.25, 0.25, 0.25).Then(core.RotationZ(math.Pi / 4)))

	gradient := material.DefaultMaterial()
	gradient.Pattern = material.NewGradientPattern(core.NewVec3(1, 0.2, 0.2), core.NewVec3(0.2, 1, 0.2)).
		WithTransform(core.Scaling(2, 1, 1).Then(core.Translation(-1, 0, 0)))

	ring := material.DefaultMaterial()
	ring.Pattern = material.NewRingPattern(white, orange).
		WithTransform(core.Scaling(0.2, 0.2, 0.2))

	checker := material.DefaultMaterial()
	checker.Pattern = material.NewCheckerPattern(white, blue).
		WithTransform(core.Scaling(0.5, 0.5, 0.5))

	s.Add(floor, wall,
		g.AddSphere(core.Translation(-4.5, 1, 0), stripe),
		g.AddSphere(core.Translation(-1.5, 1, 0), gradient),
		NewCylinderBetween(g, core.NewVec3(1.5, 0, 0), core.NewVec3(1.5, 2, 0), 0.8, true, ring),
		g.AddCube(core.RotationY(math.Pi/6).Then(core.Translation(4.5, 1, 0)), checker),
	)
	return s
}
