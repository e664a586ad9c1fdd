package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates three spheres in a corner whose floor and walls are flattened spheres
func NewDefaultScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Width:       400,
		Height:      200,
		FieldOfView: math.Pi / 3,
		From:        core.NewVec3(0, 1.5, -5),
		To:          core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(-10, 10, -10), core.White)
	s := newScene("default", defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	room := colorMaterial(core.NewVec3(1, 0.9, 0.9), withSpecular(0))
	flatten := core.Scaling(10, 0.01, 10)

	floor := g.AddSphere(flatten, room)
	leftWall := g.AddSphere(flatten.
		Then(core.RotationX(math.Pi/2)).
		Then(core.RotationY(-math.Pi/4)).
		Then(core.Translation(0, 0, 5)), room)
	rightWall := g.AddSphere(flatten.
		Then(core.RotationX(math.Pi/2)).
		Then(core.RotationY(math.Pi/4)).
		Then(core.Translation(0, 0, 5)), room)

	sphere := func(color core.Vec3) material.Material {
		return colorMaterial(color, withDiffuse(0.7), withSpecular(0.3))
	}

	middle := g.AddSphere(core.Translation(-0.5, 1, 0.5), sphere(core.NewVec3(0.1, 1, 0.5)))
	right := g.AddSphere(core.Scaling(0.5, 0.5, 0.5).Then(core.Translation(1.5, 0.5, -0.5)),
		sphere(core.NewVec3(0.5, 1, 0.1)))
	left := g.AddSphere(core.Scaling(0.33, 0.33, 0.33).Then(core.Translation(-1.5, 0.33, -0.75)),
		sphere(core.NewVec3(1, 0.8, 0.1)))

	s.Add(floor, leftWall, rightWall, left, middle, right)
	return s
}
