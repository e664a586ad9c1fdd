package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewGroupScene builds a hexagon of corner spheres and edge cylinders out of nested groups
func NewGroupScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Width:       400,
		Height:      300,
		FieldOfView: math.Pi / 3,
		From:        core.NewVec3(0, 3, -3.5),
		To:          core.NewVec3(0, 0.3, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(-4, 6, -5), core.White)
	s := newScene("group", defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	floorMat := material.DefaultMaterial()
	floorMat.Pattern = material.NewCheckerPattern(core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.2, 0.2, 0.2)).
		WithTransform(core.Scaling(0.5, 0.5, 0.5))
	floorMat.Reflective = 0.2
	floor := g.AddPlane(core.Translation(0, -0.6, 0), floorMat)

	hexMat := colorMaterial(core.NewVec3(0.8, 0.5, 0.2), withReflective(0.3))
	hex := NewHexagon(g, hexMat)
	check(g.SetTransform(hex, core.RotationX(-math.Pi/8)))

	s.Add(floor, hex)
	return s
}

// NewHexagon creates a unit hexagon around the y axis: six sides, each a
// group of one corner sphere and one edge cylinder
func NewHexagon(g *geometry.Graph, mat material.Material) geometry.ShapeID {
	hex := g.AddGroup(core.Identity())
	for n := 0; n < 6; n++ {
		side := g.AddGroup(core.RotationY(float64(n) * math.Pi / 3))
		corner := g.AddSphere(core.Scaling(0.25, 0.25, 0.25).Then(core.Translation(0, 0, -1)), mat)
		edge := g.AddCylinder(core.Scaling(0.25, 1, 0.25).
			Then(core.RotationZ(-math.Pi/2)).
			Then(core.RotationY(-math.Pi/6)).
			Then(core.Translation(0, 0, -1)), mat, 0, 1, false)
		mustAddChildren(g, hex, mustAddChildren(g, side, corner, edge))
	}
	return hex
}
