package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCSGScene shows each boolean operation: a die carved by difference,
// a lens made by intersection, and a union of three rods
func NewCSGScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Width:       500,
		Height:      250,
		FieldOfView: math.Pi / 3,
		From:        core.NewVec3(0, 3, -6),
		To:          core.NewVec3(0, 0.8, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(-4, 8, -6), core.White)
	s := newScene("csg", defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	floorMat := material.DefaultMaterial()
	floorMat.Pattern = material.NewRingPattern(core.NewVec3(0.8, 0.8, 0.8), core.NewVec3(0.6, 0.6, 0.7))
	floorMat.Specular = 0
	floor := NewGroundPlane(g, floorMat)

	ivory := colorMaterial(core.NewVec3(0.95, 0.92, 0.85), withReflective(0.05))
	pip := colorMaterial(core.NewVec3(0.1, 0.1, 0.1))
	die := newDie(g, ivory, pip)
	check(g.SetTransform(die, core.Scaling(0.8, 0.8, 0.8).
		Then(core.RotationY(-math.Pi/7)).
		Then(core.Translation(-2, 0.8, 0))))

	lensMat := colorMaterial(core.NewVec3(0.2, 0.6, 0.9), withReflective(0.2))
	lens := must(g.AddCSG(geometry.Intersect,
		g.AddSphere(core.Translation(-0.6, 0, 0), lensMat),
		g.AddSphere(core.Translation(0.6, 0, 0), lensMat),
	))
	check(g.SetTransform(lens, core.RotationY(math.Pi/2).Then(core.Translation(0, 1, 0))))

	rod := colorMaterial(core.NewVec3(0.9, 0.4, 0.2))
	axisRod := func(rotation core.Matrix) geometry.ShapeID {
		return g.AddCylinder(core.Scaling(0.25, 1, 0.25).Then(rotation), rod, -1, 1, true)
	}
	jack := must(g.AddCSG(geometry.Union,
		axisRod(core.Identity()),
		must(g.AddCSG(geometry.Union, axisRod(core.RotationX(math.Pi/2)), axisRod(core.RotationZ(math.Pi/2)))),
	))
	check(g.SetTransform(jack, core.RotationY(math.Pi/6).Then(core.Translation(2, 1, 0))))

	s.Add(floor, die, lens, jack)
	return s
}

// newDie carves six pips out of a cube rounded by intersecting it with a sphere
func newDie(g *geometry.Graph, body, pip material.Material) geometry.ShapeID {
	rounded := must(g.AddCSG(geometry.Intersect,
		g.AddCube(core.Identity(), body),
		g.AddSphere(core.Scaling(1.45, 1.45, 1.45), body),
	))

	// One pip per face, centered; a real die would vary the count
	faces := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
	}
	pips := g.AddGroup(core.Identity())
	for _, n := range faces {
		mustAddChildren(g, pips, g.AddSphere(core.Scaling(0.3, 0.3, 0.3).Then(core.Translation(n.X, n.Y, n.Z)), pip))
	}

	return must(g.AddCSG(geometry.Difference, rounded, pips))
}
