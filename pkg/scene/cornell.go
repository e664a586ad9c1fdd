package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCornellScene creates a Cornell box with a mirror sphere, a glass sphere
// and two blocks, lit by a point light under the ceiling
func NewCornellScene(cameraOverrides ...CameraConfig) *Scene {
	// Box spans [0, boxSize] on every axis with the open side facing the camera
	const boxSize = 5.55

	defaultCameraConfig := CameraConfig{
		Width:       400,
		Height:      400,
		FieldOfView: 40 * math.Pi / 180,
		From:        core.NewVec3(boxSize/2, boxSize/2, -8),
		To:          core.NewVec3(boxSize/2, boxSize/2, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(boxSize/2, boxSize-0.5, boxSize/2), core.White)
	s := newScene("cornell-box", defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	wall := func(color core.Vec3) material.Material {
		return colorMaterial(color, withSpecular(0))
	}
	white := wall(core.NewVec3(0.73, 0.73, 0.73))
	red := wall(core.NewVec3(0.65, 0.05, 0.05))
	green := wall(core.NewVec3(0.12, 0.45, 0.15))

	floor := g.AddPlane(core.Identity(), white)
	ceiling := g.AddPlane(core.Translation(0, boxSize, 0), white)
	backWall := g.AddPlane(core.RotationX(math.Pi/2).Then(core.Translation(0, 0, boxSize)), white)
	leftWall := g.AddPlane(core.RotationZ(math.Pi/2), red)
	rightWall := g.AddPlane(core.RotationZ(math.Pi/2).Then(core.Translation(boxSize, 0, 0)), green)

	mirror := colorMaterial(core.NewVec3(0.1, 0.1, 0.1), withReflective(0.9), withDiffuse(0.2))
	glass := material.Glass()
	glass.Pattern = material.NewSolidPattern(core.NewVec3(0.05, 0.05, 0.05))
	glass.Diffuse = 0.1
	glass.Reflective = 0.9
	glass.Shininess = 300

	leftSphere := g.AddSphere(core.Scaling(0.825, 0.825, 0.825).Then(core.Translation(1.85, 0.825, 1.69)), mirror)
	rightSphere := g.AddSphere(core.Scaling(0.9, 0.9, 0.9).Then(core.Translation(3.7, 0.9, 3.51)), glass)

	blocks := g.AddGroup(core.Identity())
	mustAddChildren(g, blocks,
		block(g, core.NewVec3(0.8, 1.65, 0.8), -math.Pi/10, core.NewVec3(3.65, 0, 1.2), white),
		block(g, core.NewVec3(0.8, 0.8, 0.8), math.Pi/12, core.NewVec3(1.3, 0, 3.8), white),
	)

	s.Add(floor, ceiling, backWall, leftWall, rightWall, leftSphere, rightSphere, blocks)
	return s
}

// block creates a box with the given half extents standing on y = base.Y
func block(g *geometry.Graph, halfExtents core.Vec3, rotation float64, base core.Vec3, mat material.Material) geometry.ShapeID {
	return g.AddCube(core.Scaling(halfExtents.X, halfExtents.Y, halfExtents.Z).
		Then(core.RotationY(rotation)).
		Then(core.Translation(base.X, base.Y+halfExtents.Y, base.Z)), mat)
}
