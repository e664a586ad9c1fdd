package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewGlassScene shows refraction and Fresnel reflection: a solid glass ball,
// a hollow one with an air bubble, and a glass cube over a half-mirrored checker floor
func NewGlassScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Width:       500,
		Height:      300,
		FieldOfView: math.Pi / 3,
		From:        core.NewVec3(0, 2.5, -6),
		To:          core.NewVec3(0, 0.75, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(-5, 8, -6), core.White)
	s := newScene("glass", defaultCameraConfig, light, cameraOverrides)
	s.MaxDepth = 8 // Nested glass needs more bounces than the default
	g := s.Graph()

	floorMat := material.DefaultMaterial()
	floorMat.Pattern = material.NewCheckerPattern(core.NewVec3(0.35, 0.35, 0.35), core.NewVec3(0.65, 0.65, 0.65))
	floorMat.Specular = 0
	floorMat.Reflective = 0.4
	floor := NewGroundPlane(g, floorMat)

	backdropMat := material.DefaultMaterial()
	backdropMat.Pattern = material.NewStripePattern(core.NewVec3(0.9, 0.3, 0.2), core.NewVec3(0.9, 0.8, 0.6))
	backdropMat.Specular = 0
	backdrop := g.AddPlane(core.RotationX(math.Pi/2).Then(core.Translation(0, 0, 8)), backdropMat)

	// Glass is mostly transparent and reflective so Schlick decides the mix
	glass := func(tint core.Vec3) material.Material {
		m := material.Glass()
		m.Pattern = material.NewSolidPattern(tint)
		m.Ambient = 0
		m.Diffuse = 0.1
		m.Specular = 1
		m.Shininess = 300
		m.Reflective = 0.9
		m.Transparency = 0.9
		return m
	}
	air := glass(core.White)
	air.RefractiveIndex = material.IndexAir

	solid := g.AddSphere(core.Translation(-1.6, 1, 0.5), glass(core.NewVec3(0.1, 0.1, 0.1)))

	hollowOuter := g.AddSphere(core.Translation(0.6, 1, 0), glass(core.NewVec3(0.05, 0.1, 0.05)))
	hollowInner := g.AddSphere(core.Scaling(0.5, 0.5, 0.5).Then(core.Translation(0.6, 1, 0)), air)

	cube := g.AddCube(core.Scaling(0.5, 0.5, 0.5).
		Then(core.RotationY(math.Pi/5)).
		Then(core.Translation(2.2, 0.5, -1)), glass(core.NewVec3(0.1, 0.05, 0.05)))

	marker := g.AddSphere(core.Scaling(0.3, 0.3, 0.3).Then(core.Translation(-1.2, 0.3, 3)),
		colorMaterial(core.NewVec3(0.2, 0.4, 0.9)))

	s.Add(floor, backdrop, solid, hollowOuter, hollowInner, cube, marker)
	return s
}
