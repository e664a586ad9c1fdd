package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	World        *renderer.World
	Camera       *renderer.Camera
	CameraConfig CameraConfig
	MaxDepth     int // Suggested reflection/refraction depth
}

// CameraConfig describes a camera by where it sits and what it looks at
type CameraConfig struct {
	Width       int       // Image width in pixels
	Height      int       // Image height in pixels
	FieldOfView float64   // Horizontal field of view in radians
	From        core.Vec3 // Eye position
	To          core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Approximate up direction
}

// MergeCameraConfig returns base with every non-zero field of override applied.
// Overriding only the width keeps the aspect ratio of base.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Width > 0 {
		result.Width = override.Width
		if override.Height <= 0 && base.Width > 0 {
			result.Height = max(1, int(math.Round(float64(override.Width)*float64(base.Height)/float64(base.Width))))
		}
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.FieldOfView > 0 {
		result.FieldOfView = override.FieldOfView
	}
	if override.From != (core.Vec3{}) {
		result.From = override.From
	}
	if override.To != (core.Vec3{}) {
		result.To = override.To
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	return result
}

// NewCamera builds a camera from the configuration. A degenerate view keeps the identity transform.
func (c CameraConfig) NewCamera() *renderer.Camera {
	camera := renderer.NewCamera(c.Width, c.Height, c.FieldOfView)
	camera.SetTransform(core.ViewTransform(c.From, c.To, c.Up))
	return camera
}

// newScene creates an empty scene lit by a single point light
func newScene(name string, defaults CameraConfig, light lights.PointLight, cameraOverrides []CameraConfig) *Scene {
	cameraConfig := defaults
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(defaults, cameraOverrides[0])
	}

	return &Scene{
		Name:         name,
		World:        renderer.NewWorld(light, geometry.NewGraph()),
		Camera:       cameraConfig.NewCamera(),
		CameraConfig: cameraConfig,
		MaxDepth:     renderer.DefaultMaxDepth,
	}
}

// Add appends root shapes to the world
func (s *Scene) Add(ids ...geometry.ShapeID) {
	for _, id := range ids {
		s.World.AddObject(id)
	}
}

// Graph returns the shape graph of the world
func (s *Scene) Graph() *geometry.Graph {
	return s.World.Graph
}

// Preprocess subdivides every group in the scene with more than threshold children
func (s *Scene) Preprocess(threshold int) {
	if threshold <= 0 {
		return
	}
	for _, id := range s.World.Objects {
		s.World.Graph.Divide(id, threshold)
	}
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, id := range s.World.Objects {
		count += countPrimitives(s.World.Graph, id)
	}
	return count
}

// countPrimitives counts the leaves below a node
func countPrimitives(g *geometry.Graph, id geometry.ShapeID) int {
	switch p := g.Primitive(id).(type) {
	case geometry.Group:
		count := 0
		for _, child := range p.Children {
			count += countPrimitives(g, child)
		}
		return count
	case geometry.CSG:
		return countPrimitives(g, p.Left) + countPrimitives(g, p.Right)
	default:
		return 1
	}
}

// NewGroundPlane creates the y=0 plane
func NewGroundPlane(g *geometry.Graph, mat material.Material) geometry.ShapeID {
	return g.AddPlane(core.Identity(), mat)
}

// alignY returns a rotation taking the +y axis onto direction
func alignY(direction core.Vec3) core.Matrix {
	d := direction.Normalize()
	tilt := math.Acos(math.Max(-1, math.Min(1, d.Y)))
	heading := math.Atan2(d.X, d.Z)
	return core.RotationX(tilt).Then(core.RotationY(heading))
}

// NewCylinderBetween creates a cylinder of the given radius whose axis runs from base to top
func NewCylinderBetween(g *geometry.Graph, base, top core.Vec3, radius float64, capped bool, mat material.Material) geometry.ShapeID {
	axis := top.Subtract(base)
	transform := core.Scaling(radius, 1, radius).
		Then(alignY(axis)).
		Then(core.Translation(base.X, base.Y, base.Z))
	return g.AddCylinder(transform, mat, 0, axis.Length(), capped)
}

// NewFrustumBetween creates a cone frustum with baseRadius at base and topRadius at top.
// The radii must differ.
func NewFrustumBetween(g *geometry.Graph, base core.Vec3, baseRadius float64, top core.Vec3, topRadius float64, capped bool, mat material.Material) geometry.ShapeID {
	axis := top.Subtract(base)
	height := axis.Length()

	// A unit cone has radius |y|; place the apex so both radii land on the axis
	slope := (topRadius - baseRadius) / height
	apexOffset := -baseRadius / slope
	lo, hi := -apexOffset, height-apexOffset
	scale := math.Abs(slope)

	transform := core.Scaling(scale, 1, scale).
		Then(core.Translation(0, apexOffset, 0)).
		Then(alignY(axis)).
		Then(core.Translation(base.X, base.Y, base.Z))
	return g.AddCone(transform, mat, lo, hi, capped)
}

// must panics on errors from built-in scene construction, which only combines shapes it just created
func must(id geometry.ShapeID, err error) geometry.ShapeID {
	if err != nil {
		panic(err)
	}
	return id
}

// check panics on errors from built-in scene construction
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// mustAddChildren attaches children to a group created by the caller
func mustAddChildren(g *geometry.Graph, group geometry.ShapeID, children ...geometry.ShapeID) geometry.ShapeID {
	for _, child := range children {
		if err := g.AddChild(group, child); err != nil {
			panic(err)
		}
	}
	return group
}

// colorMaterial returns the default material in a solid color, adjusted by opts
func colorMaterial(color core.Vec3, opts ...func(*material.Material)) material.Material {
	m := material.NewColorMaterial(color)
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func withReflective(r float64) func(*material.Material) {
	return func(m *material.Material) { m.Reflective = r }
}

func withSpecular(s float64) func(*material.Material) {
	return func(m *material.Material) { m.Specular = s }
}

func withDiffuse(d float64) func(*material.Material) {
	return func(m *material.Material) { m.Diffuse = d }
}
