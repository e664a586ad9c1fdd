package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ErrInvalidScene is returned when a scene file parses but does not describe a buildable scene
var ErrInvalidScene = errors.New("invalid scene file")

// Triple is a JSON [x, y, z] array
type Triple [3]float64

// Vec3 converts the triple to a vector
func (t Triple) Vec3() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

// CameraConfig places the camera. Angles are in degrees.
type CameraConfig struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	FieldOfView float64 `json:"fov"`
	From        Triple  `json:"from"`
	To          Triple  `json:"to"`
	Up          Triple  `json:"up"`
}

// LightConfig describes the point light
type LightConfig struct {
	Position  Triple `json:"position"`
	Intensity Triple `json:"intensity"`
}

// TransformStep is one operation of a transform list: translate, scale,
// rotate_x, rotate_y, rotate_z (degrees) or shear (xy, xz, yx, yz, zx, zy).
type TransformStep struct {
	Op   string    `json:"op"`
	Args []float64 `json:"args"`
}

// PatternConfig describes a two-color pattern
type PatternConfig struct {
	Type      string          `json:"type"`
	Colors    []Triple        `json:"colors"`
	Transform []TransformStep `json:"transform,omitempty"`
}

// MaterialConfig mirrors material.Material. Fields left out keep the defaults of material.DefaultMaterial.
type MaterialConfig struct {
	Color           *Triple        `json:"color,omitempty"`
	Pattern         *PatternConfig `json:"pattern,omitempty"`
	Ambient         float64        `json:"ambient"`
	Diffuse         float64        `json:"diffuse"`
	Specular        float64        `json:"specular"`
	Shininess       float64        `json:"shininess"`
	Reflective      float64        `json:"reflective"`
	Transparency    float64        `json:"transparency"`
	RefractiveIndex float64        `json:"refractive_index"`
}

// UnmarshalJSON fills the defaults before decoding so absent fields keep them
func (m *MaterialConfig) UnmarshalJSON(data []byte) error {
	type plain MaterialConfig
	def := material.DefaultMaterial()
	p := plain{
		Ambient:         def.Ambient,
		Diffuse:         def.Diffuse,
		Specular:        def.Specular,
		Shininess:       def.Shininess,
		Reflective:      def.Reflective,
		Transparency:    def.Transparency,
		RefractiveIndex: def.RefractiveIndex,
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = MaterialConfig(p)
	return nil
}

// ShapeConfig is one node of the shape tree. Which fields apply depends on Type:
// sphere, plane, cube, cylinder, cone, triangle, smooth_triangle, group, csg or obj.
type ShapeConfig struct {
	Type      string          `json:"type"`
	Transform []TransformStep `json:"transform,omitempty"`

	// Material is either the name of an entry in SceneFile.Materials or an inline material
	Material json.RawMessage `json:"material,omitempty"`

	Minimum *float64 `json:"min,omitempty"` // cylinder, cone
	Maximum *float64 `json:"max,omitempty"` // cylinder, cone
	Closed  bool     `json:"closed,omitempty"`

	Points  []Triple `json:"points,omitempty"`  // triangle, smooth_triangle
	Normals []Triple `json:"normals,omitempty"` // smooth_triangle

	Children  []ShapeConfig `json:"children,omitempty"`  // group
	Operation string        `json:"operation,omitempty"` // csg
	Left      *ShapeConfig  `json:"left,omitempty"`      // csg
	Right     *ShapeConfig  `json:"right,omitempty"`     // csg

	File string `json:"file,omitempty"` // obj, relative to the scene file
}

// SceneFile is the JSON description of a renderable scene
type SceneFile struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`

	Camera    CameraConfig              `json:"camera"`
	Light     LightConfig               `json:"light"`
	Materials map[string]MaterialConfig `json:"materials,omitempty"`
	Shapes    []ShapeConfig             `json:"shapes"`
	Divide    int                       `json:"divide,omitempty"`    // Group subdivision threshold, 0 disables
	MaxDepth  int                       `json:"max_depth,omitempty"` // Recursion limit for reflection and refraction

	dir string // Directory OBJ references are resolved against
}

// LoadSceneFile reads and validates a JSON scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	sf, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	sf.dir = filepath.Dir(filename)
	return sf, nil
}

// ParseSceneFile decodes a scene description and fills in defaults.
// OBJ references are resolved against the working directory.
func ParseSceneFile(data []byte) (*SceneFile, error) {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}

	// Defaults / validation
	if sf.Camera.Width <= 0 {
		sf.Camera.Width = 400
	}
	if sf.Camera.Height <= 0 {
		sf.Camera.Height = 200
	}
	if sf.Camera.FieldOfView <= 0 || sf.Camera.FieldOfView >= 180 {
		sf.Camera.FieldOfView = 60
	}
	if sf.Camera.Up == (Triple{}) {
		sf.Camera.Up = Triple{0, 1, 0}
	}
	forward := sf.Camera.To.Vec3().Subtract(sf.Camera.From.Vec3())
	if forward.Cross(sf.Camera.Up.Vec3()).Length() == 0 {
		return nil, fmt.Errorf("camera looks along its up vector or at its own position: %w", ErrInvalidScene)
	}
	if sf.MaxDepth < 0 {
		return nil, fmt.Errorf("max_depth %d is negative: %w", sf.MaxDepth, ErrInvalidScene)
	}
	if sf.MaxDepth == 0 {
		sf.MaxDepth = renderer.DefaultMaxDepth
	}
	if sf.Light.Intensity == (Triple{}) {
		sf.Light.Intensity = Triple{1, 1, 1}
	}
	if len(sf.Shapes) == 0 {
		return nil, fmt.Errorf("scene has no shapes: %w", ErrInvalidScene)
	}
	sf.dir = "."
	return &sf, nil
}

// Build turns the description into a world and a camera
func (sf *SceneFile) Build() (*renderer.World, *renderer.Camera, error) {
	cam := sf.Camera
	camera := renderer.NewCamera(cam.Width, cam.Height, cam.FieldOfView*math.Pi/180)
	if !camera.SetTransform(core.ViewTransform(cam.From.Vec3(), cam.To.Vec3(), cam.Up.Vec3())) {
		return nil, nil, fmt.Errorf("camera view transform is singular: %w", ErrInvalidScene)
	}

	light := lights.NewPointLight(sf.Light.Position.Vec3(), sf.Light.Intensity.Vec3())
	world := renderer.NewWorld(light, geometry.NewGraph())

	for i, shape := range sf.Shapes {
		id, err := sf.buildShape(world.Graph, shape)
		if err != nil {
			return nil, nil, fmt.Errorf("shape %d: %w", i, err)
		}
		if sf.Divide > 0 {
			world.Graph.Divide(id, sf.Divide)
		}
		world.AddObject(id)
	}
	return world, camera, nil
}

func (sf *SceneFile) buildShape(g *geometry.Graph, sc ShapeConfig) (geometry.ShapeID, error) {
	transform, err := BuildTransform(sc.Transform)
	if err != nil {
		return geometry.NoShape, err
	}

	var mat material.Material
	if sc.Type != "group" && sc.Type != "csg" {
		if mat, err = sf.resolveMaterial(sc.Material); err != nil {
			return geometry.NoShape, err
		}
	}

	switch sc.Type {
	case "sphere":
		return g.AddSphere(transform, mat), nil
	case "plane":
		return g.AddPlane(transform, mat), nil
	case "cube":
		return g.AddCube(transform, mat), nil
	case "cylinder", "cone":
		lo, hi := math.Inf(-1), math.Inf(1)
		if sc.Minimum != nil {
			lo = *sc.Minimum
		}
		if sc.Maximum != nil {
			hi = *sc.Maximum
		}
		if sc.Type == "cylinder" {
			return g.AddCylinder(transform, mat, lo, hi, sc.Closed), nil
		}
		return g.AddCone(transform, mat, lo, hi, sc.Closed), nil
	case "triangle", "smooth_triangle":
		return sf.buildTriangle(g, sc, transform, mat)
	case "group":
		group := g.AddGroup(transform)
		for i, child := range sc.Children {
			id, err := sf.buildShape(g, child)
			if err != nil {
				return geometry.NoShape, fmt.Errorf("child %d: %w", i, err)
			}
			if err := g.AddChild(group, id); err != nil {
				return geometry.NoShape, err
			}
		}
		return group, nil
	case "csg":
		return sf.buildCSG(g, sc, transform)
	case "obj":
		return sf.buildOBJ(g, sc, transform, mat)
	}
	return geometry.NoShape, fmt.Errorf("unknown shape type %q: %w", sc.Type, ErrInvalidScene)
}

func (sf *SceneFile) buildTriangle(g *geometry.Graph, sc ShapeConfig, transform core.Matrix, mat material.Material) (geometry.ShapeID, error) {
	if len(sc.Points) != 3 {
		return geometry.NoShape, fmt.Errorf("%s needs 3 points, got %d: %w", sc.Type, len(sc.Points), ErrInvalidScene)
	}
	p1, p2, p3 := sc.Points[0].Vec3(), sc.Points[1].Vec3(), sc.Points[2].Vec3()

	var id geometry.ShapeID
	if sc.Type == "smooth_triangle" {
		if len(sc.Normals) != 3 {
			return geometry.NoShape, fmt.Errorf("smooth_triangle needs 3 normals, got %d: %w", len(sc.Normals), ErrInvalidScene)
		}
		id = g.AddSmoothTriangle(p1, p2, p3, sc.Normals[0].Vec3(), sc.Normals[1].Vec3(), sc.Normals[2].Vec3(), mat)
	} else {
		id = g.AddTriangle(p1, p2, p3, mat)
	}
	if err := g.SetTransform(id, transform); err != nil {
		return geometry.NoShape, err
	}
	return id, nil
}

func (sf *SceneFile) buildCSG(g *geometry.Graph, sc ShapeConfig, transform core.Matrix) (geometry.ShapeID, error) {
	op, ok := geometry.ParseOperation(sc.Operation)
	if !ok {
		return geometry.NoShape, fmt.Errorf("unknown csg operation %q: %w", sc.Operation, ErrInvalidScene)
	}
	if sc.Left == nil || sc.Right == nil {
		return geometry.NoShape, fmt.Errorf("csg needs left and right operands: %w", ErrInvalidScene)
	}

	left, err := sf.buildShape(g, *sc.Left)
	if err != nil {
		return geometry.NoShape, fmt.Errorf("csg left: %w", err)
	}
	right, err := sf.buildShape(g, *sc.Right)
	if err != nil {
		return geometry.NoShape, fmt.Errorf("csg right: %w", err)
	}

	id, err := g.AddCSG(op, left, right)
	if err != nil {
		return geometry.NoShape, err
	}
	if err := g.SetTransform(id, transform); err != nil {
		return geometry.NoShape, err
	}
	return id, nil
}

func (sf *SceneFile) buildOBJ(g *geometry.Graph, sc ShapeConfig, transform core.Matrix, mat material.Material) (geometry.ShapeID, error) {
	if sc.File == "" {
		return geometry.NoShape, fmt.Errorf("obj shape needs a file: %w", ErrInvalidScene)
	}
	path := sc.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(sf.dir, path)
	}

	data, err := LoadOBJ(path)
	if err != nil {
		return geometry.NoShape, err
	}
	id, err := data.ToGroup(g, mat, sf.Divide)
	if err != nil {
		return geometry.NoShape, err
	}
	if err := g.SetTransform(id, transform); err != nil {
		return geometry.NoShape, err
	}
	return id, nil
}

// resolveMaterial accepts a material name, an inline material, or nothing (the default material)
func (sf *SceneFile) resolveMaterial(raw json.RawMessage) (material.Material, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return material.DefaultMaterial(), nil
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if mc, ok := sf.Materials[name]; ok {
			return mc.Build()
		}
		switch name {
		case "default":
			return material.DefaultMaterial(), nil
		case "glass":
			return material.Glass(), nil
		}
		return material.Material{}, fmt.Errorf("unknown material %q: %w", name, ErrInvalidScene)
	}

	var mc MaterialConfig
	if err := json.Unmarshal(raw, &mc); err != nil {
		return material.Material{}, fmt.Errorf("material: %w", err)
	}
	return mc.Build()
}

// Build converts the configuration into a material
func (mc MaterialConfig) Build() (material.Material, error) {
	m := material.DefaultMaterial()
	m.Ambient = mc.Ambient
	m.Diffuse = mc.Diffuse
	m.Specular = mc.Specular
	m.Shininess = mc.Shininess
	m.Reflective = mc.Reflective
	m.Transparency = mc.Transparency
	m.RefractiveIndex = mc.RefractiveIndex

	switch {
	case mc.Pattern != nil:
		p, err := mc.Pattern.Build()
		if err != nil {
			return material.Material{}, err
		}
		m.Pattern = p
	case mc.Color != nil:
		m.Pattern = material.NewSolidPattern(mc.Color.Vec3())
	}
	return m, nil
}

// Build converts the configuration into a pattern
func (pc PatternConfig) Build() (material.Pattern, error) {
	kind, ok := material.ParsePatternKind(pc.Type)
	if !ok {
		return material.Pattern{}, fmt.Errorf("unknown pattern %q: %w", pc.Type, ErrInvalidScene)
	}

	var p material.Pattern
	switch kind {
	case material.PatternTest:
		p = material.NewTestPattern()
	case material.PatternSolid:
		if len(pc.Colors) != 1 {
			return material.Pattern{}, fmt.Errorf("solid pattern needs 1 color, got %d: %w", len(pc.Colors), ErrInvalidScene)
		}
		p = material.NewSolidPattern(pc.Colors[0].Vec3())
	default:
		if len(pc.Colors) != 2 {
			return material.Pattern{}, fmt.Errorf("%s pattern needs 2 colors, got %d: %w", pc.Type, len(pc.Colors), ErrInvalidScene)
		}
		a, b := pc.Colors[0].Vec3(), pc.Colors[1].Vec3()
		switch kind {
		case material.PatternStripe:
			p = material.NewStripePattern(a, b)
		case material.PatternGradient:
			p = material.NewGradientPattern(a, b)
		case material.PatternRing:
			p = material.NewRingPattern(a, b)
		default:
			p = material.NewCheckerPattern(a, b)
		}
	}

	transform, err := BuildTransform(pc.Transform)
	if err != nil {
		return material.Pattern{}, err
	}
	if _, ok := transform.Inverse(); !ok {
		return material.Pattern{}, fmt.Errorf("pattern transform is singular: %w", ErrInvalidScene)
	}
	return p.WithTransform(transform), nil
}

// BuildTransform composes the steps in order: the first step is applied to the shape first
func BuildTransform(steps []TransformStep) (core.Matrix, error) {
	m := core.Identity()
	for i, step := range steps {
		next, err := step.matrix()
		if err != nil {
			return core.Matrix{}, fmt.Errorf("transform step %d: %w", i, err)
		}
		m = m.Then(next)
	}
	return m, nil
}

var transformArity = map[string]int{
	"translate": 3,
	"scale":     3,
	"rotate_x":  1,
	"rotate_y":  1,
	"rotate_z":  1,
	"shear":     6,
}

func (s TransformStep) matrix() (core.Matrix, error) {
	want, ok := transformArity[s.Op]
	if !ok {
		return core.Matrix{}, fmt.Errorf("unknown transform %q: %w", s.Op, ErrInvalidScene)
	}
	a := s.Args
	if s.Op == "scale" && len(a) == 1 {
		a = []float64{a[0], a[0], a[0]}
	}
	if len(a) != want {
		return core.Matrix{}, fmt.Errorf("%s takes %d arguments, got %d: %w", s.Op, want, len(a), ErrInvalidScene)
	}

	switch s.Op {
	case "translate":
		return core.Translation(a[0], a[1], a[2]), nil
	case "scale":
		return core.Scaling(a[0], a[1], a[2]), nil
	case "rotate_x":
		return core.RotationX(a[0] * math.Pi / 180), nil
	case "rotate_y":
		return core.RotationY(a[0] * math.Pi / 180), nil
	case "rotate_z":
		return core.RotationZ(a[0] * math.Pi / 180), nil
	default:
		return core.Shearing(a[0], a[1], a[2], a[3], a[4], a[5]), nil
	}
}
