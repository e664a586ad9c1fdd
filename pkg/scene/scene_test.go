package scene

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func TestBuiltinScenes(t *testing.T) {
	for _, b := range builtinScenes {
		t.Run(b.info.ID, func(t *testing.T) {
			s := b.build(CameraConfig{Width: 16})
			if s.Name != b.info.ID {
				t.Errorf("Expected name %q, got %q", b.info.ID, s.Name)
			}
			if len(s.World.Objects) == 0 {
				t.Fatal("Expected scene to contain objects")
			}
			if s.Camera.HSize != 16 {
				t.Errorf("Expected width override 16, got %d", s.Camera.HSize)
			}
			if s.MaxDepth <= 0 {
				t.Errorf("Expected positive max depth, got %d", s.MaxDepth)
			}

			// Sampled pixels must shade to finite, non-negative colors
			for y := 0; y < s.Camera.VSize; y += 3 {
				for x := 0; x < s.Camera.HSize; x += 3 {
					c := s.World.ColorAt(s.Camera.RayForPixel(x, y), s.MaxDepth)
					for _, v := range []float64{c.X, c.Y, c.Z} {
						if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
							t.Fatalf("Pixel (%d,%d) has invalid color %v", x, y, c)
						}
					}
				}
			}
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := CameraConfig{
		Width:       400,
		Height:      200,
		FieldOfView: math.Pi / 3,
		From:        core.NewVec3(0, 1, -5),
		To:          core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
	}

	tests := []struct {
		name     string
		override CameraConfig
		check    func(CameraConfig) bool
	}{
		{"empty override keeps base", CameraConfig{}, func(c CameraConfig) bool { return c == base }},
		{"width keeps aspect ratio", CameraConfig{Width: 100}, func(c CameraConfig) bool { return c.Width == 100 && c.Height == 50 }},
		{"height alone", CameraConfig{Height: 300}, func(c CameraConfig) bool { return c.Width == 400 && c.Height == 300 }},
		{"width and height", CameraConfig{Width: 10, Height: 10}, func(c CameraConfig) bool { return c.Width == 10 && c.Height == 10 }},
		{"fov", CameraConfig{FieldOfView: math.Pi / 2}, func(c CameraConfig) bool { return c.FieldOfView == math.Pi/2 && c.Width == 400 }},
		{"position", CameraConfig{From: core.NewVec3(3, 3, 3)}, func(c CameraConfig) bool {
			return c.From == core.NewVec3(3, 3, 3) && c.To == base.To
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeCameraConfig(base, tt.override)
			if !tt.check(got) {
				t.Errorf("Unexpected merge result %+v", got)
			}
		})
	}
}

func TestScene_PrimitiveCountAndPreprocess(t *testing.T) {
	light := lights.NewPointLight(core.NewVec3(-10, 10, -10), core.White)
	s := newScene("test", CameraConfig{Width: 10, Height: 10, FieldOfView: math.Pi / 2, To: core.NewVec3(0, 0, 1), Up: core.NewVec3(0, 1, 0)}, light, nil)
	g := s.Graph()

	group := g.AddGroup(core.Identity())
	for i := 0; i < 10; i++ {
		check(g.AddChild(group, g.AddSphere(core.Translation(float64(i)*3, 0, 0), material.DefaultMaterial())))
	}
	csg := must(g.AddCSG(geometry.Difference,
		g.AddCube(core.Identity(), material.DefaultMaterial()),
		g.AddSphere(core.Identity(), material.DefaultMaterial())))
	s.Add(group, csg, NewGroundPlane(g, material.DefaultMaterial()))

	if got := s.GetPrimitiveCount(); got != 13 {
		t.Errorf("Expected 13 primitives, got %d", got)
	}

	s.Preprocess(4)
	if len(g.Children(group)) >= 10 {
		t.Errorf("Expected group to be divided, still has %d children", len(g.Children(group)))
	}
	if got := s.GetPrimitiveCount(); got != 13 {
		t.Errorf("Expected 13 primitives after preprocessing, got %d", got)
	}
}

func TestNewCylinderBetween(t *testing.T) {
	g := geometry.NewGraph()
	id := NewCylinderBetween(g, core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 3), 0.5, true, material.DefaultMaterial())

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
		hit    bool
		t      float64
	}{
		{"side of the axis", core.NewVec3(1, -5, 2), core.NewVec3(0, 1, 0), true, 5.5},
		{"beyond the top", core.NewVec3(1, -5, 3.5), core.NewVec3(0, 1, 0), false, 0},
		{"cap at the base", core.NewVec3(1, 1, -5), core.NewVec3(0, 0, 1), true, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := g.Intersect(id, core.NewRay(tt.origin, tt.dir)).Hit()
			if ok != tt.hit {
				t.Fatalf("Expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && math.Abs(hit.T-tt.t) > 1e-4 {
				t.Errorf("Expected t=%v, got %v", tt.t, hit.T)
			}
		})
	}
}

func TestNewFrustumBetween(t *testing.T) {
	g := geometry.NewGraph()
	id := NewFrustumBetween(g, core.NewVec3(0, 0, 0), 1, core.NewVec3(0, 2, 0), 0.5, false, material.DefaultMaterial())

	tests := []struct {
		name   string
		height float64
		radius float64
	}{
		{"near the base", 0.2, 0.95},
		{"middle", 1, 0.75},
		{"near the top", 1.8, 0.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(-5, tt.height, 0), core.NewVec3(1, 0, 0))
			hit, ok := g.Intersect(id, ray).Hit()
			if !ok {
				t.Fatal("Expected a hit")
			}
			if want := 5 - tt.radius; math.Abs(hit.T-want) > 1e-4 {
				t.Errorf("Expected t=%v, got %v", want, hit.T)
			}
		})
	}

	above := core.NewRay(core.NewVec3(-5, 2.5, 0), core.NewVec3(1, 0, 0))
	if _, ok := g.Intersect(id, above).Hit(); ok {
		t.Error("Expected no hit above the top")
	}
}

func TestOklchToRGB(t *testing.T) {
	white := oklchToRGB(1, 0, 0)
	if !white.ApproxEqual(core.White, 1e-3) {
		t.Errorf("Expected white, got %v", white)
	}
	c := oklchToRGB(0.7, 0.2, 120)
	for _, v := range []float64{c.X, c.Y, c.Z} {
		if v < 0 || v > 1 {
			t.Errorf("Expected components in [0,1], got %v", c)
		}
	}
}

func TestNewOBJScene(t *testing.T) {
	path := writeScene(t, t.TempDir(), "wedge.obj", `v 10 10 10
v 20 10 10
v 10 15 10
v 10 10 14
f 1 2 3
f 1 2 4
f 1 3 4
f 2 3 4
`)

	s, err := NewOBJScene(path, CameraConfig{Width: 12, Height: 9})
	if err != nil {
		t.Fatalf("NewOBJScene() error: %v", err)
	}
	if s.Name != "wedge" {
		t.Errorf("Expected name wedge, got %q", s.Name)
	}
	if got := s.GetPrimitiveCount(); got != 5 {
		t.Errorf("Expected 4 triangles and a floor, got %d primitives", got)
	}

	model := s.World.Objects[len(s.World.Objects)-1]
	b, ok := s.Graph().ParentSpaceBounds(model)
	if !ok {
		t.Fatal("Expected model to be bounded")
	}
	if math.Abs(b.Min.Y) > 1e-9 {
		t.Errorf("Expected model to rest on the floor, min y = %v", b.Min.Y)
	}
	if size := b.Size(); math.Abs(size.X-objModelSize) > 1e-9 || math.Abs(size.Y-1) > 1e-9 {
		t.Errorf("Expected model scaled to %v wide and 1 tall, got %v", objModelSize, size)
	}
	if c := b.Center(); math.Abs(c.X) > 1e-9 || math.Abs(c.Z) > 1e-9 {
		t.Errorf("Expected model centered over the origin, got %v", c)
	}

	if _, err := NewOBJScene(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("Expected error for missing file")
	}
}
