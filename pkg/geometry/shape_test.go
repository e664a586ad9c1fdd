package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func TestGraph_AddChild(t *testing.T) {
	mat := material.DefaultMaterial()

	t.Run("links parent and child", func(t *testing.T) {
		g := NewGraph()
		group := g.AddGroup(core.Identity())
		s := g.AddSphere(core.Identity(), mat)
		mustAddChild(t, g, group, s)

		if p, ok := g.Parent(s); !ok || p != group {
			t.Errorf("Expected parent %d, got %d (%v)", group, p, ok)
		}
		if _, ok := g.Parent(group); ok {
			t.Error("Expected root to have no parent")
		}
		if children := g.Children(group); len(children) != 1 || children[0] != s {
			t.Errorf("Expected children [%d], got %v", s, children)
		}
	})

	t.Run("errors", func(t *testing.T) {
		g := NewGraph()
		g1 := g.AddGroup(core.Identity())
		g2 := g.AddGroup(core.Identity())
		s := g.AddSphere(core.Identity(), mat)
		mustAddChild(t, g, g1, g2)
		mustAddChild(t, g, g2, s)

		tests := []struct {
			name   string
			group  ShapeID
			child  ShapeID
			target error
		}{
			{"leaf as parent", s, g.AddSphere(core.Identity(), mat), ErrNotComposite},
			{"second parent", g1, s, ErrAlreadyParented},
			{"cycle", g2, g1, ErrCycle},
			{"self", g1, g1, ErrCycle},
			{"unknown group", ShapeID(99), s, ErrUnknownShape},
			{"unknown child", g1, NoShape, ErrUnknownShape},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := g.AddChild(tt.group, tt.child)
				if !errors.Is(err, tt.target) {
					t.Errorf("Expected %v, got %v", tt.target, err)
				}
			})
		}
	})
}

func TestGraph_Defaults(t *testing.T) {
	g := NewGraph()
	s := g.AddSphere(core.Identity(), material.DefaultMaterial())
	if !g.Transform(s).IsIdentity() {
		t.Error("Expected identity transform")
	}
	mat, ok := g.Material(s)
	if !ok || mat != material.DefaultMaterial() {
		t.Errorf("Expected default material, got %+v", mat)
	}
	if g.Kind(s) != KindSphere || g.Kind(s).String() != "sphere" {
		t.Errorf("Unexpected kind %v", g.Kind(s))
	}

	group := g.AddGroup(core.Identity())
	if _, ok := g.Material(group); ok {
		t.Error("Expected group to have no material")
	}
	if err := g.SetMaterial(group, material.Glass()); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Expected ErrNoSurface, got %v", err)
	}
	if err := g.SetMaterial(s, material.Glass()); err != nil {
		t.Fatal(err)
	}
	if mat, _ := g.Material(s); mat.RefractiveIndex != material.IndexGlass {
		t.Errorf("Expected glass after SetMaterial, got %+v", mat)
	}
}

func TestGraph_WorldToObject(t *testing.T) {
	g := NewGraph()
	g1 := g.AddGroup(core.RotationY(math.Pi / 2))
	g2 := g.AddGroup(core.Scaling(2, 2, 2))
	s := g.AddSphere(core.Translation(5, 0, 0), material.DefaultMaterial())
	mustAddChild(t, g, g1, g2)
	mustAddChild(t, g, g2, s)

	p, ok := g.WorldToObject(s, core.NewVec3(-2, 0, -10))
	if !ok {
		t.Fatal("Expected an invertible chain")
	}
	if !approxEqualVec(p, core.NewVec3(0, 0, -1), tolerance) {
		t.Errorf("Expected (0, 0, -1), got %v", p)
	}
}

func TestGraph_NormalToWorld(t *testing.T) {
	g := NewGraph()
	g1 := g.AddGroup(core.RotationY(math.Pi / 2))
	g2 := g.AddGroup(core.Scaling(1, 2, 3))
	s := g.AddSphere(core.Translation(5, 0, 0), material.DefaultMaterial())
	mustAddChild(t, g, g1, g2)
	mustAddChild(t, g, g2, s)

	s3 := math.Sqrt(3) / 3
	n, ok := g.NormalToWorld(s, core.NewVec3(s3, s3, s3))
	if !ok {
		t.Fatal("Expected an invertible chain")
	}
	expected := core.NewVec3(0.2857, 0.4286, -0.8571)
	if !approxEqualVec(n, expected, 1e-3) {
		t.Errorf("Expected %v, got %v", expected, n)
	}

	n, ok = g.NormalAt(s, core.NewVec3(1.7321, 1.1547, -5.5774), 0, 0)
	if !ok {
		t.Fatal("Expected a normal")
	}
	if !approxEqualVec(n, expected, 1e-3) {
		t.Errorf("Expected %v, got %v", expected, n)
	}
}

func TestGraph_NormalAtComposite(t *testing.T) {
	g := NewGraph()
	group := g.AddGroup(core.Identity())
	if _, ok := g.NormalAt(group, core.Origin, 0, 0); ok {
		t.Error("Expected no normal for a group")
	}
}

func TestGraph_SingularTransform(t *testing.T) {
	g := NewGraph()
	group := g.AddGroup(core.Scaling(1, 0, 1))
	s := g.AddSphere(core.Identity(), material.DefaultMaterial())
	mustAddChild(t, g, group, s)

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	if xs := g.Intersect(group, ray); len(xs) != 0 {
		t.Errorf("Expected a degenerate group to be invisible, got %v", xs)
	}
	if _, ok := g.WorldToObject(s, core.Origin); ok {
		t.Error("Expected WorldToObject to fail under a singular ancestor")
	}
}

// Transforming a ray into object space and intersecting the untransformed
// shape must give the same t values as intersecting the transformed shape.
func TestGraph_TransformCovariance(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	mat := material.DefaultMaterial()

	for i := 0; i < 50; i++ {
		transform := core.Translation(random.Float64()*4-2, random.Float64()*4-2, random.Float64()*4-2).
			Multiply(core.RotationY(random.Float64() * math.Pi)).
			Multiply(core.Scaling(0.5+random.Float64(), 0.5+random.Float64(), 0.5+random.Float64()))

		g := NewGraph()
		id := g.AddSphere(transform, mat)
		ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(random.Float64()*0.2-0.1, random.Float64()*0.2-0.1, 1))

		inverse, _ := transform.Inverse()
		want := Sphere{}.localIntersect(ray.Transform(inverse), id)
		got := g.Intersect(id, ray)
		if len(got) != len(want) {
			t.Fatalf("Case %d: expected %d intersections, got %d", i, len(want), len(got))
		}
		for j := range want {
			if math.Abs(got[j].T-want[j].T) > 1e-9 {
				t.Errorf("Case %d: expected t=%f, got t=%f", i, want[j].T, got[j].T)
			}
			local := inverse.MulPoint(ray.Position(got[j].T))
			if math.Abs(local.Length()-1) > 1e-6 {
				t.Errorf("Case %d: hit is not on the sphere (object-space radius %f)", i, local.Length())
			}
		}
	}
}
