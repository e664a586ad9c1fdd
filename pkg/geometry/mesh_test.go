package geometry

import (
	"errors"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// quad in the z=0 plane made of two triangles
var quadVertices = []core.Vec3{
	core.NewVec3(-1, -1, 0),
	core.NewVec3(1, -1, 0),
	core.NewVec3(1, 1, 0),
	core.NewVec3(-1, 1, 0),
}

var quadFaces = []int{0, 1, 2, 0, 2, 3}

func TestGraph_AddMesh(t *testing.T) {
	g := NewGraph()
	red := material.NewColorMaterial(core.NewVec3(1, 0, 0))
	mesh, err := g.AddMesh(quadVertices, quadFaces, red, nil)
	if err != nil {
		t.Fatal(err)
	}

	children := g.Children(mesh)
	if len(children) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(children))
	}
	for _, child := range children {
		if g.Kind(child) != KindTriangle {
			t.Errorf("Expected triangle, got %v", g.Kind(child))
		}
		if mat, _ := g.Material(child); mat != red {
			t.Errorf("Expected mesh material on child %d", child)
		}
	}

	xs := g.Intersect(mesh, core.NewRay(core.NewVec3(0.5, -0.5, -3), core.NewVec3(0, 0, 1)))
	assertTs(t, xs, 3)
}

func TestGraph_AddMeshOptions(t *testing.T) {
	g := NewGraph()
	normals := make([]core.Vec3, len(quadVertices))
	for i := range normals {
		normals[i] = core.NewVec3(0, 0, -1)
	}
	mats := []material.Material{material.DefaultMaterial(), material.Glass()}

	mesh, err := g.AddMesh(quadVertices, quadFaces, material.DefaultMaterial(), &MeshOptions{
		Normals:   normals,
		Materials: mats,
		Transform: core.Translation(0, 0, 2),
	})
	if err != nil {
		t.Fatal(err)
	}

	children := g.Children(mesh)
	if g.Kind(children[0]) != KindSmoothTriangle {
		t.Errorf("Expected smooth triangles with vertex normals, got %v", g.Kind(children[0]))
	}
	if mat, _ := g.Material(children[1]); mat != material.Glass() {
		t.Error("Expected per-triangle material")
	}

	xs := g.Intersect(mesh, core.NewRay(core.NewVec3(0.5, -0.5, -3), core.NewVec3(0, 0, 1)))
	assertTs(t, xs, 5)
}

func TestGraph_AddMeshErrors(t *testing.T) {
	tests := []struct {
		name    string
		faces   []int
		options *MeshOptions
	}{
		{"partial face", []int{0, 1}, nil},
		{"index out of range", []int{0, 1, 4}, nil},
		{"negative index", []int{0, -1, 2}, nil},
		{"normals mismatch", quadFaces, &MeshOptions{Normals: []core.Vec3{{}}}},
		{"materials mismatch", quadFaces, &MeshOptions{Materials: []material.Material{material.Glass()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph().AddMesh(quadVertices, tt.faces, material.DefaultMaterial(), tt.options)
			if !errors.Is(err, ErrBadMesh) {
				t.Errorf("Expected ErrBadMesh, got %v", err)
			}
		})
	}
}
