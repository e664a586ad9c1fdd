package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrBadMesh is returned for face lists that do not describe triangles over the given vertices
var ErrBadMesh = errors.New("invalid mesh")

// MeshOptions contains optional parameters for mesh creation
type MeshOptions struct {
	Normals   []core.Vec3         // Optional per-vertex normals, parallel to vertices; produces smooth triangles
	Materials []material.Material // Optional per-triangle materials
	Transform core.Matrix         // Transform of the mesh group; the zero value means identity
	Threshold int                 // Divide the mesh once it holds more than this many triangles; 0 disables
}

// AddMesh adds a group of triangles built from a vertex list and face indices
// (each run of 3 indices is one triangle) and returns the group.
func (g *Graph) AddMesh(vertices []core.Vec3, faces []int, mat material.Material, options *MeshOptions) (ShapeID, error) {
	if len(faces)%3 != 0 {
		return NoShape, fmt.Errorf("%d face indices is not a multiple of 3: %w", len(faces), ErrBadMesh)
	}
	numTriangles := len(faces) / 3

	var opts MeshOptions
	if options != nil {
		opts = *options
	}
	if opts.Normals != nil && len(opts.Normals) != len(vertices) {
		return NoShape, fmt.Errorf("%d normals for %d vertices: %w", len(opts.Normals), len(vertices), ErrBadMesh)
	}
	if opts.Materials != nil && len(opts.Materials) != numTriangles {
		return NoShape, fmt.Errorf("%d materials for %d triangles: %w", len(opts.Materials), numTriangles, ErrBadMesh)
	}
	for _, index := range faces {
		if index < 0 || index >= len(vertices) {
			return NoShape, fmt.Errorf("face index %d out of range [0, %d): %w", index, len(vertices), ErrBadMesh)
		}
	}

	transform := opts.Transform
	if transform == (core.Matrix{}) {
		transform = core.Identity()
	}
	group := g.AddGroup(transform)

	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]

		triangleMaterial := mat
		if opts.Materials != nil {
			triangleMaterial = opts.Materials[i]
		}

		var tri ShapeID
		if opts.Normals != nil {
			tri = g.AddSmoothTriangle(vertices[i0], vertices[i1], vertices[i2],
				opts.Normals[i0], opts.Normals[i1], opts.Normals[i2], triangleMaterial)
		} else {
			tri = g.AddTriangle(vertices[i0], vertices[i1], vertices[i2], triangleMaterial)
		}
		if err := g.AddChild(group, tri); err != nil {
			return NoShape, err
		}
	}

	if opts.Threshold > 0 {
		g.Divide(group, opts.Threshold)
	}
	return group, nil
}
