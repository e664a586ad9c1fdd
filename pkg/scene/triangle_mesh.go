package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry:
// a box, a pyramid, a flat icosahedron and a smooth-shaded icosphere
func NewTriangleMeshScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Width:       600,
		Height:      338,
		FieldOfView: 60 * math.Pi / 180,
		From:        core.NewVec3(0, 2, -6),
		To:          core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(2, 6, -3), core.White)
	s := newScene("triangle-mesh", defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	ground := NewGroundPlane(g, colorMaterial(core.NewVec3(0.7, 0.7, 0.7), withSpecular(0)))

	red := colorMaterial(core.NewVec3(0.8, 0.2, 0.2), withReflective(0.2))
	blue := colorMaterial(core.NewVec3(0.2, 0.3, 0.8))
	gold := colorMaterial(core.NewVec3(0.8, 0.6, 0.2), withReflective(0.3))
	green := colorMaterial(core.NewVec3(0.2, 0.7, 0.3), withSpecular(0.6))

	box := mustMesh(g, boxVertices(), boxFaces, red, &geometry.MeshOptions{
		Transform: core.RotationY(math.Pi / 6).Then(core.Translation(-3, 0.5, 0)),
	})
	pyramid := mustMesh(g, pyramidVertices(1.5, 2), pyramidFaces, blue, &geometry.MeshOptions{
		Transform: core.RotationY(math.Pi / 4).Then(core.Translation(-1, 1, 0)),
	})

	ico := icosahedronVertices()
	icosahedron := mustMesh(g, ico, icosahedronFaces, gold, &geometry.MeshOptions{
		Transform: core.Scaling(0.8, 0.8, 0.8).Then(core.RotationY(math.Pi / 3)).Then(core.Translation(1, 0.8, 0)),
	})

	// On a unit sphere the vertex normals are the vertices themselves
	sphereVertices, sphereFaces := subdivide(ico, icosahedronFaces)
	icosphere := mustMesh(g, sphereVertices, sphereFaces, green, &geometry.MeshOptions{
		Normals:   sphereVertices,
		Transform: core.Scaling(0.8, 0.8, 0.8).Then(core.Translation(3, 0.8, 0)),
		Threshold: 8,
	})

	s.Add(ground, box, pyramid, icosahedron, icosphere)
	return s
}

func mustMesh(g *geometry.Graph, vertices []core.Vec3, faces []int, mat material.Material, options *geometry.MeshOptions) geometry.ShapeID {
	return must(g.AddMesh(vertices, faces, mat, options))
}

// boxVertices returns the corners of the unit cube centered on the origin
func boxVertices() []core.Vec3 {
	return []core.Vec3{
		core.NewVec3(-0.5, -0.5, -0.5), // 0: left-bottom-back
		core.NewVec3(+0.5, -0.5, -0.5), // 1: right-bottom-back
		core.NewVec3(+0.5, +0.5, -0.5), // 2: right-top-back
		core.NewVec3(-0.5, +0.5, -0.5), // 3: left-top-back
		core.NewVec3(-0.5, -0.5, +0.5), // 4: left-bottom-front
		core.NewVec3(+0.5, -0.5, +0.5), // 5: right-bottom-front
		core.NewVec3(+0.5, +0.5, +0.5), // 6: right-top-front
		core.NewVec3(-0.5, +0.5, +0.5), // 7: left-top-front
	}
}

// Two triangles per face, 6 faces
var boxFaces = []int{
	0, 1, 2, 0, 2, 3, // back (z-)
	4, 6, 5, 4, 7, 6, // front (z+)
	0, 3, 7, 0, 7, 4, // left (x-)
	1, 5, 6, 1, 6, 2, // right (x+)
	0, 4, 5, 0, 5, 1, // bottom (y-)
	3, 2, 6, 3, 6, 7, // top (y+)
}

// pyramidVertices returns a square pyramid centered on the origin
func pyramidVertices(baseSize, height float64) []core.Vec3 {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5
	return []core.Vec3{
		core.NewVec3(-halfBase, -halfHeight, -halfBase), // 0: left-back
		core.NewVec3(+halfBase, -halfHeight, -halfBase), // 1: right-back
		core.NewVec3(+halfBase, -halfHeight, +halfBase), // 2: right-front
		core.NewVec3(-halfBase, -halfHeight, +halfBase), // 3: left-front
		core.NewVec3(0, +halfHeight, 0),                 // 4: apex
	}
}

var pyramidFaces = []int{
	0, 2, 1, 0, 3, 2, // base
	0, 1, 4, // back
	1, 2, 4, // right
	2, 3, 4, // front
	3, 0, 4, // left
}

// icosahedronVertices returns the 12 vertices of an icosahedron inscribed in the unit sphere
func icosahedronVertices() []core.Vec3 {
	phi := (1 + math.Sqrt(5)) / 2
	raw := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0),
		core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi),
		core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1),
		core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	for i, v := range raw {
		raw[i] = v.Normalize()
	}
	return raw
}

var icosahedronFaces = []int{
	// 5 faces around point 0
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	// 5 adjacent faces
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	// 5 faces around point 3
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	// 5 adjacent faces
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}

// subdivide splits every triangle of a unit-sphere mesh into four, pushing
// the new edge midpoints out onto the sphere
func subdivide(vertices []core.Vec3, faces []int) ([]core.Vec3, []int) {
	out := append([]core.Vec3(nil), vertices...)
	midpoints := make(map[[2]int]int)

	midpoint := func(a, b int) int {
		key := [2]int{min(a, b), max(a, b)}
		if i, ok := midpoints[key]; ok {
			return i
		}
		i := len(out)
		out = append(out, out[a].Add(out[b]).Normalize())
		midpoints[key] = i
		return i
	}

	newFaces := make([]int, 0, len(faces)*4)
	for t := 0; t+2 < len(faces); t += 3 {
		a, b, c := faces[t], faces[t+1], faces[t+2]
		ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
		newFaces = append(newFaces,
			a, ab, ca,
			b, bc, ab,
			c, ca, bc,
			ab, bc, ca,
		)
	}
	return out, newFaces
}
