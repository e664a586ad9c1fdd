package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrMalformedOBJ is returned for OBJ statements that cannot be turned into geometry
var ErrMalformedOBJ = errors.New("malformed OBJ")

// DefaultGroupName labels faces that appear before any "g" statement
const DefaultGroupName = "default"

// OBJFace is one polygon of an OBJ file with 0-based indices
type OBJFace struct {
	Vertices []int
	Normals  []int // Parallel to Vertices, or nil when the face has no normals
}

// OBJGroup is a named run of faces
type OBJGroup struct {
	Name  string
	Faces []OBJFace
}

// OBJData contains the geometry parsed from an OBJ file
type OBJData struct {
	Vertices []core.Vec3
	Normals  []core.Vec3
	Groups   []OBJGroup // Groups[0] is always the default group
	Ignored  int        // Lines that were not understood and skipped
}

// ParseOBJ reads vertices ("v"), vertex normals ("vn"), faces ("f") and
// groups ("g") from an OBJ stream. Other statements are counted in Ignored.
// Face indices are 1-based, negative indices count back from the last
// vertex, and every index must refer to a vertex already defined.
func ParseOBJ(reader io.Reader) (*OBJData, error) {
	data := &OBJData{Groups: []OBJGroup{{Name: DefaultGroupName}}}
	current := 0
	groupIndex := map[string]int{DefaultGroupName: 0}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNumber, err)
			}
			data.Vertices = append(data.Vertices, v)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNumber, err)
			}
			data.Normals = append(data.Normals, n)
		case "f":
			face, err := data.parseFace(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineNumber, err)
			}
			data.Groups[current].Faces = append(data.Groups[current].Faces, face)
		case "g":
			if len(fields) < 2 {
				data.Ignored++
				continue
			}
			name := fields[1]
			i, ok := groupIndex[name]
			if !ok {
				i = len(data.Groups)
				groupIndex[name] = i
				data.Groups = append(data.Groups, OBJGroup{Name: name})
			}
			current = i
		default:
			data.Ignored++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return data, nil
}

// LoadOBJ loads and parses an OBJ file
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

func parseVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d: %w", len(fields), ErrMalformedOBJ)
	}
	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("coordinate %q: %w", fields[i], ErrMalformedOBJ)
		}
		xyz[i] = f
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

// parseFace accepts the i, i/t, i//n and i/t/n vertex forms
func (d *OBJData) parseFace(fields []string) (OBJFace, error) {
	if len(fields) < 3 {
		return OBJFace{}, fmt.Errorf("expected at least 3 vertices, got %d: %w", len(fields), ErrMalformedOBJ)
	}

	var face OBJFace
	withNormals := 0
	normals := make([]int, len(fields))
	for i, field := range fields {
		parts := strings.Split(field, "/")

		v, err := resolveIndex(parts[0], len(d.Vertices))
		if err != nil {
			return OBJFace{}, fmt.Errorf("vertex %q: %w", field, err)
		}
		face.Vertices = append(face.Vertices, v)

		if len(parts) == 3 && parts[2] != "" {
			n, err := resolveIndex(parts[2], len(d.Normals))
			if err != nil {
				return OBJFace{}, fmt.Errorf("normal %q: %w", field, err)
			}
			normals[i] = n
			withNormals++
		}
	}

	switch withNormals {
	case len(fields):
		face.Normals = normals
	case 0:
	default:
		return OBJFace{}, fmt.Errorf("normals given for %d of %d vertices: %w", withNormals, len(fields), ErrMalformedOBJ)
	}
	return face, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index %q: %w", s, ErrMalformedOBJ)
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return 0, fmt.Errorf("index %d out of range for %d entries: %w", i, count, ErrMalformedOBJ)
}

// Triangles fan-triangulates a convex face into index triples
func (f OBJFace) Triangles() [][3]int {
	tris := make([][3]int, 0, len(f.Vertices)-2)
	for i := 1; i < len(f.Vertices)-1; i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return tris
}

// TriangleCount returns the number of triangles the group fans into
func (grp OBJGroup) TriangleCount() int {
	n := 0
	for _, face := range grp.Faces {
		n += len(face.Vertices) - 2
	}
	return n
}

// smooth reports whether every face of the group carries normals
func (grp OBJGroup) smooth() bool {
	for _, face := range grp.Faces {
		if face.Normals == nil {
			return false
		}
	}
	return len(grp.Faces) > 0
}

// ToGroup adds the parsed geometry to graph as one root group holding a
// sub-group per non-empty OBJ group, in file order. Groups whose faces all
// carry normals become smooth triangles. threshold > 0 divides each
// sub-group for faster intersection.
func (d *OBJData) ToGroup(graph *geometry.Graph, mat material.Material, threshold int) (geometry.ShapeID, error) {
	root := graph.AddGroup(core.Identity())

	for _, grp := range d.Groups {
		if len(grp.Faces) == 0 {
			continue
		}

		vertices, normals, faces := d.meshArrays(grp)
		options := &geometry.MeshOptions{Normals: normals, Threshold: threshold}
		mesh, err := graph.AddMesh(vertices, faces, mat, options)
		if err != nil {
			return geometry.NoShape, fmt.Errorf("group %q: %w", grp.Name, err)
		}
		if err := graph.AddChild(root, mesh); err != nil {
			return geometry.NoShape, err
		}
	}
	return root, nil
}

// meshArrays flattens one group into the per-vertex arrays a mesh expects.
// OBJ indexes positions and normals separately, so each distinct
// (position, normal) pair becomes one mesh vertex.
func (d *OBJData) meshArrays(grp OBJGroup) ([]core.Vec3, []core.Vec3, []int) {
	smooth := grp.smooth()
	remap := make(map[[2]int]int)
	var vertices, normals []core.Vec3
	faces := make([]int, 0, grp.TriangleCount()*3)

	index := func(face OBJFace, corner int) int {
		key := [2]int{face.Vertices[corner], -1}
		if smooth {
			key[1] = face.Normals[corner]
		}
		if i, ok := remap[key]; ok {
			return i
		}
		i := len(vertices)
		remap[key] = i
		vertices = append(vertices, d.Vertices[key[0]])
		if smooth {
			normals = append(normals, d.Normals[key[1]])
		}
		return i
	}

	for _, face := range grp.Faces {
		for _, tri := range face.Triangles() {
			faces = append(faces, index(face, tri[0]), index(face, tri[1]), index(face, tri[2]))
		}
	}
	return vertices, normals, faces
}
