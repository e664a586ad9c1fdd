package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ShapeID      int                    `json:"shapeId"`
	GeometryType string                 `json:"geometryType"`
	Ancestors    []string               `json:"ancestors"` // Kinds of the enclosing groups and CSGs, innermost first
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Inside       bool                   `json:"inside"`
	N1           float64                `json:"n1"`
	N2           float64                `json:"n2"`
	Schlick      float64                `json:"schlick"`
	Color        [3]float64             `json:"color"` // Shaded color of the pixel
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains rich information about an object hit by an inspection ray
type InspectResult struct {
	Hit   bool
	Comps geometry.Computation
	Color core.Vec3
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// jsonNumber returns v, or "inf"/"-inf" for infinities which JSON cannot encode
func jsonNumber(v float64) interface{} {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return v
	}
}

func jsonVec3(v core.Vec3) [3]interface{} {
	return [3]interface{}{jsonNumber(v.X), jsonNumber(v.Y), jsonNumber(v.Z)}
}

func hexColor(v core.Vec3) string {
	clamp := func(c float64) int {
		return int(max(0, min(1, c)) * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(v.X), clamp(v.Y), clamp(v.Z))
}

// extractMaterialInfo describes the Phong parameters and pattern of a material
func (s *Server) extractMaterialInfo(mat material.Material) map[string]interface{} {
	properties := map[string]interface{}{
		"ambient":         mat.Ambient,
		"diffuse":         mat.Diffuse,
		"specular":        mat.Specular,
		"shininess":       mat.Shininess,
		"reflective":      mat.Reflective,
		"transparency":    mat.Transparency,
		"refractiveIndex": mat.RefractiveIndex,
		"pattern":         mat.Pattern.Kind.String(),
	}

	switch mat.Pattern.Kind {
	case material.PatternSolid:
		properties["color"] = hexColor(mat.Pattern.A)
	case material.PatternTest:
	default:
		properties["colors"] = []string{hexColor(mat.Pattern.A), hexColor(mat.Pattern.B)}
	}
	return properties
}

// extractGeometryInfo describes the parameters of a primitive
func (s *Server) extractGeometryInfo(g *geometry.Graph, id geometry.ShapeID) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch p := g.Primitive(id).(type) {
	case geometry.Cylinder:
		properties["minimum"] = jsonNumber(p.Minimum)
		properties["maximum"] = jsonNumber(p.Maximum)
		properties["closed"] = p.Closed
	case geometry.Cone:
		properties["minimum"] = jsonNumber(p.Minimum)
		properties["maximum"] = jsonNumber(p.Maximum)
		properties["closed"] = p.Closed
	case geometry.SmoothTriangle:
		properties["vertices"] = [][3]float64{vec3Array(p.P1), vec3Array(p.P2), vec3Array(p.P3)}
		properties["normals"] = [][3]float64{vec3Array(p.N1), vec3Array(p.N2), vec3Array(p.N3)}
	case geometry.Triangle:
		properties["vertices"] = [][3]float64{vec3Array(p.P1), vec3Array(p.P2), vec3Array(p.P3)}
		properties["faceNormal"] = vec3Array(p.Normal)
	}

	if b, ok := g.Bounds(id); ok {
		properties["boundingBox"] = map[string]interface{}{
			"min": jsonVec3(b.Min),
			"max": jsonVec3(b.Max),
		}
	}
	return g.Kind(id).String(), properties
}

// ancestors returns the kinds of the composites enclosing id, innermost first
func ancestors(g *geometry.Graph, id geometry.ShapeID) []string {
	var kinds []string
	for parent, ok := g.Parent(id); ok; parent, ok = g.Parent(parent) {
		kinds = append(kinds, g.Kind(parent).String())
	}
	return kinds
}

// inspectPixel casts the ray through the center of a pixel and describes the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (InspectResult, error) {
	world := sceneObj.World
	ray := sceneObj.Camera.RayForPixel(pixelX, pixelY)

	xs := world.Intersect(ray)
	hit, ok := xs.Hit()
	if !ok {
		return InspectResult{Hit: false}, nil
	}

	comps, err := world.Graph.Precompute(hit, ray, xs)
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{
		Hit:   true,
		Comps: comps,
		Color: world.ColorAt(ray, sceneObj.MaxDepth),
	}, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(inspectReq, nil)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	camera := sceneObj.Camera
	if pixelX < 0 || pixelX >= camera.HSize || pixelY < 0 || pixelY >= camera.VSize {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result, err := inspectPixel(sceneObj, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, ShapeID: int(geometry.NoShape)})
		return
	}

	g := sceneObj.World.Graph
	comps := result.Comps
	geometryType, geometryProps := s.extractGeometryInfo(g, comps.Shape)

	allProperties := map[string]interface{}{"geometry": geometryProps}
	if mat, ok := g.Material(comps.Shape); ok {
		allProperties["material"] = s.extractMaterialInfo(mat)
	}

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		ShapeID:      int(comps.Shape),
		GeometryType: geometryType,
		Ancestors:    ancestors(g, comps.Shape),
		Point:        vec3Array(comps.Point),
		Normal:       vec3Array(comps.Normal),
		Distance:     comps.T,
		Inside:       comps.Inside,
		N1:           comps.N1,
		N2:           comps.N2,
		Schlick:      comps.Schlick(),
		Color:        vec3Array(result.Color),
		Properties:   allProperties,
	})
}
