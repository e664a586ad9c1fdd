package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// objModelSize is the edge length the longest side of a loaded model is scaled to
const objModelSize = 2.0

// NewOBJScene places a Wavefront OBJ model on a checkered floor. The model is
// centered over the origin, scaled to fit and rests on the floor.
func NewOBJScene(path string, cameraOverrides ...CameraConfig) (*Scene, error) {
	data, err := loaders.LoadOBJ(path)
	if err != nil {
		return nil, err
	}

	defaultCameraConfig := CameraConfig{
		Width:       400,
		Height:      300,
		FieldOfView: math.Pi / 3,
		From:        core.NewVec3(0, 2.5, -4.5),
		To:          core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(-6, 8, -8), core.White)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := newScene(name, defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	model, err := data.ToGroup(g, colorMaterial(core.NewVec3(0.8, 0.55, 0.3), withSpecular(0.4)), 8)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b, ok := g.Bounds(model)
	if !ok {
		return nil, fmt.Errorf("%s: model has no faces: %w", path, loaders.ErrMalformedOBJ)
	}

	size := b.Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	scale := 1.0
	if longest > 0 {
		scale = objModelSize / longest
	}
	center := b.Center()
	fit := core.Translation(-center.X, -b.Min.Y, -center.Z).
		Then(core.Scaling(scale, scale, scale))
	if err := g.SetTransform(model, fit); err != nil {
		return nil, err
	}

	floor := material.DefaultMaterial()
	floor.Pattern = material.NewCheckerPattern(core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.3, 0.3, 0.3))
	floor.Specular = 0
	floor.Reflective = 0.1

	s.Add(NewGroundPlane(g, floor), model)
	return s, nil
}
