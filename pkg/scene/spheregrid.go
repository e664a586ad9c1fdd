package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// oklchToRGB converts an OKLCH color (lightness, chroma, hue in degrees) to linear RGB clamped to [0,1]
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLab
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLab to LMS (cube roots)
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(
		math.Max(0, math.Min(1, r)),
		math.Max(0, math.Min(1, g)),
		math.Max(0, math.Min(1, blue)),
	)
}

// DefaultGridSize is the number of spheres along each side of the sphere grid
const DefaultGridSize = 20

// NewSphereGridScene creates a gridSize x gridSize grid of reflective spheres
// in rainbow colors. The spheres share one group, which is divided so that
// rays only test the spheres near them.
func NewSphereGridScene(gridSize int, cameraOverrides ...CameraConfig) *Scene {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}

	defaultCameraConfig := CameraConfig{
		Width:       800,
		Height:      450,
		FieldOfView: 60 * math.Pi / 180,
		From:        core.NewVec3(4.5, 6, -9),
		To:          core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
	}
	light := lights.NewPointLight(core.NewVec3(20, 25, -20), core.White)
	s := newScene("sphere-grid", defaultCameraConfig, light, cameraOverrides)
	g := s.Graph()

	ground := NewGroundPlane(g, colorMaterial(core.NewVec3(0.5, 0.5, 0.5), withSpecular(0)))

	// Fit the grid into a fixed 9x9 area centered on (4.5, 4.5)
	targetArea := 9.0
	spacing := targetArea / float64(max(gridSize-1, 1))
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma, maxChroma := 0.05, 0.25

	grid := g.AddGroup(core.Identity())
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			// Hue sweeps along x, chroma along z
			hue := float64(i) / float64(max(gridSize-1, 1)) * 360.0
			chroma := minChroma + float64(j)/float64(max(gridSize-1, 1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			mat := colorMaterial(oklchToRGB(lightness, chroma, hue), withReflective(0.3+0.1*float64((i+j)%3)))
			sphere := g.AddSphere(core.Scaling(radius, radius, radius).Then(core.Translation(x, radius, z)), mat)
			mustAddChildren(g, grid, sphere)
		}
	}

	s.Add(ground, grid)
	s.Preprocess(8)
	return s
}
