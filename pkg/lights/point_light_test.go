package lights

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPointLight_Sample(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1))

	tests := []struct {
		name          string
		point         core.Vec3
		wantDirection core.Vec3
		wantDistance  float64
	}{
		{"directly below", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 10},
		{"offset", core.NewVec3(3, 6, 0), core.NewVec3(-0.6, 0.8, 0), 5},
		{"at the light", core.NewVec3(0, 10, 0), core.NewVec3(0, 1, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := light.Sample(tt.point)
			if !sample.Direction.ApproxEqual(tt.wantDirection, 1e-9) {
				t.Errorf("Expected direction %v, got %v", tt.wantDirection, sample.Direction)
			}
			if math.Abs(sample.Distance-tt.wantDistance) > 1e-9 {
				t.Errorf("Expected distance %f, got %f", tt.wantDistance, sample.Distance)
			}
			if sample.Intensity != light.Intensity {
				t.Errorf("Expected intensity %v, got %v", light.Intensity, sample.Intensity)
			}
		})
	}

	if light.Type() != LightTypePoint {
		t.Errorf("Expected point light type, got %s", light.Type())
	}
}
