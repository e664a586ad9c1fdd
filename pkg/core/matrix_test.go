package core

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestMatrix_Transforms(t *testing.T) {
	tests := []struct {
		name      string
		transform Matrix
		point     Vec3
		expected  Vec3
	}{
		{"translation", Translation(5, -3, 2), NewVec3(-3, 4, 5), NewVec3(2, 1, 7)},
		{"scaling", Scaling(2, 3, 4), NewVec3(-4, 6, 8), NewVec3(-8, 18, 32)},
		{"reflection by negative scale", Scaling(-1, 1, 1), NewVec3(2, 3, 4), NewVec3(-2, 3, 4)},
		{"rotation x quarter", RotationX(math.Pi / 2), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"rotation y quarter", RotationY(math.Pi / 2), NewVec3(0, 0, 1), NewVec3(1, 0, 0)},
		{"rotation z quarter", RotationZ(math.Pi / 2), NewVec3(0, 1, 0), NewVec3(-1, 0, 0)},
		{"shear x by y", Shearing(1, 0, 0, 0, 0, 0), NewVec3(2, 3, 4), NewVec3(5, 3, 4)},
		{"shear z by y", Shearing(0, 0, 0, 0, 0, 1), NewVec3(2, 3, 4), NewVec3(2, 3, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.transform.MulPoint(tt.point)
			if !got.ApproxEqual(tt.expected, tolerance) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMatrix_TranslationIgnoresVectors(t *testing.T) {
	v := NewVec3(-3, 4, 5)
	if got := Translation(5, -3, 2).MulVector(v); got != v {
		t.Errorf("Expected vector unchanged, got %v", got)
	}
}

func TestMatrix_ThenChainsInReadingOrder(t *testing.T) {
	p := NewVec3(1, 0, 1)
	chained := RotationX(math.Pi / 2).Then(Scaling(5, 5, 5)).Then(Translation(10, 5, 7))
	got := chained.MulPoint(p)
	if !got.ApproxEqual(NewVec3(15, 0, 7), tolerance) {
		t.Errorf("Expected (15, 0, 7), got %v", got)
	}
}

func TestMatrix_Inverse(t *testing.T) {
	m := Translation(1, 2, 3).Multiply(RotationY(0.3)).Multiply(Scaling(2, 0.5, 4))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Expected invertible matrix")
	}
	if !m.Multiply(inv).ApproxEqual(Identity(), 1e-9) {
		t.Errorf("Expected m * inverse(m) to be identity")
	}

	if _, ok := Scaling(1, 0, 1).Inverse(); ok {
		t.Error("Expected singular matrix to report non-invertible")
	}
}

func TestMatrix_TransposeOfIdentity(t *testing.T) {
	if !Identity().Transpose().IsIdentity() {
		t.Error("Expected transpose of identity to be identity")
	}
	m := NewMatrixFromRows([4][4]float64{
		{0, 9, 3, 0},
		{9, 8, 0, 8},
		{1, 8, 5, 3},
		{0, 0, 5, 8},
	})
	if got := m.Transpose().At(0, 1); got != 9 {
		t.Errorf("Expected transposed (0,1) = 9, got %f", got)
	}
	if got := m.Transpose().At(3, 2); got != 3 {
		t.Errorf("Expected transposed (3,2) = 3, got %f", got)
	}
}

func TestViewTransform(t *testing.T) {
	t.Run("default orientation", func(t *testing.T) {
		vt := ViewTransform(NewVec3(0, 0, 0), NewVec3(0, 0, -1), NewVec3(0, 1, 0))
		if !vt.ApproxEqual(Identity(), tolerance) {
			t.Error("Expected identity view transform")
		}
	})

	t.Run("looking in positive z", func(t *testing.T) {
		vt := ViewTransform(NewVec3(0, 0, 0), NewVec3(0, 0, 1), NewVec3(0, 1, 0))
		if !vt.ApproxEqual(Scaling(-1, 1, -1), tolerance) {
			t.Error("Expected view transform to mirror x and z")
		}
	})

	t.Run("moves the world", func(t *testing.T) {
		vt := ViewTransform(NewVec3(0, 0, 8), NewVec3(0, 0, 0), NewVec3(0, 1, 0))
		if !vt.ApproxEqual(Translation(0, 0, -8), tolerance) {
			t.Error("Expected view transform to translate by -8 along z")
		}
	})

	t.Run("eye maps to origin", func(t *testing.T) {
		from := NewVec3(1, 3, 2)
		vt := ViewTransform(from, NewVec3(4, -2, 8), NewVec3(1, 1, 0))
		if got := vt.MulPoint(from); !got.ApproxEqual(Vec3{}, tolerance) {
			t.Errorf("Expected eye at origin, got %v", got)
		}
		forward := NewVec3(3, -5, 6).Normalize()
		if got := vt.MulVector(forward); !got.ApproxEqual(NewVec3(0, 0, -1), tolerance) {
			t.Errorf("Expected forward to map to -z, got %v", got)
		}
	})
}

func TestRay_PositionAndTransform(t *testing.T) {
	r := NewRay(NewVec3(2, 3, 4), NewVec3(1, 0, 0))
	if got := r.Position(2.5); got != NewVec3(4.5, 3, 4) {
		t.Errorf("Expected position (4.5, 3, 4), got %v", got)
	}

	r = NewRay(NewVec3(1, 2, 3), NewVec3(0, 1, 0))
	moved := r.Transform(Translation(3, 4, 5))
	if !moved.Origin.ApproxEqual(NewVec3(4, 6, 8), tolerance) || !moved.Direction.ApproxEqual(NewVec3(0, 1, 0), tolerance) {
		t.Errorf("Unexpected translated ray %v", moved)
	}

	scaled := r.Transform(Scaling(2, 3, 4))
	if !scaled.Origin.ApproxEqual(NewVec3(2, 6, 12), tolerance) || !scaled.Direction.ApproxEqual(NewVec3(0, 3, 0), tolerance) {
		t.Errorf("Unexpected scaled ray %v", scaled)
	}
}
