package geometry

import (
	"testing"
)

func TestIntersections_Hit(t *testing.T) {
	tests := []struct {
		name  string
		ts    []float64
		want  float64
		found bool
	}{
		{"all positive", []float64{1, 2}, 1, true},
		{"some negative", []float64{-1, 1}, 1, true},
		{"all negative", []float64{-2, -1}, 0, false},
		{"unsorted", []float64{5, 7, -3, 2}, 2, true},
		{"below epsilon", []float64{1e-6, 0.5}, 0.5, true},
		{"empty", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var xs Intersections
			for _, v := range tt.ts {
				xs = append(xs, NewIntersection(v, 0))
			}
			hit, ok := xs.Hit()
			if ok != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, ok)
			}
			if ok && hit.T != tt.want {
				t.Errorf("Expected hit at t=%f, got t=%f", tt.want, hit.T)
			}
		})
	}
}

func TestIntersections_SortIsStable(t *testing.T) {
	xs := Intersections{NewIntersection(2, 1), NewIntersection(1, 2), NewIntersection(2, 3), NewIntersection(1, 4)}
	xs.Sort()
	want := []ShapeID{2, 4, 1, 3}
	for i, id := range want {
		if xs[i].Shape != id {
			t.Fatalf("Expected order %v, got %v", want, xs)
		}
	}
}
