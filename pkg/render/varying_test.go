package render

import (
	"math"
	"testing"
)

func TestLerpVarying(t *testing.T) {
	a, b := sumVarying{0}, sumVarying{10}

	tests := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{0.25, 2.5},
		{0.5, 5},
		{1, 10},
	}
	for _, tc := range tests {
		got := lerpVarying(a, b, tc.t)
		if math.Abs(got.V-tc.want) > 1e-9 {
			t.Errorf("lerpVarying(t=%v) = %v, want %v", tc.t, got.V, tc.want)
		}
	}
}

func TestAddScaledVaryingWeightsSumToOne(t *testing.T) {
	a, b, c := sumVarying{1}, sumVarying{1}, sumVarying{1}
	got := addScaledVarying(a, 0.2, b, 0.3, c, 0.5)
	if math.Abs(got.V-1) > 1e-9 {
		t.Errorf("got %v, want 1 for unit vertex values under weights summing to 1", got.V)
	}
}

func TestAddScaledVaryingZeroWeights(t *testing.T) {
	a, b, c := sumVarying{5}, sumVarying{7}, sumVarying{9}
	got := addScaledVarying(a, 0, b, 0, c, 0)
	if got.V != 0 {
		t.Errorf("got %v, want 0", got.V)
	}
}

func TestEmptyVaryingIsNoop(t *testing.T) {
	e := Empty{}
	if e.Add(Empty{}) != (Empty{}) {
		t.Error("Empty.Add should be a no-op")
	}
	if e.Scale(5) != (Empty{}) {
		t.Error("Empty.Scale should be a no-op")
	}
}
