package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("expected unit norm, got %f", norm)
	}

	zero := []float32{0, 0, 0}
	NormalizeL2(zero)
	for i, x := range zero {
		if x != 0 {
			t.Errorf("zero vector changed at %d: %f", i, x)
		}
	}
}

func TestMeanFloat64(t *testing.T) {
	if got := MeanFloat64(nil); got != 0 {
		t.Errorf("mean of empty = %f, want 0", got)
	}
	if got := MeanFloat64([]float64{0.2, 0.4, 0.6}); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("mean = %f, want 0.4", got)
	}
}
