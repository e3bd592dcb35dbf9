package fonts

import (
	"math"
	"testing"
)

func TestFaceCached(t *testing.T) {
	a, err := Face(Regular, 14)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	b, err := Face(Regular, 14.01)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	if a != b {
		t.Error("faces of (nearly) equal size should be cached")
	}
}

func TestFaceInvalidSize(t *testing.T) {
	for _, size := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		if _, err := Face(Regular, size); err == nil {
			t.Errorf("Face(%v) should fail", size)
		}
	}
}

func TestMeasureString(t *testing.T) {
	short, err := MeasureString(Regular, 20, "ab")
	if err != nil {
		t.Fatal(err)
	}
	long, err := MeasureString(Regular, 20, "abcdef")
	if err != nil {
		t.Fatal(err)
	}
	if short <= 0 || long <= short {
		t.Errorf("widths short=%v long=%v should be positive and increasing", short, long)
	}

	big, _ := MeasureString(Regular, 40, "ab")
	if math.Abs(big-2*short) > 1 {
		t.Errorf("doubling the size should roughly double the width: %v vs %v", big, short)
	}

	bold, _ := MeasureString(Bold, 20, "abcdef")
	if bold <= 0 {
		t.Errorf("bold width = %v", bold)
	}
}
