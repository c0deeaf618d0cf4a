package geom

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

const tol = 1e-9

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   r2.Vec
		want r2.Vec
	}{
		{"axis", V(5, 0), V(1, 0)},
		{"diagonal", V(3, 4), V(0.6, 0.8)},
		{"negative", V(0, -2), V(0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize(%v) error: %v", tt.in, err)
			}
			if !Near(got, tt.want, tol) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if math.Abs(r2.Norm(got)-1) > tol {
				t.Errorf("|Normalize(%v)| = %f, want 1", tt.in, r2.Norm(got))
			}
		})
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	for _, v := range []r2.Vec{{}, V(math.NaN(), 1), V(math.Inf(1), 0)} {
		if _, err := Normalize(v); !errors.Is(err, ErrDegenerate) {
			t.Errorf("Normalize(%v) error = %v, want ErrDegenerate", v, err)
		}
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		deg  float64
		want r2.Vec
	}{
		{0, V(1, 0)},
		{90, V(0, 1)},
		{180, V(-1, 0)},
		{-90, V(0, -1)},
		{45, V(math.Sqrt2/2, math.Sqrt2/2)},
	}

	for _, tt := range tests {
		got := Rotate(Reference, tt.deg)
		if !Near(got, tt.want, tol) {
			t.Errorf("Rotate(ref, %v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}

func TestAngleDeg(t *testing.T) {
	tests := []struct {
		in   r2.Vec
		want float64
	}{
		{V(1, 0), 0},
		{V(0, 1), 90},
		{V(-1, 0), 180},
		{V(0, -1), 270},
		{V(1, -1), 315},
	}

	for _, tt := range tests {
		if got := AngleDeg(tt.in); math.Abs(got-tt.want) > tol {
			t.Errorf("AngleDeg(%v) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestSignedAngleDeg(t *testing.T) {
	tests := []struct {
		name     string
		from, to r2.Vec
		want     float64
	}{
		{"same", V(1, 0), V(2, 0), 0},
		{"ccw quarter", V(1, 0), V(0, 3), 90},
		{"cw quarter", V(1, 0), V(0, -3), -90},
		{"opposite", V(1, 0), V(-1, 0), 180},
		{"rotated frame", V(0, 1), V(-1, 0), 90},
		{"zero", V(1, 0), V(0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignedAngleDeg(tt.from, tt.to); math.Abs(got-tt.want) > tol {
				t.Errorf("SignedAngleDeg(%v, %v) = %f, want %f", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestWrapDeg(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{270, -90},
		{-270, 90},
		{720, 0},
	}

	for _, tt := range tests {
		if got := WrapDeg(tt.in); math.Abs(got-tt.want) > tol {
			t.Errorf("WrapDeg(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestBoxOverlapAndContains(t *testing.T) {
	a := Box(V(0, 0), V(10, 10))
	b := Box(V(5, 5), V(10, 10))
	c := Box(V(10, 0), V(5, 5))

	if !Overlaps(a, b) {
		t.Error("expected a and b to overlap")
	}
	if Overlaps(a, c) {
		t.Error("touching boxes should not overlap")
	}
	if !Contains(a, V(0, 0)) {
		t.Error("min corner should be contained")
	}
	if Contains(a, V(10, 5)) {
		t.Error("max edge should not be contained")
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(V(1, 1), V(4, 5)); math.Abs(got-5) > tol {
		t.Errorf("Distance = %f, want 5", got)
	}
	if got := DistanceSq(V(1, 1), V(4, 5)); math.Abs(got-25) > tol {
		t.Errorf("DistanceSq = %f, want 25", got)
	}
}
