// Package geom provides the vector helpers shared by entities, sensors and the arena.
// Angles are in degrees, counter-clockwise positive, with y pointing up.
package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Reference is the heading every entity spawns with (0 degrees, +X).
var Reference = r2.Vec{X: 1, Y: 0}

// ErrDegenerate is returned when a direction cannot be normalized.
var ErrDegenerate = errors.New("geom: degenerate direction")

// degenerateEpsilon is the shortest vector length still treated as a direction.
const degenerateEpsilon = 1e-9

// V is shorthand for constructing a vector.
func V(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}

// Normalize returns v scaled to unit length.
// Zero-length and non-finite vectors return ErrDegenerate.
func Normalize(v r2.Vec) (r2.Vec, error) {
	n := r2.Norm(v)
	if n < degenerateEpsilon || math.IsNaN(n) || math.IsInf(n, 0) {
		return r2.Vec{}, ErrDegenerate
	}
	return r2.Scale(1/n, v), nil
}

// Rotate rotates v around the origin by the given angle in degrees.
func Rotate(v r2.Vec, degrees float64) r2.Vec {
	return r2.Rotate(v, Radians(degrees), r2.Vec{})
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// AngleDeg returns the angle of v relative to Reference in [0, 360).
func AngleDeg(v r2.Vec) float64 {
	a := Degrees(math.Atan2(v.Y, v.X))
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	return a
}

// SignedAngleDeg returns the angle that rotates from onto to, in (-180, 180].
// Positive is counter-clockwise. Returns 0 when either vector is zero.
func SignedAngleDeg(from, to r2.Vec) float64 {
	cross := r2.Cross(from, to)
	dot := r2.Dot(from, to)
	if cross == 0 && dot == 0 {
		return 0
	}
	return WrapDeg(Degrees(math.Atan2(cross, dot)))
}

// WrapDeg wraps an angle to (-180, 180].
func WrapDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// DistanceSq returns the squared distance between a and b.
func DistanceSq(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(b, a))
}

// Near reports whether a and b are within tol of each other on both axes.
func Near(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// Box returns the axis-aligned box anchored at its lower-left corner.
func Box(pos, size r2.Vec) r2.Box {
	return r2.Box{Min: pos, Max: r2.Add(pos, size)}
}

// Overlaps reports whether two boxes share interior area.
// Touching edges do not count.
func Overlaps(a, b r2.Box) bool {
	if a.Max.X <= b.Min.X || b.Max.X <= a.Min.X {
		return false
	}
	if a.Max.Y <= b.Min.Y || b.Max.Y <= a.Min.Y {
		return false
	}
	return true
}

// Contains reports whether p lies inside b, min edges inclusive.
func Contains(b r2.Box, p r2.Vec) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}
