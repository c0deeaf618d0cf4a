package sensors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/geom"
)

const tol = 1e-9

func TestRayLength(t *testing.T) {
	assert.Equal(t, 176.0, RayLength(32, 5, 16))
}

func TestEvenRayOffsets(t *testing.T) {
	assert.Equal(t, []float64{0, 45, 90, 135, 180, 225, 270, 315}, EvenRayOffsets(8))
	assert.Equal(t, []float64{0, 90, 180, 270}, EvenRayOffsets(4))
	assert.Empty(t, EvenRayOffsets(0))
}

func TestWallSensorInitialFan(t *testing.T) {
	s := NewWallSensor(100, EvenRayOffsets(4))
	require.Equal(t, 4, s.Count())

	want := []r2.Vec{geom.V(100, 0), geom.V(0, 100), geom.V(-100, 0), geom.V(0, -100)}
	for i, w := range want {
		got, err := s.Ray(i)
		require.NoError(t, err)
		assert.True(t, geom.Near(got, w, tol), "ray %d = %v, want %v", i, got, w)
	}
}

// Rotating the heading by theta rotates every ray by theta and keeps lengths.
func TestWallSensorFanRotation(t *testing.T) {
	s := NewWallSensor(176, EvenRayOffsets(DefaultRayCount))
	before := s.Rays()

	for _, theta := range []float64{30, 90, -135, 200} {
		s.Recompute(geom.Rotate(geom.Reference, theta))
		for i := 0; i < s.Count(); i++ {
			got, err := s.Ray(i)
			require.NoError(t, err)

			want := geom.Rotate(before[i], theta)
			assert.True(t, geom.Near(got, want, 1e-6), "theta=%v ray %d = %v, want %v", theta, i, got, want)
			assert.InDelta(t, 176, r2.Norm(got), 1e-6)
			assert.InDelta(t, geom.WrapDeg(theta), geom.SignedAngleDeg(before[i], got), 1e-6)
		}
	}
}

func TestWallSensorIndexOutOfRange(t *testing.T) {
	s := NewWallSensor(50, EvenRayOffsets(8))

	for _, i := range []int{-1, 8, 100} {
		_, err := s.Ray(i)
		assert.ErrorIs(t, err, ErrRayIndex, "Ray(%d)", i)

		_, err = s.Offset(i)
		assert.ErrorIs(t, err, ErrRayIndex, "Offset(%d)", i)

		_, err = s.Measured(i)
		assert.ErrorIs(t, err, ErrRayIndex, "Measured(%d)", i)

		assert.ErrorIs(t, s.SetMeasured(i, 1), ErrRayIndex, "SetMeasured(%d)", i)
	}
}

func TestWallSensorMeasured(t *testing.T) {
	s := NewWallSensor(50, EvenRayOffsets(2))

	d, err := s.Measured(1)
	require.NoError(t, err)
	assert.Equal(t, 50.0, d, "unmeasured rays report full length")

	require.NoError(t, s.SetMeasured(1, 12.5))
	assert.Equal(t, []float64{50, 12.5}, s.MeasuredLengths())
}

func TestDetectionBoundary(t *testing.T) {
	const r = 64.0
	origin := geom.V(0, 0)

	tests := []struct {
		name  string
		other r2.Vec
		want  bool
	}{
		{"inside", geom.V(10, 10), true},
		{"exactly on radius", geom.V(r, 0), true},
		{"just outside", geom.V(r+1e-6, 0), false},
		{"far", geom.V(500, 500), false},
		{"same point", origin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TestDetection(origin, r, tt.other))
		})
	}
}

func TestAdjacentSensorFollowsCenter(t *testing.T) {
	s := NewAdjacentAgentSensor(10)
	s.Update(geom.V(100, 100))

	assert.Equal(t, geom.V(100, 100), s.Center())
	assert.Equal(t, 10.0, s.Radius())
	assert.True(t, s.Detects(geom.V(110, 100)))
	assert.False(t, s.Detects(geom.V(111, 100)))
}

func TestClassifyAngle(t *testing.T) {
	tests := []struct {
		deg  float64
		want Quadrant
	}{
		{0, Front},
		{44.9, Front},
		{45, Front},
		{-45, Front},
		{45.1, Left},
		{90, Left},
		{135, Left},
		{-90, Right},
		{-135, Right},
		{135.1, Back},
		{-135.1, Back},
		{180, Back},
		{-180, Back},
		{360, Front},
		{450, Left},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyAngle(tt.deg), "ClassifyAngle(%v)", tt.deg)
	}
}

func TestClassifyRelativeToHeading(t *testing.T) {
	// Facing up: +Y is front, -X is left, +X is right.
	heading := geom.V(0, 1)

	assert.Equal(t, Front, Classify(heading, geom.V(0, 10)))
	assert.Equal(t, Left, Classify(heading, geom.V(-10, 0)))
	assert.Equal(t, Right, Classify(heading, geom.V(10, 0)))
	assert.Equal(t, Back, Classify(heading, geom.V(0, -10)))
	assert.Equal(t, Front, Classify(heading, r2.Vec{}))
}

func TestPieSliceTallyAndReset(t *testing.T) {
	s := NewPieSliceSensor()
	heading := geom.Reference

	assert.Equal(t, Front, s.IdentifyQuadrant(heading, geom.V(20, 1)))
	assert.Equal(t, Front, s.IdentifyQuadrant(heading, geom.V(30, -2)))
	assert.Equal(t, Right, s.IdentifyQuadrant(heading, geom.V(0, -15)))

	assert.Equal(t, 2, s.ActivationLevel(Front))
	assert.Equal(t, 1, s.ActivationLevel(Right))
	assert.Equal(t, 0, s.ActivationLevel(Back))
	assert.Equal(t, 0, s.ActivationLevel(Left))

	s.ResetActivationLevels()
	assert.Equal(t, [NumQuadrants]int{}, s.Levels())
}

func TestPieSliceReadAndReset(t *testing.T) {
	s := NewPieSliceSensor()
	s.IdentifyQuadrant(geom.Reference, geom.V(-5, 0))

	got := s.ReadAndReset()
	assert.Equal(t, 1, got[Back])
	assert.Equal(t, [NumQuadrants]int{}, s.Levels())
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, Clear, SeverityOf(0))
	assert.Equal(t, Caution, SeverityOf(1))
	assert.Equal(t, Alert, SeverityOf(2))
	assert.Equal(t, Alert, SeverityOf(7))
}

func TestBoundarySeverity(t *testing.T) {
	s := NewPieSliceSensor()
	h := geom.Reference

	s.IdentifyQuadrant(h, geom.V(10, 0))  // front
	s.IdentifyQuadrant(h, geom.V(0, 10))  // left
	s.IdentifyQuadrant(h, geom.V(0, 12))  // left
	s.IdentifyQuadrant(h, geom.V(-1, 0))  // back

	want := [NumBoundaries]Severity{
		FrontRight: Caution, // max(front=1, right=0)
		FrontLeft:  Alert,   // max(front=1, left=2)
		BackLeft:   Alert,   // max(back=1, left=2)
		BackRight:  Caution, // max(back=1, right=0)
	}
	assert.Equal(t, want, s.Severities())

	s.ResetActivationLevels()
	for b := Boundary(0); b < NumBoundaries; b++ {
		assert.Equal(t, Clear, s.BoundarySeverity(b), b.String())
	}
}

func TestBoundaryVectorsFollowHeading(t *testing.T) {
	s := NewPieSliceSensor()
	s.Update(geom.V(0, 1))

	d := math.Sqrt2 / 2
	assert.True(t, geom.Near(s.BoundaryVector(FrontRight), geom.V(d, d), tol))
	assert.True(t, geom.Near(s.BoundaryVector(FrontLeft), geom.V(-d, d), tol))
	assert.True(t, geom.Near(s.BoundaryVector(BackLeft), geom.V(-d, -d), tol))
	assert.True(t, geom.Near(s.BoundaryVector(BackRight), geom.V(d, -d), tol))

	for b := Boundary(0); b < NumBoundaries; b++ {
		assert.InDelta(t, 1, r2.Norm(s.BoundaryVector(b)), tol)
	}
}

func TestQuadrantAndBoundaryNames(t *testing.T) {
	assert.Equal(t, "front", Front.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "back_right", BackRight.String())
	assert.Equal(t, "alert", Alert.String())
}

func TestWallSensorFanIsFixed(t *testing.T) {
	offsets := EvenRayOffsets(4)
	s := NewWallSensor(50, offsets)

	offsets[1] = 10
	rays := s.Rays()
	rays[0] = r2.Vec{}
	lengths := s.MeasuredLengths()
	lengths[0] = 0

	s.Recompute(r2.Vec{X: 0, Y: 1})
	assert.Equal(t, 4, s.Count())
	assert.Len(t, s.Rays(), 4)
	assert.Len(t, s.MeasuredLengths(), 4)

	off, err := s.Offset(1)
	require.NoError(t, err)
	assert.InDelta(t, 90, off, tol)
	m, err := s.Measured(0)
	require.NoError(t, err)
	assert.InDelta(t, 50, m, tol)
}
