package sensors

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/geom"
)

// Quadrant is a heading-relative 90 degree slice around an entity.
type Quadrant uint8

// Quadrant indices. Angles are relative to heading, counter-clockwise positive.
const (
	Front Quadrant = iota // [-45, 45]
	Right                 // [-135, -45)
	Back                  // (135, 180] and [-180, -135)
	Left                  // (45, 135]
)

// NumQuadrants is the number of pie slices.
const NumQuadrants = 4

// String returns the quadrant name.
func (q Quadrant) String() string {
	switch q {
	case Front:
		return "front"
	case Right:
		return "right"
	case Back:
		return "back"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Boundary is one of the four diagonal edges separating the quadrants.
type Boundary uint8

const (
	FrontRight Boundary = iota
	FrontLeft
	BackLeft
	BackRight
)

// NumBoundaries is the number of diagonal boundaries.
const NumBoundaries = 4

var boundaryNames = [NumBoundaries]string{"front_right", "front_left", "back_left", "back_right"}

// String returns the boundary name.
func (b Boundary) String() string {
	if int(b) < len(boundaryNames) {
		return boundaryNames[b]
	}
	return "unknown"
}

// OffsetDeg returns the boundary direction relative to heading.
func (b Boundary) OffsetDeg() float64 {
	switch b {
	case FrontRight:
		return -45
	case FrontLeft:
		return 45
	case BackLeft:
		return 135
	case BackRight:
		return -135
	default:
		return 0
	}
}

// Quadrants returns the two quadrants that meet at the boundary.
func (b Boundary) Quadrants() (Quadrant, Quadrant) {
	switch b {
	case FrontRight:
		return Front, Right
	case FrontLeft:
		return Front, Left
	case BackLeft:
		return Back, Left
	default:
		return Back, Right
	}
}

// Severity buckets the activation next to a boundary.
type Severity uint8

const (
	Clear   Severity = iota // no agents
	Caution                 // exactly one agent
	Alert                   // two or more
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Clear:
		return "clear"
	case Caution:
		return "caution"
	case Alert:
		return "alert"
	default:
		return "unknown"
	}
}

// SeverityOf buckets an activation level.
func SeverityOf(level int) Severity {
	switch {
	case level < 1:
		return Clear
	case level == 1:
		return Caution
	default:
		return Alert
	}
}

// ClassifyAngle maps a heading-relative angle in degrees to its quadrant.
// Boundary angles round toward Front: +-45 is Front, +-135 is Left/Right.
func ClassifyAngle(deg float64) Quadrant {
	a := geom.WrapDeg(deg)
	abs := math.Abs(a)

	switch {
	case abs <= 45:
		return Front
	case abs > 135:
		return Back
	case a > 0:
		return Left
	default:
		return Right
	}
}

// Classify returns the quadrant of relative as seen from heading.
// A zero relative vector is classified as Front.
func Classify(heading, relative r2.Vec) Quadrant {
	return ClassifyAngle(geom.SignedAngleDeg(heading, relative))
}

// PieSliceSensor accumulates a per-quadrant activation level within one tick.
// Callers classify with IdentifyQuadrant, read the levels, then reset exactly once.
type PieSliceSensor struct {
	levels     [NumQuadrants]int
	boundaries [NumBoundaries]r2.Vec
}

// NewPieSliceSensor creates a sensor oriented along the reference heading.
func NewPieSliceSensor() *PieSliceSensor {
	s := &PieSliceSensor{}
	s.Update(geom.Reference)
	return s
}

// Update re-orients the boundary unit vectors to the given heading.
func (s *PieSliceSensor) Update(heading r2.Vec) {
	for b := Boundary(0); b < NumBoundaries; b++ {
		s.boundaries[b] = geom.Rotate(heading, b.OffsetDeg())
	}
}

// IdentifyQuadrant classifies relative (self to detected agent) against heading
// and increments that quadrant's activation level.
func (s *PieSliceSensor) IdentifyQuadrant(heading, relative r2.Vec) Quadrant {
	q := Classify(heading, relative)
	s.levels[q]++
	return q
}

// ActivationLevel returns the current tally for a quadrant.
func (s *PieSliceSensor) ActivationLevel(q Quadrant) int {
	if q >= NumQuadrants {
		return 0
	}
	return s.levels[q]
}

// Levels returns a copy of all four tallies indexed by Quadrant.
func (s *PieSliceSensor) Levels() [NumQuadrants]int {
	return s.levels
}

// BoundaryVector returns the unit direction of a diagonal boundary.
func (s *PieSliceSensor) BoundaryVector(b Boundary) r2.Vec {
	if b >= NumBoundaries {
		return r2.Vec{}
	}
	return s.boundaries[b]
}

// BoundarySeverity buckets the larger activation of the two quadrants at b.
func (s *PieSliceSensor) BoundarySeverity(b Boundary) Severity {
	q1, q2 := b.Quadrants()
	return SeverityOf(max(s.levels[q1], s.levels[q2]))
}

// Severities returns the severity of every boundary, indexed by Boundary.
func (s *PieSliceSensor) Severities() [NumBoundaries]Severity {
	var out [NumBoundaries]Severity
	for b := Boundary(0); b < NumBoundaries; b++ {
		out[b] = s.BoundarySeverity(b)
	}
	return out
}

// ResetActivationLevels zeroes every quadrant.
func (s *PieSliceSensor) ResetActivationLevels() {
	s.levels = [NumQuadrants]int{}
}

// ReadAndReset returns the tallies and zeroes them in one step.
func (s *PieSliceSensor) ReadAndReset() [NumQuadrants]int {
	out := s.levels
	s.ResetActivationLevels()
	return out
}
