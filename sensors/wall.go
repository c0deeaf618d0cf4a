// Package sensors implements the perception sensors carried by every entity:
// the wall sensor fan, the adjacent-agent detector and the pie-slice quadrant tally.
package sensors

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/geom"
)

// DefaultRayCount is the number of rays in a standard wall sensor fan.
const DefaultRayCount = 8

// ErrRayIndex is returned for a ray index outside [0, N).
var ErrRayIndex = errors.New("sensors: ray index out of range")

// RayLength returns the fan length for an entity of the given width.
func RayLength(width, scale, pad float64) float64 {
	return width*scale + pad
}

// EvenRayOffsets spreads n rays every 360/n degrees, starting straight ahead
// and increasing counter-clockwise.
func EvenRayOffsets(n int) []float64 {
	offsets := make([]float64, n)
	if n == 0 {
		return offsets
	}
	step := 360.0 / float64(n)
	for i := range offsets {
		offsets[i] = float64(i) * step
	}
	return offsets
}

// WallSensor is a fixed fan of rays anchored to an entity's heading.
// The angular offsets never change after construction; only the world
// orientation of the rays follows the heading.
type WallSensor struct {
	offsets  []float64 // degrees relative to heading
	length   float64
	rays     []r2.Vec // heading-rotated, scaled to length
	measured []float64
}

// NewWallSensor creates a fan with one ray per offset, oriented along the reference heading.
func NewWallSensor(length float64, offsets []float64) *WallSensor {
	s := &WallSensor{
		offsets:  append([]float64(nil), offsets...),
		length:   length,
		rays:     make([]r2.Vec, len(offsets)),
		measured: make([]float64, len(offsets)),
	}
	for i := range s.measured {
		s.measured[i] = length
	}
	s.Recompute(geom.Reference)
	return s
}

// Recompute re-orients every ray to the given unit heading.
func (s *WallSensor) Recompute(heading r2.Vec) {
	for i, off := range s.offsets {
		s.rays[i] = r2.Scale(s.length, geom.Rotate(heading, off))
	}
}

// Count returns the number of rays N.
func (s *WallSensor) Count() int {
	return len(s.rays)
}

// Length returns the fixed ray length.
func (s *WallSensor) Length() float64 {
	return s.length
}

// Ray returns ray i relative to the entity center.
func (s *WallSensor) Ray(i int) (r2.Vec, error) {
	if err := s.checkIndex(i); err != nil {
		return r2.Vec{}, err
	}
	return s.rays[i], nil
}

// Offset returns the fixed angular offset of ray i in degrees.
func (s *WallSensor) Offset(i int) (float64, error) {
	if err := s.checkIndex(i); err != nil {
		return 0, err
	}
	return s.offsets[i], nil
}

// Rays returns a copy of all rays relative to the entity center.
func (s *WallSensor) Rays() []r2.Vec {
	return append([]r2.Vec(nil), s.rays...)
}

// SetMeasured records the wall distance measured along ray i.
func (s *WallSensor) SetMeasured(i int, d float64) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.measured[i] = d
	return nil
}

// Measured returns the last wall distance recorded for ray i.
// Until a measurement is recorded the full ray length is reported.
func (s *WallSensor) Measured(i int) (float64, error) {
	if err := s.checkIndex(i); err != nil {
		return 0, err
	}
	return s.measured[i], nil
}

// MeasuredLengths returns a copy of all recorded wall distances.
func (s *WallSensor) MeasuredLengths() []float64 {
	return append([]float64(nil), s.measured...)
}

func (s *WallSensor) checkIndex(i int) error {
	if i < 0 || i >= len(s.rays) {
		return fmt.Errorf("%w: %d (have %d)", ErrRayIndex, i, len(s.rays))
	}
	return nil
}
