package sensors

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/geom"
)

// AdjacentAgentSensor is a circular detection region centered on its owner.
// It does not hold the entity list; the world driver iterates and calls Detects.
type AdjacentAgentSensor struct {
	center r2.Vec
	radius float64
}

// NewAdjacentAgentSensor creates a sensor with a fixed radius.
func NewAdjacentAgentSensor(radius float64) *AdjacentAgentSensor {
	return &AdjacentAgentSensor{radius: radius}
}

// Update moves the sensor to the owner's current center.
func (s *AdjacentAgentSensor) Update(center r2.Vec) {
	s.center = center
}

// Center returns the sensor center.
func (s *AdjacentAgentSensor) Center() r2.Vec {
	return s.center
}

// Radius returns the detection radius.
func (s *AdjacentAgentSensor) Radius() float64 {
	return s.radius
}

// Detects reports whether a point lies within the sensor radius.
func (s *AdjacentAgentSensor) Detects(other r2.Vec) bool {
	return TestDetection(s.center, s.radius, other)
}

// TestDetection reports whether other lies within radius of self.
// The boundary is inclusive.
func TestDetection(self r2.Vec, radius float64, other r2.Vec) bool {
	return geom.Distance(self, other) <= radius
}
