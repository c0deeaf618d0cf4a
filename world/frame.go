package world

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/entity"
	"github.com/pthm-cable/arena/sensors"
)

// EntityView is a read-only copy of one entity's state within a Frame.
type EntityView struct {
	ID      uint32
	Kind    entity.Kind
	Sensing bool

	Position      r2.Vec
	Center        r2.Vec
	Extent        r2.Vec
	Heading       r2.Vec
	Velocity      r2.Vec
	RotationAngle float64
	Collision     r2.Box
	InWall        bool // collision box overlaps a wall tile

	// Wall sensor
	RayOrigin  r2.Vec
	Rays       []r2.Vec // relative to RayOrigin, full length
	RayOffsets []float64
	Measured   []float64 // distance to the first wall along each ray

	// Adjacent sensor
	Radius   float64
	Detected bool
	Relative r2.Vec // from the last observer that detected this entity

	// Pie-slice sensor
	Levels     [sensors.NumQuadrants]int
	Boundaries [sensors.NumBoundaries]r2.Vec
	Severities [sensors.NumBoundaries]sensors.Severity
}

// Frame is the per-tick snapshot handed to presentation and telemetry.
type Frame struct {
	Tick     int64
	Entities []EntityView
	Player   int // index into Entities, -1 when there is no player
}

// PlayerView returns the player's view, if present.
func (f Frame) PlayerView() (EntityView, bool) {
	if f.Player < 0 || f.Player >= len(f.Entities) {
		return EntityView{}, false
	}
	return f.Entities[f.Player], true
}

// DetectedCount returns how many entities are flagged as detected.
func (f Frame) DetectedCount() int {
	n := 0
	for _, e := range f.Entities {
		if e.Detected {
			n++
		}
	}
	return n
}

func (w *World) view(a *components.Agent, s *components.Sensing) EntityView {
	b := a.Body
	ws := b.WallSensor()
	pie := b.PieSliceSensor()

	offsets := make([]float64, ws.Count())
	for i := range offsets {
		offsets[i], _ = ws.Offset(i)
	}

	var bounds [sensors.NumBoundaries]r2.Vec
	for i := range bounds {
		bounds[i] = pie.BoundaryVector(sensors.Boundary(i))
	}

	return EntityView{
		ID:            a.ID,
		Kind:          b.Kind(),
		Sensing:       s.Enabled,
		Position:      b.Position(),
		Center:        b.Center(),
		Extent:        b.Extent(),
		Heading:       b.Heading(),
		Velocity:      b.Velocity(),
		RotationAngle: b.RotationAngle(),
		Collision:     b.CollisionBox(),
		InWall:        w.grid.Overlaps(b.CollisionBox()),
		RayOrigin:     b.WallSensorOrigin(),
		Rays:          ws.Rays(),
		RayOffsets:    offsets,
		Measured:      ws.MeasuredLengths(),
		Radius:        b.AdjacentSensor().Radius(),
		Detected:      b.IsDetected(),
		Relative:      b.RelativeVector(),
		Levels:        pie.Levels(),
		Boundaries:    bounds,
		Severities:    pie.Severities(),
	}
}
