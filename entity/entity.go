// Package entity implements the kinematic agents that move through the arena.
// Each entity owns a wall sensor fan, an adjacent-agent sensor and a pie-slice sensor.
package entity

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/geom"
	"github.com/pthm-cable/arena/sensors"
)

// Kind distinguishes player-controlled from autonomous entities.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindAutonomous
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindAutonomous:
		return "autonomous"
	default:
		return "unknown"
	}
}

// Default kinematic constants.
const (
	DefaultBaseVelocity   = 125.0
	DefaultDiagonalFactor = 0.5 // diagonal intent is halved, not normalized to 1/sqrt(2)
	DefaultAdjacentScale  = 4.0
)

// ErrDegenerateDirection is returned when a facing target coincides with the entity center.
var ErrDegenerateDirection = fmt.Errorf("entity: target at center: %w", geom.ErrDegenerate)

// Params holds the per-entity tuning shared by every entity of a world.
type Params struct {
	BaseVelocity   float64
	DiagonalFactor float64
	RayOffsets     []float64 // degrees from heading
	RayLengthScale float64
	RayLengthPad   float64
	AdjacentScale  float64 // adjacent radius = width * scale
}

// DefaultParams returns the stock tuning: 125 u/s, 8 rays every 45 degrees.
func DefaultParams() Params {
	return Params{
		BaseVelocity:   DefaultBaseVelocity,
		DiagonalFactor: DefaultDiagonalFactor,
		RayOffsets:     sensors.EvenRayOffsets(sensors.DefaultRayCount),
		RayLengthScale: 5,
		RayLengthPad:   16,
		AdjacentScale:  DefaultAdjacentScale,
	}
}

// ParamsFromConfig builds Params from the loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		BaseVelocity:   cfg.Entity.BaseVelocity,
		DiagonalFactor: cfg.Entity.DiagonalFactor,
		RayOffsets:     cfg.Derived.RayOffsets,
		RayLengthScale: cfg.Sensors.Wall.LengthScale,
		RayLengthPad:   cfg.Sensors.Wall.LengthPad,
		AdjacentScale:  cfg.Sensors.Adjacent.RadiusScale,
	}
}

// Entity is a mobile agent with a rectangular extent.
// Position is the lower-left anchor; Center is Position + Origin.
type Entity struct {
	kind   Kind
	params Params

	position r2.Vec
	origin   r2.Vec // half extent
	extent   r2.Vec

	heading        r2.Vec // always unit length
	pendingHeading r2.Vec // committed at the start of the next Update
	velocity       r2.Vec
	rotationAngle  float64 // degrees from the reference direction

	// Intent accumulators. Never reset by Update: callers issue one delta per
	// key press and the opposite delta on release.
	inputX, inputY int

	collision r2.Box

	wall     *sensors.WallSensor
	adjacent *sensors.AdjacentAgentSensor
	pie      *sensors.PieSliceSensor

	// Written by the world's detection pass.
	detected bool
	relative r2.Vec
}

// New spawns an entity at (x, y) facing the reference direction.
func New(kind Kind, x, y, width, height float64, p Params) *Entity {
	e := &Entity{
		kind:           kind,
		params:         p,
		position:       geom.V(x, y),
		origin:         geom.V(width/2, height/2),
		extent:         geom.V(width, height),
		heading:        geom.Reference,
		pendingHeading: geom.Reference,
		wall:           sensors.NewWallSensor(sensors.RayLength(width, p.RayLengthScale, p.RayLengthPad), p.RayOffsets),
		adjacent:       sensors.NewAdjacentAgentSensor(width * p.AdjacentScale),
		pie:            sensors.NewPieSliceSensor(),
	}
	e.collision = geom.Box(e.position, e.extent)
	e.adjacent.Update(e.Center())
	return e
}

// Update advances the entity by dt seconds.
func (e *Entity) Update(dt float64) {
	// Commit heading
	e.heading = e.pendingHeading
	e.rotationAngle = geom.AngleDeg(e.heading)

	// Velocity from held input, relative to heading
	intent := geom.V(float64(e.inputX), float64(e.inputY))
	if e.inputX != 0 && e.inputY != 0 {
		intent = r2.Scale(e.params.DiagonalFactor, intent)
	}
	intent = r2.Scale(e.params.BaseVelocity, intent)
	e.velocity = geom.Rotate(intent, e.rotationAngle-90)

	// Integrate
	e.position = r2.Add(e.position, r2.Scale(dt, e.velocity))
	e.collision = geom.Box(e.position, e.extent)

	// Sensors follow the committed heading
	e.wall.Recompute(e.heading)
	e.adjacent.Update(e.Center())
	e.pie.Update(e.heading)
}

// MoveLeft decrements the horizontal intent.
func (e *Entity) MoveLeft() { e.inputX-- }

// MoveRight increments the horizontal intent.
func (e *Entity) MoveRight() { e.inputX++ }

// MoveUp increments the forward intent.
func (e *Entity) MoveUp() { e.inputY++ }

// MoveDown decrements the forward intent.
func (e *Entity) MoveDown() { e.inputY-- }

// RotateToFaceMouse sets the pending heading toward a world point.
// If the point is the entity center the previous pending heading is kept
// and ErrDegenerateDirection is returned.
func (e *Entity) RotateToFaceMouse(x, y float64) error {
	return e.RotateToFace(geom.V(x, y))
}

// RotateToFace is RotateToFaceMouse for a vector target.
func (e *Entity) RotateToFace(target r2.Vec) error {
	dir, err := geom.Normalize(r2.Sub(target, e.Center()))
	if err != nil {
		return ErrDegenerateDirection
	}
	e.pendingHeading = dir
	return nil
}

// Kind returns the entity kind.
func (e *Entity) Kind() Kind { return e.kind }

// Position returns the lower-left anchor.
func (e *Entity) Position() r2.Vec { return e.position }

// Origin returns the offset from Position to Center.
func (e *Entity) Origin() r2.Vec { return e.origin }

// Extent returns (width, height).
func (e *Entity) Extent() r2.Vec { return e.extent }

// Width returns the entity width.
func (e *Entity) Width() float64 { return e.extent.X }

// Height returns the entity height.
func (e *Entity) Height() float64 { return e.extent.Y }

// Center returns the world-space center.
func (e *Entity) Center() r2.Vec { return r2.Add(e.position, e.origin) }

// Heading returns the committed unit heading.
func (e *Entity) Heading() r2.Vec { return e.heading }

// PendingHeading returns the heading that the next Update will commit.
func (e *Entity) PendingHeading() r2.Vec { return e.pendingHeading }

// Velocity returns the velocity computed by the last Update.
func (e *Entity) Velocity() r2.Vec { return e.velocity }

// RotationAngle returns the committed heading angle in degrees, [0, 360).
func (e *Entity) RotationAngle() float64 { return e.rotationAngle }

// Input returns the raw intent accumulators.
func (e *Entity) Input() (x, y int) { return e.inputX, e.inputY }

// CollisionBox returns the axis-aligned extent as of the last Update.
func (e *Entity) CollisionBox() r2.Box { return e.collision }

// WallSensor returns the entity's ray fan.
func (e *Entity) WallSensor() *sensors.WallSensor { return e.wall }

// AdjacentSensor returns the entity's detection circle.
func (e *Entity) AdjacentSensor() *sensors.AdjacentAgentSensor { return e.adjacent }

// PieSliceSensor returns the entity's quadrant tally.
func (e *Entity) PieSliceSensor() *sensors.PieSliceSensor { return e.pie }

// WallSensorOrigin returns the world-space start of every ray.
func (e *Entity) WallSensorOrigin() r2.Vec { return e.Center() }

// WallSensorEndpoint returns the world-space end of ray i.
func (e *Entity) WallSensorEndpoint(i int) (r2.Vec, error) {
	ray, err := e.wall.Ray(i)
	if err != nil {
		return r2.Vec{}, err
	}
	return r2.Add(e.Center(), ray), nil
}

// IsDetected reports whether any sensing entity detected this one this tick.
func (e *Entity) IsDetected() bool { return e.detected }

// RelativeVector returns the vector from the last detecting entity to this one.
func (e *Entity) RelativeVector() r2.Vec { return e.relative }

// MarkDetected flags the entity as detected from an observer at the given offset.
func (e *Entity) MarkDetected(relative r2.Vec) {
	e.detected = true
	e.relative = relative
}

// ClearDetection resets the detection flag before a new detection pass.
func (e *Entity) ClearDetection() {
	e.detected = false
	e.relative = r2.Vec{}
}
