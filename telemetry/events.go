// Package telemetry provides sensor statistics, bookmarks, snapshots and
// performance tracking for arena runs.
package telemetry

import "github.com/google/uuid"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventDetectEnter EventType = iota
	EventDetectExit
	EventDegenerateAim
	EventWallContact
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventDetectEnter:
		return "detect_enter"
	case EventDetectExit:
		return "detect_exit"
	case EventDegenerateAim:
		return "degenerate_aim"
	case EventWallContact:
		return "wall_contact"
	default:
		return "unknown"
	}
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int64
	EntityID uint32
	X, Y     float64 // entity center when the event fired
}

// NewDetectEnterEvent creates an event for an entity becoming detected.
func NewDetectEnterEvent(tick int64, id uint32, x, y float64) Event {
	return Event{Type: EventDetectEnter, Tick: tick, EntityID: id, X: x, Y: y}
}

// NewDetectExitEvent creates an event for an entity leaving detection.
func NewDetectExitEvent(tick int64, id uint32, x, y float64) Event {
	return Event{Type: EventDetectExit, Tick: tick, EntityID: id, X: x, Y: y}
}

// NewDegenerateAimEvent records a facing request at the entity's own center.
func NewDegenerateAimEvent(tick int64, id uint32, x, y float64) Event {
	return Event{Type: EventDegenerateAim, Tick: tick, EntityID: id, X: x, Y: y}
}

// NewWallContactEvent records an entity's box starting to overlap a wall.
func NewWallContactEvent(tick int64, id uint32, x, y float64) Event {
	return Event{Type: EventWallContact, Tick: tick, EntityID: id, X: x, Y: y}
}

// NewRunID returns a fresh identifier stamped on every output row of a run.
func NewRunID() string {
	return uuid.NewString()
}
