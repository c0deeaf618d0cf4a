package telemetry

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/world"
)

// LifetimeStats tracks per-entity statistics since spawn.
type LifetimeStats struct {
	FirstSeenTick     int64
	FirstDetectedTick int64 // -1 until detected
	Ticks             int

	DetectedTicks int
	Detections    int // times the entity entered detection
	WallContacts  int
	Distance      float64
	PeakLevel     int // highest single-quadrant activation seen (observers only)

	lastPos r2.Vec
}

// LifetimeTracker manages per-entity lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Observe updates every entity in the frame, registering new IDs.
func (lt *LifetimeTracker) Observe(f world.Frame) {
	for _, e := range f.Entities {
		s := lt.stats[e.ID]
		if s == nil {
			s = &LifetimeStats{FirstSeenTick: f.Tick, FirstDetectedTick: -1, lastPos: e.Position}
			lt.stats[e.ID] = s
		}
		s.Ticks++
		s.Distance += r2.Norm(r2.Sub(e.Position, s.lastPos))
		s.lastPos = e.Position

		if e.Detected {
			s.DetectedTicks++
			if s.FirstDetectedTick < 0 {
				s.FirstDetectedTick = f.Tick
			}
		}
		for _, l := range e.Levels {
			s.PeakLevel = max(s.PeakLevel, l)
		}
	}
}

// Record applies a transition event to the entity's counters.
func (lt *LifetimeTracker) Record(ev Event) {
	s := lt.stats[ev.EntityID]
	if s == nil {
		return
	}
	switch ev.Type {
	case EventDetectEnter:
		s.Detections++
	case EventWallContact:
		s.WallContacts++
	}
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// All returns all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked entities.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
