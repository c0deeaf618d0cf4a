package telemetry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/sensors"
	"github.com/pthm-cable/arena/world"
)

// Collector accumulates frames and events within time windows and produces WindowStats.
type Collector struct {
	runID             string
	windowDurationSec float64

	// Current window tracking
	windowStartTick int64
	elapsed         float64 // sim seconds in the current window
	simTime         float64 // total sim seconds
	ticks           int

	// Counters for current window
	detectedTicks  int
	entered        int
	exited         int
	maxConcurrent  int
	cautionTicks   int
	alertTicks     int
	wallContact    int
	degenerateAims int
	distance       float64

	// Per-tick samples for current window
	levels    [sensors.NumQuadrants][]float64
	wallMins  []float64
	lastTick  int64
	entities  int
	observers int

	// Cross-window state
	prevDetected map[uint32]bool
	prevInWall   map[uint32]bool
	lastPlayer   r2.Vec
	hasPlayer    bool
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(runID string, windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{
		runID:             runID,
		windowDurationSec: windowDurationSec,
		prevDetected:      make(map[uint32]bool),
		prevInWall:        make(map[uint32]bool),
	}
}

// RecordFrame folds one tick into the window and returns the detection and
// wall-contact transitions it observed.
func (c *Collector) RecordFrame(f world.Frame, dt float64) []Event {
	c.ticks++
	c.elapsed += dt
	c.simTime += dt
	c.lastTick = f.Tick
	c.entities = len(f.Entities)

	var events []Event
	detected := 0
	observers := 0
	for _, e := range f.Entities {
		if e.Sensing {
			observers++
		}
		if e.Detected {
			detected++
		}
		if e.Detected && !c.prevDetected[e.ID] {
			c.entered++
			events = append(events, NewDetectEnterEvent(f.Tick, e.ID, e.Center.X, e.Center.Y))
		} else if !e.Detected && c.prevDetected[e.ID] {
			c.exited++
			events = append(events, NewDetectExitEvent(f.Tick, e.ID, e.Center.X, e.Center.Y))
		}
		if e.InWall && !c.prevInWall[e.ID] {
			events = append(events, NewWallContactEvent(f.Tick, e.ID, e.Center.X, e.Center.Y))
		}
		c.prevDetected[e.ID] = e.Detected
		c.prevInWall[e.ID] = e.InWall
	}
	c.observers = observers
	c.detectedTicks += detected
	c.maxConcurrent = max(c.maxConcurrent, detected)

	if p, ok := f.PlayerView(); ok {
		c.recordPlayer(p)
	}
	return events
}

func (c *Collector) recordPlayer(p world.EntityView) {
	for q := range c.levels {
		c.levels[q] = append(c.levels[q], float64(p.Levels[q]))
	}

	worst := sensors.Clear
	for _, s := range p.Severities {
		worst = max(worst, s)
	}
	switch worst {
	case sensors.Caution:
		c.cautionTicks++
	case sensors.Alert:
		c.alertTicks++
	}

	if len(p.Measured) > 0 {
		shortest := math.Inf(1)
		for _, d := range p.Measured {
			shortest = math.Min(shortest, d)
		}
		c.wallMins = append(c.wallMins, shortest)
	}
	if p.InWall {
		c.wallContact++
	}

	if c.hasPlayer {
		c.distance += r2.Norm(r2.Sub(p.Position, c.lastPlayer))
	}
	c.lastPlayer = p.Position
	c.hasPlayer = true
}

// RecordEvent counts an event raised outside the frame, e.g. a degenerate aim.
func (c *Collector) RecordEvent(ev Event) {
	if ev.Type == EventDegenerateAim {
		c.degenerateAims++
	}
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.elapsed >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush() WindowStats {
	wallMean, wallStd, wallMin, wallP10 := ComputeWallStats(c.wallMins)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   c.lastTick,
		SimTimeSec:      c.simTime,
		Ticks:           c.ticks,

		Entities:  c.entities,
		Observers: c.observers,

		DetectedTicks: c.detectedTicks,
		Entered:       c.entered,
		Exited:        c.exited,
		MaxConcurrent: c.maxConcurrent,

		FrontMean:    Mean(c.levels[sensors.Front]),
		RightMean:    Mean(c.levels[sensors.Right]),
		BackMean:     Mean(c.levels[sensors.Back]),
		LeftMean:     Mean(c.levels[sensors.Left]),
		CautionTicks: c.cautionTicks,
		AlertTicks:   c.alertTicks,

		WallMean:         wallMean,
		WallStd:          wallStd,
		WallMin:          wallMin,
		WallP10:          wallP10,
		WallContactTicks: c.wallContact,

		Distance:       c.distance,
		DegenerateAims: c.degenerateAims,
	}

	// Reset for next window
	c.windowStartTick = c.lastTick
	c.elapsed = 0
	c.ticks = 0
	c.detectedTicks = 0
	c.entered = 0
	c.exited = 0
	c.maxConcurrent = 0
	c.cautionTicks = 0
	c.alertTicks = 0
	c.wallContact = 0
	c.degenerateAims = 0
	c.distance = 0
	for q := range c.levels {
		c.levels[q] = c.levels[q][:0]
	}
	c.wallMins = c.wallMins[:0]

	return stats
}

// RunID returns the identifier stamped on every window.
func (c *Collector) RunID() string {
	return c.runID
}
