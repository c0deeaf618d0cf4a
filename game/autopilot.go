package game

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/geom"
	"github.com/pthm-cable/arena/input"
)

// Autopilot drives the player in headless runs. It picks a waypoint inside
// the arena, aims at it and holds a random key combination until the
// waypoint is reached or the plan expires. Outside the bounds it only walks
// forward, toward the waypoint. The same seed always produces the same
// sequence of key events.
type Autopilot struct {
	rng      *rand.Rand
	bounds   r2.Box
	interval float64
	reach    float64

	timer    float64
	waypoint r2.Vec
	homing   bool
	held     [input.KeyDebug]bool
}

// NewAutopilot creates a pilot that picks waypoints inside bounds and
// re-plans at least every interval seconds.
func NewAutopilot(seed int64, bounds r2.Box, interval, reach float64) *Autopilot {
	if interval <= 0 {
		interval = 2
	}
	return &Autopilot{
		rng:      rand.New(rand.NewSource(seed)),
		bounds:   bounds,
		interval: interval,
		reach:    reach,
	}
}

// Next advances the pilot by dt with the player at center. It returns the
// key transitions to apply this tick and the point to aim at.
func (a *Autopilot) Next(dt float64, center r2.Vec) ([]input.Event, r2.Vec) {
	a.timer -= dt
	outside := !geom.Contains(a.bounds, center)
	if a.timer > 0 && r2.Norm(r2.Sub(a.waypoint, center)) > a.reach && (a.homing || !outside) {
		return nil, a.waypoint
	}

	a.timer = a.interval
	a.waypoint = r2.Vec{
		X: a.bounds.Min.X + a.rng.Float64()*(a.bounds.Max.X-a.bounds.Min.X),
		Y: a.bounds.Min.Y + a.rng.Float64()*(a.bounds.Max.Y-a.bounds.Min.Y),
	}

	var want [input.KeyDebug]bool
	a.homing = outside
	if outside {
		want[input.KeyForward] = true
	} else {
		switch r := a.rng.Float64(); {
		case r < 0.6:
			want[input.KeyForward] = true
		case r < 0.7:
			want[input.KeyBack] = true
		}
		switch a.rng.Intn(4) {
		case 0:
			want[input.KeyLeft] = true
		case 1:
			want[input.KeyRight] = true
		}
	}

	var events []input.Event
	for k := range want {
		switch {
		case a.held[k] && !want[k]:
			events = append(events, input.Event{Key: input.Key(k), Action: input.Release})
		case !a.held[k] && want[k]:
			events = append(events, input.Event{Key: input.Key(k), Action: input.Press})
		}
	}
	a.held = want
	return events, a.waypoint
}

// Waypoint returns the current target.
func (a *Autopilot) Waypoint() r2.Vec { return a.waypoint }
