package game

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/entity"
	"github.com/pthm-cable/arena/input"
	"github.com/pthm-cable/arena/telemetry"
)

// UpdateHeadless advances StepsPerUpdate fixed ticks with the autopilot
// driving the player.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(g.cfg.Physics.DT, g.driveAutopilot)
	}
}

// step runs one full tick: input, world step, telemetry, reset.
func (g *Game) step(dt float64, drive func()) {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	drive()

	if err := g.world.Step(dt); err != nil {
		slog.Error("world step failed", "tick", g.world.TickCount(), "error", err)
		g.perfCollector.EndTick()
		return
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.frame = g.world.Frame()
	g.recordFrame(dt)

	if err := g.world.EndTick(); err != nil {
		slog.Error("world end tick failed", "tick", g.world.TickCount(), "error", err)
	}
	g.perfCollector.EndTick()

	g.flushTelemetry()
}

// driveAutopilot feeds the pilot's plan through the input handler.
func (g *Game) driveAutopilot() {
	player, ok := g.world.Player()
	if !ok {
		return
	}
	events, aim := g.pilot.Next(g.cfg.Physics.DT, player.Center())
	g.input.Apply(player, events)
	g.aim(player, aim)
}

// aim turns the player toward a world point. A point at the player's own
// center keeps the previous heading and is recorded as an event.
func (g *Game) aim(player *entity.Entity, p r2.Vec) {
	err := g.input.Aim(player, p.X, p.Y)
	if err == nil {
		return
	}
	if !errors.Is(err, entity.ErrDegenerateDirection) {
		slog.Error("aim failed", "error", err)
		return
	}

	id, _ := g.world.PlayerID()
	slog.Debug("degenerate aim", "tick", g.world.TickCount(), "entity", id, "x", p.X, "y", p.Y)
	g.pending = append(g.pending, telemetry.NewDegenerateAimEvent(g.world.TickCount(), id, p.X, p.Y))
}

// applyKeys feeds key transitions to the player, or only the debug toggle
// when there is no player.
func (g *Game) applyKeys(events []input.Event) {
	if len(events) == 0 {
		return
	}
	if player, ok := g.world.Player(); ok {
		g.input.Apply(player, events)
		return
	}
	for _, ev := range events {
		if ev.Key == input.KeyDebug && ev.Action == input.Press {
			g.input.SetDebug(!g.input.Debug())
		}
	}
}
