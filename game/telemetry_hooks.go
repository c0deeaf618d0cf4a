package game

import (
	"log/slog"

	"github.com/pthm-cable/arena/telemetry"
)

// recordFrame folds the current frame into the collectors and writes the
// tick's events.
func (g *Game) recordFrame(dt float64) {
	events := g.collector.RecordFrame(g.frame, dt)
	g.lifetimeTracker.Observe(g.frame)

	for _, ev := range g.pending {
		g.collector.RecordEvent(ev)
	}
	events = append(events, g.pending...)
	g.pending = g.pending[:0]

	for _, ev := range events {
		g.lifetimeTracker.Record(ev)
		slog.Debug("event",
			"type", ev.Type.String(),
			"tick", ev.Tick,
			"entity", ev.EntityID,
			"x", ev.X,
			"y", ev.Y,
		)
	}
	if err := g.outputManager.WriteEvents(events); err != nil {
		slog.Error("failed to write events", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush() {
		return
	}
	g.writeWindow(g.collector.Flush())
}

// writeWindow reports one closed stats window and any bookmarks it triggers.
func (g *Game) writeWindow(stats telemetry.WindowStats) {
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the last frame to the snapshot directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := telemetry.NewSnapshot(g.runID, g.seed, g.frame, g.world.Grid(), g.lifetimeTracker)
	snapshot.Bookmark = bookmark

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", snapshot.Tick)
}
