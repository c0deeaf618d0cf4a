// Package game wires the world, input, camera, renderer and telemetry into
// one run. Headless runs never touch raylib.
package game

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/camera"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/input"
	"github.com/pthm-cable/arena/renderer"
	"github.com/pthm-cable/arena/telemetry"
	"github.com/pthm-cable/arena/world"
)

// autopilotInterval is how long the headless pilot holds one plan, in seconds.
const autopilotInterval = 3.0

// Options holds runtime options for the game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = Telemetry.StatsWindow
	SnapshotDir    string  // empty = <OutputDir>/snapshots when output is enabled
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	StatsCallback  func(telemetry.WindowStats)
	Restore        *telemetry.Snapshot // applied to Config before the world is built
}

// Game holds the complete run state.
type Game struct {
	cfg   *config.Config
	world *world.World
	input *input.Handler
	pilot *Autopilot // headless only
	seed  int64

	// Presentation, nil when headless
	camera   *camera.Camera
	renderer *renderer.Renderer

	screenWidth, screenHeight float32
	following                 bool

	frame world.Frame // last completed tick

	// Telemetry
	runID            string
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	pending          []telemetry.Event // raised during the input phase

	headless       bool
	paused         bool
	stepsPerUpdate int
}

// NewGameWithOptions creates a game from the loaded configuration.
// In windowed mode the raylib window must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	if opts.Restore != nil {
		if err := opts.Restore.Apply(cfg); err != nil {
			return nil, err
		}
	}

	w, err := world.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	if opts.Restore != nil {
		if err := opts.Restore.Restore(w); err != nil {
			return nil, err
		}
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	runID := telemetry.NewRunID()
	om, err := telemetry.NewOutputManager(opts.OutputDir, runID)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	g := &Game{
		cfg:              cfg,
		world:            w,
		input:            input.NewHandler(),
		seed:             opts.Seed,
		runID:            runID,
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:        telemetry.NewCollector(runID, statsWindow),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		outputManager:    om,
		snapshotDir:      opts.SnapshotDir,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
		headless:         opts.Headless,
		stepsPerUpdate:   max(1, opts.StepsPerUpdate),
		frame:            world.Frame{Player: -1},
	}
	if g.snapshotDir == "" {
		g.snapshotDir = om.SnapshotDir()
	}
	w.SetPhaseHook(g.perfCollector.StartPhase)

	bounds := w.Grid().Bounds()
	if opts.Headless {
		g.pilot = NewAutopilot(opts.Seed, interior(bounds, cfg.Arena.TileSize+cfg.Entity.Width), autopilotInterval, cfg.Entity.Width)
	} else {
		g.screenWidth = float32(cfg.Screen.Width)
		g.screenHeight = float32(cfg.Screen.Height)
		g.camera = camera.New(float64(g.screenWidth), float64(g.screenHeight), bounds)
		g.renderer = renderer.New(cfg.Sensors.PieSlice.BoundaryScale)
	}

	slog.Info("game created",
		"run_id", runID,
		"seed", opts.Seed,
		"cols", w.Grid().Cols(),
		"rows", w.Grid().Rows(),
		"entities", w.Len(),
		"headless", opts.Headless,
		"output_dir", om.Dir(),
	)
	return g, nil
}

// interior shrinks a box by margin on every side.
func interior(b r2.Box, margin float64) r2.Box {
	m := r2.Vec{X: margin, Y: margin}
	in := r2.Box{Min: r2.Add(b.Min, m), Max: r2.Sub(b.Max, m)}
	if in.Min.X > in.Max.X || in.Min.Y > in.Max.Y {
		c := r2.Scale(0.5, r2.Add(b.Min, b.Max))
		return r2.Box{Min: c, Max: c}
	}
	return in
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int64 { return g.world.TickCount() }

// Frame returns the frame captured by the last tick.
func (g *Game) Frame() world.Frame { return g.frame }

// World returns the simulated world.
func (g *Game) World() *world.World { return g.world }

// RunID returns the identifier stamped on this run's output.
func (g *Game) RunID() string { return g.runID }

// Unload flushes the partial stats window and closes output files.
func (g *Game) Unload() {
	if stats := g.collector.Flush(); stats.Ticks > 0 {
		g.writeWindow(stats)
	}
	slog.Info("run finished",
		"run_id", g.runID,
		"ticks", g.world.TickCount(),
		"tracked", g.lifetimeTracker.Count(),
	)
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
