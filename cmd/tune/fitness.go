package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/game"
	"github.com/pthm-cable/arena/telemetry"
)

// invalidFitness is returned for parameter vectors that cannot be run.
const invalidFitness = 1e9

// Targets are the exposure rates a tuned configuration should produce.
type Targets struct {
	Warn float64 // fraction of player ticks with a caution or alert boundary
	Wall float64 // mean shortest wall ray as a fraction of the full ray length
}

// FitnessEvaluator runs headless autopilot sessions and scores how far
// their exposure rates are from the targets.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	configPath  string
	targets     Targets
	statsWindow float64

	mu       sync.Mutex
	lastWarn float64
	lastWall float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, configPath string, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		configPath:  configPath,
		targets:     targets,
		statsWindow: 10.0,
	}
}

// LastRates returns the mean rates from the most recent evaluation.
func (fe *FitnessEvaluator) LastRates() (warn, wall float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastWarn, fe.lastWall
}

// seedResult holds the rates from one seed.
type seedResult struct {
	warn, wall float64
	err        error
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; each builds its own config and game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			warn, wall, err := fe.runSimulation(x, s)
			results[idx] = seedResult{warn: warn, wall: wall, err: err}
		}(i, seed)
	}
	wg.Wait()

	var warnSum, wallSum float64
	for _, r := range results {
		if r.err != nil {
			slog.Error("evaluation failed", "error", r.err)
			return invalidFitness
		}
		warnSum += r.warn
		wallSum += r.wall
	}

	n := float64(len(fe.seeds))
	warn, wall := warnSum/n, wallSum/n

	fe.mu.Lock()
	fe.lastWarn, fe.lastWall = warn, wall
	fe.mu.Unlock()

	return fe.targets.score(warn, wall)
}

// score is the squared distance of the measured rates from the targets.
func (t Targets) score(warn, wall float64) float64 {
	dw := warn - t.Warn
	dl := wall - t.Wall
	return dw*dw + dl*dl
}

// runSimulation executes one headless run and returns its exposure rates.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (warn, wall float64, err error) {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		return 0, 0, err
	}
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return 0, 0, err
	}

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return 0, 0, err
	}

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	g.Unload()

	warn, wall = exposureRates(windows, cfg.Derived.RayLength)
	return warn, wall, nil
}

// exposureRates folds window stats into tick-weighted warning and wall rates.
func exposureRates(windows []telemetry.WindowStats, rayLength float64) (warn, wall float64) {
	var ticks, warned int
	var wallSum float64
	for _, w := range windows {
		ticks += w.Ticks
		warned += w.CautionTicks + w.AlertTicks
		wallSum += w.WallMean * float64(w.Ticks)
	}
	if ticks == 0 || rayLength <= 0 {
		return 0, 0
	}
	warn = float64(warned) / float64(ticks)
	wall = clamp01(wallSum / float64(ticks) / rayLength)
	return warn, wall
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
