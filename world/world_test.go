package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/arena/arena"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/entity"
	"github.com/pthm-cable/arena/geom"
	"github.com/pthm-cable/arena/sensors"
)

// newTestWorld returns a 32x20 tile arena with 32 unit entities.
func newTestWorld() *World {
	return New(arena.New(32, 20, 32), entity.DefaultParams(), 32, 32, 128)
}

func TestPlayerDetectsAutonomousInFront(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(100, 100)
	require.NoError(t, err)
	other := w.SpawnAutonomous(200, 100)

	require.NoError(t, w.Step(0))
	f := w.Frame()

	require.Len(t, f.Entities, 2)
	pv, ok := f.PlayerView()
	require.True(t, ok)
	assert.Equal(t, 1, pv.Levels[sensors.Front])
	assert.Equal(t, sensors.Caution, pv.Severities[sensors.FrontLeft])
	assert.False(t, pv.Detected, "player is not observed by a sensing entity")

	ov := f.Entities[other]
	assert.True(t, ov.Detected)
	assert.Equal(t, geom.V(100, 0), ov.Relative)

	require.NoError(t, w.EndTick())
	p, _ := w.Player()
	assert.Equal(t, [sensors.NumQuadrants]int{}, p.PieSliceSensor().Levels())
}

func TestDetectionRadiusIsInclusive(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want bool
	}{
		{"inside", 200, true},
		{"exactly on radius", 228, true}, // centers 116 and 244
		{"just outside", 228.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld()
			_, err := w.SpawnPlayer(100, 100)
			require.NoError(t, err)
			id := w.SpawnAutonomous(tt.x, 100)

			f, err := w.Tick(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Entities[id].Detected)
		})
	}
}

func TestQuadrantTally(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(300, 300) // center (316,316), facing +X
	require.NoError(t, err)
	w.SpawnAutonomous(350, 300) // front
	w.SpawnAutonomous(380, 310) // front
	w.SpawnAutonomous(300, 240) // straight down: right of +X

	f, err := w.Tick(0)
	require.NoError(t, err)

	pv, _ := f.PlayerView()
	assert.Equal(t, [sensors.NumQuadrants]int{sensors.Front: 2, sensors.Right: 1}, pv.Levels)
	assert.Equal(t, sensors.Alert, pv.Severities[sensors.FrontRight])
	assert.Equal(t, sensors.Caution, pv.Severities[sensors.BackRight])
	assert.Equal(t, sensors.Clear, pv.Severities[sensors.BackLeft])
	assert.Equal(t, 3, f.DetectedCount())

	// Levels reset between ticks, so a static scene tallies the same counts.
	f, err = w.Tick(0)
	require.NoError(t, err)
	pv, _ = f.PlayerView()
	assert.Equal(t, [sensors.NumQuadrants]int{sensors.Front: 2, sensors.Right: 1}, pv.Levels)
}

func TestTickLifecycleErrors(t *testing.T) {
	w := newTestWorld()

	assert.ErrorIs(t, w.EndTick(), ErrNoTick)
	assert.ErrorIs(t, w.Step(-0.1), ErrNegativeDelta)
	assert.ErrorIs(t, w.Step(math.NaN()), ErrInvalidDelta)
	assert.ErrorIs(t, w.Step(math.Inf(1)), ErrInvalidDelta)
	assert.ErrorIs(t, w.Step(math.Inf(-1)), ErrInvalidDelta)
	assert.False(t, w.Open())
	assert.Zero(t, w.TickCount())

	require.NoError(t, w.Step(0.016))
	assert.True(t, w.Open())
	assert.ErrorIs(t, w.Step(0.016), ErrTickOpen)

	require.NoError(t, w.EndTick())
	assert.False(t, w.Open())
	assert.Equal(t, int64(1), w.TickCount())
}

func TestOnlySensingEntitiesDetect(t *testing.T) {
	w := newTestWorld()
	a := w.SpawnAutonomous(200, 200)
	b := w.SpawnAutonomous(240, 200)

	f, err := w.Tick(0)
	require.NoError(t, err)
	assert.Zero(t, f.DetectedCount())

	require.NoError(t, w.SetSensing(a, true))
	f, err = w.Tick(0)
	require.NoError(t, err)
	assert.True(t, f.Entities[b].Detected)
	assert.False(t, f.Entities[a].Detected)
	assert.True(t, f.Entities[a].Sensing)

	assert.ErrorIs(t, w.SetSensing(99, true), ErrUnknownEntity)
}

func TestDetectionFlagIsOredAcrossObservers(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(100, 100)
	require.NoError(t, err)
	second := w.SpawnAutonomous(300, 100) // out of the player's range
	target := w.SpawnAutonomous(200, 100) // in range of both observers
	require.NoError(t, w.SetSensing(second, true))

	f, err := w.Tick(0)
	require.NoError(t, err)
	assert.True(t, f.Entities[target].Detected)
	assert.False(t, f.Entities[second].Detected)
	pv, _ := f.PlayerView()
	assert.Equal(t, 1, pv.Levels[sensors.Front])
	assert.Equal(t, 1, f.Entities[second].Levels[sensors.Back])
}

func TestDetectionClearsWhenOutOfRange(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(100, 100)
	require.NoError(t, err)
	id := w.SpawnAutonomous(200, 100)

	f, err := w.Tick(0)
	require.NoError(t, err)
	require.True(t, f.Entities[id].Detected)

	// Player walks backwards out of range.
	p, _ := w.Player()
	p.MoveDown()
	f, err = w.Tick(1)
	require.NoError(t, err)
	assert.False(t, f.Entities[id].Detected)
}

func TestWallMeasurement(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(100, 100) // center (116,116), interior starts at 32
	require.NoError(t, err)

	f, err := w.Tick(0)
	require.NoError(t, err)
	pv, _ := f.PlayerView()

	require.Len(t, pv.Measured, sensors.DefaultRayCount)
	assert.InDelta(t, 176, pv.Measured[0], 1e-9, "east wall is beyond the ray")
	assert.InDelta(t, 176, pv.Measured[2], 1e-9, "north wall is beyond the ray")
	assert.InDelta(t, 84, pv.Measured[4], 1e-9, "west wall")
	assert.InDelta(t, 84, pv.Measured[6], 1e-9, "south wall")
	assert.False(t, pv.InWall)
}

func TestFrameIsACopy(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(100, 100)
	require.NoError(t, err)

	f, err := w.Tick(0)
	require.NoError(t, err)
	pv, _ := f.PlayerView()
	pv.Rays[0] = geom.V(-1, -1)
	pv.Measured[0] = -1

	p, _ := w.Player()
	ray, _ := p.WallSensor().Ray(0)
	assert.NotEqual(t, geom.V(-1, -1), ray)
	d, _ := p.WallSensor().Measured(0)
	assert.NotEqual(t, -1.0, d)
}

func TestPhaseHookOrder(t *testing.T) {
	w := newTestWorld()
	var phases []string
	w.SetPhaseHook(func(p string) { phases = append(phases, p) })

	_, err := w.Tick(0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		PhaseKinematics, PhaseWalls, PhaseSpatialGrid,
		PhaseDetection, PhaseClassification, PhaseReset,
	}, phases)
}

func TestSpawnPlayerOnce(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(100, 100)
	require.NoError(t, err)
	_, err = w.SpawnPlayer(200, 200)
	assert.ErrorIs(t, err, ErrPlayerExists)
	assert.Equal(t, 1, w.Len())

	id, ok := w.PlayerID()
	require.True(t, ok)
	assert.Equal(t, uint32(0), id)
	_, ok = newTestWorld().PlayerID()
	assert.False(t, ok)
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	w, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, len(cfg.Spawns), w.Len())

	f, err := w.Tick(cfg.Physics.DT)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Player)
	assert.Zero(t, f.DetectedCount(), "default spawns start out of range")

	var ids []uint32
	w.Each(func(id uint32, _ *entity.Entity) { ids = append(ids, id) })
	assert.Equal(t, []uint32{0, 1, 2}, ids)
}

func TestEntityOutsideArenaStillDetected(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(0, 0)
	require.NoError(t, err)
	id := w.SpawnAutonomous(-60, -20)

	f, err := w.Tick(0)
	require.NoError(t, err)
	assert.True(t, f.Entities[id].Detected)
	assert.True(t, f.Entities[id].InWall)
}

func TestNonFiniteDeltaLeavesEntitiesUntouched(t *testing.T) {
	w := newTestWorld()
	_, err := w.SpawnPlayer(100, 100)
	require.NoError(t, err)
	p, _ := w.Player()
	p.MoveUp()

	_, err = w.Tick(math.NaN())
	require.ErrorIs(t, err, ErrInvalidDelta)
	assert.Equal(t, geom.V(100, 100), p.Position())

	f, err := w.Tick(0.1)
	require.NoError(t, err)
	pv, _ := f.PlayerView()
	assert.InDelta(t, 112.5, pv.Position.X, 1e-9)
}

func TestDegenerateCellSizeStillDetects(t *testing.T) {
	for _, cell := range []float64{0, -64, math.NaN()} {
		w := New(arena.New(32, 20, 32), entity.DefaultParams(), 32, 32, cell)
		_, err := w.SpawnPlayer(100, 100)
		require.NoError(t, err)
		id := w.SpawnAutonomous(150, 100)

		f, err := w.Tick(0.016)
		require.NoError(t, err)
		assert.True(t, f.Entities[id].Detected, "cell size %v", cell)
		pv, _ := f.PlayerView()
		assert.Equal(t, 1, pv.Levels[sensors.Front], "cell size %v", cell)
	}
}
