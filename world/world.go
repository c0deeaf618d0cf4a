// Package world owns the entities of one arena and drives the per-tick
// update order: kinematics, wall measurement, detection, classification.
// Frames are read between Step and EndTick; EndTick resets the pie-slice
// tallies so they are observed exactly once per tick.
package world

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/arena"
	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/entity"
)

var (
	// ErrNegativeDelta is returned by Step for dt < 0.
	ErrNegativeDelta = errors.New("world: negative time step")
	// ErrInvalidDelta is returned by Step for a NaN or infinite dt.
	ErrInvalidDelta = errors.New("world: non-finite time step")
	// ErrTickOpen is returned by Step when the previous tick was not ended.
	ErrTickOpen = errors.New("world: previous tick not ended")
	// ErrNoTick is returned by EndTick when no tick is open.
	ErrNoTick = errors.New("world: no open tick")
	// ErrPlayerExists is returned when a second player is spawned.
	ErrPlayerExists = errors.New("world: player already spawned")
	// ErrUnknownEntity is returned for IDs that were never spawned.
	ErrUnknownEntity = errors.New("world: unknown entity")
)

// Step phases, reported to the phase hook in order.
const (
	PhaseKinematics     = "kinematics"
	PhaseWalls          = "walls"
	PhaseSpatialGrid    = "spatial_grid"
	PhaseDetection      = "detection"
	PhaseClassification = "classification"
	PhaseReset          = "reset"
)

// detection is one observer/target pair found during the detection phase.
type detection struct {
	observer *entity.Entity
	relative r2.Vec
}

// World is a bounded arena plus the entities moving through it.
type World struct {
	ecs     *ecs.World
	agents  *ecs.Map2[components.Agent, components.Sensing]
	agentOf *ecs.Map1[components.Agent]
	sensing *ecs.Map1[components.Sensing]
	all     *ecs.Filter2[components.Agent, components.Sensing]

	grid    *arena.Grid
	spatial *SpatialGrid
	params  entity.Params
	width   float64
	height  float64

	byID      map[uint32]ecs.Entity
	nextID    uint32
	player    ecs.Entity
	hasPlayer bool

	tick int64
	open bool

	neighbors  []Neighbor
	detections []detection

	hook func(phase string)
}

// New creates an empty world over grid. Entities spawn with the given size
// and params; cellSize is the spatial grid cell edge.
func New(grid *arena.Grid, p entity.Params, width, height, cellSize float64) *World {
	w := ecs.NewWorld()
	bounds := grid.Bounds()

	return &World{
		ecs:     w,
		agents:  ecs.NewMap2[components.Agent, components.Sensing](w),
		agentOf: ecs.NewMap1[components.Agent](w),
		sensing: ecs.NewMap1[components.Sensing](w),
		all:     ecs.NewFilter2[components.Agent, components.Sensing](w),
		grid:    grid,
		spatial: NewSpatialGrid(bounds.Max.X, bounds.Max.Y, cellSize),
		params:  p,
		width:   width,
		height:  height,
		byID:    make(map[uint32]ecs.Entity),
	}
}

// FromConfig builds the arena, the world and every configured spawn.
func FromConfig(cfg *config.Config) (*World, error) {
	w := New(arena.FromConfig(cfg), entity.ParamsFromConfig(cfg), cfg.Entity.Width, cfg.Entity.Height, cfg.Physics.GridCell)

	for i, s := range cfg.Spawns {
		switch s.Kind {
		case config.SpawnPlayer:
			if _, err := w.SpawnPlayer(s.X, s.Y); err != nil {
				return nil, fmt.Errorf("spawns[%d]: %w", i, err)
			}
		case config.SpawnAutonomous:
			id := w.SpawnAutonomous(s.X, s.Y)
			if s.Sensing {
				if err := w.SetSensing(id, true); err != nil {
					return nil, fmt.Errorf("spawns[%d]: %w", i, err)
				}
			}
		}
	}
	return w, nil
}

// SetPhaseHook registers fn to be called at the start of every Step phase.
func (w *World) SetPhaseHook(fn func(phase string)) {
	w.hook = fn
}

// SpawnPlayer adds the player entity. The player always senses.
func (w *World) SpawnPlayer(x, y float64) (uint32, error) {
	if w.hasPlayer {
		return 0, ErrPlayerExists
	}
	id, e := w.spawn(entity.KindPlayer, x, y, true)
	w.player = e
	w.hasPlayer = true
	return id, nil
}

// SpawnAutonomous adds a non-sensing autonomous entity.
func (w *World) SpawnAutonomous(x, y float64) uint32 {
	id, _ := w.spawn(entity.KindAutonomous, x, y, false)
	return id
}

func (w *World) spawn(kind entity.Kind, x, y float64, sensing bool) (uint32, ecs.Entity) {
	id := w.nextID
	w.nextID++

	agent := components.Agent{ID: id, Body: entity.New(kind, x, y, w.width, w.height, w.params)}
	sense := components.Sensing{Enabled: sensing}
	e := w.agents.NewEntity(&agent, &sense)
	w.byID[id] = e
	return id, e
}

// SetSensing enables or disables the detection pass for an entity.
func (w *World) SetSensing(id uint32, enabled bool) error {
	e, ok := w.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	w.sensing.Get(e).Enabled = enabled
	return nil
}

// Player returns the player entity, if one was spawned.
func (w *World) Player() (*entity.Entity, bool) {
	if !w.hasPlayer {
		return nil, false
	}
	return w.agentOf.Get(w.player).Body, true
}

// PlayerID returns the player's ID, if one was spawned.
func (w *World) PlayerID() (uint32, bool) {
	if !w.hasPlayer {
		return 0, false
	}
	return w.agentOf.Get(w.player).ID, true
}

// Entity returns the entity with the given ID.
func (w *World) Entity(id uint32) (*entity.Entity, bool) {
	e, ok := w.byID[id]
	if !ok {
		return nil, false
	}
	return w.agentOf.Get(e).Body, true
}

// Len returns the number of entities.
func (w *World) Len() int { return len(w.byID) }

// Grid returns the arena tile grid.
func (w *World) Grid() *arena.Grid { return w.grid }

// TickCount returns the number of completed Steps.
func (w *World) TickCount() int64 { return w.tick }

// Open reports whether a tick has been stepped but not ended.
func (w *World) Open() bool { return w.open }

// Step advances every entity by dt and runs the sensing passes.
// Pie-slice tallies accumulate until EndTick.
func (w *World) Step(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidDelta, dt)
	}
	if dt < 0 {
		return fmt.Errorf("%w: %f", ErrNegativeDelta, dt)
	}
	if w.open {
		return ErrTickOpen
	}

	w.phase(PhaseKinematics)
	query := w.all.Query()
	for query.Next() {
		a, _ := query.Get()
		a.Body.Update(dt)
	}

	w.phase(PhaseWalls)
	query = w.all.Query()
	for query.Next() {
		a, _ := query.Get()
		w.measureWalls(a.Body)
	}

	w.phase(PhaseSpatialGrid)
	w.spatial.Clear()
	query = w.all.Query()
	for query.Next() {
		a, _ := query.Get()
		a.Body.ClearDetection()
		w.spatial.Insert(query.Entity(), a.Body.Center())
	}

	w.phase(PhaseDetection)
	w.detections = w.detections[:0]
	query = w.all.Query()
	for query.Next() {
		a, s := query.Get()
		if !s.Enabled {
			continue
		}
		self := a.Body
		sensor := self.AdjacentSensor()
		w.neighbors = w.spatial.QueryRadiusInto(w.neighbors[:0], sensor.Center(), sensor.Radius(), query.Entity(), w.agentOf)
		for _, n := range w.neighbors {
			w.agentOf.Get(n.E).Body.MarkDetected(n.Relative)
			w.detections = append(w.detections, detection{observer: self, relative: n.Relative})
		}
	}

	w.phase(PhaseClassification)
	for _, d := range w.detections {
		d.observer.PieSliceSensor().IdentifyQuadrant(d.observer.Heading(), d.relative)
	}

	w.tick++
	w.open = true
	return nil
}

// measureWalls records the arena distance along each of the entity's rays.
func (w *World) measureWalls(e *entity.Entity) {
	ws := e.WallSensor()
	origin := e.WallSensorOrigin()
	for i := 0; i < ws.Count(); i++ {
		ray, err := ws.Ray(i)
		if err != nil {
			continue
		}
		_ = ws.SetMeasured(i, w.grid.Measure(origin, ray))
	}
}

// EndTick resets every pie-slice tally, closing the tick.
func (w *World) EndTick() error {
	if !w.open {
		return ErrNoTick
	}
	w.phase(PhaseReset)
	query := w.all.Query()
	for query.Next() {
		a, _ := query.Get()
		a.Body.PieSliceSensor().ResetActivationLevels()
	}
	w.open = false
	return nil
}

// Tick runs Step, captures the Frame and ends the tick.
func (w *World) Tick(dt float64) (Frame, error) {
	if err := w.Step(dt); err != nil {
		return Frame{}, err
	}
	f := w.Frame()
	if err := w.EndTick(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Frame captures the observable state of every entity, ordered by ID.
func (w *World) Frame() Frame {
	f := Frame{
		Tick:     w.tick,
		Entities: make([]EntityView, 0, len(w.byID)),
		Player:   -1,
	}

	query := w.all.Query()
	for query.Next() {
		a, s := query.Get()
		f.Entities = append(f.Entities, w.view(a, s))
	}
	sort.Slice(f.Entities, func(i, j int) bool { return f.Entities[i].ID < f.Entities[j].ID })

	for i := range f.Entities {
		if f.Entities[i].Kind == entity.KindPlayer {
			f.Player = i
		}
	}
	return f
}

// Each calls fn for every entity in ID order.
func (w *World) Each(fn func(id uint32, e *entity.Entity)) {
	ids := make([]uint32, 0, len(w.byID))
	for id := range w.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(id, w.agentOf.Get(w.byID[id]).Body)
	}
}

func (w *World) phase(name string) {
	if w.hook != nil {
		w.hook(name)
	}
}
