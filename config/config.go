// Package config provides configuration loading and access for the arena.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure returned from Load.
var ErrInvalid = errors.New("config: invalid value")

// Spawn kinds accepted in the spawns list.
const (
	SpawnPlayer     = "player"
	SpawnAutonomous = "autonomous"
)

// Config holds all arena configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Arena     ArenaConfig     `yaml:"arena"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Entity    EntityConfig    `yaml:"entity"`
	Sensors   SensorsConfig   `yaml:"sensors"`
	Spawns    []SpawnConfig   `yaml:"spawns"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig describes the tile grid. Border tiles are walls.
type ArenaConfig struct {
	TileSize float64 `yaml:"tile_size"`
	Cols     int     `yaml:"cols"` // 0 = fill screen width
	Rows     int     `yaml:"rows"` // 0 = fill screen height
}

// PhysicsConfig holds stepping parameters.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`        // fixed step for headless runs
	MaxDT    float64 `yaml:"max_dt"`    // frame delta clamp in windowed mode
	GridCell float64 `yaml:"grid_cell"` // spatial grid cell size
}

// EntityConfig holds kinematic parameters shared by all entities.
type EntityConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	BaseVelocity   float64 `yaml:"base_velocity"`
	DiagonalFactor float64 `yaml:"diagonal_factor"` // applied to the intent when both axes are held
}

// SensorsConfig groups the three sensor types.
type SensorsConfig struct {
	Wall     WallSensorConfig     `yaml:"wall"`
	Adjacent AdjacentSensorConfig `yaml:"adjacent"`
	PieSlice PieSliceConfig       `yaml:"pie_slice"`
}

// WallSensorConfig describes the ray fan.
type WallSensorConfig struct {
	RayCount    int       `yaml:"ray_count"`
	LengthScale float64   `yaml:"length_scale"` // ray length = width*scale + pad
	LengthPad   float64   `yaml:"length_pad"`
	Offsets     []float64 `yaml:"offsets"` // degrees from heading; empty = evenly spaced
}

// AdjacentSensorConfig describes the detection circle.
type AdjacentSensorConfig struct {
	RadiusScale float64 `yaml:"radius_scale"` // radius = width*scale
}

// PieSliceConfig holds pie-slice presentation parameters.
type PieSliceConfig struct {
	BoundaryScale float64 `yaml:"boundary_scale"` // drawn boundary length as a fraction of the adjacent radius
}

// SpawnConfig places one entity at startup.
type SpawnConfig struct {
	Kind    string  `yaml:"kind"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Sensing bool    `yaml:"sensing"` // run detection for this entity (always on for the player)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of sim time per window
	PerfWindow  int     `yaml:"perf_window"`  // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32   // Physics.DT as float32
	ArenaCols   int       // effective column count
	ArenaRows   int       // effective row count
	ArenaW      float64   // ArenaCols * TileSize
	ArenaH      float64   // ArenaRows * TileSize
	RayLength   float64   // wall sensor length for Entity.Width
	RayOffsets  []float64 // effective wall sensor offsets
	AdjRadius   float64   // adjacent sensor radius for Entity.Width
	BoundaryLen float64   // pie-slice boundary draw length
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Overlay(cfg, data); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Overlay unmarshals data into cfg, overwriting only the fields present in data.
// The spawns list is replaced wholesale when present.
func Overlay(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Refresh re-validates cfg and recomputes the derived values after fields
// were changed in code.
func (c *Config) Refresh() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// validate rejects values the core cannot run with.
func (c *Config) validate() error {
	wall := c.Sensors.Wall
	if wall.RayCount <= 0 {
		return fmt.Errorf("%w: sensors.wall.ray_count must be positive, got %d", ErrInvalid, wall.RayCount)
	}
	if len(wall.Offsets) > 0 && len(wall.Offsets) != wall.RayCount {
		return fmt.Errorf("%w: sensors.wall.offsets has %d entries, ray_count is %d", ErrInvalid, len(wall.Offsets), wall.RayCount)
	}
	if c.Sensors.Adjacent.RadiusScale < 0 {
		return fmt.Errorf("%w: sensors.adjacent.radius_scale must be non-negative", ErrInvalid)
	}
	if c.Entity.Width <= 0 || c.Entity.Height <= 0 {
		return fmt.Errorf("%w: entity size must be positive", ErrInvalid)
	}
	if c.Arena.TileSize <= 0 {
		return fmt.Errorf("%w: arena.tile_size must be positive", ErrInvalid)
	}
	if c.Arena.Cols < 0 || c.Arena.Rows < 0 {
		return fmt.Errorf("%w: arena.cols and arena.rows must be non-negative, got %dx%d", ErrInvalid, c.Arena.Cols, c.Arena.Rows)
	}
	if cols, rows := c.arenaSize(); cols <= 0 || rows <= 0 {
		return fmt.Errorf("%w: arena resolves to %dx%d tiles", ErrInvalid, cols, rows)
	}
	if c.Physics.DT < 0 {
		return fmt.Errorf("%w: physics.dt must be non-negative", ErrInvalid)
	}
	if !(c.Physics.GridCell > 0) {
		return fmt.Errorf("%w: physics.grid_cell must be positive, got %g", ErrInvalid, c.Physics.GridCell)
	}

	players := 0
	for i, s := range c.Spawns {
		switch s.Kind {
		case SpawnPlayer:
			players++
		case SpawnAutonomous:
		default:
			return fmt.Errorf("%w: spawns[%d] has unknown kind %q", ErrInvalid, i, s.Kind)
		}
	}
	if players > 1 {
		return fmt.Errorf("%w: at most one player spawn, got %d", ErrInvalid, players)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)

	cols, rows := c.arenaSize()
	c.Derived.ArenaCols = cols
	c.Derived.ArenaRows = rows
	c.Derived.ArenaW = float64(cols) * c.Arena.TileSize
	c.Derived.ArenaH = float64(rows) * c.Arena.TileSize

	wall := c.Sensors.Wall
	c.Derived.RayLength = c.Entity.Width*wall.LengthScale + wall.LengthPad

	offsets := wall.Offsets
	if len(offsets) == 0 {
		offsets = make([]float64, wall.RayCount)
		step := 360.0 / float64(wall.RayCount)
		for i := range offsets {
			offsets[i] = float64(i) * step
		}
	}
	c.Derived.RayOffsets = offsets

	c.Derived.AdjRadius = c.Entity.Width * c.Sensors.Adjacent.RadiusScale
	c.Derived.BoundaryLen = c.Derived.AdjRadius * c.Sensors.PieSlice.BoundaryScale
}

// arenaSize resolves the tile counts, filling the screen for zero values.
func (c *Config) arenaSize() (cols, rows int) {
	cols, rows = c.Arena.Cols, c.Arena.Rows
	if cols == 0 {
		cols = int(float64(c.Screen.Width) / c.Arena.TileSize)
	}
	if rows == 0 {
		rows = int(float64(c.Screen.Height) / c.Arena.TileSize)
	}
	return cols, rows
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
