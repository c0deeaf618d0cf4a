package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/arena"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/entity"
	"github.com/pthm-cable/arena/world"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the observable arena state at one tick.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	RNGSeed int64  `json:"rng_seed"`

	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	TileSize float64 `json:"tile_size"`
	Walls    []Tile  `json:"walls"` // interior obstacles only

	Tick int64 `json:"tick"`

	Entities []EntityState `json:"entities"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// Tile is a wall tile coordinate.
type Tile struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// EntityState holds one entity's observable state.
type EntityState struct {
	ID      uint32 `json:"id"`
	Kind    string `json:"kind"`
	Sensing bool   `json:"sensing"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	HeadingX float64 `json:"heading_x"`
	HeadingY float64 `json:"heading_y"`
	VelX     float64 `json:"vel_x"`
	VelY     float64 `json:"vel_y"`

	Detected bool      `json:"detected"`
	Levels   [4]int    `json:"levels"`
	Measured []float64 `json:"measured"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	FirstSeenTick     int64   `json:"first_seen_tick"`
	FirstDetectedTick int64   `json:"first_detected_tick"`
	Ticks             int     `json:"ticks"`
	DetectedTicks     int     `json:"detected_ticks"`
	Detections        int     `json:"detections"`
	WallContacts      int     `json:"wall_contacts"`
	Distance          float64 `json:"distance"`
	PeakLevel         int     `json:"peak_level"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		FirstSeenTick:     ls.FirstSeenTick,
		FirstDetectedTick: ls.FirstDetectedTick,
		Ticks:             ls.Ticks,
		DetectedTicks:     ls.DetectedTicks,
		Detections:        ls.Detections,
		WallContacts:      ls.WallContacts,
		Distance:          ls.Distance,
		PeakLevel:         ls.PeakLevel,
	}
}

// NewSnapshot captures a frame together with the arena layout and lifetime stats.
// lt may be nil.
func NewSnapshot(runID string, seed int64, f world.Frame, grid *arena.Grid, lt *LifetimeTracker) *Snapshot {
	s := &Snapshot{
		Version:  SnapshotVersion,
		RunID:    runID,
		RNGSeed:  seed,
		Cols:     grid.Cols(),
		Rows:     grid.Rows(),
		TileSize: grid.TileSize(),
		Tick:     f.Tick,
		Entities: make([]EntityState, 0, len(f.Entities)),
	}

	grid.ForEachTile(func(col, row int, wall bool) {
		border := col == 0 || row == 0 || col == grid.Cols()-1 || row == grid.Rows()-1
		if wall && !border {
			s.Walls = append(s.Walls, Tile{Col: col, Row: row})
		}
	})

	for _, e := range f.Entities {
		es := EntityState{
			ID:       e.ID,
			Kind:     e.Kind.String(),
			Sensing:  e.Sensing,
			X:        e.Position.X,
			Y:        e.Position.Y,
			HeadingX: e.Heading.X,
			HeadingY: e.Heading.Y,
			VelX:     e.Velocity.X,
			VelY:     e.Velocity.Y,
			Detected: e.Detected,
			Levels:   e.Levels,
			Measured: e.Measured,
		}
		if lt != nil {
			es.Lifetime = lt.Get(e.ID).ToJSON()
		}
		s.Entities = append(s.Entities, es)
	}
	return s
}

// Spawns returns spawn entries that recreate the snapshot's entities.
func (s *Snapshot) Spawns() []config.SpawnConfig {
	spawns := make([]config.SpawnConfig, 0, len(s.Entities))
	for _, e := range s.Entities {
		kind := config.SpawnAutonomous
		if e.Kind == entity.KindPlayer.String() {
			kind = config.SpawnPlayer
		}
		spawns = append(spawns, config.SpawnConfig{Kind: kind, X: e.X, Y: e.Y, Sensing: e.Sensing})
	}
	return spawns
}

// Apply rewrites the arena size and spawn list of cfg so that a world built
// from it recreates the snapshot's entities in ID order.
func (s *Snapshot) Apply(cfg *config.Config) error {
	cfg.Arena.Cols = s.Cols
	cfg.Arena.Rows = s.Rows
	cfg.Arena.TileSize = s.TileSize
	cfg.Spawns = s.Spawns()
	if err := cfg.Refresh(); err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}
	return nil
}

// Restore marks the interior walls and points every entity at its captured
// heading. w must have been built from a config passed through Apply.
func (s *Snapshot) Restore(w *world.World) error {
	if w.Len() != len(s.Entities) {
		return fmt.Errorf("restore: world has %d entities, snapshot has %d", w.Len(), len(s.Entities))
	}
	for _, t := range s.Walls {
		if err := w.Grid().SetWall(t.Col, t.Row, true); err != nil {
			return fmt.Errorf("restore wall (%d,%d): %w", t.Col, t.Row, err)
		}
	}

	var err error
	w.Each(func(id uint32, e *entity.Entity) {
		if int(id) >= len(s.Entities) {
			if err == nil {
				err = fmt.Errorf("restore: entity %d has no snapshot state", id)
			}
			return
		}
		es := s.Entities[id]
		heading := r2.Vec{X: es.HeadingX, Y: es.HeadingY}
		if aimErr := e.RotateToFace(r2.Add(e.Center(), heading)); aimErr != nil && err == nil {
			err = fmt.Errorf("restore entity %d: %w", id, aimErr)
			return
		}
		e.Update(0)
	})
	return err
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}

	return &snapshot, nil
}
