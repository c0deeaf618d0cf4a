package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Entity.BaseVelocity != 125 {
		t.Errorf("base velocity = %f, want 125", cfg.Entity.BaseVelocity)
	}
	if cfg.Entity.DiagonalFactor != 0.5 {
		t.Errorf("diagonal factor = %f, want 0.5", cfg.Entity.DiagonalFactor)
	}
	if cfg.Derived.RayLength != 32*5+16 {
		t.Errorf("ray length = %f, want %d", cfg.Derived.RayLength, 32*5+16)
	}
	if len(cfg.Derived.RayOffsets) != 8 {
		t.Fatalf("ray offsets = %v, want 8 entries", cfg.Derived.RayOffsets)
	}
	if cfg.Derived.RayOffsets[1] != 45 {
		t.Errorf("second offset = %f, want 45", cfg.Derived.RayOffsets[1])
	}
	if cfg.Derived.ArenaCols != 32 || cfg.Derived.ArenaRows != 20 {
		t.Errorf("arena = %dx%d, want 32x20", cfg.Derived.ArenaCols, cfg.Derived.ArenaRows)
	}
	if cfg.Derived.AdjRadius != 128 {
		t.Errorf("adjacent radius = %f, want 128", cfg.Derived.AdjRadius)
	}
	if len(cfg.Spawns) == 0 || cfg.Spawns[0].Kind != SpawnPlayer {
		t.Errorf("expected first default spawn to be the player, got %+v", cfg.Spawns)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	data := []byte(`
entity:
  base_velocity: 200
sensors:
  wall:
    ray_count: 3
    offsets: [0, 120, 240]
spawns:
  - kind: player
    x: 50
    y: 60
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Entity.BaseVelocity != 200 {
		t.Errorf("base velocity = %f, want 200", cfg.Entity.BaseVelocity)
	}
	// Untouched keys keep their defaults.
	if cfg.Entity.DiagonalFactor != 0.5 {
		t.Errorf("diagonal factor = %f, want default 0.5", cfg.Entity.DiagonalFactor)
	}
	if got := cfg.Derived.RayOffsets; len(got) != 3 || got[2] != 240 {
		t.Errorf("ray offsets = %v, want [0 120 240]", got)
	}
	if len(cfg.Spawns) != 1 || cfg.Spawns[0].X != 50 {
		t.Errorf("spawns = %+v, want the single overlay spawn", cfg.Spawns)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero rays", "sensors:\n  wall:\n    ray_count: 0\n"},
		{"offset mismatch", "sensors:\n  wall:\n    ray_count: 2\n    offsets: [0]\n"},
		{"unknown spawn", "spawns:\n  - kind: turret\n"},
		{"two players", "spawns:\n  - kind: player\n  - kind: player\n"},
		{"negative radius", "sensors:\n  adjacent:\n    radius_scale: -1\n"},
		{"zero grid cell", "physics:\n  grid_cell: 0\n"},
		{"negative grid cell", "physics:\n  grid_cell: -64\n"},
		{"negative cols", "arena:\n  cols: -4\n"},
		{"negative rows and cols", "arena:\n  cols: -4\n  rows: -3\n"},
		{"tile larger than screen", "arena:\n  tile_size: 100000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Entity.BaseVelocity = 99

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load(written) error: %v", err)
	}
	if loaded.Entity.BaseVelocity != 99 {
		t.Errorf("base velocity = %f, want 99", loaded.Entity.BaseVelocity)
	}
}

func TestCfgAfterInit(t *testing.T) {
	MustInit("")
	if Cfg().Screen.Width == 0 {
		t.Error("expected screen width from defaults")
	}
}

func TestRefreshRecomputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	cfg.Sensors.Adjacent.RadiusScale = 2
	cfg.Sensors.Wall.RayCount = 4
	if err := cfg.Refresh(); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if cfg.Derived.AdjRadius != 64 {
		t.Errorf("adjacent radius = %f, want 64", cfg.Derived.AdjRadius)
	}
	if len(cfg.Derived.RayOffsets) != 4 || cfg.Derived.RayOffsets[1] != 90 {
		t.Errorf("ray offsets = %v, want every 90 degrees", cfg.Derived.RayOffsets)
	}

	cfg.Sensors.Wall.RayCount = 0
	if err := cfg.Refresh(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Refresh with no rays error = %v, want ErrInvalid", err)
	}
}
