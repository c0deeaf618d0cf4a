package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/arena/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", "run")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager is a no-op.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, "run-1")
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := om.WriteTelemetry(WindowStats{RunID: "run-1", WindowEndTick: int64(i+1) * 600}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteEvents([]Event{NewDetectEnterEvent(3, 1, 10, 20)}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{RunID: "run-1", Type: BookmarkQuiet, Tick: 1200}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,window_end,sim_time") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Contains(lines[0], "window_start") {
		t.Error("window start is not exported")
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(events), "run-1,3,detect_enter,1,10,20") {
		t.Errorf("events.csv = %q", events)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
	if om.SnapshotDir() != filepath.Join(dir, "snapshots") {
		t.Errorf("snapshot dir = %s", om.SnapshotDir())
	}
}
