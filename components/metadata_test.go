package components

import (
	"math"
	"testing"

	"github.com/pthm-cable/arena/entity"
	"github.com/pthm-cable/arena/sensors"
)

func TestQuadrantValue(t *testing.T) {
	levels := [sensors.NumQuadrants]int{sensors.Front: 2, sensors.Left: 1}

	for _, fd := range QuadrantFieldDescriptors() {
		if _, ok := QuadrantValue(levels, fd.ID); !ok {
			t.Errorf("QuadrantValue(%q) not found", fd.ID)
		}
	}
	if got, _ := QuadrantValue(levels, "quadrant_"+sensors.Front.String()); got != 2 {
		t.Errorf("front = %v, want 2", got)
	}
	if got, _ := QuadrantValue(levels, "quadrant_"+sensors.Left.String()); got != 1 {
		t.Errorf("left = %v, want 1", got)
	}
	if _, ok := QuadrantValue(levels, "speed"); ok {
		t.Error("speed resolved as a quadrant field")
	}
}

func TestGetEntityValue(t *testing.T) {
	e := entity.New(entity.KindPlayer, 10, 20, 32, 32, entity.DefaultParams())
	e.MoveUp()
	e.Update(0.1)

	tests := []struct {
		id   string
		want float64
	}{
		{"x", 22.5},
		{"y", 20},
		{"rotation", 0},
		{"speed", 125},
		{"input_x", 0},
		{"input_y", 1},
		{"quadrant_" + sensors.Front.String(), 0},
	}
	for _, tt := range tests {
		if got := GetEntityValue(e, tt.id); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("GetEntityValue(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
