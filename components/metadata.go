package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/entity"
	"github.com/pthm-cable/arena/sensors"
)

// FieldDescriptor describes an entity field for the debug panel.
type FieldDescriptor struct {
	ID           string  // Unique identifier
	Label        string  // Display name
	Format       string  // Printf format (e.g., "%.2f")
	Min          float64 // Minimum value (for bars)
	Max          float64 // Maximum value (for bars)
	IsBar        bool    // True to render as progress bar
	ShowWhenZero bool    // Show even when value is zero
	Group        string  // Logical grouping
}

// EntityFieldDescriptors returns metadata for kinematic fields.
func EntityFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "x", Label: "X", Format: "%.1f", ShowWhenZero: true, Group: "motion"},
		{ID: "y", Label: "Y", Format: "%.1f", ShowWhenZero: true, Group: "motion"},
		{ID: "rotation", Label: "Rotation", Format: "%.1f", Min: 0, Max: 360, IsBar: true, ShowWhenZero: true, Group: "motion"},
		{ID: "speed", Label: "Speed", Format: "%.1f", Min: 0, Max: 250, IsBar: true, Group: "motion"},
		{ID: "input_x", Label: "Input X", Format: "%+.0f", Group: "input"},
		{ID: "input_y", Label: "Input Y", Format: "%+.0f", Group: "input"},
	}
}

// QuadrantFieldDescriptors returns one bar per pie-slice quadrant.
func QuadrantFieldDescriptors() []FieldDescriptor {
	fields := make([]FieldDescriptor, sensors.NumQuadrants)
	for q := sensors.Quadrant(0); q < sensors.NumQuadrants; q++ {
		fields[q] = FieldDescriptor{
			ID:           "quadrant_" + q.String(),
			Label:        q.String(),
			Format:       "%.0f",
			Min:          0,
			Max:          4,
			IsBar:        true,
			ShowWhenZero: true,
			Group:        "pie_slice",
		}
	}
	return fields
}

// EntityGroups returns the logical groupings for entity fields.
func EntityGroups() []string {
	return []string{"motion", "input", "pie_slice"}
}

// GetEntityValue extracts an entity field value by ID.
func GetEntityValue(e *entity.Entity, fieldID string) float64 {
	switch fieldID {
	case "x":
		return e.Position().X
	case "y":
		return e.Position().Y
	case "rotation":
		return e.RotationAngle()
	case "speed":
		return r2.Norm(e.Velocity())
	case "input_x":
		x, _ := e.Input()
		return float64(x)
	case "input_y":
		_, y := e.Input()
		return float64(y)
	}
	return 0
}

// QuadrantValue looks up a quadrant field in tallies captured by a frame.
// The live sensor is already reset once the tick ends, so the panel reads
// the captured copy.
func QuadrantValue(levels [sensors.NumQuadrants]int, fieldID string) (float64, bool) {
	for q := sensors.Quadrant(0); q < sensors.NumQuadrants; q++ {
		if fieldID == "quadrant_"+q.String() {
			return float64(levels[q]), true
		}
	}
	return 0, false
}
