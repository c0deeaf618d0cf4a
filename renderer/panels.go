package renderer

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/entity"
	"github.com/pthm-cable/arena/sensors"
	"github.com/pthm-cable/arena/world"
)

// PanelWidth is the width of the debugger side panels.
const PanelWidth = 220

const (
	toggleWidth  = 140
	toggleHeight = 26
)

// HUDData holds the values shown in the top-left corner.
type HUDData struct {
	Tick     int64
	FPS      int32
	Entities int
	Detected int
}

// DrawHUD draws the status lines and the control legend.
func (r *Renderer) DrawHUD(d HUDData, screenH int32) {
	rl.DrawText(fmt.Sprintf("Tick: %d  FPS: %d", d.Tick, d.FPS), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Entities: %d  Detected: %d", d.Entities, d.Detected), 10, 35, 16, rl.LightGray)
	rl.DrawText("WASD/arrows move  mouse aims  V debugger  wheel zoom  Home reset", 10, screenH-25, 14, rl.Gray)
}

// DrawDebugToggle draws the debugger button in the top-right corner and
// reports whether it was clicked this frame.
func (r *Renderer) DrawDebugToggle(debug bool, screenW int32) bool {
	text := "Debugger: OFF"
	if debug {
		text = "Debugger: ON"
	}
	bounds := rl.Rectangle{
		X:      float32(screenW - toggleWidth - r.Theme.Padding),
		Y:      float32(r.Theme.Padding),
		Width:  toggleWidth,
		Height: toggleHeight,
	}
	return gui.Button(bounds, text)
}

// DrawRayPanel lists the measured length of each wall ray of v, below the
// debugger toggle. Returns the Y just below the panel.
func (r *Renderer) DrawRayPanel(v world.EntityView, screenW int32) int32 {
	t := r.Theme
	x := screenW - PanelWidth - t.Padding
	y := t.Padding*2 + toggleHeight
	h := t.Padding*2 + t.LineHeight + 2 + int32(len(v.Rays))*(t.LineHeight+2)
	t.drawPanel(x, y, PanelWidth, h)

	cx := x + t.Padding
	cy := t.drawHeader(cx, y+t.Padding, "Wall rays")
	for i, ray := range v.Rays {
		full := r2.Norm(ray)
		measured := full
		if i < len(v.Measured) {
			measured = v.Measured[i]
		}
		label := fmt.Sprintf("%d (%+.0f)", i, v.RayOffsets[i])
		fill := t.BarFill
		if measured < full {
			fill = t.RayHit
		}
		cy = t.drawBar(cx, cy, label, formatLength(measured), measured, 0, full, PanelWidth-2*t.Padding, fill)
	}
	return y + h
}

// DrawInfoPanel shows the descriptor-driven fields of an entity at (x, y).
// Kinematic fields come from body; quadrant levels come from the frame
// view, since the live tallies are reset once the tick ends.
func (r *Renderer) DrawInfoPanel(v world.EntityView, body *entity.Entity, x, y int32) {
	t := r.Theme
	groups := components.EntityGroups()
	fields := append(components.EntityFieldDescriptors(), components.QuadrantFieldDescriptors()...)

	lines := len(groups) + 1
	for _, fd := range fields {
		if fd.ShowWhenZero || fieldValue(v, body, fd.ID) != 0 {
			lines++
		}
	}
	h := t.Padding*2 + int32(lines)*(t.LineHeight+2)
	t.drawPanel(x, y, PanelWidth, h)

	cx := x + t.Padding
	cy := t.drawHeader(cx, y+t.Padding, fmt.Sprintf("%s #%d", strings.ToUpper(v.Kind.String()), v.ID))
	width := int32(PanelWidth - 2*t.Padding)
	for _, group := range groups {
		cy = t.drawHeader(cx, cy, group)
		for _, fd := range fields {
			if fd.Group != group {
				continue
			}
			val := fieldValue(v, body, fd.ID)
			if val == 0 && !fd.ShowWhenZero {
				continue
			}
			text := fmt.Sprintf(fd.Format, val)
			if fd.IsBar {
				fill := t.BarFill
				if fd.Group == "pie_slice" {
					fill = t.SeverityColor(sensors.SeverityOf(int(val)))
				}
				cy = t.drawBar(cx, cy, fd.Label, text, val, fd.Min, fd.Max, width, fill)
			} else {
				cy = t.drawLabelValue(cx, cy, fd.Label, text)
			}
		}
	}
}

func fieldValue(v world.EntityView, body *entity.Entity, id string) float64 {
	if val, ok := components.QuadrantValue(v.Levels, id); ok {
		return val
	}
	return components.GetEntityValue(body, id)
}
