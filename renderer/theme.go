// Package renderer draws arena frames with raylib. It never mutates the
// world: every call takes a world.Frame and a camera.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arena/sensors"
)

// Theme holds colors and metrics shared by the scene and the panels.
type Theme struct {
	Background rl.Color
	Floor      rl.Color
	Wall       rl.Color
	Player     rl.Color
	Autonomous rl.Color
	Outline    rl.Color
	Detected   rl.Color

	Ray      rl.Color
	RayHit   rl.Color
	Adjacent rl.Color
	Relative rl.Color
	Clear    rl.Color
	Caution  rl.Color
	Alert    rl.Color

	PanelBg     rl.Color
	PanelBorder rl.Color
	Header      rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color
	BarBg       rl.Color
	BarFill     rl.Color

	Padding    int32
	LineHeight int32
	LabelWidth int32
	BarHeight  int32
	FontSize   int32
	HeaderSize int32
}

// DefaultTheme returns the stock dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background: rl.Color{R: 12, G: 14, B: 18, A: 255},
		Floor:      rl.Color{R: 28, G: 32, B: 38, A: 255},
		Wall:       rl.Color{R: 70, G: 74, B: 84, A: 255},
		Player:     rl.Color{R: 80, G: 160, B: 230, A: 255},
		Autonomous: rl.Color{R: 200, G: 140, B: 80, A: 255},
		Outline:    rl.White,
		Detected:   rl.Color{R: 240, G: 60, B: 60, A: 255},

		Ray:      rl.Color{R: 120, G: 120, B: 140, A: 140},
		RayHit:   rl.Color{R: 255, G: 170, B: 60, A: 255},
		Adjacent: rl.Color{R: 90, G: 200, B: 220, A: 160},
		Relative: rl.Color{R: 240, G: 90, B: 200, A: 200},
		Clear:    rl.Color{R: 80, G: 200, B: 100, A: 255},
		Caution:  rl.Color{R: 230, G: 200, B: 60, A: 255},
		Alert:    rl.Color{R: 230, G: 60, B: 60, A: 255},

		PanelBg:     rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder: rl.Color{R: 60, G: 70, B: 80, A: 255},
		Header:      rl.Yellow,
		LabelColor:  rl.LightGray,
		ValueColor:  rl.RayWhite,
		BarBg:       rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:     rl.Color{R: 100, G: 150, B: 200, A: 255},

		Padding:    10,
		LineHeight: 16,
		LabelWidth: 80,
		BarHeight:  10,
		FontSize:   12,
		HeaderSize: 14,
	}
}

// SeverityColor maps a boundary severity to green, yellow or red.
func (t Theme) SeverityColor(s sensors.Severity) rl.Color {
	switch s {
	case sensors.Caution:
		return t.Caution
	case sensors.Alert:
		return t.Alert
	default:
		return t.Clear
	}
}

// drawPanel draws a panel background with border.
func (t Theme) drawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, t.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, t.PanelBorder)
}

// drawHeader draws a section header and returns the next line's Y.
func (t Theme) drawHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, t.HeaderSize, t.Header)
	return y + t.LineHeight + 2
}

// drawLabelValue draws a label and value on one line and returns the next Y.
func (t Theme) drawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawText(value, x+t.LabelWidth, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight
}

// drawBar draws a labelled bar for value within [lo, hi] and returns the next Y.
func (t Theme) drawBar(x, y int32, label, text string, value, lo, hi float64, width int32, fill rl.Color) int32 {
	barX := x + t.LabelWidth
	barW := width - t.LabelWidth - 50

	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(barX, y+2, barW, t.BarHeight, t.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float64(barW)*fraction(value, lo, hi)), t.BarHeight, fill)
	rl.DrawText(text, barX+barW+5, y, t.FontSize, t.ValueColor)

	return y + t.LineHeight + 2
}

// fraction maps value into [0, 1] over [lo, hi].
func fraction(value, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return min(1, max(0, (value-lo)/(hi-lo)))
}

func formatLength(d float64) string {
	return fmt.Sprintf("%.1f", d)
}
