package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arena/renderer"
)

// Draw renders the last completed frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()

	g.renderer.DrawArena(g.world.Grid(), g.camera)
	g.renderer.DrawFrame(g.frame, g.camera, g.input.Debug())

	screenW := int32(g.screenWidth)
	screenH := int32(g.screenHeight)
	g.renderer.DrawHUD(renderer.HUDData{
		Tick:     g.frame.Tick,
		FPS:      rl.GetFPS(),
		Entities: len(g.frame.Entities),
		Detected: g.frame.DetectedCount(),
	}, screenH)
	if g.paused {
		rl.DrawText("PAUSED", 10, 60, 20, rl.Yellow)
	}

	if g.renderer.DrawDebugToggle(g.input.Debug(), screenW) {
		g.input.SetDebug(!g.input.Debug())
	}
	if g.input.Debug() {
		g.drawDebugger(screenW)
	}

	rl.EndDrawing()
}

// drawDebugger shows the player's ray lengths and field panel.
func (g *Game) drawDebugger(screenW int32) {
	v, ok := g.frame.PlayerView()
	if !ok {
		return
	}
	body, ok := g.world.Entity(v.ID)
	if !ok {
		return
	}
	bottom := g.renderer.DrawRayPanel(v, screenW)
	g.renderer.DrawInfoPanel(v, body, screenW-renderer.PanelWidth-g.renderer.Theme.Padding, bottom+g.renderer.Theme.Padding)
}
