package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arena/input"
)

// keyBindings maps raylib keys to logical controls. Arrows mirror WASD.
var keyBindings = []struct {
	raylib int32
	key    input.Key
}{
	{rl.KeyW, input.KeyForward},
	{rl.KeyUp, input.KeyForward},
	{rl.KeyS, input.KeyBack},
	{rl.KeyDown, input.KeyBack},
	{rl.KeyA, input.KeyLeft},
	{rl.KeyLeft, input.KeyLeft},
	{rl.KeyD, input.KeyRight},
	{rl.KeyRight, input.KeyRight},
	{rl.KeyV, input.KeyDebug},
}

// Update advances the simulation by one rendered frame.
func (g *Game) Update() {
	g.handleInput()

	// Key transitions are polled once per frame and applied in the first step.
	events := pollKeys()
	if g.paused {
		g.applyKeys(events)
		return
	}

	dt := min(float64(rl.GetFrameTime()), g.cfg.Physics.MaxDT)
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(dt, func() {
			g.drivePlayer(events)
			events = nil
		})
	}

	if g.following {
		if p, ok := g.frame.PlayerView(); ok {
			g.camera.Follow(p.Center)
		}
	}
}

// handleInput processes window-level keys that do not steer the player.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.following = !g.following
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	g.handleCameraInput()
}

// pollKeys returns this frame's key transitions as logical events.
func pollKeys() []input.Event {
	var events []input.Event
	for _, b := range keyBindings {
		if rl.IsKeyPressed(b.raylib) {
			events = append(events, input.Event{Key: b.key, Action: input.Press})
		}
		if rl.IsKeyReleased(b.raylib) && !boundKeyDown(b.key) {
			events = append(events, input.Event{Key: b.key, Action: input.Release})
		}
	}
	return events
}

// drivePlayer applies key transitions and aims the player at the mouse.
// It runs in the input phase of every step.
func (g *Game) drivePlayer(events []input.Event) {
	player, ok := g.world.Player()
	if !rl.IsWindowFocused() {
		if ok {
			g.input.ReleaseAll(player)
		}
		return
	}

	g.applyKeys(events)

	if ok {
		mouse := rl.GetMousePosition()
		g.aim(player, g.camera.ScreenToWorld(mouse.X, mouse.Y))
	}
}

// boundKeyDown reports whether any raylib key bound to k is still down.
func boundKeyDown(k input.Key) bool {
	for _, b := range keyBindings {
		if b.key == k && rl.IsKeyDown(b.raylib) {
			return true
		}
	}
	return false
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.camera.Resize(float64(w), float64(h))
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Right-drag pans; arrows belong to the player.
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-float64(d.X), -float64(d.Y))
		g.following = false
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
		g.following = false
	}
}
