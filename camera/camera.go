// Package camera provides a 2D camera for viewport control over the arena.
// World space is y-up; screen space is y-down with the origin top-left.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Camera controls the viewport into a bounded world.
type Camera struct {
	// Center is the camera center in world coordinates
	Center r2.Vec

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// World bounds
	World r2.Box

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH float64, world r2.Box) *Camera {
	c := &Camera{
		Zoom:    1.0,
		World:   world,
		MaxZoom: 4.0,
	}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// WorldToScreen converts a world point to screen pixels.
func (c *Camera) WorldToScreen(p r2.Vec) (sx, sy float32) {
	d := r2.Sub(p, c.Center)
	return float32(c.ViewportW/2 + d.X*c.Zoom), float32(c.ViewportH/2 - d.Y*c.Zoom)
}

// ScreenToWorld converts screen pixels to a world point.
func (c *Camera) ScreenToWorld(sx, sy float32) r2.Vec {
	dx := (float64(sx) - c.ViewportW/2) / c.Zoom
	dy := (c.ViewportH/2 - float64(sy)) / c.Zoom
	return r2.Add(c.Center, r2.Vec{X: dx, Y: dy})
}

// ScaleToScreen converts a world length to pixels.
func (c *Camera) ScaleToScreen(d float64) float32 {
	return float32(d * c.Zoom)
}

// IsVisible returns true if a circle at p with the given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	d := r2.Sub(p, c.Center)
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return math.Abs(d.X) <= halfW && math.Abs(d.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
// The minimum zoom fits the whole world on screen.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH

	size := r2.Sub(c.World.Max, c.World.Min)
	c.MinZoom = 1.0
	if size.X > 0 && size.Y > 0 {
		c.MinZoom = math.Min(1.0, math.Min(viewportW/size.X, viewportH/size.Y))
	}
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.Center = r2.Add(c.Center, r2.Vec{X: dx / c.Zoom, Y: -dy / c.Zoom})
	c.clampCenter()
}

// Follow centers the camera on a world point, staying inside the world.
func (c *Camera) Follow(p r2.Vec) {
	c.Center = p
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the world center at 1:1 zoom.
func (c *Camera) Reset() {
	c.Center = r2.Scale(0.5, r2.Add(c.World.Min, c.World.Max))
	c.SetZoom(1.0)
}

// VisibleWorldBounds returns the world-space box covered by the viewport.
func (c *Camera) VisibleWorldBounds() r2.Box {
	half := r2.Vec{X: c.ViewportW / (2 * c.Zoom), Y: c.ViewportH / (2 * c.Zoom)}
	return r2.Box{Min: r2.Sub(c.Center, half), Max: r2.Add(c.Center, half)}
}

// clampCenter keeps the view inside the world on each axis where the world
// is larger than the view, and centers the world otherwise.
func (c *Camera) clampCenter() {
	if c.Zoom == 0 {
		return
	}
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.Center.X = clampAxis(c.Center.X, c.World.Min.X, c.World.Max.X, halfW)
	c.Center.Y = clampAxis(c.Center.Y, c.World.Min.Y, c.World.Max.Y, halfH)
}

func clampAxis(v, lo, hi, half float64) float64 {
	if hi-lo <= 2*half {
		return (lo + hi) / 2
	}
	return clamp(v, lo+half, hi-half)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
