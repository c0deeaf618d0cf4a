package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/arena"
	"github.com/pthm-cable/arena/camera"
	"github.com/pthm-cable/arena/entity"
	"github.com/pthm-cable/arena/geom"
	"github.com/pthm-cable/arena/sensors"
	"github.com/pthm-cable/arena/world"
)

// Renderer draws the arena, its entities and the sensor overlays.
type Renderer struct {
	Theme Theme

	// BoundaryScale is the drawn pie-slice boundary length as a fraction
	// of the adjacent radius.
	BoundaryScale float64
}

// New creates a renderer with the default theme.
func New(boundaryScale float64) *Renderer {
	if boundaryScale <= 0 {
		boundaryScale = 1
	}
	return &Renderer{Theme: DefaultTheme(), BoundaryScale: boundaryScale}
}

// DrawArena fills every visible tile, walls and floor.
func (r *Renderer) DrawArena(grid *arena.Grid, cam *camera.Camera) {
	rl.ClearBackground(r.Theme.Background)

	size := cam.ScaleToScreen(grid.TileSize())
	half := grid.TileSize() / 2
	grid.ForEachTile(func(col, row int, wall bool) {
		box := grid.TileBox(col, row)
		if !cam.IsVisible(geom.V(box.Min.X+half, box.Min.Y+half), grid.TileSize()) {
			return
		}
		// Screen Y grows downward, so the top-left corner is (Min.X, Max.Y).
		x, y := cam.WorldToScreen(geom.V(box.Min.X, box.Max.Y))
		c := r.Theme.Floor
		if wall {
			c = r.Theme.Wall
		}
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, c)
	})
}

// DrawFrame draws every entity. With debug on, the sensor overlays of every
// sensing entity are drawn first so bodies stay on top.
func (r *Renderer) DrawFrame(f world.Frame, cam *camera.Camera, debug bool) {
	if debug {
		for _, e := range f.Entities {
			if e.Sensing {
				r.drawSensors(e, cam, e.Kind == entity.KindPlayer)
			}
		}
		for _, e := range f.Entities {
			if e.Detected {
				r.drawRelative(e, cam)
			}
		}
	}

	for _, e := range f.Entities {
		if !cam.IsVisible(e.Center, r2.Norm(e.Extent)) {
			continue
		}
		r.drawBody(e, cam)
	}
}

// drawBody draws the entity as a rectangle rotated to its heading, with a
// nose line and a detection marker.
func (r *Renderer) drawBody(e world.EntityView, cam *camera.Camera) {
	fill := r.Theme.Autonomous
	if e.Kind == entity.KindPlayer {
		fill = r.Theme.Player
	}

	sx, sy := cam.WorldToScreen(e.Center)
	w := cam.ScaleToScreen(e.Extent.X)
	h := cam.ScaleToScreen(e.Extent.Y)
	// raylib rotates clockwise on screen; world angles are counter-clockwise.
	rl.DrawRectanglePro(
		rl.Rectangle{X: sx, Y: sy, Width: w, Height: h},
		rl.Vector2{X: w / 2, Y: h / 2},
		float32(-e.RotationAngle),
		fill,
	)

	c := Corners(e.Center, e.Extent, e.Heading)
	for i := range c {
		r.line(cam, c[i], c[(i+1)%len(c)], r.Theme.Outline)
	}
	r.line(cam, e.Center, r2.Add(e.Center, r2.Scale(e.Extent.X/2, e.Heading)), r.Theme.Outline)

	if e.Detected {
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, max(3, w/6), r.Theme.Detected)
	}
}

// drawSensors draws the ray fan, the adjacent circle and the pie-slice
// boundaries. Ray labels are only drawn when labelled is set.
func (r *Renderer) drawSensors(e world.EntityView, cam *camera.Camera, labelled bool) {
	for i, ray := range e.Rays {
		end := r2.Add(e.RayOrigin, ray)
		r.line(cam, e.RayOrigin, end, r.Theme.Ray)

		if i < len(e.Measured) {
			if full := r2.Norm(ray); full > 0 && e.Measured[i] < full {
				hit := r2.Add(e.RayOrigin, r2.Scale(e.Measured[i]/full, ray))
				r.line(cam, e.RayOrigin, hit, r.Theme.RayHit)
				hx, hy := cam.WorldToScreen(hit)
				rl.DrawCircleV(rl.Vector2{X: hx, Y: hy}, 3, r.Theme.RayHit)
			}
		}

		if labelled {
			lx, ly := cam.WorldToScreen(end)
			rl.DrawText(fmt.Sprint(i), int32(lx)+3, int32(ly)-r.Theme.FontSize/2, r.Theme.FontSize, r.Theme.LabelColor)
		}
	}

	cx, cy := cam.WorldToScreen(e.Center)
	rl.DrawCircleLinesV(rl.Vector2{X: cx, Y: cy}, cam.ScaleToScreen(e.Radius), r.Theme.Adjacent)

	length := e.Radius * r.BoundaryScale
	for b := sensors.Boundary(0); b < sensors.NumBoundaries; b++ {
		end := r2.Add(e.Center, r2.Scale(length, e.Boundaries[b]))
		ex, ey := cam.WorldToScreen(end)
		rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, rl.Vector2{X: ex, Y: ey}, 2, r.Theme.SeverityColor(e.Severities[b]))
	}
}

// drawRelative draws the line from the detecting observer to e.
func (r *Renderer) drawRelative(e world.EntityView, cam *camera.Camera) {
	r.line(cam, r2.Sub(e.Center, e.Relative), e.Center, r.Theme.Relative)
}

func (r *Renderer) line(cam *camera.Camera, a, b r2.Vec, c rl.Color) {
	ax, ay := cam.WorldToScreen(a)
	bx, by := cam.WorldToScreen(b)
	rl.DrawLineV(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, c)
}

// Corners returns the four world-space corners of a box of the given extent
// centered on center and rotated to heading, counter-clockwise from the
// rear right.
func Corners(center, extent, heading r2.Vec) [4]r2.Vec {
	fwd := r2.Scale(extent.X/2, heading)
	side := r2.Scale(extent.Y/2, r2.Vec{X: -heading.Y, Y: heading.X})
	return [4]r2.Vec{
		r2.Sub(r2.Sub(center, fwd), side),
		r2.Sub(r2.Add(center, fwd), side),
		r2.Add(r2.Add(center, fwd), side),
		r2.Add(r2.Sub(center, fwd), side),
	}
}
