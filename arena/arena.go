// Package arena provides the tile grid that bounds the simulation and
// measures wall distances along sensor rays.
package arena

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/geom"
)

// ErrOutOfBounds is returned when a tile coordinate is outside the grid.
var ErrOutOfBounds = errors.New("arena: tile out of bounds")

// Grid is a cols x rows field of square tiles. Border tiles start as walls.
// Tile (0,0) is the lower-left corner.
type Grid struct {
	cols, rows int
	tile       float64
	walls      []bool
}

// New creates a grid with a one-tile wall border.
// Negative sizes are treated as zero.
func New(cols, rows int, tile float64) *Grid {
	cols, rows = max(cols, 0), max(rows, 0)
	g := &Grid{
		cols:  cols,
		rows:  rows,
		tile:  tile,
		walls: make([]bool, cols*rows),
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			if c == 0 || r == 0 || c == cols-1 || r == rows-1 {
				g.walls[r*cols+c] = true
			}
		}
	}
	return g
}

// FromConfig creates the grid described by the arena config section.
func FromConfig(cfg *config.Config) *Grid {
	return New(cfg.Derived.ArenaCols, cfg.Derived.ArenaRows, cfg.Arena.TileSize)
}

// Cols returns the column count.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the row count.
func (g *Grid) Rows() int { return g.rows }

// TileSize returns the tile edge length.
func (g *Grid) TileSize() float64 { return g.tile }

// Bounds returns the world-space box covered by the grid.
func (g *Grid) Bounds() r2.Box {
	return geom.Box(r2.Vec{}, geom.V(float64(g.cols)*g.tile, float64(g.rows)*g.tile))
}

// IsWall reports whether a tile blocks. Tiles outside the grid are walls.
func (g *Grid) IsWall(col, row int) bool {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return true
	}
	return g.walls[row*g.cols+col]
}

// SetWall marks or clears an interior obstacle.
func (g *Grid) SetWall(col, row int, wall bool) error {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, col, row, g.cols, g.rows)
	}
	g.walls[row*g.cols+col] = wall
	return nil
}

// TileAt returns the tile containing a world point.
func (g *Grid) TileAt(p r2.Vec) (col, row int) {
	return int(math.Floor(p.X / g.tile)), int(math.Floor(p.Y / g.tile))
}

// TileBox returns the world-space box of a tile.
func (g *Grid) TileBox(col, row int) r2.Box {
	return geom.Box(geom.V(float64(col)*g.tile, float64(row)*g.tile), geom.V(g.tile, g.tile))
}

// ForEachTile calls fn for every tile in row-major order.
func (g *Grid) ForEachTile(fn func(col, row int, wall bool)) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			fn(c, r, g.walls[r*g.cols+c])
		}
	}
}

// Overlaps reports whether a box shares area with any wall tile.
func (g *Grid) Overlaps(box r2.Box) bool {
	minC, minR := g.TileAt(box.Min)
	maxC, maxR := g.TileAt(box.Max)
	for c := minC; c <= maxC; c++ {
		for r := minR; r <= maxR; r++ {
			if g.IsWall(c, r) && geom.Overlaps(box, g.TileBox(c, r)) {
				return true
			}
		}
	}
	return false
}

// Measure walks ray from origin through the grid and returns the distance to
// the first wall tile boundary, clamped to the ray's length.
// An origin inside a wall measures 0.
func (g *Grid) Measure(origin, ray r2.Vec) float64 {
	length := r2.Norm(ray)
	if length == 0 {
		return 0
	}
	dir := r2.Scale(1/length, ray)

	col, row := g.TileAt(origin)
	if g.IsWall(col, row) {
		return 0
	}

	stepX, tMaxX, tDeltaX := g.axisStep(origin.X, dir.X, col)
	stepY, tMaxY, tDeltaY := g.axisStep(origin.Y, dir.Y, row)

	for {
		var t float64
		if tMaxX < tMaxY {
			col += stepX
			t = tMaxX
			tMaxX += tDeltaX
		} else {
			row += stepY
			t = tMaxY
			tMaxY += tDeltaY
		}

		if t > length {
			return length
		}
		if g.IsWall(col, row) {
			return t
		}
	}
}

// axisStep returns the traversal step, the distance to the first tile edge
// and the distance between edges along one axis.
func (g *Grid) axisStep(pos, dir float64, cell int) (step int, tMax, tDelta float64) {
	switch {
	case dir > 0:
		return 1, (float64(cell+1)*g.tile - pos) / dir, g.tile / dir
	case dir < 0:
		return -1, (float64(cell)*g.tile - pos) / dir, -g.tile / dir
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}
