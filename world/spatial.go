package world

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/sensors"
)

// Neighbor holds a detected entity with its offset from the query center.
type Neighbor struct {
	E        ecs.Entity
	Relative r2.Vec // neighbor center minus query center
}

// SpatialGrid buckets entity centers into square cells so the detection pass
// only tests nearby pairs. Positions outside the arena clamp to edge cells.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]ecs.Entity
}

// NewSpatialGrid creates a spatial grid covering the given world size.
// A non-positive cell size collapses the grid to a single cell.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = max(width, height, 1)
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity at the given center.
func (g *SpatialGrid) Insert(e ecs.Entity, center r2.Vec) {
	col, row := g.cell(center)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], e)
}

// Len returns the number of inserted entities.
func (g *SpatialGrid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// QueryRadiusInto appends every entity whose center lies within radius of
// center (inclusive) to dst and returns the extended slice. Reuse dst across
// calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, center r2.Vec, radius float64, exclude ecs.Entity, agents *ecs.Map1[components.Agent]) []Neighbor {
	// Edge cells also hold clamped out-of-arena entities, so the scan range is
	// clamped rather than wrapped.
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cell(center)

	minCol, maxCol := max(centerCol-cellRadius, 0), min(centerCol+cellRadius, g.cols-1)
	minRow, maxRow := max(centerRow-cellRadius, 0), min(centerRow+cellRadius, g.rows-1)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.cells[row*g.cols+col] {
				if e == exclude {
					continue
				}
				a := agents.Get(e)
				if a == nil {
					continue
				}
				other := a.Body.Center()
				if !sensors.TestDetection(center, radius, other) {
					continue
				}
				dst = append(dst, Neighbor{E: e, Relative: r2.Sub(other, center)})
			}
		}
	}

	return dst
}

// cell returns the clamped cell coordinates for a world position.
func (g *SpatialGrid) cell(p r2.Vec) (col, row int) {
	col = int(p.X / g.cellSize)
	row = int(p.Y / g.cellSize)
	if p.X < 0 {
		col = 0
	}
	if p.Y < 0 {
		row = 0
	}
	return min(col, g.cols-1), min(row, g.rows-1)
}
