// Package tty is a terminal host for the game: a top-down character map of
// the road around the car, drawn with tcell.
package tty

import (
	"math"

	"driftroad/internal/road"
	"driftroad/internal/round"
)

// Cell is what one terminal cell shows.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellRoad
	CellFinish
	CellCar
)

const (
	// DefaultUnitsPerCol is the world width one column covers.
	DefaultUnitsPerCol = 2.0
	// rowAspect stretches rows: a terminal cell is about twice as tall as wide.
	rowAspect = 2.0
	// finishBand is the depth of the finish marking before the line.
	finishBand = 4.0
)

// Viewport maps terminal cells to world X/Z around an anchor. Screen right
// is world +X, screen up is world +Z.
type Viewport struct {
	W, H        int
	UnitsPerCol float64
	AnchorCol   int // column of the car
	AnchorRow   int // row of the car
}

// NewViewport places the car centred horizontally, two thirds down so more
// road ahead is visible.
func NewViewport(w, h int, unitsPerCol float64) Viewport {
	if unitsPerCol <= 0 {
		unitsPerCol = DefaultUnitsPerCol
	}
	return Viewport{W: w, H: h, UnitsPerCol: unitsPerCol, AnchorCol: w / 2, AnchorRow: h * 2 / 3}
}

// World returns the world X/Z at the centre of cell (col,row) when the car
// is at (carX, carZ).
func (v Viewport) World(col, row int, carX, carZ float64) (x, z float64) {
	x = carX + float64(col-v.AnchorCol)*v.UnitsPerCol
	z = carZ + float64(v.AnchorRow-row)*v.UnitsPerCol*rowAspect
	return x, z
}

// Layout classifies every cell of v for the session's road and car.
// Without a road the grid is empty.
func Layout(s *round.Session, v Viewport) [][]Cell {
	grid := make([][]Cell, v.H)
	for i := range grid {
		grid[i] = make([]Cell, v.W)
	}
	if s.Road == nil || s.Car == nil {
		return grid
	}

	width := s.Car.Width()
	tiles := s.Road.Tiles(width)
	fin, hasFinish := s.Road.Finish(width)
	carX, carZ := s.Pos.X(), s.Pos.Z()

	for row := 0; row < v.H; row++ {
		for col := 0; col < v.W; col++ {
			x, z := v.World(col, row, carX, carZ)
			grid[row][col] = classify(tiles, fin, hasFinish, x, z)
		}
	}
	if v.AnchorRow >= 0 && v.AnchorRow < v.H && v.AnchorCol >= 0 && v.AnchorCol < v.W {
		grid[v.AnchorRow][v.AnchorCol] = CellCar
	}
	return grid
}

func classify(tiles []road.Rect, fin road.Finish, hasFinish bool, x, z float64) Cell {
	if hasFinish && inFinishBand(fin, x, z) {
		return CellFinish
	}
	for _, t := range tiles {
		if x >= t.MinX && x < t.MaxX && z >= t.MinZ && z < t.MaxZ {
			return CellRoad
		}
	}
	return CellEmpty
}

func inFinishBand(f road.Finish, x, z float64) bool {
	t := f.Tile
	if f.Axis == road.AxisX {
		return z >= t.MinZ && z < t.MaxZ && x >= f.At-finishBand && x < f.At
	}
	return x >= t.MinX && x < t.MaxX && z >= f.At-finishBand && z < f.At
}

// carGlyph points along the car's current rotation.
func carGlyph(rotationDelta float64) rune {
	a := math.Mod(rotationDelta, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	switch int(math.Floor(a/(math.Pi/2) + 0.5)) {
	case 1:
		return '►'
	case 2:
		return '▼'
	case 3:
		return '◄'
	}
	return '▲'
}
