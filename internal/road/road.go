// Package road generates the track layout of a round and answers
// point-in-track queries against it.
//
// A road is a list of straight segment lengths measured in track-width
// units. Segments alternate direction, starting along +Z ("forward");
// odd segments run along +X ("right").
package road

import "github.com/go-gl/mathgl/mgl64"

// CurveFunc maps the current straight run length to the probability that
// the road turns at the next step.
type CurveFunc func(straightLength int) float64

// Linear returns the curve n/divisor. Level one of the game uses divisor 20.
func Linear(divisor float64) CurveFunc {
	return func(n int) float64 {
		return float64(n) / divisor
	}
}

// Road is immutable once built.
type Road struct {
	Length   int
	Curve    CurveFunc
	Segments []int

	src Source
}

// New builds a road and generates its segments.
//
// Preconditions: length > 0, and curve must not return 0 for every input,
// otherwise the generated road has no turns.
func New(length int, curve CurveFunc, src Source) *Road {
	r := &Road{
		Length: length,
		Curve:  curve,
		src:    src,
	}
	r.Segments = r.GenerateSegments()
	return r
}

// FromSegments wraps a fixed layout.
func FromSegments(segments ...int) *Road {
	s := make([]int, len(segments))
	copy(s, segments)
	total := 1
	for _, v := range s {
		total += v
	}
	return &Road{Length: total, Segments: s}
}

// GenerateSegments runs the random walk. One step is taken per iteration
// until Length steps have been walked; a turn closes the current run.
// The final straight run is never closed, so it is not part of the result.
func (r *Road) GenerateSegments() []int {
	var segments []int

	currentLength := 1
	currentSegmentLength := 1

	for currentLength < r.Length {
		p := r.Curve(currentSegmentLength)

		if r.src.Float64() < p {
			segments = append(segments, currentSegmentLength)
			currentSegmentLength = 1
		} else {
			currentSegmentLength++
		}
		currentLength++
	}

	return segments
}

// Total returns the summed segment lengths in track-width units.
func (r *Road) Total() int {
	n := 0
	for _, s := range r.Segments {
		n += s
	}
	return n
}

// Rect is an axis-aligned tile rectangle on the XZ plane, world units.
type Rect struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
	Right      bool // segment runs along +X
}

// Contains reports whether p lies inside r, bounds inclusive.
func (r Rect) Contains(p mgl64.Vec3) bool {
	return p.X() >= r.MinX && p.X() <= r.MaxX && p.Z() >= r.MinZ && p.Z() <= r.MaxZ
}

// Center returns the middle of the rectangle at height y.
func (r Rect) Center(y float64) mgl64.Vec3 {
	return mgl64.Vec3{(r.MinX + r.MaxX) / 2, y, (r.MinZ + r.MaxZ) / 2}
}

// Tiles returns one rectangle per segment in traversal order, the same
// rectangles Contains walks.
func (r *Road) Tiles(width float64) []Rect {
	tiles := make([]Rect, 0, len(r.Segments))
	r.walk(width, func(t Rect) bool {
		tiles = append(tiles, t)
		return true
	})
	return tiles
}

// walk yields segment rectangles until fn returns false.
func (r *Road) walk(width float64, fn func(Rect) bool) {
	currentX := 0
	currentZ := 0
	directionIsRight := false

	for _, segment := range r.Segments {
		xLength := width
		zLength := width
		if directionIsRight {
			xLength = width * float64(segment)
		} else {
			zLength = width * float64(segment)
		}

		minX := float64(currentX) * width
		minZ := float64(currentZ) * width
		t := Rect{
			MinX:  minX,
			MaxX:  minX + xLength,
			MinZ:  minZ,
			MaxZ:  minZ + zLength,
			Right: directionIsRight,
		}
		if !fn(t) {
			return
		}

		if directionIsRight {
			currentX += segment
		} else {
			currentZ += segment
		}
		directionIsRight = !directionIsRight
	}
}

// Contains reports whether p (X and Z only) is on the road.
//
// Rectangles are tested in traversal order. A point below the current
// rectangle's minimum on either axis is treated as already passed and
// rejected at once, so a car cutting a corner backwards on one axis can be
// reported off the road.
func (r *Road) Contains(p mgl64.Vec3, width float64) bool {
	inside := false
	r.walk(width, func(t Rect) bool {
		if p.X() < t.MinX || p.Z() < t.MinZ {
			return false
		}
		if p.X() <= t.MaxX && p.Z() <= t.MaxZ {
			inside = true
			return false
		}
		return true
	})
	return inside
}

// Axis selects the coordinate a finish line is measured on.
type Axis int

const (
	AxisZ Axis = iota
	AxisX
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "z"
}

// Finish is the line across the far edge of the last segment.
type Finish struct {
	Axis  Axis
	At    float64 // coordinate on Axis, world units
	Width float64
	Tile  Rect // last segment rectangle
}

// Crossed reports whether p has reached the line.
func (f Finish) Crossed(p mgl64.Vec3) bool {
	if f.Axis == AxisX {
		return p.X() >= f.At
	}
	return p.Z() >= f.At
}

// Finish returns the finish line, or false for a road without segments.
func (r *Road) Finish(width float64) (Finish, bool) {
	tiles := r.Tiles(width)
	if len(tiles) == 0 {
		return Finish{}, false
	}
	last := tiles[len(tiles)-1]
	if last.Right {
		return Finish{Axis: AxisX, At: last.MaxX, Width: width, Tile: last}, true
	}
	return Finish{Axis: AxisZ, At: last.MaxZ, Width: width, Tile: last}, true
}
