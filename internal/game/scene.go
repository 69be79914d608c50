package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"driftroad/internal/road"
	"driftroad/internal/round"
)

// finishSquares is the number of checker squares across the road.
const finishSquares = 10

type boxInstance struct {
	Model mgl32.Mat4
	Color RGB
}

// Scene holds the static geometry of one round, built once while the
// session is loading.
type Scene struct {
	Boxes []boxInstance
	car   round.CarModel
}

// boxModel places a box of size (sx, sy, sz) centred on a world point.
func boxModel(center mgl64.Vec3, sx, sy, sz float64) mgl32.Mat4 {
	c := toRender(center)
	return mgl32.Translate3D(c.X(), c.Y(), c.Z()).
		Mul4(mgl32.Scale3D(float32(sx), float32(sy), float32(sz)))
}

// BuildScene lays the road tiles as slabs of the given thickness with their
// top face at y=0, the finish line across the last tile and idle cars in
// the lanes beside the player.
func BuildScene(r *road.Road, width, thickness float64, car round.CarModel) *Scene {
	s := &Scene{car: car}
	if thickness <= 0 {
		thickness = 1
	}

	for i, t := range r.Tiles(width) {
		col := Palette.Road
		if i%2 == 1 {
			col = col.Add(12, 12, 13) // alternate tiles so turns read clearly
		}
		s.Boxes = append(s.Boxes, boxInstance{
			Model: boxModel(t.Center(-thickness/2), t.MaxX-t.MinX, thickness, t.MaxZ-t.MinZ),
			Color: col,
		})
	}

	if fin, ok := r.Finish(width); ok {
		s.Boxes = append(s.Boxes, finishStripe(fin)...)
	}

	l, w, h := car.Dimensions()
	parked := FromFloat(car.Color).Mul(110)
	for lane := range round.LaneX {
		if lane == round.PlayerLane {
			continue
		}
		at := mgl64.Vec3{round.StartX(lane, width), h / 2, 0}
		s.Boxes = append(s.Boxes, boxInstance{Model: boxModel(at, w, h, l), Color: parked})
	}
	return s
}

// finishStripe is a two-row checker across the far edge of the last tile.
func finishStripe(f road.Finish) []boxInstance {
	const lift = 0.02
	out := make([]boxInstance, 0, 2*finishSquares)
	sq := f.Width / finishSquares
	for row := 0; row < 2; row++ {
		depth := f.At - FinishDepth*(float64(row)+0.5)/2
		for i := 0; i < finishSquares; i++ {
			col := Palette.FinishA
			if (i+row)%2 == 1 {
				col = Palette.FinishB
			}
			var c mgl64.Vec3
			var m mgl32.Mat4
			if f.Axis == road.AxisX {
				c = mgl64.Vec3{depth, lift, f.Tile.MinZ + sq*(float64(i)+0.5)}
				m = boxModel(c, FinishDepth/2, lift, sq)
			} else {
				c = mgl64.Vec3{f.Tile.MinX + sq*(float64(i)+0.5), lift, depth}
				m = boxModel(c, sq, lift, FinishDepth/2)
			}
			out = append(out, boxInstance{Model: m, Color: col})
		}
	}
	return out
}

// CarModel places the player's body box at pos, turned by rotation about Y.
// rotation excludes the model's base heading, which only orients imported
// meshes.
func (s *Scene) CarModel(pos mgl64.Vec3, rotation float64) mgl32.Mat4 {
	l, w, h := s.car.Dimensions()
	c := toRender(pos.Add(mgl64.Vec3{0, h / 2, 0}))
	return mgl32.Translate3D(c.X(), c.Y(), c.Z()).
		Mul4(mgl32.HomogRotate3DY(renderYaw(rotation))).
		Mul4(mgl32.Scale3D(float32(w), float32(h), float32(l)))
}

// Draw renders the static boxes and the player's car.
func (s *Scene) Draw(r *Renderer, pos mgl64.Vec3, rotation float64) {
	for _, b := range s.Boxes {
		r.DrawBox(b.Model, b.Color)
	}
	r.DrawBox(s.CarModel(pos, rotation), FromFloat(s.car.Color))
}
