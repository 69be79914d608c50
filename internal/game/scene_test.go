package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftroad/internal/road"
	"driftroad/internal/round"
)

func translation(m mgl32.Mat4) mgl32.Vec3 { return m.Col(3).Vec3() }

func TestToRender_MirrorsX(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{-3, 2, 1}, toRender(mgl64.Vec3{3, 2, 1}))
	assert.Equal(t, float32(-1), renderYaw(1))
}

func TestCubeVertices(t *testing.T) {
	v := cubeVertices()
	require.Len(t, v, 36*6)
	for i := 0; i < len(v); i += 6 {
		for k := 0; k < 3; k++ {
			assert.InDelta(t, 0.5, math.Abs(float64(v[i+k])), 1e-6, "vertex %d", i/6)
		}
		n := mgl32.Vec3{v[i+3], v[i+4], v[i+5]}
		assert.InDelta(t, 1, n.Len(), 1e-6)
		// every vertex lies on the face its normal points out of
		assert.InDelta(t, 0.5, mgl32.Vec3{v[i], v[i+1], v[i+2]}.Dot(n), 1e-6)
	}
}

func TestBuildScene(t *testing.T) {
	car, _ := round.LookupCar("shelby1967")
	r := road.FromSegments(2, 10)
	s := BuildScene(r, 30, 1, car)

	require.Len(t, s.Boxes, 2+2*finishSquares+2)

	tiles := r.Tiles(30)
	for i, tile := range tiles {
		want := toRender(tile.Center(-0.5))
		assert.Equal(t, want, translation(s.Boxes[i].Model), "tile %d", i)
	}
	assert.Equal(t, Palette.Road, s.Boxes[0].Color)
	assert.Equal(t, RGB{R: 72, G: 78, B: 92}, s.Boxes[1].Color)

	// Finish runs along X on the last tile: squares sit just before x=300.
	for _, b := range s.Boxes[2 : 2+2*finishSquares] {
		p := translation(b.Model)
		assert.InDelta(t, -300, p.X(), FinishDepth)
		assert.GreaterOrEqual(t, p.Z(), float32(60))
		assert.LessOrEqual(t, p.Z(), float32(90))
	}

	// Idle cars in the outer lanes.
	parked := s.Boxes[len(s.Boxes)-2:]
	assert.InDelta(t, -5, translation(parked[0].Model).X(), 1e-5)
	assert.InDelta(t, -25, translation(parked[1].Model).X(), 1e-5)
	assert.Equal(t, FromFloat(car.Color).Mul(110), parked[0].Color)
}

func TestBuildScene_EmptyRoad(t *testing.T) {
	car, _ := round.LookupCar(round.DefaultCar)
	s := BuildScene(road.FromSegments(), 30, 0, car)
	assert.Len(t, s.Boxes, 2, "only the idle cars")
}

func TestScene_CarModelFacesTravel(t *testing.T) {
	car, _ := round.LookupCar("shelby1967")
	s := &Scene{car: car}
	l, _, h := car.Dimensions()

	nose := func(rotation float64) mgl32.Vec3 {
		m := s.CarModel(mgl64.Vec3{15, 0, 0}, rotation)
		front := m.Mul4x1(mgl32.Vec4{0, 0, 0.5, 1}).Vec3()
		return front.Sub(translation(m))
	}

	assert.InDelta(t, -15, translation(s.CarModel(mgl64.Vec3{15, 0, 0}, 0)).X(), 1e-5)
	assert.InDelta(t, h/2, translation(s.CarModel(mgl64.Vec3{15, 0, 0}, 0)).Y(), 1e-5)

	straight := nose(0)
	assert.InDelta(t, l/2, straight.Z(), 1e-4)
	assert.InDelta(t, 0, straight.X(), 1e-4)

	// A quarter turn points the nose down world +X, which renders as -X.
	right := nose(math.Pi / 2)
	assert.InDelta(t, -l/2, right.X(), 1e-4)
	assert.InDelta(t, 0, right.Z(), 1e-4)
}
