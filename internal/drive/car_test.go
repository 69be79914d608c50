package drive

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftroad/internal/road"
)

// rig keeps the car position the way a host would.
type rig struct {
	car *Car
	pos mgl64.Vec3
	out []Outcome
}

func newRig(r *road.Road, width float64, start mgl64.Vec3, cfg Settings) *rig {
	return &rig{car: NewCar(r, width, start, cfg), pos: start}
}

// openRig is a single straight segment wide enough that no test leaves it.
func openRig() *rig {
	return newRig(road.FromSegments(1000), 1000, mgl64.Vec3{500, 0, 10}, DefaultSettings())
}

func (r *rig) step(edge Edge) Frame {
	f := r.car.Step(edge, r.pos)
	r.pos = r.pos.Add(f.Delta)
	r.out = append(r.out, f.Outcomes...)
	return f
}

func (r *rig) run(n int) {
	for i := 0; i < n; i++ {
		r.step(EdgeNone)
	}
}

// until steps until cond holds or limit ticks pass.
func (r *rig) until(limit int, cond func(*Car) bool) bool {
	for i := 0; i < limit; i++ {
		if cond(r.car) {
			return true
		}
		r.step(EdgeNone)
	}
	return cond(r.car)
}

func TestCar_StillUntilStarted(t *testing.T) {
	rg := openRig()
	for i := 0; i < 10; i++ {
		f := rg.car.Update(0.1, EdgeNone, rg.pos)
		assert.Equal(t, 0, f.Ticks)
		assert.Equal(t, mgl64.Vec3{}, f.Delta)
		assert.Equal(t, StateStill, f.State)
	}
	// Turn input before the start is remembered but moves nothing.
	f := rg.step(EdgePress)
	assert.Equal(t, StateStill, f.State)
	assert.True(t, rg.car.Held())
}

func TestCar_Accelerate(t *testing.T) {
	rg := openRig()

	f := rg.step(EdgeStart)
	assert.Equal(t, OutcomeStarted, f.Outcome)
	assert.Equal(t, StateForward, f.State)
	assert.InDelta(t, 1.0/60, rg.car.Forward(), 1e-12)

	rg.run(29)
	assert.InDelta(t, 0.5, rg.car.Forward(), 1e-12)

	rg.run(30)
	assert.Equal(t, 1.0, rg.car.Forward())
	assert.Equal(t, 0.0, rg.car.Rightward())
	assert.Equal(t, []Outcome{OutcomeStarted}, rg.out)

	// A second start does nothing.
	f = rg.step(EdgeStart)
	assert.Equal(t, OutcomeNone, f.Outcome)
}

func TestCar_MovesAlongZ(t *testing.T) {
	rg := openRig()
	start := rg.pos
	rg.step(EdgeStart)
	rg.run(119)

	assert.Equal(t, start.X(), rg.pos.X())
	assert.Equal(t, start.Y(), rg.pos.Y())
	assert.Greater(t, rg.pos.Z(), start.Z())

	fwd, right := rg.car.Distances()
	assert.InDelta(t, rg.pos.Z()-start.Z(), fwd, 1e-9)
	assert.Equal(t, 0.0, right)
}

func accelerated(t *testing.T) *rig {
	t.Helper()
	rg := openRig()
	rg.step(EdgeStart)
	rg.run(AccelTicks - 1)
	require.Equal(t, 1.0, rg.car.Forward())
	return rg
}

func TestCar_FullTurn(t *testing.T) {
	rg := accelerated(t)

	f := rg.step(EdgePress)
	assert.Equal(t, StateRight, f.State)
	rg.run(TurnTicks - 1)

	assert.Equal(t, 1.0, rg.car.TurningProgress())
	assert.InDelta(t, math.Pi/2, rg.car.RotationDelta(), 1e-12)

	rg.run(240)
	assert.InDelta(t, 1.0, rg.car.Rightward(), 1e-3)
	assert.InDelta(t, 0.0, rg.car.Forward(), 1e-3)
	assert.InDelta(t, math.Pi/2, rg.car.RotationDelta(), 1e-12)
}

func TestCar_TurnIsReversible(t *testing.T) {
	rg := accelerated(t)

	rg.step(EdgePress)
	rg.run(9)
	assert.InDelta(t, 10.0/30, rg.car.TurningProgress(), 1e-12)

	f := rg.step(EdgeRelease)
	assert.Equal(t, StateForward, f.State)
	assert.InDelta(t, 9.0/30, rg.car.TurningProgress(), 1e-12)

	rg.run(4)
	assert.InDelta(t, 5.0/30, rg.car.TurningProgress(), 1e-12)

	rg.run(5)
	assert.InDelta(t, 0.0, rg.car.TurningProgress(), 1e-12)
	assert.InDelta(t, 0.0, rg.car.RotationDelta(), 1e-12)

	// Further ticks keep it there.
	rg.run(20)
	assert.InDelta(t, 0.0, rg.car.TurningProgress(), 1e-12)
}

func TestCar_ReleaseAfterCompletedTurn(t *testing.T) {
	rg := accelerated(t)

	rg.step(EdgePress)
	rg.run(TurnTicks + 10)
	require.Equal(t, 1.0, rg.car.TurningProgress())

	rg.step(EdgeRelease)
	assert.InDelta(t, 29.0/30, rg.car.TurningProgress(), 1e-12)
	rg.run(TurnTicks - 1)
	assert.InDelta(t, 0.0, rg.car.TurningProgress(), 1e-12)
}

func TestCar_PressDuringAccelerationWaits(t *testing.T) {
	rg := openRig()
	rg.step(EdgeStart)
	rg.step(EdgePress)
	rg.run(AccelTicks - 2)

	assert.Equal(t, 1.0, rg.car.Forward())
	assert.Equal(t, 0.0, rg.car.TurningProgress())
	assert.Equal(t, StateForward, rg.car.State())

	f := rg.step(EdgeNone)
	assert.Equal(t, StateRight, f.State)
	rg.run(TurnTicks - 1)
	assert.Equal(t, 1.0, rg.car.TurningProgress())
}

func TestCar_Decelerate(t *testing.T) {
	rg := accelerated(t)

	rg.car.Decelerate()
	assert.Equal(t, StateDecel, rg.car.State())
	rg.run(DecelTicks - 1)
	assert.InDelta(t, 1.0/60, rg.car.Forward(), 1e-12)
	assert.Empty(t, rg.out[1:])

	f := rg.step(EdgeNone)
	assert.Equal(t, OutcomeWon, f.Outcome)
	assert.InDelta(t, 0.0, rg.car.Forward(), 1e-12)
	assert.InDelta(t, 0.0, rg.car.Rightward(), 1e-12)
	assert.InDelta(t, math.Pi, rg.car.RotationDelta(), 1e-9)

	res, ok := rg.car.Result()
	require.True(t, ok)
	assert.True(t, res.Won)

	// Terminal: input and further ticks change nothing.
	before := rg.pos
	rg.step(EdgePress)
	rg.run(30)
	assert.Equal(t, before, rg.pos)
	assert.Equal(t, []Outcome{OutcomeStarted, OutcomeWon}, rg.out)
}

func TestCar_FallsWhenStartedOffRoad(t *testing.T) {
	rg := newRig(road.FromSegments(2), 30, mgl64.Vec3{100, 0, 0}, DefaultSettings())

	f := rg.step(EdgeStart)
	assert.Equal(t, StateFall, f.State)

	rg.run(FallTicks - 1)
	assert.Equal(t, []Outcome{OutcomeStarted}, rg.out)

	f = rg.step(EdgeNone)
	assert.Equal(t, OutcomeLost, f.Outcome)
	assert.Equal(t, 1.0, rg.car.Downward())
	assert.Less(t, rg.pos.Y(), 0.0)

	res, ok := rg.car.Result()
	require.True(t, ok)
	assert.False(t, res.Won)
}

func TestCar_FallsWhenTurningOffRoad(t *testing.T) {
	rg := newRig(road.FromSegments(20), 30, mgl64.Vec3{15, 0, 1}, DefaultSettings())
	rg.step(EdgeStart)
	rg.run(AccelTicks - 1)
	rg.step(EdgePress)

	require.True(t, rg.until(600, func(c *Car) bool { return c.State() == StateFall }))
	assert.Greater(t, rg.pos.X(), 30.0)

	// The turn stops with the fall.
	progress := rg.car.TurningProgress()
	rg.run(FallTicks)
	assert.Equal(t, progress, rg.car.TurningProgress())
	assert.Equal(t, []Outcome{OutcomeStarted, OutcomeLost}, rg.out)
}

func TestCar_EmptyRoadFallsImmediately(t *testing.T) {
	rg := newRig(road.FromSegments(), 30, mgl64.Vec3{15, 0, 0}, DefaultSettings())
	f := rg.step(EdgeStart)
	assert.Equal(t, StateFall, f.State)
}

func TestCar_FinishLineWins(t *testing.T) {
	rg := newRig(road.FromSegments(3), 30, mgl64.Vec3{15, 0, 0}, DefaultSettings())
	rg.step(EdgeStart)

	require.True(t, rg.until(600, func(c *Car) bool { return c.State() == StateDecel }))
	assert.GreaterOrEqual(t, rg.pos.Z(), 90.0)
	elapsed := rg.car.Elapsed()

	require.True(t, rg.until(DecelTicks+1, func(c *Car) bool {
		_, done := c.Result()
		return done
	}))
	assert.Equal(t, []Outcome{OutcomeStarted, OutcomeWon}, rg.out)

	res, _ := rg.car.Result()
	assert.True(t, res.Won)
	assert.GreaterOrEqual(t, res.Distance, 90.0)
	assert.Equal(t, elapsed, res.Elapsed, "clock stops at the line")
	assert.Greater(t, res.Elapsed, time.Second)
}

func TestCar_FinishAlongX(t *testing.T) {
	// Two tiles forward, then a long run right ending at x = 300.
	rg := newRig(road.FromSegments(2, 10), 30, mgl64.Vec3{15, 0, 0}, DefaultSettings())
	rg.step(EdgeStart)
	rg.step(EdgePress)

	require.True(t, rg.until(2000, func(c *Car) bool { return !c.State().Driving() }))
	assert.Equal(t, StateDecel, rg.car.State(), "pos %v", rg.pos)
	_, right := rg.car.Distances()
	assert.GreaterOrEqual(t, right, 300.0-15)
}

func TestCar_UpdateAccumulatesTicks(t *testing.T) {
	rg := openRig()
	step := DefaultSettings().TickDuration()

	f := rg.car.Update(0.6*step, EdgeStart, rg.pos)
	assert.Equal(t, OutcomeStarted, f.Outcome)
	assert.Equal(t, 0, f.Ticks)

	f = rg.car.Update(0.6*step, EdgeNone, rg.pos)
	assert.Equal(t, 1, f.Ticks)

	f = rg.car.Update(3.5*step, EdgeNone, rg.pos)
	assert.Equal(t, 3, f.Ticks)
	assert.InDelta(t, 4.0/60, rg.car.Forward(), 1e-12)
}

func TestCar_FrameScaled(t *testing.T) {
	cfg := DefaultSettings()
	cfg.FrameScaled = true
	rg := newRig(road.FromSegments(1000), 1000, mgl64.Vec3{500, 0, 10}, cfg)

	f := rg.car.Update(0.1, EdgeStart, rg.pos)
	assert.Equal(t, 1, f.Ticks)
	assert.InDelta(t, 1.0/60, rg.car.Forward(), 1e-12)
	assert.InDelta(t, 1.0/60*CarSpeed*0.1, f.Delta.Z(), 1e-12)
	assert.Equal(t, 100*time.Millisecond, rg.car.Elapsed())
}

func TestCar_Heading(t *testing.T) {
	cfg := DefaultSettings()
	cfg.BaseHeading = math.Pi
	rg := newRig(road.FromSegments(1000), 1000, mgl64.Vec3{500, 0, 10}, cfg)
	rg.step(EdgeStart)
	rg.run(AccelTicks - 1)
	rg.step(EdgePress)
	f := rg.step(EdgeNone)
	rg.run(TurnTicks)

	assert.InDelta(t, math.Pi*1.5, rg.car.Heading(), 1e-12)
	assert.Greater(t, f.Heading, math.Pi)
}

func TestState_Strings(t *testing.T) {
	assert.Equal(t, "decel", StateDecel.String())
	assert.Equal(t, "won", OutcomeWon.String())
	for _, e := range []Edge{EdgeNone, EdgeStart, EdgePress, EdgeRelease} {
		got, ok := ParseEdge(e.String())
		assert.True(t, ok)
		assert.Equal(t, e, got)
	}
	_, ok := ParseEdge("honk")
	assert.False(t, ok)
}

func TestRamp_Invert(t *testing.T) {
	var r ramp
	r.start(30)
	for i := 0; i < 12; i++ {
		r.advance()
	}
	r.invert()
	assert.Equal(t, 18, r.tick)
	assert.True(t, r.active)

	var zero ramp
	zero.start(0)
	assert.True(t, zero.advance(), "budget clamps to one tick")
}

func TestCar_LongUpdateKeepsEveryOutcome(t *testing.T) {
	rg := newRig(road.FromSegments(2), 30, mgl64.Vec3{15, 0, 0}, DefaultSettings())

	f := rg.car.Update(3.0, EdgeStart, rg.pos)
	assert.Equal(t, []Outcome{OutcomeStarted, OutcomeWon}, f.Outcomes)
	assert.Equal(t, OutcomeWon, f.Outcome)
	assert.Equal(t, StateDecel, f.State)

	rg = newRig(road.FromSegments(), 30, mgl64.Vec3{15, 0, 0}, DefaultSettings())
	f = rg.car.Update(3.0, EdgeStart, rg.pos)
	assert.Equal(t, []Outcome{OutcomeStarted, OutcomeLost}, f.Outcomes)
}

func TestCar_NoOutcomeLeavesListEmpty(t *testing.T) {
	rg := openRig()
	f := rg.car.Update(0.5, EdgeNone, rg.pos)
	assert.Empty(t, f.Outcomes)
	assert.Equal(t, OutcomeNone, f.Outcome)
}
