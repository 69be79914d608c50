// Package drive implements the per-tick movement of the car: acceleration
// from a standstill, the timed turn between the two road axes with drift,
// falling off the road and stopping past the finish line.
//
// A Car is advanced by a fixed-timestep scheduler. Every ramp (accelerate,
// turn, fall, decelerate) is a tick counter advanced once per scheduler tick;
// input arrives as explicit edges and is applied synchronously.
package drive

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"driftroad/internal/road"
)

// Frame is what the host applies to its car transform after Update.
type Frame struct {
	Delta   mgl64.Vec3 // position change: X right, Y up, Z forward
	Heading float64    // radians, base heading plus rotation delta
	State   State
	Outcome Outcome // last entry of Outcomes, or OutcomeNone
	Ticks   int     // scheduler ticks run during this Update

	// Outcomes lists every outcome of this Update in order. One long
	// Update can both start and end a round.
	Outcomes []Outcome
}

func (f *Frame) add(o Outcome) {
	if o == OutcomeNone {
		return
	}
	f.Outcome = o
	f.Outcomes = append(f.Outcomes, o)
}

// Result summarises a finished round.
type Result struct {
	Won      bool
	Distance float64       // world units travelled
	Elapsed  time.Duration // start to finish line (or to the fall)
}

type Car struct {
	cfg   Settings
	road  *road.Road
	width float64

	state State

	forward   float64
	rightward float64
	downward  float64

	rotationDelta   float64
	turningProgress float64 // 0 fully forward, 1 fully right

	forwardDist float64
	rightDist   float64
	elapsed     float64

	held      bool // turn input held
	turnRight bool // target of the current or last turn ramp

	accel ramp
	turn  ramp
	fall  ramp
	decel ramp

	decelFrom [2]float64

	start     mgl64.Vec3
	finish    road.Finish
	hasFinish bool

	acc    float64
	done   bool
	result Result
}

// NewCar places a car at start on r. The finish line is the far edge of
// the last segment of r; the car crosses it once start plus the distance
// travelled reaches it.
func NewCar(r *road.Road, width float64, start mgl64.Vec3, cfg Settings) *Car {
	c := &Car{
		cfg:   cfg,
		road:  r,
		width: width,
		state: StateStill,
		start: start,
	}
	c.finish, c.hasFinish = r.Finish(width)
	return c
}

// Update applies edge, then runs as many fixed ticks as dt covers. pos is
// the car position before this update; containment is tested against pos
// plus the movement accumulated so far.
//
// With Settings.FrameScaled exactly one tick runs, scaled by dt.
func (c *Car) Update(dt float64, edge Edge, pos mgl64.Vec3) Frame {
	var f Frame
	f.add(c.apply(edge))

	if c.cfg.FrameScaled {
		c.tick(dt, pos, &f)
	} else {
		step := c.cfg.TickDuration()
		c.acc += dt
		for c.acc >= step {
			c.acc -= step
			c.tick(step, pos, &f)
		}
	}

	f.Heading = c.Heading()
	f.State = c.state
	return f
}

// Step applies edge and runs exactly one fixed tick.
func (c *Car) Step(edge Edge, pos mgl64.Vec3) Frame {
	var f Frame
	f.add(c.apply(edge))
	c.tick(c.cfg.TickDuration(), pos, &f)
	f.Heading = c.Heading()
	f.State = c.state
	return f
}

// Decelerate starts the stop ramp immediately.
func (c *Car) Decelerate() {
	if c.state == StateFall || c.state == StateDecel {
		return
	}
	c.enterDecel()
}

func (c *Car) apply(edge Edge) Outcome {
	switch edge {
	case EdgeStart:
		if c.state == StateStill {
			c.state = StateForward
			c.accel.start(c.cfg.AccelTicks)
			return OutcomeStarted
		}
	case EdgePress:
		c.held = true
	case EdgeRelease:
		c.held = false
	}
	return OutcomeNone
}

func (c *Car) tick(step float64, pos mgl64.Vec3, f *Frame) {
	if c.state == StateStill {
		return
	}
	f.Ticks++

	switch c.state {
	case StateForward, StateRight:
		if c.accel.active {
			c.accel.advance()
			c.forward = c.accel.progress()
		} else {
			c.steer()
			c.advanceTurn()
			c.drift(step)
		}

	case StateFall:
		if c.fall.active {
			done := c.fall.advance()
			c.downward = c.fall.progress()
			if done {
				c.finishRound(false)
				f.add(OutcomeLost)
			}
		}

	case StateDecel:
		if c.decel.active {
			done := c.decel.advance()
			p := c.decel.progress()
			c.forward = c.decelFrom[0] * (1 - p)
			c.rightward = c.decelFrom[1] * (1 - p)
			c.rotationDelta += math.Pi / float64(c.decel.budget)
			if done {
				c.finishRound(true)
				f.add(OutcomeWon)
			}
		}
	}

	d := mgl64.Vec3{
		c.rightward * c.cfg.Speed * step,
		-c.downward * c.cfg.FallSpeed * step,
		c.forward * c.cfg.Speed * step,
	}
	f.Delta = f.Delta.Add(d)
	c.forwardDist += d.Z()
	c.rightDist += d.X()

	if !c.state.Driving() {
		return
	}
	c.elapsed += step

	if c.finishCrossed() {
		c.enterDecel()
		return
	}
	if !c.road.Contains(pos.Add(f.Delta), c.width) {
		c.enterFall()
	}
}

// steer starts a turn ramp when the held input disagrees with the current
// turn target. A ramp still in flight is inverted instead of restarted.
func (c *Car) steer() {
	if c.held == c.turnRight {
		return
	}
	c.turnRight = c.held
	if c.turn.active {
		c.turn.invert()
	} else {
		c.turn.start(c.cfg.TurnTicks)
	}
	if c.turnRight {
		c.state = StateRight
	} else {
		c.state = StateForward
	}
}

func (c *Car) advanceTurn() {
	if !c.turn.active {
		return
	}
	c.turn.advance()
	p := c.turn.progress()
	if c.turnRight {
		c.turningProgress = p
	} else {
		c.turningProgress = 1 - p
	}
}

// drift pulls both velocity components toward the current heading.
func (c *Car) drift(step float64) {
	rotation := easeInOut(c.turningProgress) * quarterTurn
	c.rotationDelta = rotation

	forwardComponent := math.Cos(rotation)
	sideComponent := math.Sin(rotation)
	c.forward = clampF(c.forward+(c.cfg.Acceleration*forwardComponent-c.cfg.Friction*c.forward)*step, 0, 1)
	c.rightward = clampF(c.rightward+(c.cfg.Acceleration*sideComponent-c.cfg.Friction*c.rightward)*step, 0, 1)
}

func (c *Car) finishCrossed() bool {
	if !c.hasFinish {
		return false
	}
	return c.finish.Crossed(c.start.Add(mgl64.Vec3{c.rightDist, 0, c.forwardDist}))
}

func (c *Car) enterFall() {
	c.state = StateFall
	c.turn.active = false
	c.fall.start(c.cfg.FallTicks)
}

func (c *Car) enterDecel() {
	c.state = StateDecel
	c.turn.active = false
	c.accel.active = false
	c.decelFrom = [2]float64{c.forward, c.rightward}
	c.decel.start(c.cfg.DecelTicks)
}

func (c *Car) finishRound(won bool) {
	c.done = true
	c.result = Result{
		Won:      won,
		Distance: c.forwardDist + c.rightDist,
		Elapsed:  time.Duration(c.elapsed * float64(time.Second)),
	}
}

func (c *Car) State() State             { return c.state }
func (c *Car) Forward() float64         { return c.forward }
func (c *Car) Rightward() float64       { return c.rightward }
func (c *Car) Downward() float64        { return c.downward }
func (c *Car) RotationDelta() float64   { return c.rotationDelta }
func (c *Car) TurningProgress() float64 { return c.turningProgress }
func (c *Car) Held() bool               { return c.held }
func (c *Car) Width() float64           { return c.width }

// Heading returns the base heading plus the rotation delta.
func (c *Car) Heading() float64 { return c.cfg.BaseHeading + c.rotationDelta }

// Distances returns the accumulated travel along Z and X.
func (c *Car) Distances() (forward, right float64) { return c.forwardDist, c.rightDist }

// Elapsed returns driving time so far.
func (c *Car) Elapsed() time.Duration {
	return time.Duration(c.elapsed * float64(time.Second))
}

// Speed is the horizontal velocity magnitude relative to full speed.
func (c *Car) Speed() float64 { return math.Hypot(c.forward, c.rightward) }

// Result is valid once the round has been won or lost.
func (c *Car) Result() (Result, bool) { return c.result, c.done }
