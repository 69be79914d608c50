package drive

import "math"

// Scheduler.
const (
	TickRate = 60.0 // simulation ticks per second
)

// Ramp budgets, in ticks.
const (
	AccelTicks = 60 // 1000 ms at TickRate
	TurnTicks  = 30
	FallTicks  = 60
	DecelTicks = 60
)

// Car motion.
const (
	CarSpeed        = 90.0 // world units per second at forward = 1
	CarFallSpeed    = 120.0
	CarAcceleration = 6.0 // per second, pulls velocity toward the heading
	CarFriction     = 6.0 // per second, bleeds velocity off the old heading
)

// Settings groups the tunables of a Car.
type Settings struct {
	TickRate     float64
	AccelTicks   int
	TurnTicks    int
	FallTicks    int
	DecelTicks   int
	Speed        float64
	FallSpeed    float64
	Acceleration float64
	Friction     float64

	// BaseHeading is added to the rotation delta; it orients the car model.
	BaseHeading float64

	// FrameScaled runs exactly one tick per Update with the tick step scaled
	// by the measured frame time. Ramps still advance one tick per frame, so
	// on slow frames they take longer in wall time; only the distance covered
	// per tick follows dt.
	FrameScaled bool
}

func DefaultSettings() Settings {
	return Settings{
		TickRate:     TickRate,
		AccelTicks:   AccelTicks,
		TurnTicks:    TurnTicks,
		FallTicks:    FallTicks,
		DecelTicks:   DecelTicks,
		Speed:        CarSpeed,
		FallSpeed:    CarFallSpeed,
		Acceleration: CarAcceleration,
		Friction:     CarFriction,
	}
}

// TickDuration is the fixed step in seconds.
func (s Settings) TickDuration() float64 {
	if s.TickRate <= 0 {
		return 1.0 / TickRate
	}
	return 1.0 / s.TickRate
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// easeInOut is smoothstep on [0,1]; it fixes both endpoints.
func easeInOut(t float64) float64 {
	t = clampF(t, 0, 1)
	return t * t * (3 - 2*t)
}

const quarterTurn = math.Pi / 2
