package drive

// ramp counts fixed ticks toward a budget. It replaces a coroutine that
// slept between increments: the scheduler advances it once per tick.
type ramp struct {
	active bool
	tick   int
	budget int
}

func (r *ramp) start(budget int) {
	if budget < 1 {
		budget = 1
	}
	r.active = true
	r.tick = 0
	r.budget = budget
}

// progress is in [0,1].
func (r *ramp) progress() float64 {
	if r.budget == 0 {
		return 0
	}
	return float64(r.tick) / float64(r.budget)
}

// invert resumes the ramp from the mirrored point so a reversed
// interpolation takes as many ticks as were already spent.
func (r *ramp) invert() {
	r.tick = r.budget - r.tick
}

// advance steps the ramp and reports whether it just completed.
func (r *ramp) advance() bool {
	if !r.active {
		return false
	}
	r.tick++
	if r.tick >= r.budget {
		r.tick = r.budget
		r.active = false
		return true
	}
	return false
}
