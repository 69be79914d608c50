package drive

// State is the movement state of the car.
type State int

const (
	StateStill   State = iota // waiting for the start trigger
	StateForward              // driving, turn input released
	StateRight                // driving, turn input held
	StateFall                 // left the road; terminal
	StateDecel                // crossed the finish line; terminal
)

func (s State) String() string {
	switch s {
	case StateStill:
		return "still"
	case StateForward:
		return "forward"
	case StateRight:
		return "right"
	case StateFall:
		return "fall"
	case StateDecel:
		return "decel"
	}
	return "unknown"
}

// Driving reports whether the car is on the road and steerable.
func (s State) Driving() bool {
	return s == StateForward || s == StateRight
}

// Edge is an input event delivered to Update.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeStart
	EdgePress   // turn input became held
	EdgeRelease // turn input became released
)

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeStart:
		return "start"
	case EdgePress:
		return "press"
	case EdgeRelease:
		return "release"
	}
	return "unknown"
}

// ParseEdge is the inverse of Edge.String.
func ParseEdge(s string) (Edge, bool) {
	for e := EdgeNone; e <= EdgeRelease; e++ {
		if e.String() == s {
			return e, true
		}
	}
	return EdgeNone, false
}

// Outcome is reported once, on the tick a state is entered or completed.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeStarted
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	}
	return "none"
}
