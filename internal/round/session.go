package round

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"driftroad/internal/drive"
	"driftroad/internal/road"
)

type Phase int

const (
	PhaseMenu    Phase = iota
	PhaseLoading       // road built, host preparing meshes
	PhasePlaying       // car still or driving
	PhaseWon           // stopped past the finish line
	PhaseLost          // fell off the road
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	}
	return "unknown"
}

// Options are fixed for the lifetime of a Session.
type Options struct {
	Seed        uint64
	Level       int
	Car         CarModel
	RoadWidth   float64
	FrameScaled bool
	Drive       *drive.Settings // nil means drive.DefaultSettings
}

// Session runs consecutive rounds: one road and one car per round.
type Session struct {
	Phase   Phase
	Level   int
	Attempt int
	Seed    uint64 // seed of the current road

	Road    *road.Road
	Car     *drive.Car
	Pos     mgl64.Vec3
	Heading float64

	Bus *EventBus

	opts   Options
	log    zerolog.Logger
	result drive.Result
}

func NewSession(opts Options, log zerolog.Logger) *Session {
	if opts.Level < 1 {
		opts.Level = 1
	}
	if opts.RoadWidth <= 0 {
		opts.RoadWidth = 30
	}
	if opts.Car.Name == "" {
		opts.Car, _ = LookupCar(DefaultCar)
	}
	return &Session{
		Phase: PhaseMenu,
		Level: opts.Level,
		Bus:   NewEventBus(),
		opts:  opts,
		log:   log,
	}
}

// StartRound generates the road for level and places a fresh car on it.
// Retries of the same level use a new road.
func (s *Session) StartRound(level int) {
	if level < 1 {
		level = 1
	}
	if level == s.Level && s.Road != nil {
		s.Attempt++
	} else {
		s.Attempt = 0
	}
	s.Level = level
	s.Seed = road.MixSeed(s.opts.Seed, level, s.Attempt)

	lc := LevelConfig(level)
	s.Load(level, road.New(lc.Length, lc.Curve(), road.NewRand(s.Seed)))
}

// Load places a fresh car on a prepared road.
func (s *Session) Load(level int, r *road.Road) {
	s.Level = level
	s.Road = r

	cfg := drive.DefaultSettings()
	if s.opts.Drive != nil {
		cfg = *s.opts.Drive
	}
	cfg.BaseHeading = s.opts.Car.BaseHeading
	cfg.FrameScaled = s.opts.FrameScaled

	s.Pos = mgl64.Vec3{StartX(PlayerLane, s.opts.RoadWidth), 0, 0}
	s.Car = drive.NewCar(s.Road, s.opts.RoadWidth, s.Pos, cfg)
	s.Heading = s.Car.Heading()
	s.result = drive.Result{}
	s.Phase = PhaseLoading

	s.log.Info().
		Int("lvl", level).
		Int("attempt", s.Attempt).
		Uint64("seed", s.Seed).
		Ints("segments", s.Road.Segments).
		Str("car", s.opts.Car.Name).
		Msg("round generated")
}

// Ready ends the loading phase.
func (s *Session) Ready() {
	if s.Phase == PhaseLoading {
		s.Phase = PhasePlaying
	}
}

// Next starts the following round: the next level after a win, the same
// level otherwise.
func (s *Session) Next() {
	if s.Phase == PhaseWon {
		s.StartRound(s.Level + 1)
		return
	}
	s.StartRound(s.Level)
}

// EdgeFor turns host key transitions into a drive edge. The first press of
// a round starts the car; later ones steer.
func (s *Session) EdgeFor(pressed, released bool) drive.Edge {
	if s.Car == nil {
		return drive.EdgeNone
	}
	switch {
	case pressed && s.Car.State() == drive.StateStill:
		return drive.EdgeStart
	case pressed:
		return drive.EdgePress
	case released:
		return drive.EdgeRelease
	}
	return drive.EdgeNone
}

// Update advances the car and publishes what happened.
func (s *Session) Update(dt float64, edge drive.Edge) drive.Frame {
	if s.Phase == PhaseLoading {
		s.Ready()
	}
	if s.Phase != PhasePlaying || s.Car == nil {
		return drive.Frame{State: s.carState(), Heading: s.Heading}
	}

	before := s.Car.State()
	f := s.Car.Update(dt, edge, s.Pos)
	s.Pos = s.Pos.Add(f.Delta)
	s.Heading = f.Heading

	if before.Driving() && (edge == drive.EdgePress || edge == drive.EdgeRelease) {
		s.Bus.Emit(Event{Type: EventTurn, Level: s.Level, Seed: s.Seed, Pressed: edge == drive.EdgePress})
	}

	for _, o := range f.Outcomes {
		if o == drive.OutcomeStarted {
			s.log.Info().Int("lvl", s.Level).Msg("round started")
			s.Bus.Emit(Event{Type: EventRoundStarted, Level: s.Level, Seed: s.Seed})
		}
	}
	if before != drive.StateFall && f.State == drive.StateFall {
		s.log.Debug().Int("lvl", s.Level).Float64("x", s.Pos.X()).Float64("z", s.Pos.Z()).Msg("left the road")
		s.Bus.Emit(Event{Type: EventFall, Level: s.Level, Seed: s.Seed})
	}
	for _, o := range f.Outcomes {
		switch o {
		case drive.OutcomeWon:
			s.finish(PhaseWon, EventRoundWon)
		case drive.OutcomeLost:
			s.finish(PhaseLost, EventRoundLost)
		}
	}
	return f
}

func (s *Session) finish(p Phase, t EventType) {
	s.Phase = p
	s.result, _ = s.Car.Result()
	s.log.Info().
		Int("lvl", s.Level).
		Bool("won", s.result.Won).
		Float64("distance", s.result.Distance).
		Dur("elapsed", s.result.Elapsed).
		Msg("round over")
	s.Bus.Emit(Event{Type: t, Level: s.Level, Seed: s.Seed, Result: s.result})
}

func (s *Session) carState() drive.State {
	if s.Car == nil {
		return drive.StateStill
	}
	return s.Car.State()
}

// Result is the outcome of the last finished round.
func (s *Session) Result() drive.Result { return s.result }
