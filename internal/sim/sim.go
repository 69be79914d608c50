// Package sim drives a round headlessly from a scripted scenario and
// records what the car did, frame by frame.
package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"driftroad/internal/drive"
	"driftroad/internal/road"
	"driftroad/internal/round"
)

var ErrInvalidScenario = errors.New("invalid scenario")

const (
	defaultMaxFrames = 60 * 120
	defaultWidth     = 30
)

// Input is a host edge delivered on a given frame.
type Input struct {
	Frame int    `json:"frame"`
	Edge  string `json:"edge"` // start, press, release
}

// Scenario is the JSON input of a headless run.
type Scenario struct {
	Seed        uint64  `json:"seed"`
	Level       int     `json:"level"`
	Segments    []int   `json:"segments,omitempty"` // fixed road, overrides generation
	RoadWidth   float64 `json:"road_width"`
	Car         string  `json:"car"`
	TimeStep    float64 `json:"time_step"` // seconds per frame; default one tick
	FrameScaled bool    `json:"frame_scaled"`
	MaxFrames   int     `json:"max_frames"`
	LogEvery    int     `json:"log_every"` // frames between log rows; inputs and outcomes are always logged
	Inputs      []Input `json:"inputs"`
}

type FrameLog struct {
	Frame     int     `json:"frame"`
	Time      float64 `json:"time"` // seconds
	State     string  `json:"state"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Heading   float64 `json:"heading"`
	Forward   float64 `json:"forward"`
	Rightward float64 `json:"rightward"`
	Downward  float64 `json:"downward"`
	Edge      string  `json:"edge,omitempty"`
	Outcome   string  `json:"outcome,omitempty"`

	// Outcomes is set when one frame produced more than one outcome.
	Outcomes []string `json:"outcomes,omitempty"`
}

type ResultLog struct {
	Won      bool    `json:"won"`
	Distance float64 `json:"distance"`
	Elapsed  float64 `json:"elapsed"` // seconds
}

// Log is the JSON output of a headless run.
type Log struct {
	Level    int        `json:"level"`
	Seed     uint64     `json:"seed"`
	Car      string     `json:"car"`
	Segments []int      `json:"segments"`
	Frames   []FrameLog `json:"frames"`
	Outcome  string     `json:"outcome"` // won, lost, or none when frames ran out
	Result   *ResultLog `json:"result,omitempty"`
}

func (sc *Scenario) normalize() ([]drive.Edge, round.CarModel, error) {
	if sc.Level == 0 {
		sc.Level = 1
	}
	if sc.Level < 0 {
		return nil, round.CarModel{}, fmt.Errorf("%w: level %d", ErrInvalidScenario, sc.Level)
	}
	if sc.RoadWidth == 0 {
		sc.RoadWidth = defaultWidth
	}
	if sc.RoadWidth < 0 {
		return nil, round.CarModel{}, fmt.Errorf("%w: road width %v", ErrInvalidScenario, sc.RoadWidth)
	}
	if sc.TimeStep == 0 {
		sc.TimeStep = 1.0 / drive.TickRate
	}
	if sc.TimeStep < 0 {
		return nil, round.CarModel{}, fmt.Errorf("%w: time step %v", ErrInvalidScenario, sc.TimeStep)
	}
	if sc.MaxFrames == 0 {
		sc.MaxFrames = defaultMaxFrames
	}
	if sc.MaxFrames < 0 {
		return nil, round.CarModel{}, fmt.Errorf("%w: max frames %d", ErrInvalidScenario, sc.MaxFrames)
	}
	if sc.LogEvery <= 0 {
		sc.LogEvery = 1
	}
	if sc.Car == "" {
		sc.Car = round.DefaultCar
	}
	model, ok := round.LookupCar(sc.Car)
	if !ok {
		return nil, round.CarModel{}, fmt.Errorf("%w: unknown car %q", ErrInvalidScenario, sc.Car)
	}
	for i, n := range sc.Segments {
		if n < 1 {
			return nil, round.CarModel{}, fmt.Errorf("%w: segment %d has length %d", ErrInvalidScenario, i, n)
		}
	}

	edges := make([]drive.Edge, len(sc.Inputs))
	prev := -1
	for i, in := range sc.Inputs {
		e, ok := drive.ParseEdge(in.Edge)
		if !ok || e == drive.EdgeNone {
			return nil, round.CarModel{}, fmt.Errorf("%w: input %d: unknown edge %q", ErrInvalidScenario, i, in.Edge)
		}
		if in.Frame <= prev {
			return nil, round.CarModel{}, fmt.Errorf("%w: input %d: frame %d not after %d", ErrInvalidScenario, i, in.Frame, prev)
		}
		prev = in.Frame
		edges[i] = e
	}
	return edges, model, nil
}

// Run plays sc to the end of the round or until MaxFrames.
func Run(sc Scenario, log zerolog.Logger) (Log, error) {
	edges, model, err := sc.normalize()
	if err != nil {
		return Log{}, err
	}

	s := round.NewSession(round.Options{
		Seed:        sc.Seed,
		Level:       sc.Level,
		Car:         model,
		RoadWidth:   sc.RoadWidth,
		FrameScaled: sc.FrameScaled,
	}, log)
	if sc.Segments != nil {
		s.Load(sc.Level, road.FromSegments(sc.Segments...))
	} else {
		s.StartRound(sc.Level)
	}
	s.Ready()

	out := Log{
		Level:    s.Level,
		Seed:     s.Seed,
		Car:      model.Name,
		Segments: append([]int{}, s.Road.Segments...),
		Outcome:  drive.OutcomeNone.String(),
	}

	next := 0
	for frame := 0; frame < sc.MaxFrames; frame++ {
		edge := drive.EdgeNone
		if next < len(sc.Inputs) && sc.Inputs[next].Frame == frame {
			edge = edges[next]
			next++
		}

		f := s.Update(sc.TimeStep, edge)
		over := s.Phase == round.PhaseWon || s.Phase == round.PhaseLost

		if frame%sc.LogEvery == 0 || edge != drive.EdgeNone || f.Outcome != drive.OutcomeNone || over {
			out.Frames = append(out.Frames, frameLog(frame, sc.TimeStep, s, f, edge))
		}
		if over {
			res := s.Result()
			out.Outcome = f.Outcome.String()
			out.Result = &ResultLog{
				Won:      res.Won,
				Distance: res.Distance,
				Elapsed:  res.Elapsed.Seconds(),
			}
			break
		}
	}

	log.Debug().Int("frames", len(out.Frames)).Str("outcome", out.Outcome).Msg("scenario finished")
	return out, nil
}

func frameLog(frame int, step float64, s *round.Session, f drive.Frame, edge drive.Edge) FrameLog {
	fl := FrameLog{
		Frame:     frame,
		Time:      float64(frame+1) * step,
		State:     f.State.String(),
		X:         s.Pos.X(),
		Y:         s.Pos.Y(),
		Z:         s.Pos.Z(),
		Heading:   f.Heading,
		Forward:   s.Car.Forward(),
		Rightward: s.Car.Rightward(),
		Downward:  s.Car.Downward(),
	}
	if edge != drive.EdgeNone {
		fl.Edge = edge.String()
	}
	if f.Outcome != drive.OutcomeNone {
		fl.Outcome = f.Outcome.String()
	}
	if len(f.Outcomes) > 1 {
		for _, o := range f.Outcomes {
			fl.Outcomes = append(fl.Outcomes, o.String())
		}
	}
	return fl
}

// RunJSON is Run over JSON text.
func RunJSON(input string, log zerolog.Logger) (string, error) {
	var sc Scenario
	if err := json.Unmarshal([]byte(input), &sc); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	start := time.Now()
	out, err := Run(sc, log)
	if err != nil {
		return "", err
	}
	log.Debug().Dur("took", time.Since(start)).Msg("scenario run")

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshaling log: %w", err)
	}
	return string(data), nil
}
