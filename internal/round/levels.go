package round

import "driftroad/internal/road"

// Level describes the road of one round.
type Level struct {
	Length       int     // road steps
	CurveDivisor float64 // turn probability is straightRun / CurveDivisor
}

// Curve returns the turn probability function for the level.
func (l Level) Curve() road.CurveFunc {
	return road.Linear(l.CurveDivisor)
}

// LevelConfig returns the road settings for a given level.
// Levels 1–6 are hand-tuned; beyond that the road gets longer and twistier.
func LevelConfig(level int) Level {
	switch {
	case level <= 1:
		// The classic 50-step road.
		return Level{Length: 50, CurveDivisor: 20}
	case level == 2:
		return Level{Length: 60, CurveDivisor: 18}
	case level == 3:
		return Level{Length: 70, CurveDivisor: 16}
	case level == 4:
		// Long straights are rarer from here on.
		return Level{Length: 80, CurveDivisor: 13}
	case level == 5:
		return Level{Length: 90, CurveDivisor: 11}
	case level == 6:
		return Level{Length: 100, CurveDivisor: 10}
	}

	extra := level - 6
	div := 10 - float64(extra)*0.5
	if div < 6 {
		div = 6
	}
	return Level{Length: 100 + extra*10, CurveDivisor: div}
}
