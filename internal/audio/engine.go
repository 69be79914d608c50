package audio

import (
	"math"
	"sync/atomic"
)

// engineReader is an endless engine drone whose pitch and level follow a
// speed in [0,1] set from the game loop.
type engineReader struct {
	speed atomic.Uint64 // float64 bits
	seed  uint64
	phase float64
	lp    float64
	level float64 // smoothed speed
}

func (e *engineReader) setSpeed(v float64) {
	e.speed.Store(math.Float64bits(clampF(v, 0, 1)))
}

func (e *engineReader) Read(p []byte) (int, error) {
	samples := len(p) / frameBytes
	target := math.Float64frombits(e.speed.Load())
	for i := 0; i < samples; i++ {
		// ~20 ms glide so speed steps do not click.
		e.level += (target - e.level) * 0.0012
		freq := 42 + 118*e.level
		e.phase += 2 * math.Pi * freq / SampleRate
		if e.phase > 2*math.Pi*64 {
			e.phase -= 2 * math.Pi * 64
		}
		e.lp = e.lp*0.9 + lcg(&e.seed)*0.1

		firing := softSquareWave(e.phase)*0.45 + triWave(e.phase*2)*0.2 + math.Sin(e.phase*0.5)*0.25
		s := (firing*(0.35+0.65*e.level) + e.lp*0.25*e.level) * 0.5
		putStereoF32(p, i, softSat(s))
	}
	return samples * frameBytes, nil
}

// menuReader is the idle loop behind the menu and result screens: a
// chord bed, a pulse bass and a light shaker.
type menuReader struct {
	t    float64
	seed uint64
}

var menuChords = [][]float64{
	{261.6, 329.6, 392.0, 493.9}, // Cmaj7
	{220.0, 261.6, 329.6, 392.0}, // Am7
	{174.6, 220.0, 261.6, 349.2}, // Fmaj7
	{196.0, 246.9, 293.7, 392.0}, // G
}

func (m *menuReader) Read(p []byte) (int, error) {
	const tempo = 1.6 // beats per second
	const beatsPerChord = 4
	const step8Len = 1.0 / (tempo * 2.0)
	bassPattern := [8]bool{true, false, true, false, true, false, false, true}

	samples := len(p) / frameBytes
	for i := 0; i < samples; i++ {
		m.t += 1.0 / SampleRate
		beat := int(m.t * tempo)
		step8 := int(m.t*tempo*2) % 8
		step8Trig := math.Mod(m.t, step8Len)
		chord := menuChords[(beat/beatsPerChord)%len(menuChords)]
		chordProg := math.Mod(m.t*tempo, beatsPerChord) / beatsPerChord

		s := 0.0
		chordEnv := 0.55 + 0.45*math.Min(1.0, chordProg*1.2)
		for _, freq := range chord {
			ph := 2 * math.Pi * freq * m.t
			s += (math.Sin(ph)*0.7 + math.Sin(ph*2.0)*0.2 + triWave(ph*0.5)*0.1) * chordEnv * 0.08
		}
		if bassPattern[step8] {
			bEnv := adsr(math.Mod(m.t*tempo*2, 1.0), 0.02, 0.52, 0.26, 0.2)
			bPh := 2 * math.Pi * chord[0] / 2 * m.t
			s += (triWave(bPh)*0.6 + softSquareWave(bPh*0.5)*0.2) * bEnv * 0.4
		}
		if step8%2 == 1 {
			s += lcg(&m.seed) * math.Exp(-step8Trig*20.0) * 0.07
		}

		pan := 0.1 * math.Sin(2*math.Pi*0.1*m.t)
		putStereoF32LR(p, i, softSat(s*(1-pan)*0.9), softSat(s*(1+pan)*0.9))
	}
	return samples * frameBytes, nil
}
