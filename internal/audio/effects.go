package audio

import "math"

// Sound identifies a one-shot effect.
type Sound int

const (
	SoundMenuSelect Sound = iota
	SoundStart
	SoundScreech
	SoundFall
	SoundWin
	SoundLose
)

func generate(kind Sound, seed uint64) []byte {
	switch kind {
	case SoundMenuSelect:
		return genMenuSelect()
	case SoundStart:
		return genStart()
	case SoundScreech:
		return genScreech(seed)
	case SoundFall:
		return genFall()
	case SoundWin:
		return genWin()
	case SoundLose:
		return genLose()
	}
	return nil
}

// genMenuSelect: crisp click + brief high tone.
func genMenuSelect() []byte {
	n := SampleRate * 65 / 1000
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.004, 0.55, 0.0, 0.1)
		freq := 1400 - 700*p
		s := fm(t, freq, 1.0, 0.6) * env * 0.38
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genStart: ignition crank into a rising rev.
func genStart() []byte {
	n := int(0.9 * SampleRate)
	buf := makeBuf(n)
	phase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		env := adsr(p, 0.02, 0.2, 0.75, 0.3)
		// Crank stutter over the first third, then a smooth sweep.
		crank := 1.0
		if p < 0.3 {
			crank = 0.55 + 0.45*math.Abs(math.Sin(2*math.Pi*9*p/0.3))
		}
		freq := 38 + 95*p*p
		phase += 2 * math.Pi * freq / SampleRate
		body := softSquareWave(phase)*0.5 + triWave(phase*2)*0.25 + math.Sin(phase*0.5)*0.2
		putStereoF32(buf, i, softSat(body*env*crank*0.6))
	}
	return buf
}

// genScreech: band-limited tyre squeal, pitch wobbling around 1.1 kHz.
func genScreech(seed uint64) []byte {
	n := int(0.45 * SampleRate)
	buf := makeBuf(n)
	lp1, lp2 := 0.0, 0.0
	if seed == 0 {
		seed = 0x5C2EEC4
	}
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.05, 0.3, 0.55, 0.4)
		raw := lcg(&seed)
		lp1 = lp1*0.55 + raw*0.45
		lp2 = lp2*0.93 + raw*0.07
		hiss := (lp1 - lp2) * 0.35
		wobble := 1 + 0.04*math.Sin(2*math.Pi*13*t)
		squeal := fm(t, 1100*wobble, 1.01, 0.8) * 0.22
		putStereoF32(buf, i, softSat((hiss+squeal)*env))
	}
	return buf
}

// genFall: descending whistle with a fading rumble.
func genFall() []byte {
	n := int(1.0 * SampleRate)
	buf := makeBuf(n)
	seed := uint64(0xFA11)
	lp := 0.0
	phase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		freq := 900 * math.Pow(0.25, p)
		phase += 2 * math.Pi * freq / SampleRate
		env := adsr(p, 0.03, 0.2, 0.7, 0.35)
		lp = lp*0.96 + lcg(&seed)*0.04
		s := math.Sin(phase)*0.3*env + lp*0.6*(1-p)
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genWin: ascending FM bell staircase, each note ringing over the next.
func genWin() []byte {
	notes := []float64{440, 554.37, 659.25, 880, 1108.73}
	noteStep := int(0.09 * SampleRate)
	total := len(notes)*noteStep + int(0.25*SampleRate)
	mix := make([]float64, total)

	for fi, freq := range notes {
		start := fi * noteStep
		dur := total - start
		for j := 0; j < dur; j++ {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.003, 0.65, 0.04, 0.28)
			s := fm(t, freq, 3.5, 5.5*env) * env * 0.28
			s += math.Sin(2*math.Pi*freq*2*t) * env * 0.07
			mix[start+j] += s
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genLose: slow descending minor chord, staggered.
func genLose() []byte {
	n := int(0.75 * SampleRate)
	notes := []struct{ freq, onset float64 }{
		{329.63, 0.00}, // E4
		{261.63, 0.14}, // C4
		{220.00, 0.28}, // A3
	}
	mix := make([]float64, n)
	for _, note := range notes {
		start := int(note.onset * SampleRate)
		for i := start; i < n; i++ {
			t := float64(i) / SampleRate
			np := float64(i-start) / float64(n-start)
			env := adsr(np, 0.008, 0.25, 0.3, 0.45)
			freq := note.freq * (1 - np*0.025)
			s := fm(t, freq, 2.0, 2.0*env) * env * 0.32
			s += math.Sin(2*math.Pi*freq*0.5*t) * env * 0.1 // sub
			mix[i] += s
		}
	}
	buf := makeBuf(n)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}
