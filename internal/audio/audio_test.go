package audio

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_AllEffectsBounded(t *testing.T) {
	for kind := SoundMenuSelect; kind <= SoundLose; kind++ {
		buf := generate(kind, 42)
		require.NotEmpty(t, buf, "sound %d", kind)
		require.Zero(t, len(buf)%frameBytes)

		peak := 0.0
		for i := 0; i < len(buf)/frameBytes; i++ {
			s := sampleAt(buf, i)
			require.False(t, math.IsNaN(s), "sound %d frame %d", kind, i)
			peak = math.Max(peak, math.Abs(s))
		}
		assert.LessOrEqual(t, peak, 1.0, "sound %d", kind)
		assert.Greater(t, peak, 0.01, "sound %d is audible", kind)
	}
	assert.Nil(t, generate(Sound(99), 1))
}

func TestSoundReader(t *testing.T) {
	r := &soundReader{data: []byte{1, 2, 3, 4, 5}}
	p := make([]byte, 3)

	n, err := r.Read(p)
	assert.Equal(t, 3, n)
	assert.NoError(t, err)
	n, _ = r.Read(p)
	assert.Equal(t, 2, n)
	_, err = r.Read(p)
	assert.Equal(t, io.EOF, err)
}

func TestPutStereo(t *testing.T) {
	buf := makeBuf(2)
	putStereoF32LR(buf, 1, 0.5, -0.25)
	assert.Equal(t, 0.5, sampleAt(buf, 1))
	assert.Equal(t, float32(-0.25), math.Float32frombits(uint32(buf[12])|uint32(buf[13])<<8|uint32(buf[14])<<16|uint32(buf[15])<<24))
}

func TestSynthHelpers(t *testing.T) {
	assert.InDelta(t, 0.5, adsr(0.05, 0.1, 0.2, 0.5, 0.2), 1e-12)
	assert.InDelta(t, 0.5, adsr(0.5, 0.1, 0.2, 0.5, 0.2), 1e-12)
	assert.InDelta(t, 0, adsr(1, 0.1, 0.2, 0.5, 0.2), 1e-12)

	for _, x := range []float64{-10, -1.2, -0.5, 0, 0.5, 1.2, 10} {
		assert.LessOrEqual(t, math.Abs(softSat(x)), 1.0)
	}

	seed := uint64(1)
	for i := 0; i < 1000; i++ {
		v := lcg(&seed)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestEngineReader_FollowsSpeed(t *testing.T) {
	e := &engineReader{seed: 7}
	buf := make([]byte, 4096*frameBytes)

	n, err := e.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, 0.0, e.level)

	e.setSpeed(2)
	for i := 0; i < 10; i++ {
		e.Read(buf)
	}
	assert.InDelta(t, 1.0, e.level, 1e-3)
}

func TestMenuReader(t *testing.T) {
	m := &menuReader{seed: 3}
	buf := make([]byte, 1000*frameBytes+3)
	n, err := m.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1000*frameBytes, n)
	for i := 0; i < 1000; i++ {
		assert.LessOrEqual(t, math.Abs(sampleAt(buf, i)), 1.0)
	}
}

func TestNilSystemIsSilent(t *testing.T) {
	var a *System
	a.Play(SoundWin)
	a.SetEngineSpeed(1)
	a.StopLoop()
	a.StartEngine()
	a.StartMenu()
	a.Attach(nil)
	assert.NoError(t, a.Close())
}
