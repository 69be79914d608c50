// Package audio plays procedurally generated effects and loops through oto.
package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"github.com/rs/zerolog"

	"driftroad/internal/round"
)

// System owns the oto context. A nil *System is a silent no-op, so hosts
// keep running when the audio device is unavailable.
type System struct {
	ctx   *oto.Context
	ready chan struct{}
	log   zerolog.Logger

	sfxVolume    float64
	engineVolume float64

	mu     sync.Mutex
	loop   oto.Player
	engine *engineReader

	variant atomic.Uint64
}

func New(sfxVolume, engineVolume float64, log zerolog.Logger) (*System, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, fmt.Errorf("audio context: %w", err)
	}
	return &System{
		ctx:          ctx,
		ready:        ready,
		log:          log,
		sfxVolume:    clampF(sfxVolume, 0, 1),
		engineVolume: clampF(engineVolume, 0, 1),
	}, nil
}

func (a *System) isReady() bool {
	if a == nil {
		return false
	}
	select {
	case <-a.ready:
		return true
	default:
		return false
	}
}

// Play starts a one-shot effect and returns immediately.
func (a *System) Play(kind Sound) {
	if !a.isReady() || a.sfxVolume <= 0 {
		return
	}
	seed := a.variant.Add(1) ^ uint64(time.Now().UnixNano())
	samples := generate(kind, seed)
	if len(samples) == 0 {
		return
	}
	go func() {
		player := a.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(a.sfxVolume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			a.log.Debug().Err(err).Msg("closing effect player")
		}
	}()
}

func (a *System) swapLoop(p oto.Player, engine *engineReader) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loop != nil {
		a.loop.Close()
	}
	a.loop = p
	a.engine = engine
	if p != nil {
		p.Play()
	}
}

// StartMenu replaces the current loop with the menu music.
func (a *System) StartMenu() {
	if !a.isReady() {
		return
	}
	p := a.ctx.NewPlayer(&menuReader{seed: uint64(time.Now().UnixNano())})
	p.SetVolume(a.engineVolume * 0.5)
	a.swapLoop(p, nil)
}

// StartEngine replaces the current loop with the engine drone.
func (a *System) StartEngine() {
	if !a.isReady() || a.engineVolume <= 0 {
		return
	}
	e := &engineReader{seed: 0xE61E}
	p := a.ctx.NewPlayer(e)
	p.SetVolume(a.engineVolume)
	a.swapLoop(p, e)
}

// SetEngineSpeed feeds the car speed, in [0,1], to the engine drone.
func (a *System) SetEngineSpeed(v float64) {
	if a == nil {
		return
	}
	a.mu.Lock()
	e := a.engine
	a.mu.Unlock()
	if e != nil {
		e.setSpeed(v)
	}
}

func (a *System) StopLoop() {
	if a == nil {
		return
	}
	a.swapLoop(nil, nil)
}

// Attach plays round events.
func (a *System) Attach(bus *round.EventBus) {
	if a == nil {
		return
	}
	bus.Subscribe(round.EventRoundStarted, func(round.Event) {
		a.Play(SoundStart)
		a.StartEngine()
	})
	bus.Subscribe(round.EventTurn, func(e round.Event) {
		if e.Pressed {
			a.Play(SoundScreech)
		}
	})
	bus.Subscribe(round.EventFall, func(round.Event) {
		a.SetEngineSpeed(0)
		a.Play(SoundFall)
	})
	bus.Subscribe(round.EventRoundWon, func(round.Event) {
		a.StartMenu()
		a.Play(SoundWin)
	})
	bus.Subscribe(round.EventRoundLost, func(round.Event) {
		a.StartMenu()
		a.Play(SoundLose)
	})
}

func (a *System) Close() error {
	a.StopLoop()
	return nil
}
