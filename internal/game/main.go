package game

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"

	"driftroad/internal/audio"
	"driftroad/internal/config"
	"driftroad/internal/drive"
	"driftroad/internal/round"
	"driftroad/internal/scoreboard"
)

// Run opens the window and plays rounds until the window closes or Escape
// is pressed. Audio and the scoreboard are optional: failures to open them
// are logged and the game runs without them.
func Run(cfg config.Config, log zerolog.Logger) error {
	runtime.LockOSThread()

	window, err := initWindow(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info().Str("gl", gl.GoStr(gl.GetString(gl.VERSION))).Msg("window ready")

	var sound *audio.System
	if cfg.Audio.Enabled {
		sound, err = audio.New(cfg.Audio.SfxVolume, cfg.Audio.EngineVolume, log)
		if err != nil {
			log.Warn().Err(err).Msg("audio init failed (continuing without sound)")
			sound = nil
		} else {
			go func() {
				time.Sleep(100 * time.Millisecond) // let audio context initialize
				sound.StartMenu()
			}()
		}
	}
	defer sound.Close()

	var scores *scoreboard.Store
	if cfg.Scoreboard.Enabled {
		scores, err = scoreboard.Open(cfg.Scoreboard.Path, log)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Scoreboard.Path).Msg("scoreboard unavailable")
			scores = nil
		} else {
			defer scores.Close()
		}
	}

	seed := cfg.ResolveSeed(time.Now())
	log.Info().Uint64("seed", seed).Str("car", cfg.Car).Msg("session seed")

	session := round.NewSession(round.Options{
		Seed:        seed,
		Level:       cfg.Level,
		Car:         cfg.CarModel(),
		RoadWidth:   cfg.Road.Width,
		FrameScaled: cfg.Drive.FrameScaled,
	}, log)
	if scores != nil {
		scores.Attach(session.Bus, cfg.Car)
	}
	sound.Attach(session.Bus)

	var hud HUD
	refreshHUD := func(round.Event) { hud = loadHUD(scores, session.Level, log) }
	session.Bus.Subscribe(round.EventRoundWon, refreshHUD)
	session.Bus.Subscribe(round.EventRoundLost, refreshHUD)

	cam := &Camera{}
	session.Bus.Subscribe(round.EventFall, func(round.Event) { cam.AddShake(1.2, 0.35) })

	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()
	if err := rend.InitFont(); err != nil {
		return fmt.Errorf("font: %w", err)
	}

	input := NewInput()
	var scene *Scene
	yaw := 0.0

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		pressed, released := input.Turn(window)
		enter := input.JustPressed(window, glfw.KeyEnter)
		confirm := enter || pressed
		restart := input.JustPressed(window, glfw.KeyR)

		switch session.Phase {
		case round.PhaseMenu:
			if confirm {
				sound.Play(audio.SoundMenuSelect)
				session.StartRound(session.Level)
			}

		case round.PhaseLoading:
			scene = BuildScene(session.Road, cfg.Road.Width, cfg.Road.Thickness, cfg.CarModel())
			hud = loadHUD(scores, session.Level, log)
			yaw = 0
			cam.Reset(session.Pos, yaw)
			session.Ready()

		case round.PhasePlaying:
			if restart {
				session.StartRound(session.Level)
				break
			}
			edge := session.EdgeFor(pressed, released)
			if enter && session.Car.State() == drive.StateStill {
				edge = drive.EdgeStart
			}
			session.Update(dt, edge)
			if session.Car.State().Driving() {
				yaw = session.Car.RotationDelta()
			}
			sound.SetEngineSpeed(session.Car.Speed())

		case round.PhaseWon, round.PhaseLost:
			switch {
			case restart:
				sound.Play(audio.SoundMenuSelect)
				session.StartRound(session.Level)
			case confirm:
				sound.Play(audio.SoundMenuSelect)
				session.Next()
			}
		}

		if scene != nil && session.Car != nil {
			cam.Follow(session.Pos, yaw, dt)
		}
		cam.UpdateShake(dt, session.Seed^uint64(now*1000))

		rend.BeginFrame(cam, fbW, fbH)
		if scene != nil && session.Car != nil {
			scene.Draw(rend, session.Pos, session.Car.RotationDelta())
		}
		rend.EndScene()
		RenderHUD(rend, session, hud, fbW, fbH)

		window.SwapBuffers()
	}
	return nil
}

// loadHUD reads the best time and round count for level. A nil store
// yields an empty HUD.
func loadHUD(scores *scoreboard.Store, level int, log zerolog.Logger) HUD {
	if scores == nil {
		return HUD{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var h HUD
	best, err := scores.Best(ctx, level, 1)
	if err != nil {
		log.Warn().Err(err).Int("lvl", level).Msg("scoreboard read failed")
		return h
	}
	if len(best) > 0 {
		h.Best = best[0].Elapsed()
	}
	if h.Attempts, err = scores.Attempts(ctx, level); err != nil {
		log.Warn().Err(err).Int("lvl", level).Msg("scoreboard read failed")
	}
	return h
}
