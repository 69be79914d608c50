// Command driftroad-tty plays the drift game in a terminal: a top-down map
// of the road, space to go and to toggle the turn. It reads the same
// configuration as the desktop build; logs go to the session file only.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"driftroad/internal/audio"
	"driftroad/internal/config"
	"driftroad/internal/logging"
	"driftroad/internal/round"
	"driftroad/internal/scoreboard"
	"driftroad/internal/tty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "driftroad-tty: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir := os.Getenv("DRIFTROAD_CONFIG_DIR")
	if dir == "" {
		dir = "."
	}
	if err := config.Load(dir); err != nil {
		return err
	}
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	log, closeLog, err := logging.SetupFile(cfg.LogLevel, cfg.LogsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "driftroad-tty: logging disabled: %v\n", err)
	}
	defer closeLog()

	seed := cfg.ResolveSeed(time.Now())
	session := round.NewSession(round.Options{
		Seed:        seed,
		Level:       cfg.Level,
		Car:         cfg.CarModel(),
		RoadWidth:   cfg.Road.Width,
		FrameScaled: cfg.Drive.FrameScaled,
	}, log)
	log.Info().Uint64("seed", seed).Str("car", cfg.Car).Msg("terminal session")

	best := func(int) time.Duration { return 0 }
	if cfg.Scoreboard.Enabled {
		scores, err := scoreboard.Open(cfg.Scoreboard.Path, log)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Scoreboard.Path).Msg("scoreboard unavailable")
		} else {
			defer scores.Close()
			scores.Attach(session.Bus, cfg.Car)
			best = bestFrom(scores, log)
		}
	}

	if cfg.Audio.Enabled {
		sound, err := audio.New(cfg.Audio.SfxVolume, cfg.Audio.EngineVolume, log)
		if err != nil {
			log.Warn().Err(err).Msg("audio init failed (continuing without sound)")
		} else {
			defer sound.Close()
			sound.Attach(session.Bus)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tty.New(screen, session, best, log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func bestFrom(scores *scoreboard.Store, log zerolog.Logger) tty.BestFunc {
	return func(level int) time.Duration {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		rows, err := scores.Best(ctx, level, 1)
		if err != nil {
			log.Warn().Err(err).Int("lvl", level).Msg("scoreboard read failed")
			return 0
		}
		if len(rows) == 0 {
			return 0
		}
		return rows[0].Elapsed()
	}
}
