// Command driftroad opens the desktop window and plays rounds of the drift
// game. Settings come from driftroad.cfg.json in the directory named by
// DRIFTROAD_CONFIG_DIR (default: the working directory) and from
// DRIFTROAD_* environment variables.
package main

import (
	"fmt"
	"os"

	"driftroad/internal/config"
	"driftroad/internal/game"
	"driftroad/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "driftroad: %v\n", err)
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

	log, closeLog, err := logging.Setup(cfg.LogLevel, cfg.LogsDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.LogsDir).Msg("logging to console only")
	}
	defer closeLog()

	log.Info().
		Str("car", cfg.Car).
		Int("lvl", cfg.Level).
		Float64("roadWidth", cfg.Road.Width).
		Msg("starting driftroad")

	if err := game.Run(cfg, log); err != nil {
		log.Error().Err(err).Msg("game stopped")
		return err
	}
	return nil
}
