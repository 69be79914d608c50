// Command driftsim reads a Scenario JSON from a file argument (or stdin),
// drives one round headlessly, and writes the round log JSON to stdout.
// Diagnostics go to stderr at the configured log level (logLevel in
// driftroad.cfg.json under DRIFTROAD_CONFIG_DIR, or DRIFTROAD_LOGLEVEL).
package main

import (
	"fmt"
	"io"
	"os"

	"driftroad/internal/config"
	"driftroad/internal/logging"
	"driftroad/internal/sim"
)

func main() {
	var (
		data []byte
		err  error
	)

	if len(os.Args) > 1 {
		data, err = os.ReadFile(os.Args[1])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		os.Exit(1)
	}

	dir := os.Getenv("DRIFTROAD_CONFIG_DIR")
	if dir == "" {
		dir = "."
	}
	if err := config.Load(dir); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(logging.ParseLevel(cfg.LogLevel), os.Stderr, nil)

	result, err := sim.RunJSON(string(data), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result)
}
