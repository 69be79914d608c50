// Package logging builds the zerolog logger shared by the hosts.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// FileName is the per-session log file name for a start time.
func FileName(start time.Time) string {
	return fmt.Sprintf("driftroad.%s.log", start.UTC().Format("20060102_150405"))
}

// OpenFile creates logsDir if needed and opens the session log file.
func OpenFile(logsDir string, start time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logsDir, FileName(start)), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// New returns a logger writing coloured console output to console and, when
// file is non-nil, plain console output to file. Timestamps are UTC.
func New(level zerolog.Level, console io.Writer, file io.Writer) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		},
	}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
}

// Setup is New over stderr plus the session file in logsDir. The returned
// closer flushes and closes the file; it is never nil.
func Setup(levelName, logsDir string) (zerolog.Logger, func() error, error) {
	level := ParseLevel(levelName)
	if logsDir == "" {
		return New(level, os.Stderr, nil), func() error { return nil }, nil
	}
	f, err := OpenFile(logsDir, time.Now())
	if err != nil {
		// Console logging still works without the file.
		return New(level, os.Stderr, nil), func() error { return nil }, err
	}
	return New(level, os.Stderr, f), f.Close, nil
}

// SetupFile logs to the session file in logsDir only, for hosts that own
// the terminal. Without a usable file the logger discards everything.
func SetupFile(levelName, logsDir string) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }
	if logsDir == "" {
		return zerolog.Nop(), noop, nil
	}
	f, err := OpenFile(logsDir, time.Now())
	if err != nil {
		return zerolog.Nop(), noop, err
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}).
		Level(ParseLevel(levelName)).
		With().Timestamp().Logger()
	return log, f.Close, nil
}
