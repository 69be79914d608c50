// Package scoreboard persists round results in SQLite.
package scoreboard

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"driftroad/internal/round"
)

// Entry is one finished round.
type Entry struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	Level     int    `gorm:"index"`
	Seed      int64  // road seed, bit-cast; sqlite has no unsigned 64-bit column
	Car       string `gorm:"size:32"`
	Won       bool   `gorm:"index"`
	Distance  float64
	ElapsedMs int64
}

func (e Entry) Elapsed() time.Duration {
	return time.Duration(e.ElapsedMs) * time.Millisecond
}

type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens (or creates) the scoreboard at path. An empty path keeps the
// scoreboard in memory for the lifetime of the Store.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if path == "" {
		dsn = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening scoreboard: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if path == "" {
		// Every connection to :memory: is its own database.
		sqlDB.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 2000;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating scoreboard: %w", err)
	}

	if path == "" {
		log.Info().Msg("Using in-memory scoreboard")
	} else {
		log.Info().Str("path", path).Msg("Using scoreboard")
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("recording round: %w", err)
	}
	return nil
}

// Best returns up to n winning rounds of a level, fastest first.
func (s *Store) Best(ctx context.Context, level, n int) ([]Entry, error) {
	var out []Entry
	err := s.db.WithContext(ctx).
		Where("level = ? AND won = ?", level, true).
		Order("elapsed_ms ASC").
		Order("id ASC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("querying best rounds: %w", err)
	}
	return out, nil
}

// Attempts counts finished rounds of a level, won or lost.
func (s *Store) Attempts(ctx context.Context, level int) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Entry{}).Where("level = ?", level).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting rounds: %w", err)
	}
	return n, nil
}

// Attach records every finished round published on bus. Failures are
// logged; the game carries on without them.
func (s *Store) Attach(bus *round.EventBus, car string) {
	record := func(ev round.Event) {
		err := s.Record(context.Background(), Entry{
			Level:     ev.Level,
			Seed:      int64(ev.Seed),
			Car:       car,
			Won:       ev.Result.Won,
			Distance:  ev.Result.Distance,
			ElapsedMs: ev.Result.Elapsed.Milliseconds(),
		})
		if err != nil {
			s.log.Warn().Err(err).Int("lvl", ev.Level).Msg("scoreboard write failed")
		}
	}
	bus.Subscribe(round.EventRoundWon, record)
	bus.Subscribe(round.EventRoundLost, record)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
