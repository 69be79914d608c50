package scoreboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftroad/internal/drive"
	"driftroad/internal/round"
)

func openTest(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBest_OrdersWinsByTime(t *testing.T) {
	s := openTest(t, "")
	ctx := context.Background()

	for _, e := range []Entry{
		{Level: 1, Won: true, ElapsedMs: 9000, Car: "viper"},
		{Level: 1, Won: false, ElapsedMs: 1000},
		{Level: 1, Won: true, ElapsedMs: 7000, Car: "aventador"},
		{Level: 2, Won: true, ElapsedMs: 3000},
		{Level: 1, Won: true, ElapsedMs: 8000},
	} {
		require.NoError(t, s.Record(ctx, e))
	}

	best, err := s.Best(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, int64(7000), best[0].ElapsedMs)
	assert.Equal(t, "aventador", best[0].Car)
	assert.Equal(t, 8*time.Second, best[1].Elapsed())

	n, err := s.Attempts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	none, err := s.Best(ctx, 5, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpen_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	ctx := context.Background()

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, Entry{Level: 3, Won: true, ElapsedMs: 4200, Seed: -5}))
	require.NoError(t, s.Close())

	s = openTest(t, path)
	best, err := s.Best(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, int64(-5), best[0].Seed)
}

func TestAttach(t *testing.T) {
	s := openTest(t, "")
	bus := round.NewEventBus()
	s.Attach(bus, "shelby1967")

	seed := ^uint64(0) - 1
	bus.Emit(round.Event{Type: round.EventRoundWon, Level: 2, Seed: seed,
		Result: drive.Result{Won: true, Distance: 300, Elapsed: 2500 * time.Millisecond}})
	bus.Emit(round.Event{Type: round.EventRoundLost, Level: 2})
	bus.Emit(round.Event{Type: round.EventFall, Level: 2})

	n, err := s.Attempts(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	best, err := s.Best(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, "shelby1967", best[0].Car)
	assert.Equal(t, int64(2500), best[0].ElapsedMs)
	assert.Equal(t, seed, uint64(best[0].Seed))
}
