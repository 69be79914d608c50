package tty

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftroad/internal/drive"
	"driftroad/internal/road"
	"driftroad/internal/round"
)

const tick = 1.0 / drive.TickRate

func loaded(t *testing.T, r *road.Road) *round.Session {
	t.Helper()
	s := round.NewSession(round.Options{Seed: 1}, zerolog.Nop())
	s.Load(1, r)
	s.Ready()
	return s
}

func TestViewport_World(t *testing.T) {
	v := NewViewport(40, 30, 2)
	assert.Equal(t, 20, v.AnchorCol)
	assert.Equal(t, 20, v.AnchorRow)

	x, z := v.World(20, 20, 15, 100)
	assert.Equal(t, 15.0, x)
	assert.Equal(t, 100.0, z)

	x, z = v.World(25, 18, 15, 100)
	assert.Equal(t, 25.0, x)
	assert.Equal(t, 108.0, z, "rows above the car are ahead")
}

func TestLayout_RoadAroundCar(t *testing.T) {
	s := loaded(t, road.FromSegments(2, 10))
	v := NewViewport(40, 40, 2)
	grid := Layout(s, v)
	require.Len(t, grid, 40)
	require.Len(t, grid[0], 40)

	assert.Equal(t, CellCar, grid[v.AnchorRow][v.AnchorCol])
	assert.Equal(t, CellRoad, grid[v.AnchorRow-1][v.AnchorCol], "z=4 is on the first tile")
	assert.Equal(t, CellEmpty, grid[v.AnchorRow+1][v.AnchorCol], "behind the start")
	assert.Equal(t, CellEmpty, grid[v.AnchorRow][v.AnchorCol+8], "x=31 is past the first tile")
	assert.Equal(t, CellRoad, grid[v.AnchorRow-17][v.AnchorCol+10], "x=35 z=68 is on the second tile")
}

func TestLayout_FinishBand(t *testing.T) {
	s := loaded(t, road.FromSegments(1))
	v := NewViewport(40, 40, 2)
	grid := Layout(s, v)

	assert.Equal(t, CellFinish, grid[v.AnchorRow-7][v.AnchorCol], "z=28 is inside the band before z=30")
	assert.Equal(t, CellRoad, grid[v.AnchorRow-6][v.AnchorCol])
	assert.Equal(t, CellEmpty, grid[v.AnchorRow-8][v.AnchorCol], "z=32 is past the road")
}

func TestLayout_NoRound(t *testing.T) {
	s := round.NewSession(round.Options{}, zerolog.Nop())
	grid := Layout(s, NewViewport(10, 5, 0))
	for _, row := range grid {
		for _, c := range row {
			assert.Equal(t, CellEmpty, c)
		}
	}
}

func TestCarGlyph(t *testing.T) {
	assert.Equal(t, '▲', carGlyph(0))
	assert.Equal(t, '►', carGlyph(math.Pi/2))
	assert.Equal(t, '▼', carGlyph(math.Pi))
	assert.Equal(t, '◄', carGlyph(-math.Pi/2))
	assert.Equal(t, '▲', carGlyph(2*math.Pi-0.01))
}

func newGame(t *testing.T) (*Game, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	s := round.NewSession(round.Options{Seed: 3}, zerolog.Nop())
	return New(screen, s, nil, zerolog.Nop()), screen
}

func space() *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone) }

func TestGame_SpaceStartsThenToggles(t *testing.T) {
	g, _ := newGame(t)
	s := g.Session()

	require.True(t, g.HandleKey(space()))
	assert.Equal(t, round.PhasePlaying, s.Phase, "menu space loads a round")
	assert.Equal(t, drive.StateStill, s.Car.State())

	g.HandleKey(space())
	g.Tick(tick)
	assert.Equal(t, drive.StateForward, s.Car.State())

	g.HandleKey(space())
	assert.True(t, g.TurnHeld())
	g.Tick(tick)
	assert.True(t, s.Car.Held())

	g.HandleKey(space())
	g.Tick(tick)
	assert.False(t, s.Car.Held())

	// Two toggles between ticks cancel out.
	g.HandleKey(space())
	g.HandleKey(space())
	g.Tick(tick)
	assert.False(t, s.Car.Held())
}

func TestGame_RestartAndQuit(t *testing.T) {
	g, _ := newGame(t)
	s := g.Session()

	g.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	assert.Equal(t, round.PhaseMenu, s.Phase, "nothing to restart from the menu")

	g.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	first := s.Seed
	g.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	assert.Equal(t, round.PhasePlaying, s.Phase)
	assert.Equal(t, 1, s.Attempt)
	assert.NotEqual(t, first, s.Seed)

	assert.False(t, g.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, g.HandleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestGame_NextAfterLoss(t *testing.T) {
	g, _ := newGame(t)
	s := g.Session()
	g.HandleKey(space())
	g.HandleKey(space())
	for i := 0; i < 20000 && s.Phase == round.PhasePlaying; i++ {
		g.Tick(tick)
	}
	require.Equal(t, round.PhaseLost, s.Phase)

	g.HandleKey(space())
	assert.Equal(t, round.PhasePlaying, s.Phase)
	assert.Equal(t, 1, s.Level)
	assert.False(t, g.TurnHeld())
}

func TestGame_Draw(t *testing.T) {
	g, screen := newGame(t)
	g.HandleKey(space())
	g.Draw()

	var status strings.Builder
	for x := 0; x < 12; x++ {
		r, _, _, _ := screen.GetContent(x, 0)
		status.WriteRune(r)
	}
	assert.Equal(t, " LEVEL 1  TI", status.String())

	v := NewViewport(80, 23, DefaultUnitsPerCol)
	r, _, _, _ := screen.GetContent(v.AnchorCol, v.AnchorRow+1)
	assert.Equal(t, '▲', r)
}

func TestPumpEvents(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	require.NoError(t, screen.PostEvent(space()))

	out := make(chan tcell.Event)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		pumpEvents(screen, out, done)
		close(exited)
	}()

	// Forwarded while someone reads.
	for {
		ev := <-out
		if key, ok := ev.(*tcell.EventKey); ok {
			assert.Equal(t, ' ', key.Rune())
			break
		}
	}

	// Not stuck on a send once the loop is gone.
	require.NoError(t, screen.PostEvent(space()))
	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("event pump did not stop")
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abc", padRight("abcdef", 3))
}
