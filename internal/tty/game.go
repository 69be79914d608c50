package tty

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"driftroad/internal/drive"
	"driftroad/internal/round"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	styleRoad    = tcell.StyleDefault.Background(tcell.NewRGBColor(60, 66, 79))
	styleFinish  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleCar     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.NewRGBColor(60, 66, 79)).Bold(true)
	styleFalling = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleWin     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleLose    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// BestFunc returns the fastest win of a level, or 0.
type BestFunc func(level int) time.Duration

// Game drives a round.Session from terminal input. Terminals report key
// presses but not releases, so the turn key toggles: one press starts a
// turn, the next straightens out.
type Game struct {
	screen      tcell.Screen
	session     *round.Session
	log         zerolog.Logger
	unitsPerCol float64
	best        BestFunc

	turnHeld     bool // toggled by the player
	sentHeld     bool // last state passed to the session
	startPending bool
	bestTime     time.Duration
}

func New(screen tcell.Screen, session *round.Session, best BestFunc, log zerolog.Logger) *Game {
	if best == nil {
		best = func(int) time.Duration { return 0 }
	}
	return &Game{
		screen:      screen,
		session:     session,
		log:         log,
		unitsPerCol: DefaultUnitsPerCol,
		best:        best,
	}
}

// pumpEvents forwards screen events to out until the screen is finalised
// or done is closed.
func pumpEvents(screen tcell.Screen, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// TurnHeld reports the toggled turn input.
func (g *Game) TurnHeld() bool { return g.turnHeld }

// Session returns the session the game drives.
func (g *Game) Session() *round.Session { return g.session }

// Run polls terminal events and steps the session on a fixed ticker until
// the player quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(g.screen, eventChan, done)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !g.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > 0.1 {
				dt = 0.1
			}
			g.Tick(dt)
			g.Draw()
		}
	}
}

// HandleKey applies one key press. It returns false when the player quits.
func (g *Game) HandleKey(ev *tcell.EventKey) bool {
	s := g.session
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		g.confirm()
		return true
	case tcell.KeyRight:
		g.turn()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case ' ':
		if s.Phase == round.PhasePlaying && s.Car.State() != drive.StateStill {
			g.turn()
		} else {
			g.confirm()
		}
	case 'd':
		g.turn()
	case 'r':
		if s.Phase != round.PhaseMenu {
			g.start(s.Level)
		}
	}
	return true
}

// confirm starts the car, the first round, or the round after a result.
func (g *Game) confirm() {
	s := g.session
	switch s.Phase {
	case round.PhaseMenu:
		g.start(s.Level)
	case round.PhasePlaying:
		if s.Car.State() == drive.StateStill {
			g.startPending = true
		}
	case round.PhaseWon, round.PhaseLost:
		g.resetInput()
		s.Next()
		g.roundLoaded()
	}
}

// turn flips the held turn input. The edge goes out on the next Tick.
func (g *Game) turn() {
	s := g.session
	if s.Phase != round.PhasePlaying || s.Car == nil || !s.Car.State().Driving() {
		return
	}
	g.turnHeld = !g.turnHeld
}

func (g *Game) resetInput() {
	g.turnHeld = false
	g.sentHeld = false
	g.startPending = false
}

func (g *Game) start(level int) {
	g.log.Debug().Int("lvl", level).Str("phase", g.session.Phase.String()).Msg("round requested")
	g.resetInput()
	g.session.StartRound(level)
	g.roundLoaded()
}

func (g *Game) roundLoaded() {
	g.bestTime = g.best(g.session.Level)
	g.session.Ready()
}

// Tick sends at most one pending edge and advances the session by dt
// seconds. Toggling twice between ticks cancels out.
func (g *Game) Tick(dt float64) {
	s := g.session
	if s.Phase != round.PhasePlaying {
		return
	}
	edge := drive.EdgeNone
	switch {
	case g.startPending:
		edge = drive.EdgeStart
		g.startPending = false
	case g.turnHeld != g.sentHeld:
		edge = s.EdgeFor(g.turnHeld, !g.turnHeld)
		g.sentHeld = g.turnHeld
	}
	s.Update(dt, edge)
}

// Draw renders the map and status line.
func (g *Game) Draw() {
	g.screen.Clear()
	w, h := g.screen.Size()
	if w <= 0 || h <= 1 {
		g.screen.Show()
		return
	}

	s := g.session
	v := NewViewport(w, h-1, g.unitsPerCol)
	grid := Layout(s, v)
	for row, cells := range grid {
		for col, c := range cells {
			switch c {
			case CellRoad:
				g.screen.SetContent(col, row+1, ' ', nil, styleRoad)
			case CellFinish:
				ch := '▚'
				if (row+col)%2 == 1 {
					ch = '▞'
				}
				g.screen.SetContent(col, row+1, ch, nil, styleFinish)
			case CellCar:
				style := styleCar
				if s.Car != nil && s.Car.State() == drive.StateFall {
					style = styleFalling
				}
				rot := 0.0
				if s.Car != nil {
					rot = s.Car.RotationDelta()
				}
				g.screen.SetContent(col, row+1, carGlyph(rot), nil, style)
			}
		}
	}

	g.drawText(0, 0, padRight(statusLine(s, g.bestTime, g.turnHeld), w), styleStatus)
	if msg, style := banner(s); msg != "" {
		g.drawText((w-len([]rune(msg)))/2, h/3, msg, style)
	}
	g.screen.Show()
}

func (g *Game) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		g.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// statusLine summarises the session in one row.
func statusLine(s *round.Session, best time.Duration, held bool) string {
	line := fmt.Sprintf(" LEVEL %d", s.Level)
	if s.Car != nil {
		fwd, right := s.Car.Distances()
		line += fmt.Sprintf("  TIME %.2fs  DIST %.0f", s.Car.Elapsed().Seconds(), fwd+right)
	}
	if best > 0 {
		line += fmt.Sprintf("  BEST %.2fs", best.Seconds())
	}
	if s.Phase == round.PhasePlaying && s.Car != nil && s.Car.State().Driving() {
		if held {
			line += "  [TURN]"
		} else {
			line += "  [    ]"
		}
	}
	return line + "  space: go/turn  r: restart  q: quit"
}

func banner(s *round.Session) (string, tcell.Style) {
	switch s.Phase {
	case round.PhaseMenu:
		return "DRIFT ROAD - press space", styleStatus
	case round.PhaseWon:
		return fmt.Sprintf("FINISH! %.2fs - space: next level", s.Result().Elapsed.Seconds()), styleWin
	case round.PhaseLost:
		return "OFF THE ROAD - space: retry", styleLose
	case round.PhasePlaying:
		if s.Car != nil && s.Car.State() == drive.StateStill {
			return "press space to go", styleStatus
		}
	}
	return "", tcell.StyleDefault
}

func padRight(s string, w int) string {
	n := len([]rune(s))
	if n >= w {
		return string([]rune(s)[:w])
	}
	return s + fmt.Sprintf("%*s", w-n, "")
}
