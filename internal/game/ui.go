package game

import (
	"fmt"
	"strings"
	"time"

	"driftroad/internal/drive"
	"driftroad/internal/round"
)

// speedBarChars is the width of the speed gauge.
const speedBarChars = 16

// HUD carries the numbers the overlay shows that the session does not own.
type HUD struct {
	Best     time.Duration // fastest win of the current level; 0 when none
	Attempts int64
}

// formatElapsed renders a round time as seconds with two decimals.
func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func repeatChar(ch byte, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(ch), n)
}

// speedBar draws speed (0..1) as a bracketed gauge.
func speedBar(speed float64) string {
	if speed < 0 {
		speed = 0
	}
	if speed > 1 {
		speed = 1
	}
	return fmt.Sprintf("[%-*s]", speedBarChars, repeatChar('#', int(speed*speedBarChars+0.5)))
}

// playingLines are the top-left readouts while a round runs.
func playingLines(s *round.Session, h HUD) []string {
	lines := []string{fmt.Sprintf("LEVEL %d", s.Level)}
	if s.Car == nil {
		return lines
	}
	fwd, right := s.Car.Distances()
	lines = append(lines,
		"TIME  "+formatElapsed(s.Car.Elapsed()),
		fmt.Sprintf("DIST  %.0f", fwd+right),
	)
	if h.Best > 0 {
		lines = append(lines, "BEST  "+formatElapsed(h.Best))
	}
	return lines
}

// headline is the large centred text for a phase, if any.
func headline(p round.Phase) (string, RGB) {
	switch p {
	case round.PhaseMenu:
		return "DRIFT ROAD", Palette.Title
	case round.PhaseLoading:
		return "LOADING", Palette.TextDim
	case round.PhaseWon:
		return "FINISH!", Palette.Win
	case round.PhaseLost:
		return "OFF THE ROAD", Palette.Lose
	}
	return "", RGB{}
}

// RenderHUD draws the overlay for the current phase using the font atlas.
func RenderHUD(r *Renderer, s *round.Session, h HUD, fbW, fbH int) {
	small := float32(HUDScale)
	lineH := int(FontCellH*small) + 4

	if title, col := headline(s.Phase); title != "" {
		r.DrawCentered(title, fbH/2-int(FontCellH*TitleScale), TitleScale, col, fbW)
	}

	switch s.Phase {
	case round.PhaseMenu:
		r.DrawCentered("Press SPACE to start", fbH/2+20, small, Palette.Text, fbW)
		r.DrawCentered("Hold SPACE to turn right, release to straighten", fbH/2+20+lineH, small*0.75, Palette.TextDim, fbW)
		r.DrawCentered(fmt.Sprintf("Level %d", s.Level), fbH/2+20+2*lineH, small*0.75, Palette.TextDim, fbW)

	case round.PhasePlaying:
		for i, line := range playingLines(s, h) {
			r.DrawString(line, HUDMargin, HUDMargin+i*lineH, small, Palette.Text)
		}
		if s.Car != nil {
			bar := speedBar(s.Car.Speed())
			r.DrawString(bar, HUDMargin, fbH-lineH-HUDMargin, small, Palette.Title)
			if s.Car.State() == drive.StateStill {
				r.DrawCentered("SPACE to go", fbH/2+int(FontCellH*TitleScale), small, Palette.Text, fbW)
			}
		}

	case round.PhaseWon, round.PhaseLost:
		res := s.Result()
		y := fbH/2 + 20
		r.DrawCentered(fmt.Sprintf("TIME %s   DIST %.0f", formatElapsed(res.Elapsed), res.Distance), y, small, Palette.Text, fbW)
		y += lineH
		if h.Best > 0 {
			r.DrawCentered("BEST "+formatElapsed(h.Best), y, small, Palette.TextDim, fbW)
			y += lineH
		}
		if h.Attempts > 0 {
			r.DrawCentered(fmt.Sprintf("ROUNDS ON THIS LEVEL %d", h.Attempts), y, small*0.75, Palette.TextDim, fbW)
			y += lineH
		}
		next := "SPACE retry"
		if s.Phase == round.PhaseWon {
			next = "SPACE next level   R same level"
		}
		r.DrawCentered(next, y, small*0.75, Palette.TextDim, fbW)
	}

	r.FlushText(fbW, fbH)
}
