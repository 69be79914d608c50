package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Input tracks key and button state between frames so callers see
// transitions rather than levels.
type Input struct {
	prevKeys map[glfw.Key]bool
	turn     edgeTracker
}

func NewInput() *Input {
	return &Input{
		prevKeys: make(map[glfw.Key]bool),
	}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// Turn reports the press and release edges of the turn input. Space and the
// left mouse button count as one input: held while either is down.
// Call it once per frame in every phase so a press carried over from the
// menu does not show up as a fresh edge.
func (in *Input) Turn(window *glfw.Window) (pressed, released bool) {
	held := window.GetKey(glfw.KeySpace) == glfw.Press ||
		window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	return in.turn.update(held)
}

type edgeTracker struct {
	held bool
}

func (e *edgeTracker) update(held bool) (pressed, released bool) {
	pressed = held && !e.held
	released = !held && e.held
	e.held = held
	return pressed, released
}
