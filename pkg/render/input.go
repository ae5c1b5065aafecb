// pkg/render/input.go
package render

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

// Action is what a key press asks the driver to do
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionToggleGravity
	ActionQuit
)

// KeyAction maps a key to an action and, for ActionMove, a unit direction.
// Arrows and WASD move the platform (y grows downward), space toggles
// gravity, Esc, Ctrl-C and q quit.
func KeyAction(ev *tcell.EventKey) (Action, physics.Vector2D) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, physics.Vector2D{}
	case tcell.KeyUp:
		return ActionMove, physics.Vector2D{X: 0, Y: -1}
	case tcell.KeyDown:
		return ActionMove, physics.Vector2D{X: 0, Y: 1}
	case tcell.KeyLeft:
		return ActionMove, physics.Vector2D{X: -1, Y: 0}
	case tcell.KeyRight:
		return ActionMove, physics.Vector2D{X: 1, Y: 0}
	case tcell.KeyRune:
	default:
		return ActionNone, physics.Vector2D{}
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return ActionQuit, physics.Vector2D{}
	case ' ':
		return ActionToggleGravity, physics.Vector2D{}
	case 'w', 'W':
		return ActionMove, physics.Vector2D{X: 0, Y: -1}
	case 's', 'S':
		return ActionMove, physics.Vector2D{X: 0, Y: 1}
	case 'a', 'A':
		return ActionMove, physics.Vector2D{X: -1, Y: 0}
	case 'd', 'D':
		return ActionMove, physics.Vector2D{X: 1, Y: 0}
	}
	return ActionNone, physics.Vector2D{}
}

// HeldDirection turns key presses into a held direction. Terminals report
// no key releases, so a direction lapses once its key stops repeating for
// longer than the hold window.
type HeldDirection struct {
	hold    time.Duration
	presses map[physics.Vector2D]time.Time
}

// NewHeldDirection creates a tracker with the given hold window
func NewHeldDirection(hold time.Duration) *HeldDirection {
	return &HeldDirection{
		hold:    hold,
		presses: make(map[physics.Vector2D]time.Time),
	}
}

// Press records a key press for direction at now
func (h *HeldDirection) Press(direction physics.Vector2D, now time.Time) {
	h.presses[direction] = now
}

// Direction returns the sum of all directions pressed within the hold window
func (h *HeldDirection) Direction(now time.Time) physics.Vector2D {
	var sum physics.Vector2D
	for dir, at := range h.presses {
		if now.Sub(at) > h.hold {
			delete(h.presses, dir)
			continue
		}
		sum = sum.Add(dir)
	}
	return sum
}
