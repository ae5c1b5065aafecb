// pkg/render/engo/input_test.go
package engo

import (
	"testing"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

// fakeButtons reports fixed button states
type fakeButtons struct {
	down        map[string]bool
	justPressed map[string]bool
}

func (f fakeButtons) Down(name string) bool        { return f.down[name] }
func (f fakeButtons) JustPressed(name string) bool { return f.justPressed[name] }

// fakeController records what the input system asks for
type fakeController struct {
	inputs  []physics.Vector2D
	toggles int
}

func (c *fakeController) SetInput(direction physics.Vector2D) {
	c.inputs = append(c.inputs, direction)
}

func (c *fakeController) ToggleGravity() bool {
	c.toggles++
	return c.toggles%2 == 0
}

func TestHeldDirection(t *testing.T) {
	tests := []struct {
		name string
		down []string
		want physics.Vector2D
	}{
		{"none", nil, physics.Vector2D{}},
		{"up", []string{ButtonUp}, physics.Vector2D{X: 0, Y: -1}},
		{"down right", []string{ButtonDown, ButtonRight}, physics.Vector2D{X: 1, Y: 1}},
		{"opposites cancel", []string{ButtonLeft, ButtonRight}, physics.Vector2D{}},
		{"up left", []string{ButtonUp, ButtonLeft}, physics.Vector2D{X: -1, Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fakeButtons{down: map[string]bool{}}
			for _, name := range tt.down {
				b.down[name] = true
			}
			if got := heldDirection(b); got != tt.want {
				t.Errorf("heldDirection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInputSystem_Update(t *testing.T) {
	ctrl := &fakeController{}
	quits := 0
	buttons := fakeButtons{
		down:        map[string]bool{ButtonRight: true},
		justPressed: map[string]bool{ButtonToggleGravity: true},
	}
	is := NewInputSystem(ctrl, buttons, func() { quits++ })

	is.Update(1.0 / 60)

	if ctrl.toggles != 1 {
		t.Errorf("expected one gravity toggle, got %d", ctrl.toggles)
	}
	if len(ctrl.inputs) != 1 || ctrl.inputs[0] != (physics.Vector2D{X: 1}) {
		t.Errorf("unexpected inputs %v", ctrl.inputs)
	}
	if quits != 0 {
		t.Error("quit called without the quit button")
	}
}

func TestInputSystem_Quit(t *testing.T) {
	ctrl := &fakeController{}
	quits := 0
	buttons := fakeButtons{
		down:        map[string]bool{ButtonUp: true},
		justPressed: map[string]bool{ButtonQuit: true, ButtonToggleGravity: true},
	}
	is := NewInputSystem(ctrl, buttons, func() { quits++ })

	is.Update(1.0 / 60)

	if quits != 1 {
		t.Errorf("expected quit, got %d calls", quits)
	}
	if ctrl.toggles != 0 || len(ctrl.inputs) != 0 {
		t.Error("expected no further input handling after quit")
	}

	// a nil quit func is ignored
	NewInputSystem(ctrl, buttons, nil).Update(1.0 / 60)
}
