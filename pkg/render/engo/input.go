// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

// Button names registered with engo.Input
const (
	ButtonUp            = "up"
	ButtonDown          = "down"
	ButtonLeft          = "left"
	ButtonRight         = "right"
	ButtonToggleGravity = "gravity"
	ButtonQuit          = "quit"
	ButtonZoomIn        = "zoomIn"
	ButtonZoomOut       = "zoomOut"
	ButtonResetZoom     = "resetZoom"
)

// Buttons reports the state of named buttons
type Buttons interface {
	Down(name string) bool
	JustPressed(name string) bool
}

// engoButtons reads engo.Input
type engoButtons struct{}

func (engoButtons) Down(name string) bool        { return engo.Input.Button(name).Down() }
func (engoButtons) JustPressed(name string) bool { return engo.Input.Button(name).JustPressed() }

// Controller is what the input system drives
type Controller interface {
	SetInput(direction physics.Vector2D)
	ToggleGravity() bool
}

// InputSystem turns held buttons into platform movement and gravity toggles
type InputSystem struct {
	target  Controller
	buttons Buttons
	quit    func()
}

// NewInputSystem creates an input system driving target
func NewInputSystem(target Controller, buttons Buttons, quit func()) *InputSystem {
	return &InputSystem{
		target:  target,
		buttons: buttons,
		quit:    quit,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads the buttons once per frame
func (is *InputSystem) Update(dt float32) {
	if is.buttons.JustPressed(ButtonQuit) {
		if is.quit != nil {
			is.quit()
		}
		return
	}
	if is.buttons.JustPressed(ButtonToggleGravity) {
		is.target.ToggleGravity()
	}
	is.target.SetInput(heldDirection(is.buttons))
}

// heldDirection sums the held direction buttons; y grows downward
func heldDirection(b Buttons) physics.Vector2D {
	var dir physics.Vector2D
	if b.Down(ButtonUp) {
		dir.Y--
	}
	if b.Down(ButtonDown) {
		dir.Y++
	}
	if b.Down(ButtonLeft) {
		dir.X--
	}
	if b.Down(ButtonRight) {
		dir.X++
	}
	return dir
}

// SetupInputBindings registers the viewer's key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonUp, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(ButtonDown, engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton(ButtonLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonRight, engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonToggleGravity, engo.KeySpace)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape, engo.KeyQ)
	engo.Input.RegisterButton(ButtonZoomIn, engo.KeyE)
	engo.Input.RegisterButton(ButtonZoomOut, engo.KeyZ)
	engo.Input.RegisterButton(ButtonResetZoom, engo.KeyR)
}
