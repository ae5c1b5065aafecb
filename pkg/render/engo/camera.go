// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/charmbracelet/harmonica"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

// Camera spring tuning
const (
	cameraFrequency = 4.0
	cameraDamping   = 1.0
	zoomStep        = 1.02
)

// CameraSystem keeps the view on the soft body. The camera position chases
// the target through a critically damped spring.
type CameraSystem struct {
	target    physics.Vector2D
	targetSet bool

	spring   harmonica.Spring
	position physics.Vector2D
	velocity physics.Vector2D

	zoom    float32
	minZoom float32
	maxZoom float32

	buttons  Buttons
	dispatch func(engo.Message)
}

// NewCameraSystem creates a camera for an fps-rate loop. The view starts
// centred on bounds.
func NewCameraSystem(fps int, bounds physics.Rect, buttons Buttons) *CameraSystem {
	if fps <= 0 {
		fps = 60
	}
	return &CameraSystem{
		spring:   harmonica.NewSpring(harmonica.FPS(fps), cameraFrequency, cameraDamping),
		position: bounds.Center,
		zoom:     1.0,
		minZoom:  0.25,
		maxZoom:  4.0,
		buttons:  buttons,
		dispatch: func(m engo.Message) { engo.Mailbox.Dispatch(m) },
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update advances the camera spring and moves the engo camera
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()
	if cs.targetSet {
		cs.follow()
	}
	cs.applyCameraTransform()
}

func (cs *CameraSystem) handleZoomInput() {
	if cs.buttons == nil {
		return
	}
	if cs.buttons.Down(ButtonZoomIn) {
		cs.SetZoom(cs.zoom * zoomStep)
	}
	if cs.buttons.Down(ButtonZoomOut) {
		cs.SetZoom(cs.zoom / zoomStep)
	}
	if cs.buttons.JustPressed(ButtonResetZoom) {
		cs.SetZoom(1.0)
	}
}

func (cs *CameraSystem) follow() {
	cs.position.X, cs.velocity.X = cs.spring.Update(cs.position.X, cs.velocity.X, cs.target.X)
	cs.position.Y, cs.velocity.Y = cs.spring.Update(cs.position.Y, cs.velocity.Y, cs.target.Y)
}

func (cs *CameraSystem) applyCameraTransform() {
	cs.dispatch(common.CameraMessage{Axis: common.XAxis, Value: float32(cs.position.X)})
	cs.dispatch(common.CameraMessage{Axis: common.YAxis, Value: float32(cs.position.Y)})
	cs.dispatch(common.CameraMessage{Axis: common.ZAxis, Value: 1 / cs.zoom})
}

// SetTarget sets the position the camera follows
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	cs.target = target
	cs.targetSet = true
}

// ClearTarget stops following; the camera stays where it is
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
	cs.velocity = physics.Vector2D{}
}

// SetZoom sets the zoom level, clamped to the zoom limits
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}
