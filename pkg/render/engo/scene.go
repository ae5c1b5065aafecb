// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-softbody/pkg/config"
	"github.com/opd-ai/go-softbody/pkg/engine"
	"github.com/opd-ai/go-softbody/pkg/event"
	"github.com/opd-ai/go-softbody/pkg/logging"
)

// SceneType is the engo scene name
const SceneType = "SoftBodyScene"

// Scene shows a running simulation in an engo window
type Scene struct {
	sim     *engine.Simulation
	options config.RendererConfig
	palette Palette
	logger  *logging.Logger

	renderer *EngoRenderer
	camera   *CameraSystem
	gravity  event.SubscriptionID
}

// NewScene creates a scene for sim
func NewScene(sim *engine.Simulation, options config.RendererConfig, logger *logging.Logger) *Scene {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Scene{
		sim:     sim,
		options: options,
		palette: DefaultPalette(),
		logger:  logger,
	}
}

// Type returns the scene type (required by Engo)
func (scene *Scene) Type() string {
	return SceneType
}

// Preload is called before the scene starts (required by Engo). Shapes
// need no assets.
func (scene *Scene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *Scene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(scene.palette.Background)

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	SetupInputBindings()
	buttons := engoButtons{}

	scene.renderer = NewEngoRenderer(renderSystem.Add, scene.palette)
	scene.camera = NewCameraSystem(scene.options.FPS, scene.sim.Config.World.Bounds(), buttons)

	world.AddSystem(NewInputSystem(scene.sim, buttons, engo.Exit))
	world.AddSystem(NewSimulationSystem(scene.sim, scene.renderer, scene.camera))
	world.AddSystem(scene.camera)

	scene.gravity = scene.sim.EventBus.Subscribe(event.GravityToggled, func(e event.Event) {
		if g, ok := e.(*event.GravityEvent); ok {
			scene.logger.Info(context.Background(), "gravity toggled", "enabled", g.Enabled)
		}
	})
	scene.sim.Start()
}

// Exit is called when the window closes
func (scene *Scene) Exit() {
	scene.sim.EventBus.Unsubscribe(scene.gravity)
	scene.sim.Stop()
}

// Run opens a window and blocks until it closes. The simulation is stopped
// when the window closes.
func Run(sim *engine.Simulation, options config.RendererConfig, logger *logging.Logger) {
	engo.Run(engo.RunOptions{
		Title:      options.Title,
		Width:      options.Width,
		Height:     options.Height,
		Fullscreen: options.Fullscreen,
		FPSLimit:   options.FPS,
	}, NewScene(sim, options, logger))
}
