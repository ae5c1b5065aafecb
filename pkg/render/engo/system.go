// pkg/render/engo/system.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-softbody/pkg/engine"
	"github.com/opd-ai/go-softbody/pkg/render"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// SimulationSystem advances the simulation once per engo frame and mirrors
// the world into render entities
type SimulationSystem struct {
	sim      *engine.Simulation
	renderer render.Renderer
	camera   *CameraSystem
}

// NewSimulationSystem creates the system. camera may be nil.
func NewSimulationSystem(sim *engine.Simulation, renderer render.Renderer, camera *CameraSystem) *SimulationSystem {
	return &SimulationSystem{
		sim:      sim,
		renderer: renderer,
		camera:   camera,
	}
}

// Remove satisfies the ecs.System interface
func (s *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update steps the simulation by the wall-clock time since its last update
// and redraws the world. The camera stops following a body whose centroid
// is no longer finite.
func (s *SimulationSystem) Update(dt float32) {
	s.sim.Update()
	s.sim.View(func(w *softbody.World) {
		render.DrawWorld(s.renderer, w)
		if s.camera == nil {
			return
		}
		if c := w.Centroid(); finite(c.X) && finite(c.Y) {
			s.camera.SetTarget(c)
		} else {
			s.camera.ClearTarget()
		}
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
