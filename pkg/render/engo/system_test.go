// pkg/render/engo/system_test.go
package engo

import (
	"math"
	"testing"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-softbody/pkg/config"
	"github.com/opd-ai/go-softbody/pkg/engine"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

func newTestSimulation(t *testing.T) *engine.Simulation {
	t.Helper()
	sim, err := engine.NewSimulation(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewSimulation() error = %v", err)
	}
	return sim
}

func discardAdd(*ecs.BasicEntity, *common.RenderComponent, *common.SpaceComponent) {}

func TestSimulationSystem_Update(t *testing.T) {
	sim := newTestSimulation(t)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sim.SetClock(func() time.Time { return clock })

	renderer := NewEngoRenderer(discardAdd, DefaultPalette())
	camera, _ := newTestCamera(nil)
	system := NewSimulationSystem(sim, renderer, camera)

	// stopped: draws but does not step
	system.Update(1.0 / 60)
	if sim.CurrentTick != 0 {
		t.Errorf("expected no step while stopped, tick %d", sim.CurrentTick)
	}
	stats := sim.Stats()
	if want := stats.Springs + stats.Particles + stats.Obstacles; renderer.Entities() != want {
		t.Errorf("expected %d entities, got %d", want, renderer.Entities())
	}
	if !camera.targetSet || camera.target != stats.Centroid {
		t.Errorf("expected camera target %v, got %v", stats.Centroid, camera.target)
	}

	sim.Start()
	for i := 0; i < 3; i++ {
		clock = clock.Add(time.Second / 60)
		system.Update(1.0 / 60)
	}
	if sim.CurrentTick != 3 {
		t.Errorf("expected 3 ticks, got %d", sim.CurrentTick)
	}
	if after := sim.Stats().Centroid; after.Y <= stats.Centroid.Y {
		t.Errorf("expected the body to fall, centroid %v -> %v", stats.Centroid, after)
	}
}

func TestSimulationSystem_ClearsTargetForNonFiniteCentroid(t *testing.T) {
	sim := newTestSimulation(t)
	camera, _ := newTestCamera(nil)
	system := NewSimulationSystem(sim, NewEngoRenderer(discardAdd, DefaultPalette()), camera)

	system.Update(1.0 / 60)
	if !camera.targetSet {
		t.Fatal("expected the camera to follow the body")
	}

	sim.View(func(w *softbody.World) {
		w.Particles[0].Shape.Position.X = math.NaN()
	})
	system.Update(1.0 / 60)
	if camera.targetSet {
		t.Error("expected the camera to stop following a NaN centroid")
	}
	if math.IsNaN(camera.position.X) {
		t.Error("camera position must stay finite")
	}
}

func TestSimulationSystem_NilCamera(t *testing.T) {
	sim := newTestSimulation(t)
	system := NewSimulationSystem(sim, NewEngoRenderer(discardAdd, DefaultPalette()), nil)
	system.Update(1.0 / 60)
}

func TestScene(t *testing.T) {
	sim := newTestSimulation(t)
	scene := NewScene(sim, config.DefaultConfig().Renderer, nil)

	if scene.Type() != SceneType {
		t.Errorf("expected scene type %q, got %q", SceneType, scene.Type())
	}
	if scene.logger == nil {
		t.Error("expected a discard logger for nil")
	}
	scene.Preload()
}
