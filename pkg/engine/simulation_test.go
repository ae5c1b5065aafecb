// pkg/engine/simulation_test.go
package engine

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/go-softbody/pkg/config"
	"github.com/opd-ai/go-softbody/pkg/event"
	"github.com/opd-ai/go-softbody/pkg/physics"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// frameConfig returns the default scene with one frame per second of dt
func frameConfig() *config.SimulationConfig {
	cfg := config.DefaultConfig()
	cfg.World.TimeScale = 1
	cfg.World.MaxSubstep = 1
	return cfg
}

func newTestSimulation(t *testing.T, cfg *config.SimulationConfig) *Simulation {
	t.Helper()
	sim, err := NewSimulation(cfg, nil)
	if err != nil {
		t.Fatalf("NewSimulation() error = %v", err)
	}
	return sim
}

func TestNewSimulation_DefaultScene(t *testing.T) {
	sim := newTestSimulation(t, config.DefaultConfig())

	stats := sim.Stats()
	if stats.Particles != 144 || len(sim.Body) != 144 {
		t.Errorf("expected 144 particles, got %d", stats.Particles)
	}
	if stats.Springs != 741 {
		t.Errorf("expected 741 springs, got %d", stats.Springs)
	}
	// 4 walls, 2 configured obstacles, 1 platform
	if stats.Obstacles != 7 {
		t.Errorf("expected 7 obstacles, got %d", stats.Obstacles)
	}

	platform, ok := sim.Platform().(*physics.Box)
	if !ok {
		t.Fatalf("expected box platform, got %T", sim.Platform())
	}
	if platform.Rect.Center != (physics.Vector2D{X: 640, Y: 620}) {
		t.Errorf("unexpected platform position %v", platform.Rect.Center)
	}
}

func TestNewSimulation_RingWithoutWalls(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mesh.Kind = config.MeshRing
	cfg.World.WallThickness = 0
	cfg.Obstacles = nil
	cfg.Platform.Enabled = false

	sim := newTestSimulation(t, cfg)
	stats := sim.Stats()
	if stats.Particles != 22 || stats.Springs != 149 || stats.Obstacles != 0 {
		t.Errorf("unexpected ring scene %+v", stats)
	}
	if sim.Platform() != nil {
		t.Error("expected no platform")
	}
}

func TestNewSimulation_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Obstacles = append(cfg.Obstacles, config.ObstacleConfig{
		Kind:   config.ObstaclePolygon,
		Points: []physics.Vector2D{{X: 0, Y: 0}, {X: 1, Y: 1}},
	})

	if _, err := NewSimulation(cfg, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSimulation_StartStopPublishEvents(t *testing.T) {
	sim := newTestSimulation(t, config.DefaultConfig())
	var received []event.Type
	record := func(e event.Event) { received = append(received, e.GetType()) }
	sim.EventBus.Subscribe(event.SimulationStarted, record)
	sim.EventBus.Subscribe(event.SimulationStopped, record)

	sim.Start()
	if !sim.IsRunning() {
		t.Error("expected running after Start")
	}
	sim.Stop()
	if sim.IsRunning() {
		t.Error("expected stopped after Stop")
	}

	if len(received) != 2 || received[0] != event.SimulationStarted || received[1] != event.SimulationStopped {
		t.Errorf("unexpected events %v", received)
	}
}

func TestSimulation_UpdateCapsDeltaTime(t *testing.T) {
	sim := newTestSimulation(t, config.DefaultConfig())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sim.SetClock(func() time.Time { return clock })

	var frames []*event.FrameEvent
	sim.EventBus.Subscribe(event.FrameStepped, func(e event.Event) {
		frames = append(frames, e.(*event.FrameEvent))
	})

	clock = clock.Add(time.Second)
	sim.Update()
	if sim.CurrentTick != 0 || len(frames) != 0 {
		t.Fatal("Update should not step a stopped simulation")
	}

	sim.Start()
	clock = clock.Add(time.Second)
	sim.Update()
	clock = clock.Add(20 * time.Millisecond)
	sim.Update()

	if len(frames) != 2 {
		t.Fatalf("expected 2 frame events, got %d", len(frames))
	}
	if frames[0].DT != maxDeltaTime {
		t.Errorf("expected capped dt %v, got %v", maxDeltaTime, frames[0].DT)
	}
	if math.Abs(frames[1].DT-0.02) > 1e-9 {
		t.Errorf("expected dt 0.02, got %v", frames[1].DT)
	}
	if sim.CurrentTick != 2 || frames[1].Tick != 2 {
		t.Errorf("expected tick 2, got %d", sim.CurrentTick)
	}
}

func TestSimulation_PlatformFollowsInput(t *testing.T) {
	cfg := frameConfig()
	cfg.World.Gravity = physics.Vector2D{}
	sim := newTestSimulation(t, cfg)
	platform := sim.Platform().(*physics.Box)

	sim.SetInput(physics.Vector2D{X: 3, Y: 0})
	sim.Step(1)
	if platform.Rect.Center != (physics.Vector2D{X: 645, Y: 620}) {
		t.Errorf("expected platform at (645,620), got %v", platform.Rect.Center)
	}
	if platform.Prev.Center != (physics.Vector2D{X: 640, Y: 620}) {
		t.Errorf("expected previous extent at (640,620), got %v", platform.Prev.Center)
	}

	sim.Step(2.5)
	if math.Abs(platform.Rect.Center.X-657.5) > 1e-9 {
		t.Errorf("expected platform x 657.5 after substeps, got %v", platform.Rect.Center.X)
	}

	sim.SetInput(physics.Vector2D{})
	sim.Step(1)
	if math.Abs(platform.Rect.Center.X-657.5) > 1e-9 {
		t.Errorf("platform moved without input: %v", platform.Rect.Center)
	}
	if platform.Prev != platform.Rect {
		t.Errorf("expected previous extent to catch up while idle, prev=%v cur=%v", platform.Prev, platform.Rect)
	}
}

func TestSimulation_Substeps(t *testing.T) {
	cfg := frameConfig()
	cfg.World.MaxSubstep = 0.5
	cfg.World.Gravity = physics.Vector2D{}
	sim := newTestSimulation(t, cfg)
	platform := sim.Platform().(*physics.Box)

	sim.SetInput(physics.Vector2D{X: 0, Y: -1})
	sim.Step(1)

	// two substeps of half a frame, the last one snapshots the midpoint
	if math.Abs(platform.Prev.Center.Y-617.5) > 1e-9 || math.Abs(platform.Rect.Center.Y-615) > 1e-9 {
		t.Errorf("unexpected platform state prev=%v cur=%v", platform.Prev.Center, platform.Rect.Center)
	}
	if sim.Tick() != 1 {
		t.Errorf("expected one tick per Step, got %d", sim.Tick())
	}
}

func TestSimulation_PublishesContacts(t *testing.T) {
	sim := newTestSimulation(t, frameConfig())

	events := 0
	sim.EventBus.Subscribe(event.ObstacleContact, func(e event.Event) {
		c := e.(*event.ContactEvent)
		if c.Particle < 0 || c.Particle >= len(sim.Body) {
			t.Errorf("contact with unknown particle %d", c.Particle)
		}
		events++
	})

	total := 0
	for i := 0; i < 100; i++ {
		total += sim.Step(1).Contacts
	}

	if total == 0 {
		t.Fatal("expected the cloth to land on the platform")
	}
	if events != total {
		t.Errorf("published %d contact events for %d contacts", events, total)
	}
}

func TestSimulation_ToggleGravity(t *testing.T) {
	sim := newTestSimulation(t, config.DefaultConfig())

	var got *event.GravityEvent
	sim.EventBus.Subscribe(event.GravityToggled, func(e event.Event) {
		got = e.(*event.GravityEvent)
	})

	if sim.ToggleGravity() {
		t.Error("expected gravity disabled after first toggle")
	}
	if got == nil || got.Enabled {
		t.Errorf("unexpected gravity event %+v", got)
	}

	before := sim.Stats().Centroid
	sim.Step(1.0 / 60)
	if after := sim.Stats().Centroid; after != before {
		t.Errorf("body moved without gravity: %v -> %v", before, after)
	}
}

func TestSimulation_ConcurrentInputAndUpdate(t *testing.T) {
	sim := newTestSimulation(t, config.DefaultConfig())
	sim.Start()

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				sim.Update()
				time.Sleep(time.Millisecond)
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		dirs := []physics.Vector2D{{X: 1}, {X: -1}, {Y: 1}, {}}
		for i := 0; i < 50; i++ {
			sim.SetInput(dirs[i%len(dirs)])
			if i%10 == 0 {
				sim.ToggleGravity()
			}
			sim.View(func(w *softbody.World) { _ = w.Centroid() })
			time.Sleep(time.Millisecond)
		}
	}()

	time.Sleep(50 * time.Millisecond)
	close(done)
	wg.Wait()
	sim.Stop()
}

func BenchmarkSimulation_Step(b *testing.B) {
	sim, err := NewSimulation(config.DefaultConfig(), nil)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Step(1.0 / 60)
	}
}
