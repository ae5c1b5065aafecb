// pkg/engine/simulation.go
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/opd-ai/go-softbody/pkg/config"
	"github.com/opd-ai/go-softbody/pkg/event"
	"github.com/opd-ai/go-softbody/pkg/logging"
	"github.com/opd-ai/go-softbody/pkg/physics"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// maxDeltaTime caps the wall-clock time consumed by a single Update
const maxDeltaTime = 0.1

// noPlatform marks a scene without a keyboard-driven platform
const noPlatform softbody.ObstacleID = -1

type contact struct {
	particle softbody.ParticleID
	obstacle softbody.ObstacleID
}

// Simulation drives a soft-body world frame by frame and reports what
// happens on its event bus
type Simulation struct {
	Config      *config.SimulationConfig
	World       *softbody.World
	EventBus    *event.Bus
	Body        []softbody.ParticleID
	Running     bool
	CurrentTick uint64
	LastUpdate  time.Time

	platform softbody.ObstacleID
	input    physics.Vector2D
	contacts []contact
	now      func() time.Time
	logger   *logging.Logger
	runID    string
	mu       sync.Mutex
}

// NewSimulation validates cfg and builds the scene it describes: the mesh,
// the boundary walls, the configured obstacles and the platform.
func NewSimulation(cfg *config.SimulationConfig, logger *logging.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	s := &Simulation{
		Config:   cfg,
		EventBus: event.NewEventBus(),
		platform: noPlatform,
		now:      time.Now,
		logger:   logger,
		runID:    logging.GenerateRunID(),
	}
	s.LastUpdate = s.now()

	if err := s.buildWorld(); err != nil {
		return nil, err
	}

	stats := s.World.Stats()
	s.logger.Info(s.context(), "simulation built",
		"mesh", cfg.Mesh.Kind,
		"particles", stats.Particles,
		"springs", stats.Springs,
		"obstacles", stats.Obstacles,
	)
	return s, nil
}

func (s *Simulation) buildWorld() error {
	cfg := s.Config
	bounds := cfg.World.Bounds()
	s.World = softbody.NewWorld(softbody.Config{
		Gravity:    cfg.World.Gravity,
		AirDamping: cfg.World.AirDamping,
		Bounds:     bounds,
	})
	s.World.OnContact = s.recordContact

	body, err := s.buildMesh()
	if err != nil {
		return fmt.Errorf("failed to build %s mesh: %w", cfg.Mesh.Kind, err)
	}
	s.Body = body

	if cfg.World.WallThickness > 0 {
		softbody.Walls(s.World, bounds, cfg.World.WallThickness)
	}
	for i, o := range cfg.Obstacles {
		shape, err := o.Shape()
		if err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
		s.World.AddObstacle(shape)
	}
	if cfg.Platform.Enabled {
		s.platform = s.World.AddObstacle(physics.NewBox(cfg.Platform.Position, cfg.Platform.Size))
	}
	return nil
}

func (s *Simulation) buildMesh() ([]softbody.ParticleID, error) {
	m := s.Config.Mesh
	switch m.Kind {
	case config.MeshRing:
		return softbody.JellyRing(s.World, softbody.JellyRingOptions{
			Center:         m.Ring.Center,
			Outer:          m.Ring.Outer,
			Inner:          m.Ring.Inner,
			OuterRadius:    m.Ring.OuterRadius,
			InnerRadius:    m.Ring.InnerRadius,
			ParticleRadius: m.Ring.ParticleRadius,
		})
	default:
		return softbody.QuadGrid(s.World, softbody.QuadGridOptions{
			Cols:           m.Quad.Cols,
			Rows:           m.Quad.Rows,
			Spacing:        m.Quad.Spacing,
			ParticleRadius: m.Quad.ParticleRadius,
			Origin:         m.Quad.Origin,
			Damping:        m.Quad.Damping,
		})
	}
}

func (s *Simulation) context() context.Context {
	return logging.WithRunID(context.Background(), s.runID)
}

func (s *Simulation) recordContact(p softbody.ParticleID, o softbody.ObstacleID) {
	s.contacts = append(s.contacts, contact{particle: p, obstacle: o})
}

// SetClock replaces the time source used by Update
func (s *Simulation) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.LastUpdate = now()
}

// Start marks the simulation running and publishes SimulationStarted
func (s *Simulation) Start() {
	s.mu.Lock()
	s.Running = true
	s.LastUpdate = s.now()
	s.mu.Unlock()

	s.logger.Info(s.context(), "simulation started")
	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationStarted,
		Source:    s,
	})
}

// Stop halts the simulation and publishes SimulationStopped
func (s *Simulation) Stop() {
	s.mu.Lock()
	s.Running = false
	tick := s.CurrentTick
	s.mu.Unlock()

	s.logger.Info(s.context(), "simulation stopped", "ticks", tick)
	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationStopped,
		Source:    s,
	})
}

// IsRunning reports whether Start has been called without a later Stop
func (s *Simulation) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Running
}

// SetInput sets the direction the platform moves in on following frames.
// Diagonal input is normalized.
func (s *Simulation) SetInput(direction physics.Vector2D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = direction.Normalize()
}

// ToggleGravity flips the default force and publishes GravityToggled
func (s *Simulation) ToggleGravity() bool {
	s.mu.Lock()
	enabled := s.World.ToggleGravity()
	s.mu.Unlock()

	s.logger.Debug(s.context(), "gravity toggled", "enabled", enabled)
	s.EventBus.Publish(event.NewGravityEvent(s, enabled))
	return enabled
}

// Platform returns the keyboard-driven obstacle, or nil when disabled
func (s *Simulation) Platform() physics.Shape {
	if s.platform == noPlatform {
		return nil
	}
	shape, _ := s.World.Obstacle(s.platform)
	return shape
}

// Update advances the simulation by the wall-clock time since the last call.
// It does nothing while the simulation is stopped.
func (s *Simulation) Update() softbody.StepResult {
	if !s.IsRunning() {
		return softbody.StepResult{}
	}
	return s.Step(s.calculateDeltaTime())
}

// calculateDeltaTime calculates the time since the last update and caps it.
func (s *Simulation) calculateDeltaTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	deltaTime := now.Sub(s.LastUpdate).Seconds()
	s.LastUpdate = now

	// Cap delta time to prevent physics issues
	if deltaTime > maxDeltaTime {
		deltaTime = maxDeltaTime
	}
	return deltaTime
}

// Step advances the simulation by dt seconds. The elapsed time is converted
// to frames with the configured time scale and split into substeps no larger
// than MaxSubstep. Each substep moves the platform and then steps the world.
func (s *Simulation) Step(dt float64) softbody.StepResult {
	s.mu.Lock()

	frames := dt * s.Config.World.TimeScale
	var total softbody.StepResult
	var moveErr error
	if frames > 0 {
		n := int(math.Ceil(frames / s.Config.World.MaxSubstep))
		sub := frames / float64(n)
		for i := 0; i < n; i++ {
			// moved every substep so Prev always holds the last extent
			if s.platform != noPlatform {
				if err := s.World.MoveObstacle(s.platform, s.input, sub, s.Config.Platform.Speed); err != nil && moveErr == nil {
					moveErr = err
				}
			}
			r := s.World.Step(sub)
			total.Contacts += r.Contacts
			total.SkippedSprings += r.SkippedSprings
		}
	}
	s.CurrentTick++
	tick := s.CurrentTick
	contacts := s.contacts
	s.contacts = nil

	s.mu.Unlock()

	if moveErr != nil {
		s.logger.Error(s.context(), "failed to move platform", moveErr, "tick", tick)
	}
	if total.SkippedSprings > 0 {
		s.logger.Debug(s.context(), "zero-length springs skipped", "tick", tick, "count", total.SkippedSprings)
	}
	s.publishFrame(tick, dt, total, contacts)
	return total
}

func (s *Simulation) publishFrame(tick uint64, dt float64, result softbody.StepResult, contacts []contact) {
	if s.EventBus.HasSubscribers(event.ObstacleContact) {
		for _, c := range contacts {
			s.EventBus.Publish(event.NewContactEvent(s, tick, int(c.particle), int(c.obstacle)))
		}
	}
	if s.EventBus.HasSubscribers(event.FrameStepped) {
		s.EventBus.Publish(event.NewFrameEvent(s, tick, dt, result.Contacts))
	}
}

// View runs fn with exclusive access to the world, for renderers
func (s *Simulation) View(fn func(w *softbody.World)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.World)
}

// Tick returns the number of completed steps
func (s *Simulation) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CurrentTick
}

// Stats returns a snapshot of the world
func (s *Simulation) Stats() softbody.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.World.Stats()
}
