// pkg/softbody/world.go
package softbody

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

// ErrUnknownObstacle is returned for an obstacle id outside the world
var ErrUnknownObstacle = errors.New("unknown obstacle")

// ObstacleID indexes an obstacle in its World
type ObstacleID int

// ContactHandler is called for every particle that touched an obstacle
// during a collision pass
type ContactHandler func(particle ParticleID, obstacle ObstacleID)

// Config holds the per-world physical constants
type Config struct {
	Gravity    physics.Vector2D
	AirDamping float64
	Bounds     physics.Rect
}

// DefaultConfig returns the constants the simulator ships with
func DefaultConfig() Config {
	return Config{
		Gravity:    physics.Vector2D{X: 0, Y: 0.1},
		AirDamping: 0.998,
		Bounds: physics.Rect{
			Center: physics.Vector2D{X: 640, Y: 360},
			Width:  1280,
			Height: 720,
		},
	}
}

// StepResult summarizes one call to Step
type StepResult struct {
	Contacts       int
	SkippedSprings int
}

// Stats is a snapshot of world size and motion
type Stats struct {
	Particles     int
	Springs       int
	Obstacles     int
	KineticEnergy float64
	// MaxStretch is the largest relative deviation of a spring from its
	// rest length
	MaxStretch float64
	Centroid   physics.Vector2D
}

// World owns the particle arena, the springs connecting it and the
// obstacles particles collide with. It is not safe for concurrent use.
type World struct {
	Config         Config
	Particles      []Particle
	Springs        []Spring
	Obstacles      []physics.Shape
	GravityEnabled bool
	OnContact      ContactHandler
}

// NewWorld creates an empty world with gravity enabled
func NewWorld(cfg Config) *World {
	return &World{
		Config:         cfg,
		GravityEnabled: true,
	}
}

// AddParticle appends a particle and returns its id
func (w *World) AddParticle(position physics.Vector2D, radius float64, fixed bool) ParticleID {
	w.Particles = append(w.Particles, NewParticle(position, radius, fixed))
	return ParticleID(len(w.Particles) - 1)
}

// AddSpring connects two existing particles
func (w *World) AddSpring(a, b ParticleID, k, damping float64) (SpringID, error) {
	s, err := NewSpring(w.Particles, a, b, k, damping)
	if err != nil {
		return -1, err
	}
	w.Springs = append(w.Springs, s)
	return SpringID(len(w.Springs) - 1), nil
}

// AddObstacle appends a collidable shape and returns its id
func (w *World) AddObstacle(s physics.Shape) ObstacleID {
	w.Obstacles = append(w.Obstacles, s)
	return ObstacleID(len(w.Obstacles) - 1)
}

// Particle returns the particle with the given id
func (w *World) Particle(id ParticleID) (*Particle, error) {
	if err := checkParticle(w.Particles, id); err != nil {
		return nil, err
	}
	return &w.Particles[id], nil
}

// Obstacle returns the obstacle with the given id
func (w *World) Obstacle(id ObstacleID) (physics.Shape, error) {
	if id < 0 || int(id) >= len(w.Obstacles) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObstacle, id)
	}
	return w.Obstacles[id], nil
}

// ApplyDefaultForce adds the configured gravity to every particle
func (w *World) ApplyDefaultForce() {
	for i := range w.Particles {
		w.Particles[i].ApplyForce(w.Config.Gravity)
	}
}

// UpdateSprings accumulates every spring force into its endpoints and returns
// the number of zero-length springs skipped this frame. The force model has
// no time term, dt is accepted for symmetry with UpdateParticles.
func (w *World) UpdateSprings(dt float64) int {
	skipped := 0
	for _, s := range w.Springs {
		if !s.Apply(w.Particles) {
			skipped++
		}
	}
	return skipped
}

// UpdateParticles integrates every particle over dt
func (w *World) UpdateParticles(dt float64) {
	for i := range w.Particles {
		w.Particles[i].Update(dt, w.Config.AirDamping)
	}
}

// ResolveParticlesAgainstObstacles pushes each particle out of every obstacle
// it overlaps, in obstacle order, and zeroes its velocity on contact. Later
// obstacles see the position left by earlier ones. It returns the number of
// particle-obstacle contacts.
func (w *World) ResolveParticlesAgainstObstacles() int {
	contacts := 0
	for i := range w.Particles {
		p := &w.Particles[i]
		for j, obstacle := range w.Obstacles {
			if !physics.Check(&p.Shape, obstacle) {
				continue
			}
			physics.ResolveAndApply(&p.Shape, obstacle)
			p.Velocity = physics.Vector2D{}
			contacts++
			if w.OnContact != nil {
				w.OnContact(ParticleID(i), ObstacleID(j))
			}
		}
	}
	return contacts
}

// Step advances the world one frame: gravity, springs, integration, then
// the collision pass.
func (w *World) Step(dt float64) StepResult {
	if w.GravityEnabled {
		w.ApplyDefaultForce()
	}
	skipped := w.UpdateSprings(dt)
	w.UpdateParticles(dt)
	return StepResult{
		Contacts:       w.ResolveParticlesAgainstObstacles(),
		SkippedSprings: skipped,
	}
}

// ToggleGravity flips the gravity switch and returns the new state
func (w *World) ToggleGravity() bool {
	w.GravityEnabled = !w.GravityEnabled
	return w.GravityEnabled
}

// MoveObstacle moves a kinematic obstacle by direction*dt*speed
func (w *World) MoveObstacle(id ObstacleID, direction physics.Vector2D, dt, speed float64) error {
	s, err := w.Obstacle(id)
	if err != nil {
		return err
	}
	physics.Move(s, direction, dt, speed)
	return nil
}

// Centroid returns the mean particle position, or the world center when empty
func (w *World) Centroid() physics.Vector2D {
	if len(w.Particles) == 0 {
		return w.Config.Bounds.Center
	}
	var sum physics.Vector2D
	for i := range w.Particles {
		sum = sum.Add(w.Particles[i].Position())
	}
	return sum.Scale(1 / float64(len(w.Particles)))
}

// Stats returns a snapshot of the world
func (w *World) Stats() Stats {
	energy := 0.0
	for i := range w.Particles {
		energy += w.Particles[i].KineticEnergy()
	}
	stretch := 0.0
	for _, s := range w.Springs {
		if s.RestLength == 0 {
			continue
		}
		stretch = math.Max(stretch, math.Abs(s.Length(w.Particles)-s.RestLength)/s.RestLength)
	}
	return Stats{
		Particles:     len(w.Particles),
		Springs:       len(w.Springs),
		Obstacles:     len(w.Obstacles),
		KineticEnergy: energy,
		MaxStretch:    stretch,
		Centroid:      w.Centroid(),
	}
}
