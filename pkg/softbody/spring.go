// pkg/softbody/spring.go
package softbody

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

var (
	// ErrSelfSpring is returned when both spring ends name the same particle
	ErrSelfSpring = errors.New("spring endpoints must differ")
	// ErrUnknownParticle is returned for a particle id outside the world
	ErrUnknownParticle = errors.New("unknown particle")
)

// SpringID indexes a spring in its World
type SpringID int

// Spring is a damped linear connector between two particles. It holds
// indices into the particle slice, never pointers.
type Spring struct {
	A          ParticleID
	B          ParticleID
	K          float64
	Damping    float64
	RestLength float64
}

func checkParticle(particles []Particle, id ParticleID) error {
	if id < 0 || int(id) >= len(particles) {
		return fmt.Errorf("%w: %d", ErrUnknownParticle, id)
	}
	return nil
}

// NewSpring connects a and b, taking the rest length from their current separation
func NewSpring(particles []Particle, a, b ParticleID, k, damping float64) (Spring, error) {
	if a == b {
		return Spring{}, fmt.Errorf("%w: %d", ErrSelfSpring, a)
	}
	if err := checkParticle(particles, a); err != nil {
		return Spring{}, err
	}
	if err := checkParticle(particles, b); err != nil {
		return Spring{}, err
	}

	return Spring{
		A:          a,
		B:          b,
		K:          k,
		Damping:    damping,
		RestLength: particles[a].Position().Distance(particles[b].Position()),
	}, nil
}

// Length returns the current distance between the endpoints
func (s Spring) Length(particles []Particle) float64 {
	return particles[s.A].Position().Distance(particles[s.B].Position())
}

// Force returns the force acting on A. B receives the negation. ok is false
// when the endpoints coincide and no direction exists.
func (s Spring) Force(particles []Particle) (force physics.Vector2D, ok bool) {
	a, b := &particles[s.A], &particles[s.B]

	delta := a.Position().Sub(b.Position())
	dist := delta.Length()
	if dist == 0 {
		return physics.Vector2D{}, false
	}

	dir := delta.Scale(1 / dist)
	force = dir.Scale(-s.K * (dist - s.RestLength))

	relative := a.Velocity.Sub(b.Velocity)
	force = force.Sub(dir.Scale(s.Damping * relative.Dot(dir)))
	return force, true
}

// Apply adds the spring force to both endpoints, skipping fixed ones.
// It reports false when the spring was skipped for zero length.
func (s Spring) Apply(particles []Particle) bool {
	force, ok := s.Force(particles)
	if !ok {
		return false
	}
	if a := &particles[s.A]; !a.Fixed {
		a.ApplyForce(force)
	}
	if b := &particles[s.B]; !b.Fixed {
		b.ApplyForce(force.Neg())
	}
	return true
}
