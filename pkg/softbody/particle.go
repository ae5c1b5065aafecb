// pkg/softbody/particle.go
package softbody

import (
	"github.com/opd-ai/go-softbody/pkg/physics"
)

// ParticleID indexes a particle in its World
type ParticleID int

// Particle is a unit point mass with a circular collision extent
type Particle struct {
	Shape    physics.Circle
	Velocity physics.Vector2D
	Force    physics.Vector2D
	Fixed    bool
}

// NewParticle creates a particle at rest
func NewParticle(position physics.Vector2D, radius float64, fixed bool) Particle {
	return Particle{
		Shape: physics.Circle{Position: position, Radius: radius},
		Fixed: fixed,
	}
}

// Position returns the particle center
func (p *Particle) Position() physics.Vector2D {
	return p.Shape.Position
}

// Radius returns the collision radius
func (p *Particle) Radius() float64 {
	return p.Shape.Radius
}

// ApplyForce accumulates f until the next Update
func (p *Particle) ApplyForce(f physics.Vector2D) {
	p.Force = p.Force.Add(f)
}

// Update integrates the accumulated force over dt. Velocity is scaled by
// airDamping before the position step. Fixed particles keep their position
// and velocity, but the force buffer is cleared either way.
func (p *Particle) Update(dt, airDamping float64) {
	if !p.Fixed {
		p.Velocity = p.Velocity.Add(p.Force.Scale(dt)).Scale(airDamping)
		p.Shape.Position = p.Shape.Position.Add(p.Velocity.Scale(dt))
	}
	p.Force = physics.Vector2D{}
}

// KineticEnergy returns 1/2 |v|^2 for the unit mass
func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Velocity.LengthSquared()
}
