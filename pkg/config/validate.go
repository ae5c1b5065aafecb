// pkg/config/validate.go
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// positive is false for NaN and infinities
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// nonNegative is false for NaN and infinities
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func finite(v physics.Vector2D) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Validate checks the configuration and returns the first problem found
func (c *SimulationConfig) Validate() error {
	if err := c.World.validate(); err != nil {
		return err
	}
	if err := c.Mesh.validate(); err != nil {
		return err
	}
	for i, o := range c.Obstacles {
		if err := o.validate(); err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
	}
	if err := c.Platform.validate(); err != nil {
		return err
	}
	return c.Renderer.validate()
}

func (w WorldConfig) validate() error {
	if !positive(w.Width) || !positive(w.Height) {
		return invalid("world size %vx%v must be positive", w.Width, w.Height)
	}
	if !(w.AirDamping > 0 && w.AirDamping <= 1) {
		return invalid("air damping %v outside (0, 1]", w.AirDamping)
	}
	if !nonNegative(w.WallThickness) {
		return invalid("wall thickness %v is negative", w.WallThickness)
	}
	if !finite(w.Gravity) {
		return invalid("gravity %v is not finite", w.Gravity)
	}
	if !positive(w.TimeScale) {
		return invalid("time scale %v must be positive", w.TimeScale)
	}
	if !positive(w.MaxSubstep) {
		return invalid("max substep %v must be positive", w.MaxSubstep)
	}
	return nil
}

func (m MeshConfig) validate() error {
	switch m.Kind {
	case MeshQuad:
		q := m.Quad
		if q.Cols < 1 || q.Rows < 1 {
			return invalid("quad grid %dx%d needs at least one particle", q.Cols, q.Rows)
		}
		if !positive(q.Spacing) || !positive(q.ParticleRadius) {
			return invalid("quad spacing %v and radius %v must be positive", q.Spacing, q.ParticleRadius)
		}
		if !nonNegative(q.Damping) {
			return invalid("quad damping %v is negative", q.Damping)
		}
	case MeshRing:
		r := m.Ring
		if r.Outer < 3 {
			return invalid("ring needs at least 3 outer particles, got %d", r.Outer)
		}
		if !positive(r.OuterRadius) || !positive(r.ParticleRadius) || !nonNegative(r.InnerRadius) {
			return invalid("ring radii outer=%v inner=%v particle=%v", r.OuterRadius, r.InnerRadius, r.ParticleRadius)
		}
	default:
		return invalid("unknown mesh kind %q", m.Kind)
	}
	return nil
}

func (o ObstacleConfig) validate() error {
	switch o.Kind {
	case ObstacleCircle:
		if !positive(o.Radius) {
			return invalid("circle radius %v must be positive", o.Radius)
		}
	case ObstacleBox:
		if !positive(o.Size.X) || !positive(o.Size.Y) {
			return invalid("box size %v must be positive", o.Size)
		}
	case ObstaclePolygon:
		if len(o.Points) < 3 {
			return invalid("polygon needs at least 3 points, got %d", len(o.Points))
		}
	default:
		return invalid("unknown obstacle kind %q", o.Kind)
	}
	return nil
}

func (p PlatformConfig) validate() error {
	if !p.Enabled {
		return nil
	}
	if !positive(p.Size.X) || !positive(p.Size.Y) {
		return invalid("platform size %v must be positive", p.Size)
	}
	if !nonNegative(p.Speed) {
		return invalid("platform speed %v is negative", p.Speed)
	}
	return nil
}

func (r RendererConfig) validate() error {
	switch r.Kind {
	case RendererTerminal, RendererEngo, RendererHeadless:
	default:
		return invalid("unknown renderer %q", r.Kind)
	}
	if r.Kind == RendererEngo && (r.Width <= 0 || r.Height <= 0) {
		return invalid("window size %dx%d must be positive", r.Width, r.Height)
	}
	if r.FPS < 0 {
		return invalid("fps %d is negative", r.FPS)
	}
	return nil
}
