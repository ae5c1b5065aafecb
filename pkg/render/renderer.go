// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-softbody/pkg/logging"
	"github.com/opd-ai/go-softbody/pkg/physics"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// Renderer draws one frame of a world. Calls between Clear and Present
// build the frame; Present makes it visible.
type Renderer interface {
	Clear()
	RenderSpring(a, b physics.Vector2D)
	RenderParticle(p *softbody.Particle)
	RenderObstacle(s physics.Shape)
	Present()
}

// DrawWorld renders springs, then particles, then obstacles
func DrawWorld(r Renderer, w *softbody.World) {
	r.Clear()
	for _, s := range w.Springs {
		r.RenderSpring(w.Particles[s.A].Position(), w.Particles[s.B].Position())
	}
	for i := range w.Particles {
		r.RenderParticle(&w.Particles[i])
	}
	for _, o := range w.Obstacles {
		r.RenderObstacle(o)
	}
	r.Present()
}

// NullRenderer draws nothing and logs each call at debug level.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(context.Background(), "Present called")
}

// RenderSpring implements Renderer.
func (d *NullRenderer) RenderSpring(a, b physics.Vector2D) {
	d.logger.Debug(context.Background(), "RenderSpring called",
		"length", a.Distance(b),
	)
}

// RenderParticle implements Renderer.
func (d *NullRenderer) RenderParticle(p *softbody.Particle) {
	ctx := context.Background()
	if p == nil {
		d.logger.Debug(ctx, "RenderParticle called with nil particle")
		return
	}
	d.logger.Debug(ctx, "RenderParticle called",
		"x", p.Position().X,
		"y", p.Position().Y,
		"fixed", p.Fixed,
	)
}

// RenderObstacle implements Renderer.
func (d *NullRenderer) RenderObstacle(s physics.Shape) {
	ctx := context.Background()
	if s == nil {
		d.logger.Debug(ctx, "RenderObstacle called with nil shape")
		return
	}
	d.logger.Debug(ctx, "RenderObstacle called",
		"kind", s.Kind().String(),
		"x", s.Center().X,
		"y", s.Center().Y,
	)
}
