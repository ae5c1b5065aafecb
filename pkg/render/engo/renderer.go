// pkg/render/engo/renderer.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-softbody/pkg/physics"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// AddFunc registers an entity with a render system. (*common.RenderSystem).Add
// has this signature.
type AddFunc func(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)

// shapeEntity is one drawn shape
type shapeEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// pool reuses entities across frames. Entities past the frame's count are
// hidden by Present.
type pool struct {
	entities []*shapeEntity
	used     int
}

func (p *pool) next(add AddFunc, z float32) *shapeEntity {
	if p.used < len(p.entities) {
		e := p.entities[p.used]
		p.used++
		e.Hidden = false
		return e
	}
	e := &shapeEntity{BasicEntity: ecs.NewBasic()}
	e.StartZIndex = z
	add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	p.entities = append(p.entities, e)
	p.used++
	return e
}

func (p *pool) hideUnused() {
	for _, e := range p.entities[p.used:] {
		e.Hidden = true
	}
}

// EngoRenderer implements render.Renderer with engo shape entities
type EngoRenderer struct {
	add     AddFunc
	palette Palette

	springs   pool
	particles pool
	obstacles pool
}

// NewEngoRenderer creates a renderer that registers its entities through add
func NewEngoRenderer(add AddFunc, palette Palette) *EngoRenderer {
	return &EngoRenderer{
		add:     add,
		palette: palette,
	}
}

// Clear implements render.Renderer
func (r *EngoRenderer) Clear() {
	r.springs.used = 0
	r.particles.used = 0
	r.obstacles.used = 0
}

// Present implements render.Renderer. Engo draws the entities itself, so
// this only hides what the frame did not use.
func (r *EngoRenderer) Present() {
	r.springs.hideUnused()
	r.particles.hideUnused()
	r.obstacles.hideUnused()
}

// RenderSpring implements render.Renderer
func (r *EngoRenderer) RenderSpring(a, b physics.Vector2D) {
	e := r.springs.next(r.add, zSpring)
	e.Drawable = common.Rectangle{}
	e.Color = r.palette.Spring
	e.SpaceComponent = springSpace(a, b)
}

// RenderParticle implements render.Renderer
func (r *EngoRenderer) RenderParticle(p *softbody.Particle) {
	e := r.particles.next(r.add, zParticle)
	e.Drawable = common.Circle{}
	e.Color = r.palette.Particle
	if p.Fixed {
		e.Color = r.palette.FixedParticle
	}
	e.SpaceComponent = circleSpace(p.Position(), p.Radius())
}

// RenderObstacle implements render.Renderer
func (r *EngoRenderer) RenderObstacle(s physics.Shape) {
	e := r.obstacles.next(r.add, zObstacle)
	e.Drawable, e.SpaceComponent = obstacleDrawable(s)
	e.Color = r.palette.Obstacle
}

// Entities returns the number of entities registered so far
func (r *EngoRenderer) Entities() int {
	return len(r.springs.entities) + len(r.particles.entities) + len(r.obstacles.entities)
}
