// pkg/render/engo/colors.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

// Palette holds the colors the viewer draws with
type Palette struct {
	Background    color.Color
	Particle      color.Color
	FixedParticle color.Color
	Spring        color.Color
	Obstacle      color.Color
}

// DefaultPalette returns the viewer colors
func DefaultPalette() Palette {
	return Palette{
		Background:    color.RGBA{R: 20, G: 20, B: 28, A: 255},
		Particle:      color.RGBA{R: 230, G: 230, B: 230, A: 255},
		FixedParticle: color.RGBA{R: 220, G: 60, B: 60, A: 255},
		Spring:        color.RGBA{R: 128, G: 128, B: 140, A: 255},
		Obstacle:      color.RGBA{R: 60, G: 180, B: 90, A: 255},
	}
}

// Draw order, later layers on top
const (
	zSpring   float32 = 1
	zObstacle float32 = 2
	zParticle float32 = 3
)

// springThickness is the width of a spring line in world units
const springThickness = 2

// obstacleDrawable returns the engo shape for an obstacle and the space it fills
func obstacleDrawable(s physics.Shape) (common.Drawable, common.SpaceComponent) {
	switch shape := s.(type) {
	case *physics.Circle:
		return common.Circle{}, circleSpace(shape.Position, shape.Radius)
	case *physics.Polygon:
		return common.ComplexTriangles{Points: fan(shape.Vertices(), shape.Rect)}, rectSpace(shape.Rect)
	default:
		return common.Rectangle{}, rectSpace(s.Bounds())
	}
}

func toPoint(v physics.Vector2D) engo.Point {
	return engo.Point{X: float32(v.X), Y: float32(v.Y)}
}

func rectSpace(r physics.Rect) common.SpaceComponent {
	return common.SpaceComponent{
		Position: toPoint(r.TopLeft()),
		Width:    float32(r.Width),
		Height:   float32(r.Height),
	}
}

func circleSpace(center physics.Vector2D, radius float64) common.SpaceComponent {
	return rectSpace(physics.Rect{Center: center, Width: 2 * radius, Height: 2 * radius})
}

// springSpace lays a thin rectangle from a to b. Engo rotates around the
// top-left corner, in degrees, clockwise with y pointing down.
func springSpace(a, b physics.Vector2D) common.SpaceComponent {
	d := b.Sub(a)
	return common.SpaceComponent{
		Position: toPoint(a),
		Width:    float32(d.Length()),
		Height:   springThickness,
		Rotation: float32(d.Angle() * 180 / math.Pi),
	}
}

// fan triangulates a convex outline into points relative to its bounds,
// the form ComplexTriangles expects
func fan(vertices []physics.Vector2D, bounds physics.Rect) []engo.Point {
	if len(vertices) < 3 || bounds.Width == 0 || bounds.Height == 0 {
		return nil
	}
	origin := bounds.TopLeft()
	rel := func(v physics.Vector2D) engo.Point {
		return engo.Point{
			X: float32((v.X - origin.X) / bounds.Width),
			Y: float32((v.Y - origin.Y) / bounds.Height),
		}
	}
	points := make([]engo.Point, 0, 3*(len(vertices)-2))
	for i := 1; i < len(vertices)-1; i++ {
		points = append(points, rel(vertices[0]), rel(vertices[i]), rel(vertices[i+1]))
	}
	return points
}
