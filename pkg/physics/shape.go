// pkg/physics/shape.go
package physics

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegeneratePolygon is returned when a polygon is built from fewer than three points.
var ErrDegeneratePolygon = errors.New("polygon needs at least 3 vertices")

// Kind identifies one of the closed set of collision primitives
type Kind int

const (
	KindCircle Kind = iota
	KindBox
	KindPolygon

	kindCount
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindBox:
		return "box"
	case KindPolygon:
		return "polygon"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Shape is implemented by *Circle, *Box and *Polygon. The set is closed: pair
// routines are resolved through tables indexed by Kind.
type Shape interface {
	Kind() Kind
	Center() Vector2D
	Bounds() Rect
	Translate(delta Vector2D)
}

// Rect represents an axis-aligned rectangular area. Y grows downward.
type Rect struct {
	Center Vector2D `json:"center"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

func (r Rect) Left() float64 { return r.Center.X - r.Width/2 }
func (r Rect) Right() float64 { return r.Center.X + r.Width/2 }
func (r Rect) Top() float64 { return r.Center.Y - r.Height/2 }
func (r Rect) Bottom() float64 { return r.Center.Y + r.Height/2 }

// TopLeft returns the minimum corner
func (r Rect) TopLeft() Vector2D {
	return Vector2D{X: r.Left(), Y: r.Top()}
}

// Corners returns top-left, top-right, bottom-right, bottom-left
func (r Rect) Corners() []Vector2D {
	return []Vector2D{
		{X: r.Left(), Y: r.Top()},
		{X: r.Right(), Y: r.Top()},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left(), Y: r.Bottom()},
	}
}

// Contains reports whether point lies inside the half-open area of the rect
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Left() &&
		point.X < r.Right() &&
		point.Y >= r.Top() &&
		point.Y < r.Bottom()
}

// Intersects reports strict overlap. Rects that only share an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.Left() < other.Right() &&
		r.Right() > other.Left() &&
		r.Top() < other.Bottom() &&
		r.Bottom() > other.Top()
}

// SetLeft moves the rect so its left edge sits at x
func (r *Rect) SetLeft(x float64) { r.Center.X = x + r.Width/2 }

// SetRight moves the rect so its right edge sits at x
func (r *Rect) SetRight(x float64) { r.Center.X = x - r.Width/2 }

// SetTop moves the rect so its top edge sits at y
func (r *Rect) SetTop(y float64) { r.Center.Y = y + r.Height/2 }

// SetBottom moves the rect so its bottom edge sits at y
func (r *Rect) SetBottom(y float64) { r.Center.Y = y - r.Height/2 }

// Circle represents a circular collision shape
type Circle struct {
	Position Vector2D
	Radius   float64
}

func (c *Circle) Kind() Kind { return KindCircle }
func (c *Circle) Center() Vector2D { return c.Position }
func (c *Circle) Translate(d Vector2D) { c.Position = c.Position.Add(d) }
func (c *Circle) Bounds() Rect {
	return Rect{Center: c.Position, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

// Box is an axis-aligned rectangle that remembers its extent from before the
// last Move, so box-box resolution can tell which side was crossed.
type Box struct {
	Rect Rect
	Prev Rect
}

// NewBox creates a box centered on position
func NewBox(position, size Vector2D) *Box {
	r := Rect{Center: position, Width: size.X, Height: size.Y}
	return &Box{Rect: r, Prev: r}
}

func (b *Box) Kind() Kind { return KindBox }
func (b *Box) Center() Vector2D { return b.Rect.Center }
func (b *Box) Bounds() Rect { return b.Rect }
func (b *Box) Translate(d Vector2D) { b.Rect.Center = b.Rect.Center.Add(d) }
func (b *Box) Vertices() []Vector2D { return b.Rect.Corners() }

// SnapshotPrev records the current extent as the previous-frame extent
func (b *Box) SnapshotPrev() { b.Prev = b.Rect }

// Polygon is a convex polygon. Local points are stored relative to the minimum
// corner of their bounding box, and that box is centered on the polygon position.
type Polygon struct {
	Local []Vector2D
	Rect  Rect
	Prev  Rect
}

// NewPolygon builds a polygon from an ordered vertex list. Vertex ordering is
// trusted to describe a simple convex polygon.
func NewPolygon(points []Vector2D, position Vector2D) (*Polygon, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDegeneratePolygon, len(points))
	}

	lo := Vector2D{X: math.Inf(1), Y: math.Inf(1)}
	hi := Vector2D{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range points {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}

	local := make([]Vector2D, len(points))
	for i, p := range points {
		local[i] = p.Sub(lo)
	}

	size := hi.Sub(lo)
	r := Rect{Center: position, Width: size.X, Height: size.Y}
	return &Polygon{Local: local, Rect: r, Prev: r}, nil
}

func (p *Polygon) Kind() Kind { return KindPolygon }
func (p *Polygon) Center() Vector2D { return p.Rect.Center }
func (p *Polygon) Bounds() Rect { return p.Rect }
func (p *Polygon) Translate(d Vector2D) { p.Rect.Center = p.Rect.Center.Add(d) }

// SnapshotPrev records the current extent as the previous-frame extent
func (p *Polygon) SnapshotPrev() { p.Prev = p.Rect }

// Vertices returns the polygon vertices in world space
func (p *Polygon) Vertices() []Vector2D {
	origin := p.Rect.TopLeft()
	out := make([]Vector2D, len(p.Local))
	for i, l := range p.Local {
		out[i] = l.Add(origin)
	}
	return out
}

// Move translates a shape by direction*dt*speed. Boxes and polygons record
// their pre-move extent first.
func Move(s Shape, direction Vector2D, dt, speed float64) {
	if snap, ok := s.(interface{ SnapshotPrev() }); ok {
		snap.SnapshotPrev()
	}
	s.Translate(direction.Scale(dt * speed))
}
