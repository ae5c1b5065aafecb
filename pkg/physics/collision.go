// pkg/physics/collision.go
package physics

// Contact describes how to move the first shape of a pair out of the second.
// Translation is Normal scaled by Penetration, except for box-box where only
// the crossed edges are clamped.
type Contact struct {
	Collided    bool
	Normal      Vector2D
	Penetration float64
	Translation Vector2D
}

func contactAlong(normal Vector2D, depth float64) Contact {
	return Contact{
		Collided:    true,
		Normal:      normal,
		Penetration: depth,
		Translation: normal.Scale(depth),
	}
}

// flipped turns a contact that would move b out of a into one that moves a
// out of b.
func (c Contact) flipped() Contact {
	if !c.Collided {
		return c
	}
	return Contact{
		Collided:    true,
		Normal:      c.Normal.Neg(),
		Penetration: c.Penetration,
		Translation: c.Translation.Neg(),
	}
}

type (
	checkFunc   func(a, b Shape) bool
	resolveFunc func(a, b Shape) Contact
)

// checkTable maps every ordered kind pair onto one of the six unordered tests
var checkTable = [kindCount][kindCount]checkFunc{
	KindCircle: {
		KindCircle:  checkCircleCircle,
		KindBox:     checkCircleBox,
		KindPolygon: checkCirclePolygon,
	},
	KindBox: {
		KindCircle:  swapCheck(checkCircleBox),
		KindBox:     checkBoxBox,
		KindPolygon: checkConvex,
	},
	KindPolygon: {
		KindCircle:  swapCheck(checkCirclePolygon),
		KindBox:     checkConvex,
		KindPolygon: checkConvex,
	},
}

// resolveTable maps every ordered kind pair onto the routine that moves the
// first shape out of the second
var resolveTable = [kindCount][kindCount]resolveFunc{
	KindCircle: {
		KindCircle:  resolveCircleCircle,
		KindBox:     resolveCircleBox,
		KindPolygon: resolveCirclePolygon,
	},
	KindBox: {
		KindCircle:  swapResolve(resolveCircleBox),
		KindBox:     resolveBoxBox,
		KindPolygon: resolveConvex,
	},
	KindPolygon: {
		KindCircle:  swapResolve(resolveCirclePolygon),
		KindBox:     resolveConvex,
		KindPolygon: resolveConvex,
	},
}

func swapCheck(f checkFunc) checkFunc {
	return func(a, b Shape) bool { return f(b, a) }
}

func swapResolve(f resolveFunc) resolveFunc {
	return func(a, b Shape) Contact { return f(b, a).flipped() }
}

// Check reports whether two shapes overlap. It is symmetric in its arguments.
func Check(a, b Shape) bool {
	return checkTable[a.Kind()][b.Kind()](a, b)
}

// Resolve computes the positional correction for a against b without
// mutating either shape
func Resolve(a, b Shape) Contact {
	return resolveTable[a.Kind()][b.Kind()](a, b)
}

// Apply moves a by the contact translation
func Apply(a Shape, c Contact) {
	if c.Collided {
		a.Translate(c.Translation)
	}
}

// ResolveAndApply resolves a against b and moves a. b is never modified.
func ResolveAndApply(a, b Shape) Contact {
	c := Resolve(a, b)
	Apply(a, c)
	return c
}

// vertices returns the outline of a box or polygon in world space
func vertices(s Shape) []Vector2D {
	switch v := s.(type) {
	case *Box:
		return v.Vertices()
	case *Polygon:
		return v.Vertices()
	default:
		return nil
	}
}

func checkCircleCircle(a, b Shape) bool {
	ca, cb := a.(*Circle), b.(*Circle)
	return ca.Position.Distance(cb.Position) <= ca.Radius+cb.Radius
}

func checkCircleBox(a, b Shape) bool {
	c, box := a.(*Circle), b.(*Box)
	closest := ClosestPointOnRect(c.Position, box.Rect)
	return c.Position.Distance(closest) < c.Radius
}

func checkCirclePolygon(a, b Shape) bool {
	c, poly := a.(*Circle), b.(*Polygon)
	verts := poly.Vertices()
	if _, dist := closestPointOnPolygon(c.Position, verts); dist < c.Radius {
		return true
	}
	return PointInPolygon(c.Position, verts)
}

func checkBoxBox(a, b Shape) bool {
	return a.(*Box).Rect.Intersects(b.(*Box).Rect)
}

// checkConvex covers box-polygon and polygon-polygon in either order
func checkConvex(a, b Shape) bool {
	return satOverlaps(vertices(a), vertices(b))
}

func resolveCircleCircle(a, b Shape) Contact {
	ca, cb := a.(*Circle), b.(*Circle)
	delta := ca.Position.Sub(cb.Position)
	distance := delta.Length()
	if distance == 0 {
		delta = FallbackAxis
		distance = 1
	}
	overlap := ca.Radius + cb.Radius - distance
	if overlap <= 0 {
		return Contact{}
	}
	return contactAlong(delta.Normalize(), overlap)
}

func resolveCircleBox(a, b Shape) Contact {
	c, box := a.(*Circle), b.(*Box)
	closest := ClosestPointOnRect(c.Position, box.Rect)
	delta := c.Position.Sub(closest)
	distance := delta.Length()
	if distance == 0 {
		return resolveCircleInsideRect(c, box.Rect)
	}
	overlap := c.Radius - distance
	if overlap <= 0 {
		return Contact{}
	}
	return contactAlong(delta.Normalize(), overlap)
}

// resolveCircleInsideRect pushes a circle whose center lies in the rect out
// through the nearest face. Ties go to left, right, top, bottom in that order.
func resolveCircleInsideRect(c *Circle, r Rect) Contact {
	p := c.Position
	faces := []struct {
		normal Vector2D
		dist   float64
	}{
		{Vector2D{X: -1}, p.X - r.Left()},
		{Vector2D{X: 1}, r.Right() - p.X},
		{Vector2D{Y: -1}, p.Y - r.Top()},
		{Vector2D{Y: 1}, r.Bottom() - p.Y},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.dist < best.dist {
			best = f
		}
	}
	return contactAlong(best.normal, best.dist+c.Radius)
}

func resolveCirclePolygon(a, b Shape) Contact {
	c, poly := a.(*Circle), b.(*Polygon)
	verts := poly.Vertices()
	closest, minDist := closestPointOnPolygon(c.Position, verts)
	inside := PointInPolygon(c.Position, verts)
	if !inside && minDist >= c.Radius {
		return Contact{}
	}
	if minDist == 0 {
		return contactAlong(FallbackAxis, c.Radius)
	}
	if inside {
		return contactAlong(closest.Sub(c.Position).Normalize(), c.Radius+minDist)
	}
	return contactAlong(c.Position.Sub(closest).Normalize(), c.Radius-minDist)
}

// resolveBoxBox clamps only the edges of a that were clear of b before the
// last move, horizontal axis first
func resolveBoxBox(a, b Shape) Contact {
	box, other := a.(*Box), b.(*Box)
	if !box.Rect.Intersects(other.Rect) {
		return Contact{}
	}
	r, prev, c := box.Rect, box.Prev, other.Rect

	if r.Right() > c.Left() && prev.Right() <= c.Left() {
		r.SetRight(c.Left())
	} else if r.Left() < c.Right() && prev.Left() >= c.Right() {
		r.SetLeft(c.Right())
	}

	if r.Bottom() > c.Top() && prev.Bottom() <= c.Top() {
		r.SetBottom(c.Top())
	} else if r.Top() < c.Bottom() && prev.Top() >= c.Bottom() {
		r.SetTop(c.Bottom())
	}

	translation := r.Center.Sub(box.Rect.Center)
	return Contact{
		Collided:    true,
		Normal:      translation.Normalize(),
		Penetration: translation.Length(),
		Translation: translation,
	}
}

// resolveConvex covers box-polygon and polygon-polygon in either order
func resolveConvex(a, b Shape) Contact {
	axis, depth, ok := satMTV(vertices(a), vertices(b), a.Center(), b.Center())
	if !ok {
		return Contact{}
	}
	return contactAlong(axis, depth)
}
