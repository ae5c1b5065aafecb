// pkg/physics/geometry.go
package physics

import "math"

// pointInPolygonEpsilon keeps the crossing slope finite on horizontal edges
const pointInPolygonEpsilon = 1e-10

// ClosestPointOnSegment returns the point on segment ab nearest to p
func ClosestPointOnSegment(p, a, b Vector2D) Vector2D {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

// ClosestPointOnRect clamps p into the rect on each axis
func ClosestPointOnRect(p Vector2D, r Rect) Vector2D {
	return Vector2D{
		X: math.Max(r.Left(), math.Min(p.X, r.Right())),
		Y: math.Max(r.Top(), math.Min(p.Y, r.Bottom())),
	}
}

// closestPointOnPolygon returns the nearest boundary point of the polygon
// outline to p and its distance
func closestPointOnPolygon(p Vector2D, vertices []Vector2D) (Vector2D, float64) {
	closest := vertices[0]
	minDist := math.Inf(1)
	for i := range vertices {
		a := vertices[i]
		b := vertices[(i+1)%len(vertices)]
		q := ClosestPointOnSegment(p, a, b)
		if d := p.Distance(q); d < minDist {
			minDist = d
			closest = q
		}
	}
	return closest, minDist
}

// PointInPolygon casts a horizontal ray from point and counts edge crossings
func PointInPolygon(point Vector2D, vertices []Vector2D) bool {
	inside := false
	n := len(vertices)
	for i := 0; i < n; i++ {
		vi := vertices[i]
		vj := vertices[(i+1)%n]
		if (vi.Y > point.Y) != (vj.Y > point.Y) {
			slope := (vj.X - vi.X) / (vj.Y - vi.Y + pointInPolygonEpsilon)
			intersectX := vi.X + (point.Y-vi.Y)*slope
			if point.X < intersectX {
				inside = !inside
			}
		}
	}
	return inside
}

// edgeNormals appends the unit normals of each edge of the closed outline.
// Zero-length edges contribute no axis.
func edgeNormals(axes []Vector2D, vertices []Vector2D) []Vector2D {
	for i := range vertices {
		edge := vertices[(i+1)%len(vertices)].Sub(vertices[i])
		if edge.IsZero() {
			continue
		}
		axes = append(axes, edge.Perp().Normalize())
	}
	return axes
}

// project returns the min and max of the vertices projected onto axis
func project(vertices []Vector2D, axis Vector2D) (float64, float64) {
	lo := axis.Dot(vertices[0])
	hi := lo
	for _, v := range vertices[1:] {
		d := axis.Dot(v)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// satAxes lists candidate separating axes, primary edges first
func satAxes(a, b []Vector2D) []Vector2D {
	axes := make([]Vector2D, 0, len(a)+len(b))
	axes = edgeNormals(axes, a)
	return edgeNormals(axes, b)
}

// satOverlaps reports whether no candidate axis separates the two outlines.
// Touching intervals count as overlapping.
func satOverlaps(a, b []Vector2D) bool {
	for _, axis := range satAxes(a, b) {
		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if maxA < minB || maxB < minA {
			return false
		}
	}
	return true
}

// satMTV finds the axis of least overlap. The returned axis is oriented to push
// a away from b, judged by the vector between the two centers, and depth is the
// distance a must travel along it to stop overlapping. Ties keep the first axis.
func satMTV(a, b []Vector2D, centerA, centerB Vector2D) (axis Vector2D, depth float64, ok bool) {
	minOverlap := math.Inf(1)
	var lo, hi [2]float64
	for _, candidate := range satAxes(a, b) {
		minA, maxA := project(a, candidate)
		minB, maxB := project(b, candidate)
		if maxA < minB || maxB < minA {
			return Vector2D{}, 0, false
		}
		overlap := math.Min(maxA-minB, maxB-minA)
		if overlap < minOverlap {
			minOverlap = overlap
			axis = candidate
			lo = [2]float64{minA, minB}
			hi = [2]float64{maxA, maxB}
		}
	}
	if math.IsInf(minOverlap, 1) {
		return Vector2D{}, 0, false
	}

	if centerA.Sub(centerB).Dot(axis) < 0 {
		return axis.Neg(), hi[0] - lo[1], true
	}
	return axis, hi[1] - lo[0], true
}
