package physics

import (
	"errors"
	"testing"
)

func TestClosestPointOnSegment(t *testing.T) {
	a := Vector2D{X: 0, Y: 0}
	b := Vector2D{X: 10, Y: 0}

	tests := []struct {
		name     string
		p        Vector2D
		expected Vector2D
	}{
		{"projects_inside", Vector2D{X: 4, Y: 3}, Vector2D{X: 4, Y: 0}},
		{"clamps_before_start", Vector2D{X: -5, Y: 2}, a},
		{"clamps_after_end", Vector2D{X: 15, Y: -2}, b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClosestPointOnSegment(tt.p, a, b); got != tt.expected {
				t.Errorf("ClosestPointOnSegment() = %v, expected %v", got, tt.expected)
			}
		})
	}

	t.Run("degenerate_segment", func(t *testing.T) {
		if got := ClosestPointOnSegment(Vector2D{X: 3, Y: 3}, a, a); got != a {
			t.Errorf("expected %v, got %v", a, got)
		}
	})
}

func TestClosestPointOnRect(t *testing.T) {
	r := Rect{Center: Vector2D{X: 0, Y: 0}, Width: 10, Height: 4}

	if got := ClosestPointOnRect(Vector2D{X: 20, Y: 20}, r); got != (Vector2D{X: 5, Y: 2}) {
		t.Errorf("corner clamp = %v, expected (5,2)", got)
	}
	if got := ClosestPointOnRect(Vector2D{X: 1, Y: 1}, r); got != (Vector2D{X: 1, Y: 1}) {
		t.Errorf("inside point = %v, expected unchanged", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	triangle := []Vector2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}

	tests := []struct {
		name     string
		p        Vector2D
		expected bool
	}{
		{"inside", Vector2D{X: 2, Y: 2}, true},
		{"outside_hypotenuse", Vector2D{X: 8, Y: 8}, false},
		{"outside_left", Vector2D{X: -1, Y: 5}, false},
		{"outside_below", Vector2D{X: 5, Y: 11}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, triangle); got != tt.expected {
				t.Errorf("PointInPolygon(%v) = %v, expected %v", tt.p, got, tt.expected)
			}
		})
	}
}

func TestEdgeNormals_SkipsZeroLengthEdges(t *testing.T) {
	outline := []Vector2D{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}}

	axes := edgeNormals(nil, outline)

	if len(axes) != 3 {
		t.Fatalf("expected 3 axes, got %d", len(axes))
	}
	for _, a := range axes {
		if a.IsZero() {
			t.Error("zero axis emitted")
		}
	}
}

func TestNewPolygon(t *testing.T) {
	t.Run("local_points_relative_to_min_corner", func(t *testing.T) {
		p, err := NewPolygon([]Vector2D{{X: 10, Y: 20}, {X: 30, Y: 20}, {X: 20, Y: 40}}, Vector2D{X: 0, Y: 0})
		if err != nil {
			t.Fatalf("NewPolygon() error = %v", err)
		}
		if p.Local[0] != (Vector2D{X: 0, Y: 0}) || p.Local[2] != (Vector2D{X: 10, Y: 20}) {
			t.Errorf("unexpected local points %v", p.Local)
		}
		if p.Rect.Width != 20 || p.Rect.Height != 20 {
			t.Errorf("expected 20x20 bounds, got %vx%v", p.Rect.Width, p.Rect.Height)
		}
		verts := p.Vertices()
		if verts[0] != (Vector2D{X: -10, Y: -10}) {
			t.Errorf("expected first world vertex (-10,-10), got %v", verts[0])
		}
	})

	t.Run("rejects_degenerate_input", func(t *testing.T) {
		_, err := NewPolygon([]Vector2D{{X: 0, Y: 0}, {X: 1, Y: 1}}, Vector2D{})
		if !errors.Is(err, ErrDegeneratePolygon) {
			t.Errorf("expected ErrDegeneratePolygon, got %v", err)
		}
	})
}

func TestMove_SnapshotsPreviousExtent(t *testing.T) {
	b := NewBox(Vector2D{X: 0, Y: 0}, Vector2D{X: 10, Y: 10})
	Move(b, Vector2D{X: 1, Y: -1}, 0.5, 10)

	if b.Prev.Center != (Vector2D{}) {
		t.Errorf("expected previous center at origin, got %v", b.Prev.Center)
	}
	if b.Rect.Center != (Vector2D{X: 5, Y: -5}) {
		t.Errorf("expected center (5,-5), got %v", b.Rect.Center)
	}

	c := &Circle{Position: Vector2D{X: 1, Y: 1}, Radius: 1}
	Move(c, Vector2D{X: 0, Y: 1}, 1, 5)
	if c.Position != (Vector2D{X: 1, Y: 6}) {
		t.Errorf("expected circle at (1,6), got %v", c.Position)
	}
}

func TestRect_Contains(t *testing.T) {
	rect := Rect{Center: Vector2D{X: 10, Y: 10}, Width: 20, Height: 20}

	tests := []struct {
		name     string
		point    Vector2D
		expected bool
	}{
		{"point_inside_center", Vector2D{X: 10, Y: 10}, true},
		{"point_on_min_edge", Vector2D{X: 0, Y: 10}, true},
		{"point_on_max_edge", Vector2D{X: 20, Y: 10}, false},
		{"point_outside", Vector2D{X: 25, Y: 25}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rect.Contains(tt.point); got != tt.expected {
				t.Errorf("Rect.Contains(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if KindPolygon.String() != "polygon" || Kind(9).String() != "kind(9)" {
		t.Errorf("unexpected kind names %q %q", KindPolygon.String(), Kind(9).String())
	}
}
