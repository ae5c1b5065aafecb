// pkg/render/terminal.go
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-softbody/pkg/physics"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// Cell symbols
const (
	SymbolParticle      = 'o'
	SymbolFixedParticle = '@'
	SymbolSpring        = '.'
	SymbolBox           = '#'
	SymbolPolygon       = '*'
	SymbolCircle        = '+'
)

var (
	styleSpring   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleParticle = tcell.StyleDefault.Foreground(tcell.ColorSilver).Bold(true)
	styleFixed    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// TerminalRenderer draws a world onto a tcell screen, one world region per cell
type TerminalRenderer struct {
	screen    tcell.Screen
	width     int
	height    int
	scaleX    float64 // world units per cell column
	scaleY    float64 // world units per cell row
	centerPos physics.Vector2D
	status    string
}

// NewTerminalRenderer creates a renderer that fits bounds to the screen
func NewTerminalRenderer(screen tcell.Screen, bounds physics.Rect) *TerminalRenderer {
	r := &TerminalRenderer{screen: screen}
	r.Fit(bounds)
	return r
}

// Fit rescales the view so bounds fills the current screen size
func (r *TerminalRenderer) Fit(bounds physics.Rect) {
	r.width, r.height = r.screen.Size()
	r.scaleX = bounds.Width / float64(max(r.width, 1))
	r.scaleY = bounds.Height / float64(max(r.height, 1))
	r.centerPos = bounds.Center
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// toCell converts world coordinates to fractional cell coordinates
func (r *TerminalRenderer) toCell(pos physics.Vector2D) (float64, float64) {
	return (pos.X-r.centerPos.X)/r.scaleX + float64(r.width)/2,
		(pos.Y-r.centerPos.Y)/r.scaleY + float64(r.height)/2
}

// cell returns the screen cell holding pos, or false when pos is off
// screen or not a number
func (r *TerminalRenderer) cell(pos physics.Vector2D) (int, int, bool) {
	x, y := r.toCell(pos)
	if !(x >= 0 && x < float64(r.width) && y >= 0 && y < float64(r.height)) {
		return 0, 0, false
	}
	return int(x), int(y), true
}

// segment draws the part of a-b that falls on the screen
func (r *TerminalRenderer) segment(a, b physics.Vector2D, ch rune, style tcell.Style) {
	x0, y0 := r.toCell(a)
	x1, y1 := r.toCell(b)
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, float64(r.width), float64(r.height))
	if !ok {
		return
	}
	r.line(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Floor(x1)), int(math.Floor(y1)), ch, style)
}

// clipSegment clips a segment to [0,maxX]x[0,maxY] (Liang-Barsky). Segments
// with non-finite coordinates are rejected.
func clipSegment(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	for _, v := range [...]float64{x0, y0, dx, dy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}

	t0, t1 := 0.0, 1.0
	for _, edge := range [...][2]float64{
		{-dx, x0},
		{dx, maxX - x0},
		{-dy, y0},
		{dy, maxY - y0},
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

// line plots a Bresenham line between two cells
func (r *TerminalRenderer) line(x0, y0, x1, y1 int, ch rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		r.set(x0, y0, ch, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *TerminalRenderer) outline(vertices []physics.Vector2D, ch rune, style tcell.Style) {
	for i, v := range vertices {
		r.segment(v, vertices[(i+1)%len(vertices)], ch, style)
	}
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
}

// SetStatus sets the text shown on the top row by Present
func (r *TerminalRenderer) SetStatus(status string) {
	r.status = status
}

// Present implements Renderer
func (r *TerminalRenderer) Present() {
	if r.status != "" {
		r.DrawText(0, 0, r.status)
	}
	r.screen.Show()
}

// RenderSpring implements Renderer
func (r *TerminalRenderer) RenderSpring(a, b physics.Vector2D) {
	r.segment(a, b, SymbolSpring, styleSpring)
}

// RenderParticle implements Renderer
func (r *TerminalRenderer) RenderParticle(p *softbody.Particle) {
	x, y, ok := r.cell(p.Position())
	if !ok {
		return
	}
	if p.Fixed {
		r.set(x, y, SymbolFixedParticle, styleFixed)
		return
	}
	r.set(x, y, SymbolParticle, styleParticle)
}

// RenderObstacle implements Renderer
func (r *TerminalRenderer) RenderObstacle(s physics.Shape) {
	switch shape := s.(type) {
	case *physics.Box:
		r.outline(shape.Vertices(), SymbolBox, styleObstacle)
	case *physics.Polygon:
		r.outline(shape.Vertices(), SymbolPolygon, styleObstacle)
	case *physics.Circle:
		// one sample per cell along the circumference, capped for circles
		// much larger than the screen
		cells := 2 * math.Pi * shape.Radius / math.Min(r.scaleX, r.scaleY)
		if !(cells >= 0) {
			return
		}
		steps := max(8, int(math.Min(cells, float64(8*(r.width+r.height)))))
		for i := 0; i < steps; i++ {
			p := shape.Position.Add(physics.FromAngle(2*math.Pi*float64(i)/float64(steps), shape.Radius))
			if x, y, ok := r.cell(p); ok {
				r.set(x, y, SymbolCircle, styleObstacle)
			}
		}
	}
}

// DrawText writes text starting at the given cell, clipped to the screen
func (r *TerminalRenderer) DrawText(x, y int, text string) {
	for _, ch := range text {
		r.set(x, y, ch, styleText)
		x++
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
