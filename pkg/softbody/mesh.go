// pkg/softbody/mesh.go
package softbody

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-softbody/pkg/physics"
)

// ErrInvalidMesh is returned for mesh options that cannot produce a body
var ErrInvalidMesh = errors.New("invalid mesh options")

// QuadGridOptions describes a rectangular cloth of particles
type QuadGridOptions struct {
	Cols           int
	Rows           int
	Spacing        float64
	ParticleRadius float64
	Origin         physics.Vector2D // position of the top-left particle
	Damping        float64
}

// DefaultQuadGridOptions returns the 16x9 grid hanging near the top of bounds
func DefaultQuadGridOptions(bounds physics.Rect) QuadGridOptions {
	return QuadGridOptions{
		Cols:           16,
		Rows:           9,
		Spacing:        50,
		ParticleRadius: 10,
		Origin:         physics.Vector2D{X: bounds.Center.X - 300, Y: bounds.Top() + 100},
		Damping:        0.01,
	}
}

type springLevel struct {
	offsets [][2]int
	k       float64
}

var quadSpringLevels = []springLevel{
	{offsets: [][2]int{{1, 0}, {0, 1}}, k: 0.3},   // structural
	{offsets: [][2]int{{1, 1}, {-1, 1}}, k: 0.22}, // shear
	{offsets: [][2]int{{2, 0}, {0, 2}}, k: 0.15},  // bend
}

// QuadGrid adds a grid of particles joined by structural, shear and bend
// springs. Each neighbour pair is connected once. Particle ids are returned
// in row-major order.
func QuadGrid(w *World, opts QuadGridOptions) ([]ParticleID, error) {
	if opts.Cols < 1 || opts.Rows < 1 || opts.Spacing <= 0 || opts.ParticleRadius <= 0 {
		return nil, fmt.Errorf("%w: quad grid %dx%d spacing %v radius %v",
			ErrInvalidMesh, opts.Cols, opts.Rows, opts.Spacing, opts.ParticleRadius)
	}

	ids := make([]ParticleID, 0, opts.Cols*opts.Rows)
	for y := 0; y < opts.Rows; y++ {
		for x := 0; x < opts.Cols; x++ {
			pos := opts.Origin.Add(physics.Vector2D{
				X: float64(x) * opts.Spacing,
				Y: float64(y) * opts.Spacing,
			})
			ids = append(ids, w.AddParticle(pos, opts.ParticleRadius, false))
		}
	}

	for i := range ids {
		x, y := i%opts.Cols, i/opts.Cols
		for _, level := range quadSpringLevels {
			for _, off := range level.offsets {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= opts.Cols || ny < 0 || ny >= opts.Rows {
					continue
				}
				n := ny*opts.Cols + nx
				if i >= n {
					continue
				}
				if _, err := w.AddSpring(ids[i], ids[n], level.k, opts.Damping); err != nil {
					return nil, err
				}
			}
		}
	}
	return ids, nil
}

// JellyRingOptions describes a ring body with an inner ring for support
type JellyRingOptions struct {
	Center         physics.Vector2D
	Outer          int
	Inner          int
	OuterRadius    float64
	InnerRadius    float64
	ParticleRadius float64
}

// DefaultJellyRingOptions returns the 15/7 ring centered in bounds
func DefaultJellyRingOptions(bounds physics.Rect) JellyRingOptions {
	return JellyRingOptions{
		Center:         bounds.Center,
		Outer:          15,
		Inner:          7,
		OuterRadius:    100,
		InnerRadius:    30,
		ParticleRadius: 10,
	}
}

func ringPoints(center physics.Vector2D, n int, radius float64) []physics.Vector2D {
	points := make([]physics.Vector2D, n)
	for i := range points {
		angle := float64(i) / float64(n) * 2 * math.Pi
		points[i] = center.Add(physics.Vector2D{
			X: radius * math.Sin(angle),
			Y: radius * math.Cos(angle),
		})
	}
	return points
}

// JellyRing adds an outer ring of particles and an inner ring (or a single
// center particle when Inner <= 1), then wires them with perimeter, web and
// cross springs. It returns the outer ids followed by the inner ids.
func JellyRing(w *World, opts JellyRingOptions) ([]ParticleID, error) {
	if opts.Outer < 3 || opts.OuterRadius <= 0 || opts.ParticleRadius <= 0 {
		return nil, fmt.Errorf("%w: ring outer %d radius %v particle radius %v",
			ErrInvalidMesh, opts.Outer, opts.OuterRadius, opts.ParticleRadius)
	}

	var outer, inner []ParticleID
	for _, p := range ringPoints(opts.Center, opts.Outer, opts.OuterRadius) {
		outer = append(outer, w.AddParticle(p, opts.ParticleRadius, false))
	}
	if opts.Inner > 1 {
		for _, p := range ringPoints(opts.Center, opts.Inner, opts.InnerRadius) {
			inner = append(inner, w.AddParticle(p, opts.ParticleRadius, false))
		}
	} else {
		inner = append(inner, w.AddParticle(opts.Center, opts.ParticleRadius, false))
	}

	connect := func(a, b ParticleID, k, damping float64) error {
		if a == b {
			return nil
		}
		_, err := w.AddSpring(a, b, k, damping)
		return err
	}

	no, ni := len(outer), len(inner)
	var err error
	for i := 0; i < no && err == nil; i++ {
		err = connect(outer[i], outer[(i+1)%no], 0.5, 0.1)
	}
	for i := 0; i < ni && err == nil; i++ {
		err = connect(inner[i], inner[(i+1)%ni], 0.5, 0.1)
	}
	for _, in := range inner {
		for _, out := range outer {
			if err == nil {
				err = connect(in, out, 1, 0.1)
			}
		}
	}
	for i := 0; i < no && err == nil; i++ {
		err = connect(outer[i], outer[(i+4)%no], 1.5, 0.1)
	}
	for i := 0; i < ni && err == nil; i++ {
		err = connect(inner[i], inner[(i+2)%ni], 0.1, 0.1)
	}
	if err != nil {
		return nil, err
	}

	return append(outer, inner...), nil
}

// Walls adds four boxes of the given thickness lining the inside of bounds:
// top, bottom, left, right.
func Walls(w *World, bounds physics.Rect, thickness float64) []ObstacleID {
	half := thickness / 2
	c := bounds.Center
	walls := []*physics.Box{
		physics.NewBox(physics.Vector2D{X: c.X, Y: bounds.Top() + half}, physics.Vector2D{X: bounds.Width, Y: thickness}),
		physics.NewBox(physics.Vector2D{X: c.X, Y: bounds.Bottom() - half}, physics.Vector2D{X: bounds.Width, Y: thickness}),
		physics.NewBox(physics.Vector2D{X: bounds.Left() + half, Y: c.Y}, physics.Vector2D{X: thickness, Y: bounds.Height}),
		physics.NewBox(physics.Vector2D{X: bounds.Right() - half, Y: c.Y}, physics.Vector2D{X: thickness, Y: bounds.Height}),
	}

	ids := make([]ObstacleID, len(walls))
	for i, b := range walls {
		ids[i] = w.AddObstacle(b)
	}
	return ids
}
