// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opd-ai/go-softbody/pkg/physics"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// Mesh kinds
const (
	MeshQuad = "quad"
	MeshRing = "ring"
)

// Obstacle kinds
const (
	ObstacleCircle  = "circle"
	ObstacleBox     = "box"
	ObstaclePolygon = "polygon"
)

// Renderer kinds
const (
	RendererTerminal = "terminal"
	RendererEngo     = "engo"
	RendererHeadless = "headless"
)

// SimulationConfig contains everything needed to build and run a scene
type SimulationConfig struct {
	World     WorldConfig      `json:"world"`
	Mesh      MeshConfig       `json:"mesh"`
	Obstacles []ObstacleConfig `json:"obstacles"`
	Platform  PlatformConfig   `json:"platform"`
	Renderer  RendererConfig   `json:"renderer"`
}

// WorldConfig contains the physical constants and world extent
type WorldConfig struct {
	Width         float64          `json:"width"`
	Height        float64          `json:"height"`
	Gravity       physics.Vector2D `json:"gravity"`
	AirDamping    float64          `json:"airDamping"`
	WallThickness float64          `json:"wallThickness"`
	TimeScale     float64          `json:"timeScale"`  // simulation frames per wall-clock second
	MaxSubstep    float64          `json:"maxSubstep"` // largest dt handed to a single world step
}

// Bounds returns the world rectangle with its top-left corner at the origin
func (w WorldConfig) Bounds() physics.Rect {
	return physics.Rect{
		Center: physics.Vector2D{X: w.Width / 2, Y: w.Height / 2},
		Width:  w.Width,
		Height: w.Height,
	}
}

// MeshConfig selects and parameterizes the soft body
type MeshConfig struct {
	Kind string     `json:"kind"`
	Quad QuadConfig `json:"quad"`
	Ring RingConfig `json:"ring"`
}

// QuadConfig contains configuration for a quad grid body
type QuadConfig struct {
	Cols           int              `json:"cols"`
	Rows           int              `json:"rows"`
	Spacing        float64          `json:"spacing"`
	ParticleRadius float64          `json:"particleRadius"`
	Damping        float64          `json:"damping"`
	Origin         physics.Vector2D `json:"origin"`
}

// RingConfig contains configuration for a jelly ring body
type RingConfig struct {
	Center         physics.Vector2D `json:"center"`
	Outer          int              `json:"outer"`
	Inner          int              `json:"inner"`
	OuterRadius    float64          `json:"outerRadius"`
	InnerRadius    float64          `json:"innerRadius"`
	ParticleRadius float64          `json:"particleRadius"`
}

// ObstacleConfig describes one static obstacle. Size applies to boxes,
// Radius to circles and Points to polygons.
type ObstacleConfig struct {
	Kind     string             `json:"kind"`
	Position physics.Vector2D   `json:"position"`
	Size     physics.Vector2D   `json:"size,omitempty"`
	Radius   float64            `json:"radius,omitempty"`
	Points   []physics.Vector2D `json:"points,omitempty"`
}

// Shape builds the physics shape for the obstacle
func (o ObstacleConfig) Shape() (physics.Shape, error) {
	switch o.Kind {
	case ObstacleCircle:
		return &physics.Circle{Position: o.Position, Radius: o.Radius}, nil
	case ObstacleBox:
		return physics.NewBox(o.Position, o.Size), nil
	case ObstaclePolygon:
		return physics.NewPolygon(o.Points, o.Position)
	default:
		return nil, fmt.Errorf("%w: unknown obstacle kind %q", ErrInvalidConfig, o.Kind)
	}
}

// PlatformConfig contains configuration for the keyboard-driven box
type PlatformConfig struct {
	Enabled  bool             `json:"enabled"`
	Position physics.Vector2D `json:"position"`
	Size     physics.Vector2D `json:"size"`
	Speed    float64          `json:"speed"`
}

// RendererConfig contains display settings
type RendererConfig struct {
	Kind       string `json:"kind"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Fullscreen bool   `json:"fullscreen"`
	FPS        int    `json:"fps"`
	Title      string `json:"title"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimulationConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the quad grid scene: a 16x9 cloth over a movable
// platform inside four walls.
func DefaultConfig() *SimulationConfig {
	world := WorldConfig{
		Width:         1280,
		Height:        720,
		Gravity:       physics.Vector2D{X: 0, Y: 0.1},
		AirDamping:    0.998,
		WallThickness: 20,
		TimeScale:     60,
		MaxSubstep:    1,
	}
	quad := softbody.DefaultQuadGridOptions(world.Bounds())

	return &SimulationConfig{
		World: world,
		Mesh: MeshConfig{
			Kind: MeshQuad,
			Quad: QuadConfig{
				Cols:           quad.Cols,
				Rows:           quad.Rows,
				Spacing:        quad.Spacing,
				ParticleRadius: quad.ParticleRadius,
				Damping:        quad.Damping,
				Origin:         quad.Origin,
			},
			Ring: RingConfig{
				Center:         physics.Vector2D{X: 640, Y: 300},
				Outer:          15,
				Inner:          7,
				OuterRadius:    100,
				InnerRadius:    30,
				ParticleRadius: 10,
			},
		},
		Obstacles: []ObstacleConfig{
			{
				Kind:     ObstaclePolygon,
				Position: physics.Vector2D{X: 120, Y: 620},
				Points: []physics.Vector2D{
					{X: 0, Y: 0},
					{X: 160, Y: 120},
					{X: 0, Y: 120},
				},
			},
			{
				Kind:     ObstacleCircle,
				Position: physics.Vector2D{X: 1100, Y: 560},
				Radius:   40,
			},
		},
		Platform: PlatformConfig{
			Enabled:  true,
			Position: physics.Vector2D{X: 640, Y: 620},
			Size:     physics.Vector2D{X: 300, Y: 200},
			Speed:    5,
		},
		Renderer: RendererConfig{
			Kind:   RendererTerminal,
			Width:  1280,
			Height: 720,
			FPS:    60,
			Title:  "go-softbody",
		},
	}
}
