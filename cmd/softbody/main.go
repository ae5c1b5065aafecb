// cmd/softbody/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-softbody/pkg/config"
	"github.com/opd-ai/go-softbody/pkg/engine"
	"github.com/opd-ai/go-softbody/pkg/event"
	"github.com/opd-ai/go-softbody/pkg/logging"
	"github.com/opd-ai/go-softbody/pkg/render"
	engorender "github.com/opd-ai/go-softbody/pkg/render/engo"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "softbody.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	envFile := flag.String("env", ".env", "Environment file loaded before the configuration")
	renderer := flag.String("renderer", "", "Renderer: terminal, engo or headless (overrides config)")
	mesh := flag.String("mesh", "", "Mesh: quad or ring (overrides config)")
	frames := flag.Int("frames", 600, "Frames to simulate headless; 0 runs until interrupted")
	width := flag.Int("width", 0, "Window width (engo only)")
	height := flag.Int("height", 0, "Window height (engo only)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (engo only)")
	healthAddr := flag.String("health", "", "Serve /health and /ready on this address (headless only)")
	logFile := flag.String("log", "", "Log file for the terminal renderer")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		logger.Error(ctx, "Failed to load environment file", err, "path", *envFile)
		os.Exit(1)
	}
	// the env file may set the log level
	logger = logging.NewLogger()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}
	applyFlags(cfg, *renderer, *mesh, *width, *height, *fullscreen)

	// the terminal owns the tty, so its logs go to a file or nowhere
	simLogger := logger
	if cfg.Renderer.Kind == config.RendererTerminal {
		simLogger, err = terminalLogger(*logFile)
		if err != nil {
			logger.Error(ctx, "Failed to open log file", err, "path", *logFile)
			os.Exit(1)
		}
	}

	sim, err := engine.NewSimulation(cfg, simLogger)
	if err != nil {
		logger.Error(ctx, "Failed to build simulation", err)
		os.Exit(1)
	}
	sim.EventBus.Subscribe(event.ObstacleContact, func(e event.Event) {
		if c, ok := e.(*event.ContactEvent); ok {
			simLogger.Debug(ctx, "contact", "tick", c.Tick, "particle", c.Particle, "obstacle", c.Obstacle)
		}
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Renderer.Kind {
	case config.RendererEngo:
		engorender.Run(sim, cfg.Renderer, logger)
	case config.RendererHeadless:
		err = runHeadless(ctx, sim, headlessOptions{
			Frames:     *frames,
			FPS:        cfg.Renderer.FPS,
			HealthAddr: *healthAddr,
			Renderer:   render.NewNullRenderer(logger),
		}, logger)
	default:
		err = runTerminal(ctx, sim, cfg.Renderer.FPS)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Simulation failed", err)
		os.Exit(1)
	}
	stats := sim.Stats()
	logger.Info(context.Background(), "Simulation finished",
		"ticks", sim.Tick(),
		"kinetic_energy", stats.KineticEnergy,
		"max_stretch", stats.MaxStretch,
		"centroid_x", stats.Centroid.X,
		"centroid_y", stats.Centroid.Y,
	)
}

// loadConfig reads path, falling back to defaults when it does not exist
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.SimulationConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

// applyFlags overrides configuration with command line values that were set
func applyFlags(cfg *config.SimulationConfig, renderer, mesh string, width, height int, fullscreen bool) {
	if renderer != "" {
		cfg.Renderer.Kind = renderer
	}
	if mesh != "" {
		cfg.Mesh.Kind = mesh
	}
	if width > 0 {
		cfg.Renderer.Width = width
	}
	if height > 0 {
		cfg.Renderer.Height = height
	}
	if fullscreen {
		cfg.Renderer.Fullscreen = true
	}
}

func terminalLogger(path string) (*logging.Logger, error) {
	if path == "" {
		return logging.NewDiscardLogger(), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return logging.NewLoggerWithWriter(f, logging.LevelFromEnv()), nil
}

func runTerminal(ctx context.Context, sim *engine.Simulation, fps int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "failed to create terminal screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "failed to initialize terminal screen")
	}
	defer screen.Fini()
	return render.RunTerminal(ctx, sim, screen, fps)
}
