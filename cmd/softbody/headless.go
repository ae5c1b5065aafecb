// cmd/softbody/headless.go
package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/opd-ai/go-softbody/pkg/engine"
	"github.com/opd-ai/go-softbody/pkg/health"
	"github.com/opd-ai/go-softbody/pkg/logging"
	"github.com/opd-ai/go-softbody/pkg/render"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// Health limits
const (
	maxKineticEnergy = 1e7
	maxMemoryMB      = 500
)

type headlessOptions struct {
	// Frames to run; 0 runs paced in real time until ctx is done
	Frames int
	FPS    int
	// HealthAddr enables the probe server when set
	HealthAddr string
	// Renderer, when set, draws every frame
	Renderer render.Renderer
}

// runHeadless steps sim without a screen and logs progress once per
// simulated second
func runHeadless(ctx context.Context, sim *engine.Simulation, opts headlessOptions, logger *logging.Logger) error {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	dt := 1 / float64(opts.FPS)

	sim.Start()
	defer sim.Stop()

	if opts.HealthAddr != "" {
		server := newHealthServer(sim, opts.HealthAddr)
		go func() {
			logger.Info(ctx, "Starting health check server", "address", opts.HealthAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "Health check server failed", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error(ctx, "Health check server shutdown failed", err)
			}
		}()
	}

	var tick <-chan time.Time
	if opts.Frames == 0 {
		ticker := time.NewTicker(time.Second / time.Duration(opts.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	for frame := 1; opts.Frames == 0 || frame <= opts.Frames; frame++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		result := sim.Step(dt)
		if opts.Renderer != nil {
			sim.View(func(w *softbody.World) {
				render.DrawWorld(opts.Renderer, w)
			})
		}
		if frame%opts.FPS == 0 {
			stats := sim.Stats()
			logger.Info(ctx, "Simulation progress",
				"tick", sim.Tick(),
				"contacts", result.Contacts,
				"kinetic_energy", stats.KineticEnergy,
				"max_stretch", stats.MaxStretch,
				"centroid_x", stats.Centroid.X,
				"centroid_y", stats.Centroid.Y,
			)
		}
	}
	return nil
}

func newHealthChecker(sim *engine.Simulation) *health.HealthChecker {
	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewSimulationHealthCheck(sim.IsRunning))
	checker.AddCheck(health.NewProgressHealthCheck(sim.Tick))
	checker.AddCheck(health.NewStabilityHealthCheck(maxKineticEnergy, func() float64 {
		return sim.Stats().KineticEnergy
	}))
	checker.AddCheck(health.NewMemoryHealthCheck(maxMemoryMB, func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))
	return checker
}

func newHealthServer(sim *engine.Simulation, addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      newHealthChecker(sim).Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}
