// pkg/config/env.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnvironmentOverrides
const (
	EnvGravityX      = "SOFTBODY_GRAVITY_X"
	EnvGravityY      = "SOFTBODY_GRAVITY_Y"
	EnvAirDamping    = "SOFTBODY_AIR_DAMPING"
	EnvMesh          = "SOFTBODY_MESH"
	EnvWorldWidth    = "SOFTBODY_WORLD_WIDTH"
	EnvWorldHeight   = "SOFTBODY_WORLD_HEIGHT"
	EnvPlatformSpeed = "SOFTBODY_PLATFORM_SPEED"
	EnvRenderer      = "SOFTBODY_RENDERER"
	EnvTimeScale     = "SOFTBODY_TIME_SCALE"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvironmentOverrides replaces config values with any SOFTBODY_*
// variables that are set
func ApplyEnvironmentOverrides(config *SimulationConfig) error {
	floats := []struct {
		key    string
		target *float64
	}{
		{EnvGravityX, &config.World.Gravity.X},
		{EnvGravityY, &config.World.Gravity.Y},
		{EnvAirDamping, &config.World.AirDamping},
		{EnvWorldWidth, &config.World.Width},
		{EnvWorldHeight, &config.World.Height},
		{EnvPlatformSpeed, &config.Platform.Speed},
		{EnvTimeScale, &config.World.TimeScale},
	}
	for _, f := range floats {
		if err := overrideFloat(f.key, f.target); err != nil {
			return err
		}
	}

	if v, ok := lookupEnv(EnvMesh); ok {
		config.Mesh.Kind = strings.ToLower(v)
	}
	if v, ok := lookupEnv(EnvRenderer); ok {
		config.Renderer.Kind = strings.ToLower(v)
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func overrideFloat(key string, target *float64) error {
	v, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %s=%q is not a finite number", ErrInvalidConfig, key, v)
	}
	*target = f
	return nil
}
