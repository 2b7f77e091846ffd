// Package config loads the Mudra configuration from a YAML file with
// environment variable overrides, and watches it for live changes.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/gesture"
)

// Gesture configures one gesture by name.
type Gesture struct {
	Enabled bool `yaml:"enabled"`
	// Threshold overrides the detector default when greater than
	// zero, in the pose source's distance units (meters).
	Threshold float64 `yaml:"threshold,omitempty"`
}

// Camera configures the capture device.
type Camera struct {
	DeviceID int `yaml:"device_id"`
	// MotionThreshold is the percentage of changed pixels that wakes
	// the pipeline from idle.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// Server configures the HTTP server.
type Server struct {
	Addr string `yaml:"addr"`
}

// Plugins configures the action plugin system.
type Plugins struct {
	Dir       string `yaml:"dir"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Config holds all Mudra configuration.
type Config struct {
	// Enabled turns gesture recognition on or off globally.
	Enabled bool `yaml:"enabled"`

	// Provider selects the pose heuristics source; unknown values
	// fall back to the built-in heuristic provider.
	Provider string `yaml:"provider"`

	// UpdateIntervalMs throttles per-hand evaluation; 0 evaluates
	// every tick.
	UpdateIntervalMs int `yaml:"update_interval_ms"`

	// MinimumConfidence is the global activation threshold (0..1).
	MinimumConfidence float64 `yaml:"minimum_confidence"`

	// Gestures holds the per-gesture enable flags and threshold
	// overrides.
	Gestures map[string]Gesture `yaml:"gestures"`

	Camera  Camera  `yaml:"camera"`
	Server  Server  `yaml:"server"`
	Plugins Plugins `yaml:"plugins"`

	// DataDir is where the database and recordings live; empty means
	// ~/.mudra.
	DataDir string `yaml:"data_dir"`

	// RecordPath, when set, records every processed frame to a JSONL
	// session file for later replay.
	RecordPath string `yaml:"record_path"`
}

// envOverrides are applied on top of the file configuration.
type envOverrides struct {
	Addr     string   `env:"MUDRA_ADDR"`
	DataDir  string   `env:"MUDRA_DATA_DIR"`
	Provider string   `env:"MUDRA_PROVIDER"`
	CameraID *int     `env:"MUDRA_CAMERA_ID"`
	MinConf  *float64 `env:"MUDRA_MIN_CONFIDENCE"`
}

// Default returns the built-in configuration: every built-in gesture
// enabled with detector-default thresholds.
func Default() *Config {
	gestures := make(map[string]Gesture)
	for _, name := range gesture.NewRegistry().Names() {
		gestures[name] = Gesture{Enabled: true}
	}

	return &Config{
		Enabled:           true,
		Provider:          string(gesture.ProviderHeuristic),
		MinimumConfidence: gesture.DefaultMinimumConfidence,
		Gestures:          gestures,
		Camera: Camera{
			DeviceID:        0,
			MotionThreshold: 1.0,
		},
		Server: Server{
			Addr: ":8080",
		},
		Plugins: Plugins{
			Dir:       "plugins",
			TimeoutMs: 5000,
		},
	}
}

// Load reads the configuration file at path, layered over the
// defaults, then applies environment overrides. A missing file is not
// an error; the defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if overrides.Addr != "" {
		cfg.Server.Addr = overrides.Addr
	}
	if overrides.DataDir != "" {
		cfg.DataDir = overrides.DataDir
	}
	if overrides.Provider != "" {
		cfg.Provider = overrides.Provider
	}
	if overrides.CameraID != nil {
		cfg.Camera.DeviceID = *overrides.CameraID
	}
	if overrides.MinConf != nil {
		cfg.MinimumConfidence = *overrides.MinConf
	}

	return cfg, nil
}

// Options converts the configuration into evaluator options.
func (c *Config) Options() gesture.Options {
	gestures := make(map[string]gesture.GestureConfig, len(c.Gestures))
	for name, g := range c.Gestures {
		gestures[name] = gesture.GestureConfig{
			Enabled:   g.Enabled,
			Threshold: g.Threshold,
		}
	}

	return gesture.Options{
		Enabled:           c.Enabled,
		Provider:          gesture.Provider(c.Provider),
		UpdateInterval:    time.Duration(c.UpdateIntervalMs) * time.Millisecond,
		MinimumConfidence: c.MinimumConfidence,
		Gestures:          gestures,
	}
}

// PluginTimeout returns the plugin execution timeout as a duration.
func (c *Config) PluginTimeout() time.Duration {
	if c.Plugins.TimeoutMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Plugins.TimeoutMs) * time.Millisecond
}
