// Package config loads the runtime settings of the vst3graph tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/debug"
)

// Config is the full tool configuration.
type Config struct {
	Graph    GraphConfig    `yaml:"graph"`
	Renderer RendererConfig `yaml:"renderer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// GraphConfig tunes layout negotiation.
type GraphConfig struct {
	// MaxDiscreteChannels is the largest discrete layout checked when listing supported layouts.
	MaxDiscreteChannels int `yaml:"max_discrete_channels"`
}

// RendererConfig sizes the real-time buffers.
type RendererConfig struct {
	SampleRate float64 `yaml:"sample_rate"`
	BlockSize  int     `yaml:"block_size"`
}

// LoggingConfig selects the log level and component prefix.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Prefix string `yaml:"prefix"`
}

// MetricsConfig controls the Prometheus exposition of the CLI.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Graph:    GraphConfig{MaxDiscreteChannels: 16},
		Renderer: RendererConfig{SampleRate: 48000, BlockSize: 512},
		Logging:  LoggingConfig{Level: "info", Prefix: "vst3graph"},
	}
}

// Load reads path over the defaults, applies environment overrides and validates.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("load config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VST3GRAPH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VST3GRAPH_SAMPLE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Renderer.SampleRate = f
		}
	}
	if v := os.Getenv("VST3GRAPH_BLOCK_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Renderer.BlockSize = i
		}
	}
	if v := os.Getenv("VST3GRAPH_METRICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}

// Validate checks ranges and the log level.
func (c Config) Validate() error {
	var errs []error
	if c.Graph.MaxDiscreteChannels < 8 || c.Graph.MaxDiscreteChannels > bus.MaxBusChannels {
		errs = append(errs, fmt.Errorf("graph.max_discrete_channels must be in [8, %d], got %d", bus.MaxBusChannels, c.Graph.MaxDiscreteChannels))
	}
	if c.Renderer.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("renderer.sample_rate must be positive, got %v", c.Renderer.SampleRate))
	}
	if c.Renderer.BlockSize <= 0 || c.Renderer.BlockSize > 8192 {
		errs = append(errs, fmt.Errorf("renderer.block_size must be in [1, 8192], got %d", c.Renderer.BlockSize))
	}
	if _, err := debug.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errors.Join(errs...)
}

// Logger builds a logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *debug.Logger {
	level, err := debug.ParseLevel(c.Logging.Level)
	if err != nil {
		level = debug.LogLevelInfo
	}
	return debug.New(w, c.Logging.Prefix, level)
}
