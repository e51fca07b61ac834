package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if VIGIL_CONFIG is set
//  3. env (prefix VIGIL_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("VIGIL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: VIGIL_VIDEO_SOURCE, VIGIL_SENSITIVITY, ...
	// Map env keys like VIGIL_QUEUE_CAPACITY -> queue_capacity (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("VIGIL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "vigil_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the pipeline cannot run with.
func (c *Config) validate() error {
	if c.MetricsAddr == "" {
		return fmt.Errorf("%w: metrics_addr must not be empty", ErrInvalidConfig)
	}
	if c.VideoSource == "" {
		return fmt.Errorf("%w: video_source must not be empty", ErrInvalidConfig)
	}
	if c.PoseEndpoint == "" {
		return fmt.Errorf("%w: pose_endpoint must not be empty", ErrInvalidConfig)
	}
	if c.Confidence <= 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be in (0, 1], got %v", ErrInvalidConfig, c.Confidence)
	}
	if c.CooldownSeconds < 0 {
		return fmt.Errorf("%w: cooldown_seconds must not be negative, got %v", ErrInvalidConfig, c.CooldownSeconds)
	}
	if c.SmoothingWindow <= 0 {
		return fmt.Errorf("%w: smoothing_window must be positive, got %d", ErrInvalidConfig, c.SmoothingWindow)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("%w: queue_capacity must be positive, got %d", ErrInvalidConfig, c.QueueCapacity)
	}
	return nil
}
