// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the metrics HTTP listen address, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// VideoSource selects the capture device index or a video file path.
	VideoSource string `koanf:"video_source"`

	// PoseEndpoint is the base URL of the pose inference service.
	PoseEndpoint string `koanf:"pose_endpoint"`

	// Sensitivity selects the detection preset: low, medium, high.
	Sensitivity string `koanf:"sensitivity"`

	// Confidence is the minimum pose detection confidence.
	Confidence float64 `koanf:"confidence"`

	// CooldownSeconds is the refractory period between fall events.
	CooldownSeconds float64 `koanf:"cooldown_seconds"`

	// SmoothingWindow is the feature smoothing window length in frames.
	SmoothingWindow int `koanf:"smoothing_window"`

	// QueueCapacity bounds the in-memory frame queue.
	QueueCapacity int `koanf:"queue_capacity"`

	// ReadTimeoutMS bounds a single frame read from the queue.
	ReadTimeoutMS int `koanf:"read_timeout_ms"`

	// EnqueueTimeoutMS bounds how long the capture loop waits on a
	// full queue before dropping the frame.
	EnqueueTimeoutMS int `koanf:"enqueue_timeout_ms"`

	// MaxReadMisses is how many consecutive empty reads end the stream.
	MaxReadMisses int `koanf:"max_read_misses"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:         "info",
		MetricsAddr:      ":9090",
		VideoSource:      "0",
		PoseEndpoint:     "http://localhost:8500",
		Sensitivity:      "medium",
		Confidence:       0.3,
		CooldownSeconds:  3.0,
		SmoothingWindow:  5,
		QueueCapacity:    30,
		ReadTimeoutMS:    1000,
		EnqueueTimeoutMS: 100,
		MaxReadMisses:    1,
	}
	return c
}

// Cooldown returns the refractory period as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds * float64(time.Second))
}

// ReadTimeout returns the frame read timeout as a duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// EnqueueTimeout returns the enqueue timeout as a duration.
func (c *Config) EnqueueTimeout() time.Duration {
	return time.Duration(c.EnqueueTimeoutMS) * time.Millisecond
}
