package service

import (
	"time"

	"github.com/okian/vigil/internal/adapters/pose"
	"github.com/okian/vigil/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the frame source feeding the pipeline.
func WithSource(source FrameReader) Option {
	return func(s *Service) {
		if source != nil {
			s.source = source
		}
	}
}

// WithEstimator sets the pose estimator.
func WithEstimator(estimator pose.Estimator) Option {
	return func(s *Service) {
		if estimator != nil {
			s.estimator = estimator
		}
	}
}

// WithSensitivity selects the detection sensitivity preset.
func WithSensitivity(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.sensitivity = name
		}
	}
}

// WithConfidence sets the minimum pose detection confidence.
func WithConfidence(confidence float64) Option {
	return func(s *Service) {
		if confidence > 0 && confidence <= 1 {
			s.confidence = confidence
		}
	}
}

// WithCooldown sets the refractory period between fall events.
func WithCooldown(cooldown time.Duration) Option {
	return func(s *Service) {
		if cooldown > 0 {
			s.cooldown = cooldown
		}
	}
}

// WithSmoothingWindow sets the feature smoothing window length.
func WithSmoothingWindow(window int) Option {
	return func(s *Service) {
		if window > 0 {
			s.smoothWindow = window
		}
	}
}

// WithReadTimeout bounds each frame read from the source.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.readTimeout = timeout
		}
	}
}

// WithMaxReadMisses sets how many consecutive empty reads end the
// stream.
func WithMaxReadMisses(misses int) Option {
	return func(s *Service) {
		if misses > 0 {
			s.maxReadMisses = misses
		}
	}
}

// WithIncidentHandler registers a callback for raised incidents.
func WithIncidentHandler(handler IncidentHandler) Option {
	return func(s *Service) {
		if handler != nil {
			s.onIncident = handler
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
