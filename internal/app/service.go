// Package service wires the capture, inference and detection
// components into the running fall detection pipeline.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/vigil/internal/adapters/alert"
	"github.com/okian/vigil/internal/adapters/pose"
	"github.com/okian/vigil/internal/domain/detect"
	"github.com/okian/vigil/internal/domain/features"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/pkg/logger"
	"github.com/okian/vigil/pkg/metrics"
)

// Default pipeline configuration constants.
const (
	defaultConfidence   = 0.3
	defaultReadTimeout  = time.Second
	defaultMaxReadMiss  = 1
	defaultJoinTimeout  = 2 * time.Second
	defaultSensitivity  = "medium"
	defaultCooldown     = 3 * time.Second
	defaultSmoothWindow = 5
)

// FrameReader supplies frames to the pipeline.
type FrameReader interface {
	Start(ctx context.Context)
	Read(timeout time.Duration) (model.Frame, bool)
	Stop(ctx context.Context)
}

// IncidentHandler is invoked for every raised fall incident.
type IncidentHandler func(ctx context.Context, incident alert.Incident)

// Service runs the frame consumption loop: read a frame, estimate the
// pose, extract features, decide, and raise incidents on rising edges.
type Service struct {
	mu sync.RWMutex

	// Core components
	source    FrameReader
	estimator pose.Estimator
	detector  *detect.Detector
	monitor   *alert.Monitor

	// Configuration
	sensitivity    string
	confidence     float64
	cooldown       time.Duration
	smoothWindow   int
	readTimeout    time.Duration
	maxReadMisses  int
	onIncident     IncidentHandler

	// State
	started bool
	latest  model.DetectionResult
	frames  int64
	stopCh  chan struct{}
	done    chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sensitivity:   defaultSensitivity,
		confidence:    defaultConfidence,
		cooldown:      defaultCooldown,
		smoothWindow:  defaultSmoothWindow,
		readTimeout:   defaultReadTimeout,
		maxReadMisses: defaultMaxReadMiss,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the pipeline and begins consuming frames.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoSource
	}
	if s.estimator == nil {
		return ErrNoEstimator
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting fall detection pipeline...")

	s.detector = detect.New(
		detect.WithSensitivity(s.sensitivity),
		detect.WithCooldown(s.cooldown),
		detect.WithSmoothingWindow(s.smoothWindow),
	)
	s.monitor = alert.NewMonitor()

	// Fresh channels each start so a stopped service can be started
	// again without inheriting a closed stopCh or done.
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})

	s.source.Start(ctx)
	go s.consume(ctx, s.stopCh, s.done)

	s.started = true
	s.logger.Info(ctx, "fall detection pipeline started",
		logger.String("sensitivity", s.sensitivity),
		logger.Float64("confidence", s.confidence),
		logger.Duration("cooldown", s.cooldown),
		logger.Int("smoothingWindow", s.smoothWindow),
	)

	return nil
}

// Stop gracefully shuts down the pipeline. The consumer join happens
// outside the lock so a frame mid-flight can still publish its result.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	stopCh, done := s.stopCh, s.done
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping fall detection pipeline...")

	select {
	case <-stopCh:
		// Channel already closed
	default:
		close(stopCh)
	}

	select {
	case <-done:
	case <-time.After(defaultJoinTimeout):
		s.logger.Warn(ctx, "consumer did not stop in time")
	}

	s.source.Stop(ctx)
	s.logger.Info(ctx, "fall detection pipeline stopped")
}

// Wait blocks until the consumer loop has exited, which happens on
// Stop, context cancellation, or end of the video stream.
func (s *Service) Wait() {
	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()
	<-done
}

// consume is the pipeline loop. It owns the detector and monitor; all
// frame processing happens on this goroutine.
func (s *Service) consume(ctx context.Context, stopCh chan struct{}, done chan struct{}) {
	defer close(done)

	misses := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		default:
		}

		frame, ok := s.source.Read(s.readTimeout)
		if !ok {
			misses++
			if misses >= s.maxReadMisses {
				s.logger.Info(ctx, "video stream ended",
					logger.Int64("frames", s.framesSeen()),
				)
				return
			}
			continue
		}
		misses = 0

		s.processFrame(ctx, frame)
	}
}

// processFrame runs one frame through inference and detection.
func (s *Service) processFrame(ctx context.Context, frame model.Frame) {
	start := time.Now()

	result := model.DetectionResult{
		Timestamp: start,
		VideoTime: frame.VideoTime,
	}

	est, err := s.estimator.Estimate(ctx, frame, s.confidence)
	if err != nil {
		// A frame we cannot score is a non-fall, never a crash.
		s.logger.Warn(ctx, "pose estimation failed",
			logger.Int64("frame", frame.Index),
			logger.Error(err),
		)
		metrics.RecordErrorByComponent("pose", "estimate")
		s.detector.Process(start, model.RawFeatures{}, false)
	} else {
		raw, valid := features.Extract(est.Keypoints)
		decision := s.detector.Process(start, raw, valid)

		result.FallDetected = decision.FallDetected
		result.Confidence = decision.Confidence
		result.CriteriaMet = decision.CriteriaMet
		result.Features = decision.Features
		result.Keypoints = est.Keypoints
		result.Boxes = est.Boxes

		s.logger.Debug(ctx, "frame scored",
			logger.Int64("frame", frame.Index),
			logger.Float64("angle", decision.Features.Smoothed.TorsoAngle),
			logger.Float64("aspect", decision.Features.Smoothed.AspectRatio),
			logger.Float64("speed", decision.Features.VerticalSpeed),
			logger.Int("criteria", decision.CriteriaMet),
			logger.Float64("confidence", decision.Confidence),
		)
	}

	if incident, raised := s.monitor.Observe(result); raised {
		s.logger.Warn(ctx, "fall detected",
			logger.String("incident", incident.ID.String()),
			logger.Float64("confidence", incident.Confidence),
			logger.Duration("videoTime", incident.VideoTime),
		)
		if s.onIncident != nil {
			s.onIncident(ctx, incident)
		}
	}

	s.mu.Lock()
	s.latest = result
	s.frames++
	s.mu.Unlock()

	metrics.RecordFrameProcessed()
	metrics.RecordProcessingLatency(float64(time.Since(start).Milliseconds()))
}

// Latest returns the most recent detection result, if any frame has
// been processed.
func (s *Service) Latest() (model.DetectionResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.frames > 0
}

// LastIncident returns the most recently raised incident, if any.
func (s *Service) LastIncident() (alert.Incident, bool) {
	s.mu.RLock()
	monitor := s.monitor
	s.mu.RUnlock()
	if monitor == nil {
		return alert.Incident{}, false
	}
	return monitor.Last()
}

// Reset clears detector and monitor state so the pipeline starts
// evaluating from scratch.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detector != nil {
		s.detector.Reset()
	}
	if s.monitor != nil {
		s.monitor.Reset()
	}
	s.latest = model.DetectionResult{}
	s.frames = 0
}

// GetStats returns pipeline statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"sensitivity":     s.sensitivity,
		"confidence":      s.confidence,
		"framesProcessed": s.frames,
	}
	if s.monitor != nil {
		if last, ok := s.monitor.Last(); ok {
			stats["lastIncident"] = last.ID.String()
		}
	}
	return stats
}

func (s *Service) framesSeen() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}
