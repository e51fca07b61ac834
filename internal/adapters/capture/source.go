package capture

import (
	"context"
	"sync"
	"time"

	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/pkg/logger"
	"github.com/okian/vigil/pkg/metrics"
)

// Default source configuration constants.
const (
	defaultReadTimeout    = 1 * time.Second
	defaultEnqueueTimeout = 100 * time.Millisecond
	joinTimeout           = 1 * time.Second
	defaultFPS            = 30.0
)

// Grabber supplies raw frames from an underlying device or file. Grab
// blocks for the device's natural frame interval; a false return means
// end of stream. Close releases the device; the Source calls it exactly
// once.
type Grabber interface {
	Grab() (model.Frame, bool)
	FPS() float64
	Close() error
}

// Source is the threaded frame producer. Its acquisition goroutine reads
// frames and publishes them through a bounded queue; when the queue is
// full the frame is dropped so the producer never blocks on a slow
// consumer.
type Source struct {
	grabber Grabber
	queue   *FrameQueue
	fps     float64

	capacity       int
	readTimeout    time.Duration
	enqueueTimeout time.Duration

	frameCount int64

	stopOnce    sync.Once
	releaseOnce sync.Once
	shutdown    chan struct{}
	done        chan struct{}

	logger logger.Logger
}

// NewSource creates a source over the given grabber with configuration
// options. Devices that report no frame rate are assumed to run at 30
// fps.
func NewSource(grabber Grabber, opts ...Option) *Source {
	s := &Source{
		grabber:        grabber,
		capacity:       defaultCapacity,
		readTimeout:    defaultReadTimeout,
		enqueueTimeout: defaultEnqueueTimeout,
		shutdown:       make(chan struct{}),
		done:           make(chan struct{}),
		logger:         logger.Get().Named("capture"),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.queue = NewFrameQueue(WithQueueCapacity(s.capacity))

	s.fps = grabber.FPS()
	if s.fps <= 0 {
		s.fps = defaultFPS
	}

	return s
}

// Start spawns the acquisition loop.
func (s *Source) Start(ctx context.Context) {
	go s.acquire(ctx)
}

// Read blocks up to timeout for the next frame; a non-positive timeout
// uses the configured default. ok is false when nothing arrived in time,
// which the consumer uses to detect a stalled or ended stream.
func (s *Source) Read(timeout time.Duration) (model.Frame, bool) {
	if timeout <= 0 {
		timeout = s.readTimeout
	}
	return s.queue.Get(timeout)
}

// FPS returns the effective frame rate used for video timestamps.
func (s *Source) FPS() float64 {
	return s.fps
}

// Len returns the number of frames currently buffered.
func (s *Source) Len() int {
	return s.queue.Len()
}

// Stop signals the acquisition loop, waits for it with a bounded timeout,
// and releases the device. Release does not depend on the join
// succeeding.
func (s *Source) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		close(s.shutdown)
	})

	select {
	case <-s.done:
	case <-time.After(joinTimeout):
		s.logger.Warn(ctx, "acquisition loop did not stop in time")
	}

	s.release(ctx)
}

// acquire is the producer loop: it runs on its own goroutine until the
// stream ends or the source is stopped.
func (s *Source) acquire(ctx context.Context) {
	defer close(s.done)
	defer s.release(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		default:
		}

		frame, ok := s.grabber.Grab()
		if !ok {
			s.logger.Info(ctx, "end of stream",
				logger.Int64("frames", s.frameCount),
			)
			return
		}

		frame.Index = s.frameCount
		frame.VideoTime = time.Duration(float64(s.frameCount) / s.fps * float64(time.Second))
		frame.Captured = time.Now()

		if s.queue.Put(frame, s.enqueueTimeout) {
			s.frameCount++
			metrics.RecordFrameCaptured()
		}
		// On a full queue the frame was dropped; keep acquiring.
	}
}

// release closes the device and the queue exactly once.
func (s *Source) release(ctx context.Context) {
	s.releaseOnce.Do(func() {
		if err := s.grabber.Close(); err != nil {
			s.logger.Error(ctx, "failed to release capture device", logger.Error(err))
		}
		_ = s.queue.Close()
	})
}
