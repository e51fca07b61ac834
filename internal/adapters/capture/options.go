package capture

import (
	"time"

	"github.com/okian/vigil/pkg/logger"
)

// QueueOption applies a configuration option to the FrameQueue.
type QueueOption func(*FrameQueue)

// WithQueueCapacity bounds the number of frames in flight.
func WithQueueCapacity(capacity int) QueueOption {
	return func(q *FrameQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithCapacity bounds the source's frame queue.
func WithCapacity(capacity int) Option {
	return func(s *Source) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithReadTimeout sets how long Read blocks waiting for a frame before
// reporting "no data yet".
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Source) {
		if timeout > 0 {
			s.readTimeout = timeout
		}
	}
}

// WithEnqueueTimeout sets how long the acquisition loop waits on a full
// queue before dropping the frame.
func WithEnqueueTimeout(timeout time.Duration) Option {
	return func(s *Source) {
		if timeout > 0 {
			s.enqueueTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the source.
func WithLogger(logger logger.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}
