// Package capture acquires frames from a camera or video file on a
// dedicated goroutine and hands them to the pipeline through a bounded
// queue, so acquisition latency never couples to processing latency.
package capture

import (
	"sync"
	"time"

	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/pkg/metrics"
)

// Default queue configuration constants.
const (
	// defaultCapacity buffers roughly one second of video at 30 fps.
	defaultCapacity = 30
)

// FrameQueue is a bounded, thread-safe frame buffer with timeout-based
// put and get. It is the only structure shared between the acquisition
// goroutine and the consumer.
type FrameQueue struct {
	frames   chan model.Frame
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewFrameQueue creates a frame queue with configuration options.
func NewFrameQueue(opts ...QueueOption) *FrameQueue {
	q := &FrameQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.frames = make(chan model.Frame, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Put offers a frame, blocking up to timeout. It returns false when the
// queue is full past the timeout or already closed; the caller drops the
// frame and moves on rather than blocking acquisition.
func (q *FrameQueue) Put(f model.Frame, timeout time.Duration) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case q.frames <- f:
		q.observe()
		return true
	case <-timer.C:
		metrics.RecordFrameDropped()
		return false
	}
}

// Get takes the next frame, blocking up to timeout. ok is false on
// timeout or once the queue is closed and drained; that is a flow-control
// signal, not an error.
func (q *FrameQueue) Get(timeout time.Duration) (model.Frame, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case f, ok := <-q.frames:
		if !ok {
			return model.Frame{}, false
		}
		q.observe()
		return f, true
	case <-timer.C:
		return model.Frame{}, false
	}
}

// Len returns the number of buffered frames.
func (q *FrameQueue) Len() int {
	return len(q.frames)
}

// Cap returns the queue capacity.
func (q *FrameQueue) Cap() int {
	return cap(q.frames)
}

// Close shuts the queue; buffered frames remain readable until drained.
func (q *FrameQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.frames)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *FrameQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *FrameQueue) observe() {
	size := len(q.frames)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(cap(q.frames)))
}
