// Package smoothing provides fixed-window running-mean filters that absorb
// single-frame pose-estimation jitter before the decision core sees it.
package smoothing

import "github.com/okian/vigil/internal/domain/model"

// Default smoothing configuration constants.
const (
	defaultWindow = 5
)

// Filter is a fixed-capacity ring buffer with an O(1) running-sum mean.
// Once full, each new value overwrites the oldest. Not safe for concurrent
// use.
type Filter struct {
	values []float64
	size   int
	next   int
	sum    float64
}

// NewFilter creates a filter with the given window; a non-positive window
// falls back to the default. The capacity is fixed for the filter's
// lifetime.
func NewFilter(window int) *Filter {
	if window <= 0 {
		window = defaultWindow
	}
	return &Filter{values: make([]float64, window)}
}

// Push appends a value, evicting the oldest when full, and returns the
// mean of the current buffer contents. Early on the buffer may be
// partially filled; the mean covers whatever is present.
func (f *Filter) Push(v float64) float64 {
	if f.size == len(f.values) {
		f.sum -= f.values[f.next]
	} else {
		f.size++
	}
	f.values[f.next] = v
	f.sum += v
	f.next = (f.next + 1) % len(f.values)
	return f.Mean()
}

// Mean returns the mean of the buffered values, or 0 when empty.
func (f *Filter) Mean() float64 {
	if f.size == 0 {
		return 0
	}
	return f.sum / float64(f.size)
}

// Len returns the number of buffered values.
func (f *Filter) Len() int {
	return f.size
}

// Cap returns the fixed window size.
func (f *Filter) Cap() int {
	return len(f.values)
}

// Reset empties the buffer.
func (f *Filter) Reset() {
	f.size = 0
	f.next = 0
	f.sum = 0
}

// Smoother runs two independent filters over the jitter-prone features:
// torso angle and aspect ratio. One instance per monitored stream; not
// safe for concurrent use.
type Smoother struct {
	window int
	angle  *Filter
	aspect *Filter
}

// New creates a Smoother with configuration options.
func New(opts ...Option) *Smoother {
	s := &Smoother{
		window: defaultWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.angle = NewFilter(s.window)
	s.aspect = NewFilter(s.window)
	return s
}

// Smooth feeds one frame's raw features through both filters and returns
// the current running means.
func (s *Smoother) Smooth(raw model.RawFeatures) model.SmoothedFeatures {
	return model.SmoothedFeatures{
		TorsoAngle:  s.angle.Push(raw.TorsoAngle),
		AspectRatio: s.aspect.Push(raw.AspectRatio),
	}
}

// Reset clears both filters for a new stream or subject.
func (s *Smoother) Reset() {
	s.angle.Reset()
	s.aspect.Reset()
}
