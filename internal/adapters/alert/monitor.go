// Package alert turns per-frame detection results into discrete
// incidents. A fall that persists across consecutive frames is one
// incident, not many.
package alert

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/pkg/metrics"
)

// Incident is a single raised fall event.
type Incident struct {
	// ID uniquely identifies the incident.
	ID uuid.UUID `json:"id"`
	// At is when the incident was raised.
	At time.Time `json:"at"`
	// Confidence is the detection confidence at the raising frame.
	Confidence float64 `json:"confidence"`
	// VideoTime is the stream position of the raising frame.
	VideoTime time.Duration `json:"video_time"`
}

// Monitor tracks the fall signal and raises an incident on each
// rising edge. Safe for concurrent use.
type Monitor struct {
	mu     sync.Mutex
	active bool
	last   Incident
	seen   int64
}

// NewMonitor builds an idle Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Observe feeds one detection result into the monitor. It returns an
// Incident and true only when the fall signal transitions from off to
// on; frames that continue an ongoing fall return false.
func (m *Monitor) Observe(res model.DetectionResult) (Incident, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen++

	if !res.FallDetected {
		m.active = false
		return Incident{}, false
	}
	if m.active {
		return Incident{}, false
	}

	m.active = true
	m.last = Incident{
		ID:         uuid.New(),
		At:         res.Timestamp,
		Confidence: res.Confidence,
		VideoTime:  res.VideoTime,
	}
	metrics.RecordFall(res.Confidence)
	return m.last, true
}

// Last returns the most recently raised incident, if any.
func (m *Monitor) Last() (Incident, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.last.ID != uuid.Nil
}

// Observed reports how many results the monitor has seen.
func (m *Monitor) Observed() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen
}

// Reset clears the edge state and incident history.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = false
	m.last = Incident{}
	m.seen = 0
}
