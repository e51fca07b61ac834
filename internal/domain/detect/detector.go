// Package detect implements the fall decision core: multi-criteria
// scoring over smoothed pose features, standing hysteresis, and a
// cooldown period that suppresses duplicate triggers for one incident.
//
// The detector is edge-triggered, not a persistent state machine: every
// frame produces an independent decision, and the false-to-true edge of
// FallDetected is the incident signal alerting collaborators act on.
package detect

import (
	"math"
	"time"

	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/domain/smoothing"
)

// Decision weights and default detector configuration constants.
const (
	angleWeight  = 0.35
	aspectWeight = 0.35
	speedWeight  = 0.30

	// minCriteria is how many of the three criteria must hold before a
	// trigger is considered.
	minCriteria = 2

	// standingAngle is the smoothed torso angle above which the subject
	// reads as standing this frame.
	standingAngle = 50.0
	// standingGrace keeps was-standing true for a person who was upright
	// moments ago and is now mid-collapse.
	standingGrace = 2 * time.Second

	// minSpeedInterval floors the frame-to-frame interval used for the
	// vertical speed estimate.
	minSpeedInterval = time.Millisecond

	defaultCooldown        = 3 * time.Second
	defaultSmoothingWindow = 5

	maxConfidence = 1.0
)

// Decision is the per-frame outcome of the decision core.
type Decision struct {
	FallDetected bool
	// Confidence is the sum of met-criterion weights, capped at 1.
	Confidence float64
	// CriteriaMet counts how many of the three criteria held (0..3).
	CriteriaMet int
	// WasStanding reports the hysteresis-adjusted standing state that
	// gated the trigger.
	WasStanding bool
	// Features carries the raw and smoothed features plus the vertical
	// speed estimate; Valid is false for a no-signal frame.
	Features model.Features
}

// Detector scores one monitored stream frame by frame. It owns the
// per-stream state (smoothing buffers, previous hip position, cooldown and
// standing timestamps) and is NOT safe for concurrent use: exactly one
// consumer per instance, one instance per stream.
type Detector struct {
	profile  Profile
	cooldown time.Duration
	window   int
	smoother *smoothing.Smoother

	prevHipY      float64
	prevTime      time.Time
	hasPrev       bool
	cooldownUntil time.Time
	fallStart     time.Time
	lastStanding  time.Time
}

// New creates a detector with configuration options. Thresholds and the
// smoothing window are fixed for the detector's lifetime.
func New(opts ...Option) *Detector {
	d := &Detector{
		profile:  SensitivityMedium.Thresholds(),
		cooldown: defaultCooldown,
		window:   defaultSmoothingWindow,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.smoother = smoothing.New(smoothing.WithWindow(d.window))
	return d
}

// Process scores one frame. now is the frame's wall-clock time, raw the
// extracted features and ok whether extraction produced any. A no-signal
// frame returns a zero Decision and mutates nothing.
func (d *Detector) Process(now time.Time, raw model.RawFeatures, ok bool) Decision {
	if !ok {
		return Decision{}
	}

	smoothed := d.smoother.Smooth(raw)

	// The first scored frame seeds the standing clock so a subject is
	// within the grace window right after construction or reset.
	if d.lastStanding.IsZero() {
		d.lastStanding = now
	}

	speed := 0.0
	if d.hasPrev {
		dt := now.Sub(d.prevTime)
		if dt < minSpeedInterval {
			dt = minSpeedInterval
		}
		speed = (raw.HipY - d.prevHipY) / dt.Seconds()
	}

	wasStanding := smoothed.TorsoAngle > standingAngle || now.Sub(d.lastStanding) < standingGrace
	if smoothed.TorsoAngle > standingAngle {
		d.lastStanding = now
	}

	criteria := 0
	confidence := 0.0
	if smoothed.TorsoAngle < d.profile.AngleThreshold {
		criteria++
		confidence += angleWeight
	}
	if smoothed.AspectRatio > d.profile.AspectThreshold {
		criteria++
		confidence += aspectWeight
	}
	if speed > d.profile.SpeedThreshold {
		criteria++
		confidence += speedWeight
	}
	confidence = math.Min(maxConfidence, confidence)

	fall := false
	if !now.Before(d.cooldownUntil) && wasStanding && criteria >= minCriteria {
		fall = true
		d.cooldownUntil = now.Add(d.cooldown)
		if d.fallStart.IsZero() {
			d.fallStart = now
		}
	} else {
		// Cleared on every non-triggering frame, including frames inside
		// an active cooldown window after a real trigger.
		d.fallStart = time.Time{}
	}

	d.prevHipY = raw.HipY
	d.prevTime = now
	d.hasPrev = true

	return Decision{
		FallDetected: fall,
		Confidence:   confidence,
		CriteriaMet:  criteria,
		WasStanding:  wasStanding,
		Features: model.Features{
			Raw:           raw,
			Smoothed:      smoothed,
			VerticalSpeed: speed,
			Valid:         true,
		},
	}
}

// FallStart returns the time of the current uninterrupted trigger run, if
// one is active.
func (d *Detector) FallStart() (time.Time, bool) {
	return d.fallStart, !d.fallStart.IsZero()
}

// Profile returns the thresholds resolved at construction.
func (d *Detector) Profile() Profile {
	return d.profile
}

// Reset clears all per-stream state for a new stream or subject.
func (d *Detector) Reset() {
	d.smoother.Reset()
	d.prevHipY = 0
	d.prevTime = time.Time{}
	d.hasPrev = false
	d.cooldownUntil = time.Time{}
	d.fallStart = time.Time{}
	d.lastStanding = time.Time{}
}
