package detect

import "time"

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithSensitivity resolves a named preset into the detector's thresholds.
// Unrecognized names fall back to medium.
func WithSensitivity(name string) Option {
	return func(d *Detector) {
		d.profile = ParseSensitivity(name).Thresholds()
	}
}

// WithThresholds sets an explicit threshold triple, bypassing the named
// presets.
func WithThresholds(p Profile) Option {
	return func(d *Detector) {
		d.profile = p
	}
}

// WithCooldown sets the refractory period after a trigger.
func WithCooldown(cooldown time.Duration) Option {
	return func(d *Detector) {
		if cooldown > 0 {
			d.cooldown = cooldown
		}
	}
}

// WithSmoothingWindow sets the running-mean window for the jitter-prone
// features.
func WithSmoothingWindow(window int) Option {
	return func(d *Detector) {
		if window > 0 {
			d.window = window
		}
	}
}
