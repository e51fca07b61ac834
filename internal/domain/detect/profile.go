package detect

import "strings"

// Sensitivity names a threshold preset. Unrecognized names resolve to
// SensitivityMedium.
type Sensitivity string

// Named sensitivity presets.
const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Profile bundles the three detection thresholds the decision core
// compares against every frame. Resolved once at construction.
type Profile struct {
	// AngleThreshold in degrees from vertical; a smoothed torso angle
	// below it counts toward a fall.
	AngleThreshold float64
	// SpeedThreshold in pixels per second of downward hip motion.
	SpeedThreshold float64
	// AspectThreshold on bounding-box width/height; a wider-than-tall
	// body suggests a horizontal posture.
	AspectThreshold float64
}

// ParseSensitivity maps a free-form name onto a known preset, falling back
// to medium for anything unrecognized.
func ParseSensitivity(name string) Sensitivity {
	switch Sensitivity(strings.ToLower(strings.TrimSpace(name))) {
	case SensitivityLow:
		return SensitivityLow
	case SensitivityHigh:
		return SensitivityHigh
	case SensitivityMedium:
		return SensitivityMedium
	default:
		return SensitivityMedium
	}
}

// Thresholds returns the preset bound to this sensitivity. Anything that
// is not an enumerated value gets the medium triple.
func (s Sensitivity) Thresholds() Profile {
	switch s {
	case SensitivityLow:
		return Profile{AngleThreshold: 25.0, SpeedThreshold: 50.0, AspectThreshold: 1.5}
	case SensitivityHigh:
		return Profile{AngleThreshold: 45.0, SpeedThreshold: 20.0, AspectThreshold: 1.1}
	case SensitivityMedium:
		fallthrough
	default:
		return Profile{AngleThreshold: 35.0, SpeedThreshold: 30.0, AspectThreshold: 1.3}
	}
}
