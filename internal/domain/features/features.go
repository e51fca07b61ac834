// Package features converts one frame's pose keypoints into the geometric
// signals the fall decision core consumes: torso angle, body aspect ratio
// and the hip/knee relation.
package features

import (
	"math"

	"github.com/okian/vigil/internal/domain/model"
)

const (
	// minVectorNorm floors the torso vector length so a degenerate
	// (zero-length) hip-to-shoulder vector cannot produce division
	// artifacts.
	minVectorNorm = 1e-6
	// minBoxHeight is the smallest bounding-box height that still yields
	// a meaningful aspect ratio.
	minBoxHeight = 1e-6

	degreesPerRadian = 180.0 / math.Pi
	rightAngle       = 90.0
	halfTurn         = 180.0
)

// Extract computes raw features from a single person's keypoints. The
// second return value is false when the set is invalid; callers must treat
// that as "no signal this frame", never as a state transition.
func Extract(kps model.KeypointSet) (model.RawFeatures, bool) {
	if !kps.Valid() {
		return model.RawFeatures{}, false
	}

	shoulder := midpoint(kps[model.LeftShoulder], kps[model.RightShoulder])
	hip := midpoint(kps[model.LeftHip], kps[model.RightHip])
	kneeY := (kps[model.LeftKnee].Y + kps[model.RightKnee].Y) / 2

	return model.RawFeatures{
		TorsoAngle:  AngleFromVertical(hip, shoulder),
		HipY:        hip.Y,
		AspectRatio: AspectRatio(kps),
		HipKneeDiff: kneeY - hip.Y,
	}, true
}

// AngleFromVertical returns the angle, in degrees folded into [0, 90], of
// the from->to vector measured against the vertical axis. An upright torso
// reads near 0 and a horizontal one near 90.
func AngleFromVertical(from, to model.Keypoint) float64 {
	vx := to.X - from.X
	vy := to.Y - from.Y
	norm := math.Max(minVectorNorm, math.Hypot(vx, vy))

	fromHorizontal := math.Abs(math.Atan2(vy/norm, vx/norm) * degreesPerRadian)
	return rightAngle - math.Min(fromHorizontal, halfTurn-fromHorizontal)
}

// AspectRatio returns bounding-box width over height across all detected
// keypoints (x > 0). It returns 0 for an invalid set, when no keypoint is
// detected, or when the box has no height.
func AspectRatio(kps model.KeypointSet) float64 {
	if !kps.Valid() {
		return 0
	}

	var minX, maxX, minY, maxY float64
	found := false
	for _, kp := range kps {
		if !kp.Detected() {
			continue
		}
		if !found {
			minX, maxX = kp.X, kp.X
			minY, maxY = kp.Y, kp.Y
			found = true
			continue
		}
		minX = math.Min(minX, kp.X)
		maxX = math.Max(maxX, kp.X)
		minY = math.Min(minY, kp.Y)
		maxY = math.Max(maxY, kp.Y)
	}
	if !found {
		return 0
	}

	height := maxY - minY
	if height < minBoxHeight {
		return 0
	}
	return (maxX - minX) / height
}

func midpoint(a, b model.Keypoint) model.Keypoint {
	return model.Keypoint{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
