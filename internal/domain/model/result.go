package model

import "time"

// RawFeatures are the per-frame geometric features extracted from one
// keypoint set, before any smoothing.
type RawFeatures struct {
	// TorsoAngle is the hip-to-shoulder angle in degrees from vertical,
	// folded into [0, 90].
	TorsoAngle float64
	// HipY is the hip midpoint's pixel row.
	HipY float64
	// AspectRatio is bounding-box width over height across detected
	// keypoints; 0 when it cannot be computed.
	AspectRatio float64
	// HipKneeDiff is mean knee y minus mean hip y. Positive while
	// standing, since hips sit above knees in image coordinates.
	HipKneeDiff float64
}

// SmoothedFeatures are the running means of the jitter-prone features
// over the detector's smoothing window.
type SmoothedFeatures struct {
	TorsoAngle  float64
	AspectRatio float64
}

// Features bundles everything the decision core derived for one frame.
// Valid is false when the frame produced no usable keypoints; in that
// case every other field is zero and carries no signal.
type Features struct {
	Raw           RawFeatures
	Smoothed      SmoothedFeatures
	VerticalSpeed float64
	Valid         bool
}

// DetectionResult is the per-frame pipeline output. It is produced fresh
// for every processed frame and immutable once returned. Confidence is
// always in [0, 1].
type DetectionResult struct {
	FallDetected bool
	Confidence   float64
	CriteriaMet  int
	Timestamp    time.Time
	VideoTime    time.Duration
	Features     Features
	Keypoints    KeypointSet
	Boxes        []Box
}
