package model

// COCO keypoint indices for the standard 17-point human pose skeleton.
const (
	Nose          = 0
	LeftEye       = 1
	RightEye      = 2
	LeftEar       = 3
	RightEar      = 4
	LeftShoulder  = 5
	RightShoulder = 6
	LeftElbow     = 7
	RightElbow    = 8
	LeftWrist     = 9
	RightWrist    = 10
	LeftHip       = 11
	RightHip      = 12
	LeftKnee      = 13
	RightKnee     = 14
	LeftAnkle     = 15
	RightAnkle    = 16
	NumKeypoints  = 17
)

// Keypoint is a single pose landmark in pixel coordinates (y grows
// downward). A keypoint with X <= 0 is undetected.
type Keypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Detected reports whether the model actually located this point.
func (k Keypoint) Detected() bool {
	return k.X > 0
}

// KeypointSet holds one person's pose landmarks in COCO order. A nil set
// or one with fewer than NumKeypoints entries is invalid and yields no
// features for the frame.
type KeypointSet []Keypoint

// Valid reports whether the set carries a full COCO skeleton.
func (s KeypointSet) Valid() bool {
	return len(s) >= NumKeypoints
}
