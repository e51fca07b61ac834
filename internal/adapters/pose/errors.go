package pose

import "errors"

var (
	// ErrEmptyFrame is returned when a frame without image data is
	// submitted for inference.
	ErrEmptyFrame = errors.New("frame has no image data")
	// ErrEstimate is returned when the inference service fails to
	// produce an estimation.
	ErrEstimate = errors.New("pose estimation failed")
)
