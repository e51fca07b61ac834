// Package pose estimates human keypoints for captured frames by
// delegating to an external inference service.
package pose

import (
	"context"

	"github.com/okian/vigil/internal/domain/model"
)

// Estimation is the outcome of running pose inference on one frame.
type Estimation struct {
	// Keypoints holds the skeleton of the most prominent person, or
	// nil when no usable skeleton was found.
	Keypoints model.KeypointSet
	// Boxes holds the person bounding boxes reported by the model.
	Boxes []model.Box
}

// Estimator produces keypoint estimations for frames. Implementations
// must be safe for concurrent use.
type Estimator interface {
	// Estimate runs inference on the frame. Detections scoring below
	// minConfidence are discarded by the service.
	Estimate(ctx context.Context, frame model.Frame, minConfidence float64) (Estimation, error)
}
