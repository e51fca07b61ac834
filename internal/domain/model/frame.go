// Package model contains domain types passed between pipeline stages.
package model

import (
	"image"
	"time"
)

// Frame is a single captured video frame. A frame is owned exclusively by
// the pipeline stage currently processing it; it is never shared across
// goroutines once dequeued.
type Frame struct {
	Image image.Image
	// Index is the zero-based position of the frame in the stream,
	// counting only frames that made it into the queue.
	Index int64
	// VideoTime is the frame's position in the stream (index / fps).
	VideoTime time.Duration
	// Captured is the wall-clock time the frame was acquired.
	Captured time.Time
}

// Box is an axis-aligned person bounding box reported by the pose model,
// in pixel coordinates with the score the model assigned to it.
type Box struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Score float64 `json:"score"`
}
