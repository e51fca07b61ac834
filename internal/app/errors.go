package service

import (
	"errors"
)

// Sentinel kinds for pipeline errors.
var (
	ErrNoSource    = errors.New("no frame source configured")
	ErrNoEstimator = errors.New("no pose estimator configured")
)
