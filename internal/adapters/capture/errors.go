package capture

import "errors"

// Sentinel kinds for capture errors.
var (
	ErrOpenSource = errors.New("unable to open video source")
)
