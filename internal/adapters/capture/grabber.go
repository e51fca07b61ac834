package capture

import (
	"fmt"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/okian/vigil/internal/domain/model"
)

// deviceGrabber reads frames through OpenCV. It accepts either a camera
// index ("0") or a video file path. Not safe for concurrent use; only the
// acquisition goroutine touches it after construction.
type deviceGrabber struct {
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// OpenDevice opens a camera index or a video file path. An unopenable
// source is a construction error; nothing is retried.
func OpenDevice(source string) (Grabber, error) {
	var (
		cap *gocv.VideoCapture
		err error
	)
	if idx, convErr := strconv.Atoi(source); convErr == nil {
		cap, err = gocv.OpenVideoCapture(idx)
	} else {
		cap, err = gocv.OpenVideoCapture(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenSource, source, err)
	}

	return &deviceGrabber{cap: cap, mat: gocv.NewMat()}, nil
}

// Grab reads one frame and converts it to an image the rest of the
// pipeline can carry without cgo ownership concerns.
func (g *deviceGrabber) Grab() (model.Frame, bool) {
	if !g.cap.Read(&g.mat) || g.mat.Empty() {
		return model.Frame{}, false
	}

	img, err := g.mat.ToImage()
	if err != nil {
		return model.Frame{}, false
	}
	return model.Frame{Image: img}, true
}

// FPS reports the device frame rate; 0 when the device does not know it.
func (g *deviceGrabber) FPS() float64 {
	return g.cap.Get(gocv.VideoCaptureFPS)
}

// Close releases the OpenCV handles.
func (g *deviceGrabber) Close() error {
	_ = g.mat.Close()
	return g.cap.Close()
}
