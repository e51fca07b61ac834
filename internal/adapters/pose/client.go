package pose

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/pkg/logger"
	"github.com/okian/vigil/pkg/metrics"
)

const (
	// defaultTimeout bounds a single inference round trip.
	defaultTimeout = 5 * time.Second
	// defaultRetryCount is how often a failed request is retried.
	defaultRetryCount = 2
	// defaultRetryWait is the pause between retries.
	defaultRetryWait = 200 * time.Millisecond
	// estimatePath is the inference endpoint on the service.
	estimatePath = "/estimate"
	// jpegQuality used when encoding frames for transport.
	jpegQuality = 90
)

// estimateResponse mirrors the JSON body of the inference service.
// Keypoints are [x, y, confidence] triples, boxes are
// [x1, y1, x2, y2, score] tuples.
type estimateResponse struct {
	Keypoints [][]float64 `json:"keypoints"`
	Boxes     [][]float64 `json:"boxes"`
}

// Client talks to a pose inference service over HTTP.
type Client struct {
	rest       *resty.Client
	baseURL    string
	timeout    time.Duration
	retryCount int
	retryWait  time.Duration
	logger     logger.Logger
}

// NewClient builds a Client for the inference service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		timeout:    defaultTimeout,
		retryCount: defaultRetryCount,
		retryWait:  defaultRetryWait,
		logger:     logger.Get().Named("pose"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rest = resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetRetryCount(c.retryCount).
		SetRetryWaitTime(c.retryWait).
		SetHeader("Accept", "application/json").
		AddRetryHook(func(resp *resty.Response, err error) {
			fields := []logger.Field{logger.Int("attempt", resp.Request.Attempt)}
			if err != nil {
				fields = append(fields, logger.Error(err))
			}
			c.logger.Debug(resp.Request.Context(), "retrying inference request", fields...)
		})

	return c
}

// Estimate encodes the frame as JPEG, submits it to the service and
// maps the response onto domain keypoints and boxes.
func (c *Client) Estimate(ctx context.Context, frame model.Frame, minConfidence float64) (Estimation, error) {
	if frame.Image == nil {
		return Estimation{}, ErrEmptyFrame
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame.Image, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Estimation{}, fmt.Errorf("%w: encoding frame %d: %v", ErrEstimate, frame.Index, err)
	}

	start := time.Now()

	var body estimateResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetFileReader("image", "frame.jpg", &buf).
		SetFormData(map[string]string{
			"confidence": strconv.FormatFloat(minConfidence, 'f', -1, 64),
		}).
		SetResult(&body).
		Post(estimatePath)

	metrics.RecordInferenceLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordInferenceError()
		c.logger.Warn(ctx, "inference request failed",
			logger.Int64("frame", frame.Index),
			logger.Error(err),
		)
		return Estimation{}, fmt.Errorf("%w: frame %d: %v", ErrEstimate, frame.Index, err)
	}
	if resp.IsError() {
		metrics.RecordInferenceError()
		c.logger.Warn(ctx, "inference request failed",
			logger.Int64("frame", frame.Index),
			logger.String("status", resp.Status()),
		)
		return Estimation{}, fmt.Errorf("%w: frame %d: service returned %s", ErrEstimate, frame.Index, resp.Status())
	}

	return mapEstimation(body), nil
}

// mapEstimation converts the wire format into domain types. A skeleton
// with fewer keypoints than the model emits is treated as no skeleton.
func mapEstimation(body estimateResponse) Estimation {
	var est Estimation

	if len(body.Keypoints) >= model.NumKeypoints {
		kps := make(model.KeypointSet, 0, len(body.Keypoints))
		for _, kp := range body.Keypoints {
			if len(kp) < 2 {
				kps = append(kps, model.Keypoint{})
				continue
			}
			kps = append(kps, model.Keypoint{X: kp[0], Y: kp[1]})
		}
		est.Keypoints = kps
	}

	for _, b := range body.Boxes {
		if len(b) < 4 {
			continue
		}
		box := model.Box{X1: b[0], Y1: b[1], X2: b[2], Y2: b[3]}
		if len(b) > 4 {
			box.Score = b[4]
		}
		est.Boxes = append(est.Boxes, box)
	}

	return est
}
