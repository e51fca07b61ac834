package pose

import (
	"time"

	"github.com/okian/vigil/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each inference round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryCount sets how often a failed request is retried.
func WithRetryCount(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retryCount = n
		}
	}
}

// WithRetryWait sets the pause between retries.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryWait = d
		}
	}
}

// WithLogger sets the logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
