package merchant

import (
	"time"

	"github.com/samvad-hq/digest-merchant-sdk/pkg/httpclient"
	"github.com/samvad-hq/digest-merchant-sdk/pkg/requestlog"
)

const defaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithService selects the API deployment. Coinqvest is used when unset.
func WithService(svc Service) Option {
	return func(c *Client) { c.service = svc }
}

// WithTransport replaces the resty-backed transport.
func WithTransport(t httpclient.Client) Option {
	return func(c *Client) { c.transport = t }
}

// WithTimeout sets the timeout of the default transport. Ignored with WithTransport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogFile enables request/response logging to a file.
func WithLogFile(path string) Option {
	return func(c *Client) {
		if path == "" {
			return
		}
		c.requestLog = requestlog.NewFileSink(path)
	}
}

// WithRequestLog enables request/response logging to an arbitrary sink.
func WithRequestLog(sink requestlog.Sink) Option {
	return func(c *Client) { c.requestLog = sink }
}

// WithLogger attaches a diagnostic logger.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// WithClock overrides the local clock used for the timestamp fallback.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
