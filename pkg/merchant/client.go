package merchant

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/digest-merchant-sdk/pkg/httpclient"
	"github.com/samvad-hq/digest-merchant-sdk/pkg/requestlog"
)

// Credentials identify the merchant. The secret never leaves the client.
type Credentials struct {
	Key    string
	Secret string
}

// Client signs and sends requests to one API deployment. It keeps no state
// between calls and is safe for concurrent use when its transport and request
// log are.
type Client struct {
	creds      Credentials
	service    Service
	transport  httpclient.Client
	timeout    time.Duration
	requestLog requestlog.Sink
	log        Logger
	now        func() time.Time
	clock      *TimestampResolver
}

// NewClient creates a client for the given API key and secret.
func NewClient(apiKey, apiSecret string, opts ...Option) *Client {
	c := &Client{
		creds:   Credentials{Key: apiKey, Secret: apiSecret},
		service: Coinqvest,
		timeout: defaultTimeout,
		log:     noopLogger{},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.service = c.service.normalize()
	if c.transport == nil {
		c.transport = httpclient.NewRestyClient(c.timeout)
	}
	c.clock = NewTimestampResolver(c.transport, c.service, c.now, c.log)
	return c
}

// Service returns the deployment the client talks to.
func (c *Client) Service() Service { return c.service }

// LoggingEnabled reports whether request/response lines are written.
func (c *Client) LoggingEnabled() bool { return c.requestLog != nil }

// Timestamp resolves the timestamp a call made now would sign with.
func (c *Client) Timestamp(ctx context.Context) int64 {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.clock.Resolve(ctx)
}

// Get calls a GET endpoint with params as the query string.
func (c *Client) Get(ctx context.Context, endpoint string, params Params) (Response, error) {
	return c.send(ctx, http.MethodGet, endpoint, params, nil)
}

// Post calls a POST endpoint with payload as the JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) (Response, error) {
	return c.send(ctx, http.MethodPost, endpoint, nil, payload)
}

// Put calls a PUT endpoint with payload as the JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, payload any) (Response, error) {
	return c.send(ctx, http.MethodPut, endpoint, nil, payload)
}

// Delete calls a DELETE endpoint with payload as the JSON body.
func (c *Client) Delete(ctx context.Context, endpoint string, payload any) (Response, error) {
	return c.send(ctx, http.MethodDelete, endpoint, nil, payload)
}

// send runs one signed round trip. The returned error is non-nil only when the
// payload cannot be encoded, in which case nothing is sent.
func (c *Client) send(ctx context.Context, method, endpoint string, params Params, payload any) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = "/"
	}

	body, err := EncodeBody(method, payload)
	if err != nil {
		return Response{}, err
	}

	auth := BuildAuthHeaders(c.creds, endpoint, method, c.clock.Resolve(ctx), body)

	headers := auth.Map()
	headers["User-Agent"] = c.service.UserAgent(c.creds.Key)
	if method != http.MethodGet {
		headers["Content-Type"] = "application/json"
	}

	req := httpclient.Request{
		Method:  method,
		URL:     c.service.BaseURL() + endpoint,
		Headers: headers,
	}
	if method == http.MethodGet {
		req.Query = params.Encode()
	} else if body != "" {
		req.Body = []byte(body)
	}

	raw, sendErr := c.transport.Do(ctx, req)
	resp := newResponse(raw, sendErr)
	c.log.DebugObj("merchant request completed", "merchant_request", map[string]any{
		"service":              c.service.Name,
		"method":               method,
		"endpoint":             endpoint,
		"status_code":          resp.StatusCode,
		"transport_error_code": resp.TransportErrorCode,
	})

	var logged any = params
	if method != http.MethodGet {
		logged = payload
	}
	c.logExchange(method, endpoint, logged, auth, resp)
	return resp, nil
}

// logExchange writes the request and response lines. Failures are reported to
// the diagnostic logger only.
func (c *Client) logExchange(method, endpoint string, params any, auth AuthHeaders, resp Response) {
	if c.requestLog == nil {
		return
	}

	prefix := "[" + c.service.Name + "][" + strings.ToLower(method) + "] "
	request := prefix + "Request: " + method + " " + endpoint +
		" Params: " + jsonText(params) +
		" Auth Headers: " + jsonText(auth.Lines())
	response := prefix + "Response: " + jsonText(resp)

	for _, line := range []string{request, response} {
		if err := c.requestLog.Append(line); err != nil {
			c.log.WarnObj("request log write failed", "request_log_error", map[string]any{
				"service":  c.service.Name,
				"method":   method,
				"endpoint": endpoint,
				"error":    err.Error(),
			})
			return
		}
	}
}

func jsonText(v any) string {
	if v == nil {
		return "[]"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}
