package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
	// Diagnostics carries opaque timing and connection details of the exchange.
	Diagnostics() map[string]any
}

// Request describes one outgoing HTTP exchange.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Query is an already encoded query string; its parameter order is kept on the wire.
	Query string
	// Body is sent verbatim when non-empty.
	Body []byte
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, req Request) (Response, error)
}
