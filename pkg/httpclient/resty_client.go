package httpclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
// Retries stay disabled; every call is a single round trip.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.Do(ctx, Request{Method: http.MethodGet, URL: url, Headers: headers})
}

// Do performs a single HTTP request. Transport failures are returned as errors;
// any status code the server answers with is a successful exchange.
func (r *RestyClient) Do(ctx context.Context, in Request) (Response, error) {
	req := r.client.R().
		SetContext(ctx).
		EnableTrace()
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if len(in.Body) > 0 {
		req.SetBody(in.Body)
	}

	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}

	resp, err := req.Execute(method, withQuery(in.URL, in.Query))
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// withQuery appends the raw query to url. resty's query param helpers re-encode
// through url.Values, which sorts keys, so the string is attached directly.
func withQuery(url, query string) string {
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + query
	}
	return url + "?" + query
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }

func (r *restyResponseAdapter) Diagnostics() map[string]any {
	out := map[string]any{
		"status":        r.resp.Status(),
		"proto":         r.resp.Proto(),
		"size_download": r.resp.Size(),
		"received_at":   r.resp.ReceivedAt().UTC(),
	}
	if r.resp.Request == nil {
		return out
	}

	out["method"] = r.resp.Request.Method
	out["url"] = r.resp.Request.URL

	ti := r.resp.Request.TraceInfo()
	out["dns_lookup_ms"] = ti.DNSLookup.Milliseconds()
	out["conn_ms"] = ti.ConnTime.Milliseconds()
	out["tcp_conn_ms"] = ti.TCPConnTime.Milliseconds()
	out["tls_handshake_ms"] = ti.TLSHandshake.Milliseconds()
	out["server_ms"] = ti.ServerTime.Milliseconds()
	out["total_ms"] = ti.TotalTime.Milliseconds()
	out["conn_reused"] = ti.IsConnReused
	if ti.RemoteAddr != nil {
		out["remote_addr"] = ti.RemoteAddr.String()
	}
	return out
}
