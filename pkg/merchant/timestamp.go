package merchant

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/samvad-hq/digest-merchant-sdk/pkg/httpclient"
)

const timeEndpoint = "/time"

// TimestampResolver anchors signatures to the server clock, falling back to the
// local clock whenever the server time cannot be obtained.
type TimestampResolver struct {
	client httpclient.Client
	url    string
	now    func() time.Time
	log    Logger
}

// NewTimestampResolver builds a resolver querying GET <service base URL>/time.
func NewTimestampResolver(client httpclient.Client, svc Service, now func() time.Time, log Logger) *TimestampResolver {
	if now == nil {
		now = time.Now
	}
	return &TimestampResolver{
		client: client,
		url:    svc.normalize().BaseURL() + timeEndpoint,
		now:    now,
		log:    ensureLogger(log),
	}
}

// Resolve returns the server timestamp, or the local unix time captured at the
// start of the call. It never fails.
func (r *TimestampResolver) Resolve(ctx context.Context) int64 {
	local := r.now().Unix()
	if ts, ok := r.fetchRemote(ctx); ok {
		return ts
	}
	return local
}

type timeResponse struct {
	Time *int64 `json:"time"`
}

// fetchRemote performs one unsigned GET against the time endpoint.
func (r *TimestampResolver) fetchRemote(ctx context.Context) (int64, bool) {
	if r.client == nil {
		return 0, false
	}

	resp, err := r.client.Get(ctx, r.url, nil)
	if err != nil {
		r.fallback("transport_error", err.Error())
		return 0, false
	}
	if resp.StatusCode() != http.StatusOK {
		r.fallback("unexpected_status", resp.StatusCode())
		return 0, false
	}

	var data timeResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		r.fallback("malformed_body", err.Error())
		return 0, false
	}
	if data.Time == nil || *data.Time <= 0 {
		r.fallback("missing_time", string(resp.Body()))
		return 0, false
	}
	return *data.Time, true
}

func (r *TimestampResolver) fallback(reason string, detail any) {
	r.log.DebugObj("server time unavailable; using local clock", "timestamp_fallback", map[string]any{
		"url":    r.url,
		"reason": reason,
		"detail": detail,
	})
}
