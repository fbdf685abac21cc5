package merchant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/digest-merchant-sdk/pkg/httpclient"
	"github.com/stretchr/testify/assert"
)

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func TestTimestampResolver_UsesServerTime(t *testing.T) {
	transport := &stubTransport{timeResp: stubResponse{statusCode: http.StatusOK, body: `{"time": 1700000000}`}}
	r := NewTimestampResolver(transport, Coinqvest, fixedClock(42), nil)

	assert.Equal(t, int64(1700000000), r.Resolve(context.Background()))
	assert.Equal(t, 1, transport.timeCalls)
	assert.Equal(t, "https://www.coinqvest.com/api/v1/time", r.url)
}

func TestTimestampResolver_FallsBackToLocalClock(t *testing.T) {
	cases := map[string]*stubTransport{
		"transport error": {timeErr: errors.New("dial tcp: connection refused")},
		"non-200":         {timeResp: stubResponse{statusCode: http.StatusServiceUnavailable, body: `{"time":1}`}},
		"malformed json":  {timeResp: stubResponse{statusCode: http.StatusOK, body: `<html>`}},
		"missing field":   {timeResp: stubResponse{statusCode: http.StatusOK, body: `{"now":1700000000}`}},
		"null body":       {timeResp: stubResponse{statusCode: http.StatusOK, body: `null`}},
		"fractional":      {timeResp: stubResponse{statusCode: http.StatusOK, body: `{"time":1.5}`}},
		"non-positive":    {timeResp: stubResponse{statusCode: http.StatusOK, body: `{"time":0}`}},
	}
	for name, transport := range cases {
		r := NewTimestampResolver(transport, Coinqvest, fixedClock(1234567890), nil)
		assert.Equal(t, int64(1234567890), r.Resolve(context.Background()), name)
		assert.Equal(t, 1, transport.timeCalls, "%s: expected a single attempt", name)
	}
}

func TestTimestampResolver_NilTransport(t *testing.T) {
	r := NewTimestampResolver(nil, Coinqvest, fixedClock(99), nil)
	assert.Equal(t, int64(99), r.Resolve(context.Background()))
}

func TestTimestampResolver_WallClockWithinTolerance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/time" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get(HeaderSignature) != "" {
			t.Errorf("time request must be unsigned")
		}
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := Service{Scheme: "http", Host: strings.TrimPrefix(srv.URL, "http://"), BasePath: "/api/v1"}
	r := NewTimestampResolver(httpclient.NewRestyClient(2*time.Second), svc, nil, nil)

	got := r.Resolve(context.Background())
	assert.InDelta(t, time.Now().Unix(), got, 2)
}
