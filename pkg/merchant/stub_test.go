package merchant

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/samvad-hq/digest-merchant-sdk/pkg/httpclient"
)

// stubResponse implements httpclient.Response.
type stubResponse struct {
	body       string
	statusCode int
	header     http.Header
}

func (s stubResponse) Body() []byte                { return []byte(s.body) }
func (s stubResponse) StatusCode() int             { return s.statusCode }
func (s stubResponse) Header() http.Header         { return s.header }
func (s stubResponse) Diagnostics() map[string]any { return map[string]any{"total_ms": int64(3)} }

// stubTransport answers the time endpoint and records every other request.
type stubTransport struct {
	mu        sync.Mutex
	timeResp  httpclient.Response
	timeErr   error
	resp      httpclient.Response
	err       error
	timeCalls int
	requests  []httpclient.Request
}

func (s *stubTransport) Get(_ context.Context, _ string, headers map[string]string) (httpclient.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeCalls++
	if len(headers) > 0 {
		return nil, errors.New("time request must not carry headers")
	}
	if s.timeErr != nil {
		return nil, s.timeErr
	}
	if s.timeResp == nil {
		return stubResponse{statusCode: http.StatusOK, body: `{"time":1700000000}`}, nil
	}
	return s.timeResp, nil
}

func (s *stubTransport) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if s.resp == nil {
		return stubResponse{statusCode: http.StatusOK, body: `{}`}, nil
	}
	return s.resp, nil
}

func (s *stubTransport) last() httpclient.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

// recordingSink captures request log lines.
type recordingSink struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (r *recordingSink) Append(message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.lines = append(r.lines, message)
	return nil
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// recordingLogger captures warn-level diagnostics.
type recordingLogger struct {
	noopLogger
	mu    sync.Mutex
	warns []string
}

func (r *recordingLogger) WarnObj(msg, _ string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}
