package merchant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samvad-hq/digest-merchant-sdk/pkg/httpclient"
)

// Response is returned by every Get, Post, Put and Delete call. A non-empty
// TransportError means the exchange itself failed and StatusCode is 0; otherwise
// StatusCode and Body are whatever the server answered.
type Response struct {
	Body               string         `json:"responseBody"`
	Headers            string         `json:"responseHeaders"`
	StatusCode         int            `json:"httpStatusCode"`
	TransportError     string         `json:"transportError,omitempty"`
	TransportErrorCode int            `json:"transportErrorCode,omitempty"`
	Diagnostics        map[string]any `json:"transportInfo,omitempty"`
}

// newResponse builds the envelope for one exchange.
func newResponse(resp httpclient.Response, err error) Response {
	if err != nil {
		return Response{
			TransportError:     err.Error(),
			TransportErrorCode: httpclient.ErrorCode(err),
			Diagnostics:        map[string]any{},
		}
	}
	if resp == nil {
		return Response{
			TransportError:     "transport returned no response",
			TransportErrorCode: httpclient.CodeUnknown,
			Diagnostics:        map[string]any{},
		}
	}

	diag := make(map[string]any)
	for k, v := range resp.Diagnostics() {
		diag[k] = v
	}
	return Response{
		Body:        string(resp.Body()),
		Headers:     renderHeaders(resp.Header()),
		StatusCode:  resp.StatusCode(),
		Diagnostics: diag,
	}
}

func renderHeaders(h http.Header) string {
	if len(h) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := h.Write(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// HasTransportError reports whether the request never completed.
func (r Response) HasTransportError() bool {
	return r.TransportError != "" || r.TransportErrorCode != httpclient.CodeNone
}

// OK reports a completed exchange answered with 200.
func (r Response) OK() bool {
	return !r.HasTransportError() && r.StatusCode == http.StatusOK
}

// Decode unmarshals the JSON response body into v.
func (r Response) Decode(v any) error {
	if r.HasTransportError() {
		return fmt.Errorf("no response body: %s", r.TransportError)
	}
	if err := json.Unmarshal([]byte(r.Body), v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
