package app

import (
	"fmt"

	"github.com/samvad-hq/digest-merchant-sdk/pkg/merchant"
)

const bodySnippetLimit = 512

// APIError reports a merchant API call that did not answer 200.
type APIError struct {
	Method         string
	Endpoint       string
	StatusCode     int
	Body           string
	TransportError string
}

func (e *APIError) Error() string {
	if e.TransportError != "" {
		return fmt.Sprintf("%s %s: transport error: %s", e.Method, e.Endpoint, e.TransportError)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

func newAPIError(method, endpoint string, resp merchant.Response) *APIError {
	body := resp.Body
	if len(body) > bodySnippetLimit {
		body = body[:bodySnippetLimit]
	}
	return &APIError{
		Method:         method,
		Endpoint:       endpoint,
		StatusCode:     resp.StatusCode,
		Body:           body,
		TransportError: resp.TransportError,
	}
}
