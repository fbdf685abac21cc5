package merchant

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Authentication header names.
const (
	HeaderKey       = "X-Digest-Key"
	HeaderSignature = "X-Digest-Signature"
	HeaderTimestamp = "X-Digest-Timestamp"
)

// AuthHeaders are the three headers that accompany every authenticated call.
// Timestamp is the value that was signed; it is also the value transmitted.
type AuthHeaders struct {
	Key       string
	Signature string
	Timestamp int64
}

// Map returns the headers keyed by header name.
func (h AuthHeaders) Map() map[string]string {
	return map[string]string{
		HeaderKey:       h.Key,
		HeaderSignature: h.Signature,
		HeaderTimestamp: strconv.FormatInt(h.Timestamp, 10),
	}
}

// Lines returns the headers as "Name: value" strings in a fixed order.
func (h AuthHeaders) Lines() []string {
	return []string{
		HeaderKey + ": " + h.Key,
		HeaderSignature + ": " + h.Signature,
		HeaderTimestamp + ": " + strconv.FormatInt(h.Timestamp, 10),
	}
}

// CanonicalString concatenates path, timestamp, method and body. An absent body
// contributes nothing.
func CanonicalString(path string, timestamp int64, method, body string) string {
	var sb strings.Builder
	sb.Grow(len(path) + 20 + len(method) + len(body))
	sb.WriteString(path)
	sb.WriteString(strconv.FormatInt(timestamp, 10))
	sb.WriteString(method)
	sb.WriteString(body)
	return sb.String()
}

// Sign returns the lowercase hex HMAC-SHA256 of message keyed by secret.
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildAuthHeaders signs one request for the given credentials.
func BuildAuthHeaders(creds Credentials, path, method string, timestamp int64, body string) AuthHeaders {
	return AuthHeaders{
		Key:       creds.Key,
		Signature: Sign(creds.Secret, CanonicalString(path, timestamp, method, body)),
		Timestamp: timestamp,
	}
}

// EncodeBody serializes payload the way it is signed and sent. GET requests never
// carry a body. Payloads that encode to null, {} or [] are treated as no body and
// yield "".
//
// Encoding is compact JSON without HTML escaping. Struct fields keep declaration
// order; map keys are sorted.
func EncodeBody(method string, payload any) (string, error) {
	if method == http.MethodGet || payload == nil {
		return "", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("encode %s payload: %w", method, err)
	}

	body := strings.TrimSuffix(buf.String(), "\n")
	switch body {
	case "null", "{}", "[]":
		return "", nil
	}
	return body, nil
}
