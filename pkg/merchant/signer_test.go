package merchant

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceHMAC(secret, message string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

func TestCanonicalString_Order(t *testing.T) {
	got := CanonicalString("/customer", 1700000000, http.MethodPost, `{"email":"a@b.com"}`)
	assert.Equal(t, `/customer1700000000POST{"email":"a@b.com"}`, got)
}

func TestBuildAuthHeaders_KnownVector(t *testing.T) {
	creds := Credentials{Key: "K1", Secret: "S1"}
	body, err := EncodeBody(http.MethodPost, map[string]string{"email": "a@b.com"})
	require.NoError(t, err)
	require.Equal(t, `{"email":"a@b.com"}`, body)

	h := BuildAuthHeaders(creds, "/customer", http.MethodPost, 1700000000, body)

	assert.Equal(t, "K1", h.Key)
	assert.Equal(t, int64(1700000000), h.Timestamp)
	assert.Equal(t, referenceHMAC("S1", `/customer1700000000POST{"email":"a@b.com"}`), h.Signature)
	assert.Len(t, h.Signature, 64)
}

func TestSign_Deterministic(t *testing.T) {
	msg := CanonicalString("/wallet", 1700000123, http.MethodGet, "")
	first := Sign("secret", msg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Sign("secret", msg))
	}
	assert.NotEqual(t, first, Sign("other-secret", msg))
}

func TestEncodeBody_EmptyPayloadsAreNoBody(t *testing.T) {
	payloads := map[string]any{
		"nil":         nil,
		"empty map":   map[string]any{},
		"empty slice": []string{},
		"nil map":     map[string]any(nil),
	}
	for name, p := range payloads {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			body, err := EncodeBody(method, p)
			require.NoError(t, err, name)
			assert.Equal(t, "", body, "%s %s", method, name)
		}
	}

	a := BuildAuthHeaders(Credentials{Key: "k", Secret: "s"}, "/x", http.MethodDelete, 42, "")
	b := BuildAuthHeaders(Credentials{Key: "k", Secret: "s"}, "/x", http.MethodDelete, 42, "")
	assert.Equal(t, a.Signature, b.Signature)
	assert.Equal(t, referenceHMAC("s", "/x42DELETE"), a.Signature)
}

func TestEncodeBody_GetNeverHasBody(t *testing.T) {
	body, err := EncodeBody(http.MethodGet, map[string]string{"assetCode": "USD"})
	require.NoError(t, err)
	assert.Equal(t, "", body)
}

func TestEncodeBody_CompactStableJSON(t *testing.T) {
	type item struct {
		Zeta  string `json:"zeta"`
		Alpha string `json:"alpha"`
	}

	body, err := EncodeBody(http.MethodPost, item{Zeta: "<z>", Alpha: "a&b"})
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"<z>","alpha":"a&b"}`, body)

	body, err = EncodeBody(http.MethodPut, map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, body)
}

func TestEncodeBody_Unencodable(t *testing.T) {
	_, err := EncodeBody(http.MethodPost, map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestAuthHeaders_MapAndLines(t *testing.T) {
	h := AuthHeaders{Key: "K1", Signature: "abc", Timestamp: 1700000000}

	m := h.Map()
	assert.Equal(t, "K1", m[HeaderKey])
	assert.Equal(t, "abc", m[HeaderSignature])
	assert.Equal(t, "1700000000", m[HeaderTimestamp])

	assert.Equal(t, []string{
		"X-Digest-Key: K1",
		"X-Digest-Signature: abc",
		"X-Digest-Timestamp: 1700000000",
	}, h.Lines())
}

func TestParams_EncodeKeepsOrder(t *testing.T) {
	p := Params{}.Add("zeta", "1").Add("assetCode", "USD").Add("q", "a b/c")
	assert.Equal(t, "zeta=1&assetCode=USD&q=a+b%2Fc", p.Encode())

	raw, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","assetCode":"USD","q":"a b/c"}`, string(raw))

	assert.Equal(t, "", Params(nil).Encode())
}
