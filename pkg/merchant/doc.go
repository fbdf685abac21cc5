// Package merchant provides a client for digest-signed merchant payment APIs
// (COINQVEST Merchant API, Whalestack Payments API).
//
// # Authentication
//
// Every request carries three headers:
//   - X-Digest-Key: the API key
//   - X-Digest-Signature: hex HMAC-SHA256, keyed by the API secret, of
//     path + timestamp + method + body
//   - X-Digest-Timestamp: the timestamp that was signed
//
// The timestamp is taken from the server's GET /time endpoint and falls back to
// the local clock when that call fails. Body is the exact compact JSON sent with
// POST, PUT and DELETE requests; GET requests and empty payloads sign an empty body.
//
// # Basic Usage
//
//	client := merchant.NewClient("YOUR-API-KEY", "YOUR-API-SECRET",
//	    merchant.WithLogFile("/var/log/merchant.log"),
//	)
//
//	resp, err := client.Get(ctx, "/wallet", merchant.Params{}.Add("assetCode", "USD"))
//
//	resp, err = client.Post(ctx, "/customer", map[string]any{
//	    "customer": map[string]any{"email": "john@doe.com"},
//	})
//
// Use WithService(merchant.Whalestack) to talk to the Whalestack API instead.
//
// # Error Handling
//
// Calls return an error only when the payload cannot be encoded. Network failures
// and API errors are reported through the Response:
//
//	resp, err := client.Get(ctx, "/auth-test", nil)
//	if err != nil {
//	    // payload encoding failed, nothing was sent
//	}
//	if resp.HasTransportError() {
//	    // DNS, connect, TLS or timeout failure
//	}
//	if resp.StatusCode != http.StatusOK {
//	    // API-level failure, details in resp.Body
//	}
package merchant
