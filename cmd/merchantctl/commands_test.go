package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/digest-merchant-sdk/internal/config"
	"github.com/samvad-hq/digest-merchant-sdk/internal/domain"
	"github.com/samvad-hq/digest-merchant-sdk/internal/logger"
	"github.com/samvad-hq/digest-merchant-sdk/internal/storage"
	"github.com/samvad-hq/digest-merchant-sdk/pkg/merchant"
)

func TestParseParamsKeepsOrder(t *testing.T) {
	params, err := parseParams([]string{"z=1", "a=two words", "empty="})
	if err != nil {
		t.Fatalf("parseParams: %v", err)
	}
	if got := params.Encode(); got != "z=1&a=two+words&empty=" {
		t.Fatalf("Encode = %q", got)
	}
	if _, err := parseParams([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for argument without '='")
	}
}

func TestParsePayload(t *testing.T) {
	payload, err := parsePayload(nil)
	if err != nil || payload != nil {
		t.Fatalf("no args should mean no body, got %v, %v", payload, err)
	}

	payload, err = parsePayload([]string{`{"b": 1, "a": 2}`})
	if err != nil {
		t.Fatalf("parsePayload inline: %v", err)
	}
	body, err := merchant.EncodeBody(http.MethodPost, payload)
	if err != nil || body != `{"b":1,"a":2}` {
		t.Fatalf("encoded body = %q, %v", body, err)
	}

	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, []byte("{\"id\":\"w1\"}\n"), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if _, err := parsePayload([]string{"@" + path}); err != nil {
		t.Fatalf("parsePayload file: %v", err)
	}

	if _, err := parsePayload([]string{"{broken"}); err == nil {
		t.Fatalf("expected invalid JSON error")
	}
	if _, err := parsePayload([]string{"{}", "{}"}); err == nil {
		t.Fatalf("expected error for extra arguments")
	}
}

func TestLoadOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.yaml")
	raw := `
customer:
  email: buyer@example.com
  firstname: Ada
charge:
  currency: USD
  line_items:
    - description: T-Shirt
      net_amount: "10.50"
      quantity: 2
  tax_items:
    - name: VAT
      percent: "0.19"
settlement_currency: EUR
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write order: %v", err)
	}

	order, err := loadOrder(path)
	if err != nil {
		t.Fatalf("loadOrder: %v", err)
	}
	if order.Customer.Email != "buyer@example.com" || order.SettlementCurrency != "EUR" {
		t.Fatalf("unexpected order %+v", order)
	}
	if len(order.Charge.LineItems) != 1 || order.Charge.LineItems[0].NetAmount.String() != "10.5" {
		t.Fatalf("unexpected line items %+v", order.Charge.LineItems)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("customer:\n  mail: x\n"), 0o644); err != nil {
		t.Fatalf("write order: %v", err)
	}
	if _, err := loadOrder(bad); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func newTestCommand(t *testing.T, host string) (*command, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return &command{
		cfg: &config.Config{
			Service:     "coinqvest",
			Host:        host,
			APIKey:      "K1",
			APISecret:   "S1",
			HTTPTimeout: 5 * time.Second,
			StorageType: "none",
		},
		log:    &logger.NopLogger{},
		out:    out,
		status: io.Discard,
	}, out
}

func TestDispatchPostPrintsEnvelope(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/time" {
			_, _ = w.Write([]byte(`{"time":1700000000}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"customerId":"cus_1"}`))
	}))
	defer srv.Close()

	cmd, out := newTestCommand(t, srv.URL)
	if err := cmd.dispatch(context.Background(), "post", []string{"/customer", `{"customer": {"email": "a@b.com"}}`}); err != nil {
		t.Fatalf("dispatch post: %v", err)
	}
	if gotBody != `{"customer":{"email":"a@b.com"}}` {
		t.Fatalf("server received %q", gotBody)
	}

	var resp merchant.Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("output is not an envelope: %v\n%s", err, out.String())
	}
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Body, "cus_1") {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestDispatchReportsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/time" {
			_, _ = w.Write([]byte(`{"time":1700000000}`))
			return
		}
		http.Error(w, `{"errors":["not found"]}`, http.StatusNotFound)
	}))
	defer srv.Close()

	cmd, out := newTestCommand(t, srv.URL)
	if err := cmd.dispatch(context.Background(), "get", []string{"/wallet", "assetCode=USD"}); err == nil {
		t.Fatalf("expected error for 404")
	}
	if !strings.Contains(out.String(), `"httpStatusCode": 404`) {
		t.Fatalf("envelope not printed: %s", out.String())
	}
}

func TestDispatchTimePrintsServerTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"time":1700000000}`))
	}))
	defer srv.Close()

	cmd, out := newTestCommand(t, srv.URL)
	if err := cmd.dispatch(context.Background(), "time", nil); err != nil {
		t.Fatalf("dispatch time: %v", err)
	}
	if strings.TrimSpace(out.String()) != "1700000000" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestDispatchLookup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "checkouts.db")
	store, err := storage.NewStore("bbolt", dbPath, storage.Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.SaveCheckout(domain.Checkout{ID: "co_1", URL: "https://pay.example/co_1"}); err != nil {
		t.Fatalf("SaveCheckout: %v", err)
	}
	store.Close()

	cmd, out := newTestCommand(t, "")
	cmd.cfg.StorageType = "bbolt"
	cmd.cfg.BBoltPath = dbPath

	if err := cmd.dispatch(context.Background(), "lookup", []string{"co_1"}); err != nil {
		t.Fatalf("dispatch lookup: %v", err)
	}
	if !strings.Contains(out.String(), "https://pay.example/co_1") {
		t.Fatalf("unexpected output %s", out.String())
	}
	if err := cmd.dispatch(context.Background(), "lookup", []string{"co_2"}); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	cmd, _ := newTestCommand(t, "")
	if err := cmd.dispatch(context.Background(), "refund", nil); err == nil {
		t.Fatalf("expected unknown command error")
	}
}
