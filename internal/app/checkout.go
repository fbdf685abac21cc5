package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/digest-merchant-sdk/internal/config"
	"github.com/samvad-hq/digest-merchant-sdk/internal/domain"
	"github.com/samvad-hq/digest-merchant-sdk/internal/logger"
	"github.com/samvad-hq/digest-merchant-sdk/internal/storage"
	"github.com/samvad-hq/digest-merchant-sdk/pkg/merchant"
	"github.com/samvad-hq/digest-merchant-sdk/pkg/publishers"
)

const (
	endpointAuthTest       = "/auth-test"
	endpointCustomer       = "/customer"
	endpointHostedCheckout = "/checkout/hosted"
)

// merchantAPI is the part of the SDK client the checkout flow drives.
type merchantAPI interface {
	Get(ctx context.Context, endpoint string, params merchant.Params) (merchant.Response, error)
	Post(ctx context.Context, endpoint string, payload any) (merchant.Response, error)
}

// CheckoutFlow creates a customer and a hosted checkout for an order, then
// stores and announces the result.
type CheckoutFlow struct {
	api     merchantAPI
	service string
	store   storage.Store
	fanout  *publishers.Fanout
	log     logger.Logger
	now     func() time.Time
}

// NewCheckoutFlow builds the workflow runtime from config: SDK client, checkout
// storage and, when a publishers file is configured, the event fanout.
func NewCheckoutFlow(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...merchant.Option) (*CheckoutFlow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := NewMerchantClient(cfg, log, opts...)
	if err != nil {
		return nil, fmt.Errorf("init merchant client: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return newCheckoutFlow(client, client.Service().Name, store, fanout, log), nil
}

func newCheckoutFlow(api merchantAPI, service string, store storage.Store, fanout *publishers.Fanout, log logger.Logger) *CheckoutFlow {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	return &CheckoutFlow{
		api:     api,
		service: service,
		store:   store,
		fanout:  fanout,
		log:     log,
		now:     time.Now,
	}
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		log.DebugObj("no publishers file configured; checkout events disabled", "publishers_file", "")
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

type customerResponse struct {
	CustomerID string `json:"customerId"`
}

type hostedCheckoutResponse struct {
	CheckoutID string `json:"checkoutId"`
	URL        string `json:"url"`
}

// Run executes the checkout workflow for order. Once the API has created the
// checkout it is returned even if storing it fails; publish failures are only logged.
func (f *CheckoutFlow) Run(ctx context.Context, order domain.Order) (domain.Checkout, error) {
	if f == nil || f.api == nil {
		return domain.Checkout{}, fmt.Errorf("checkout flow is not initialized")
	}
	if strings.TrimSpace(order.Customer.Email) == "" {
		return domain.Checkout{}, fmt.Errorf("order customer email is required")
	}
	if len(order.Charge.LineItems) == 0 {
		return domain.Checkout{}, fmt.Errorf("order charge needs at least one line item")
	}

	start := time.Now()
	if err := f.AuthTest(ctx); err != nil {
		return domain.Checkout{}, err
	}

	var customer customerResponse
	if err := f.post(ctx, endpointCustomer, domain.CustomerRequest{Customer: order.Customer}, &customer); err != nil {
		return domain.Checkout{}, err
	}
	if customer.CustomerID == "" {
		return domain.Checkout{}, fmt.Errorf("POST %s: response has no customerId", endpointCustomer)
	}
	f.log.DebugObj("customer created", "customer_id", customer.CustomerID)

	charge := order.Charge
	charge.CustomerID = customer.CustomerID
	var hosted hostedCheckoutResponse
	req := domain.HostedCheckoutRequest{Charge: charge, SettlementCurrency: order.SettlementCurrency}
	if err := f.post(ctx, endpointHostedCheckout, req, &hosted); err != nil {
		return domain.Checkout{}, err
	}
	if hosted.CheckoutID == "" || hosted.URL == "" {
		return domain.Checkout{}, fmt.Errorf("POST %s: response has no checkoutId or url", endpointHostedCheckout)
	}

	checkout := domain.Checkout{
		ID:         hosted.CheckoutID,
		URL:        hosted.URL,
		CustomerID: customer.CustomerID,
		Service:    f.service,
		CreatedAt:  f.now().UTC(),
	}

	var storeErr error
	if err := f.store.SaveCheckout(checkout); err != nil {
		storeErr = fmt.Errorf("store checkout %s: %w", checkout.ID, err)
		f.log.ErrorObj("checkout store failed", "error", err.Error())
	}

	f.publish(ctx, checkout)

	f.log.InfoObj("checkout created", "checkout_meta", map[string]any{
		"checkout_id": checkout.ID,
		"customer_id": checkout.CustomerID,
		"service":     checkout.Service,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return checkout, storeErr
}

// AuthTest verifies the configured credentials.
func (f *CheckoutFlow) AuthTest(ctx context.Context) error {
	resp, err := f.api.Get(ctx, endpointAuthTest, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpointAuthTest, err)
	}
	if !resp.OK() {
		return newAPIError(http.MethodGet, endpointAuthTest, resp)
	}
	return nil
}

// Lookup returns a previously stored checkout.
func (f *CheckoutFlow) Lookup(id string) (domain.Checkout, bool, error) {
	return f.store.Checkout(strings.TrimSpace(id))
}

func (f *CheckoutFlow) post(ctx context.Context, endpoint string, payload, out any) error {
	resp, err := f.api.Post(ctx, endpoint, payload)
	if err != nil {
		return fmt.Errorf("POST %s: %w", endpoint, err)
	}
	if !resp.OK() {
		return newAPIError(http.MethodPost, endpoint, resp)
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("POST %s: %w", endpoint, err)
	}
	return nil
}

func (f *CheckoutFlow) publish(ctx context.Context, checkout domain.Checkout) {
	if f.fanout.Size() == 0 {
		return
	}
	evt := publishers.NewCheckoutEvent(checkout)
	delivered, err := f.fanout.Publish(ctx, evt)
	if err != nil {
		var joined interface{ Unwrap() []error }
		failures := 1
		if errors.As(err, &joined) {
			failures = len(joined.Unwrap())
		}
		f.log.WarnObj("checkout event publish failed", "publish_meta", map[string]any{
			"event_id":  evt.ID,
			"delivered": delivered,
			"failed":    failures,
			"error":     err.Error(),
		})
		return
	}
	f.log.DebugObj("checkout event published", "publish_meta", map[string]any{
		"event_id":  evt.ID,
		"delivered": delivered,
	})
}

// Close releases storage and publisher resources.
func (f *CheckoutFlow) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	if f.store != nil {
		if err := f.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := f.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
