package app

import (
	"fmt"
	"strings"

	"github.com/samvad-hq/digest-merchant-sdk/internal/config"
	"github.com/samvad-hq/digest-merchant-sdk/internal/logger"
	"github.com/samvad-hq/digest-merchant-sdk/pkg/merchant"
)

// NewMerchantClient builds an SDK client from config. A host given as
// "scheme://host" also overrides the scheme, which allows plain-http test servers.
func NewMerchantClient(cfg *config.Config, log logger.Logger, opts ...merchant.Option) (*merchant.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	svc, err := merchant.ServiceByName(cfg.Service)
	if err != nil {
		return nil, err
	}
	if host := strings.TrimSpace(cfg.Host); host != "" {
		if scheme, rest, ok := strings.Cut(host, "://"); ok {
			svc.Scheme = scheme
			host = rest
		}
		svc.Host = host
	}
	if cfg.BasePath != "" {
		svc.BasePath = cfg.BasePath
	}

	base := []merchant.Option{
		merchant.WithService(svc),
		merchant.WithTimeout(cfg.HTTPTimeout),
		merchant.WithLogFile(cfg.RequestLogFile),
		merchant.WithLogger(log),
	}
	client := merchant.NewClient(cfg.APIKey, cfg.APISecret, append(base, opts...)...)

	log.InfoObj("merchant client initialized", "merchant_client", map[string]any{
		"service":         client.Service().Name,
		"base_url":        client.Service().BaseURL(),
		"request_logging": client.LoggingEnabled(),
	})
	return client, nil
}
