package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/digest-merchant-sdk/internal/domain"
)

// Package storage persists created checkouts locally.

// Store keeps checkout records for later lookup.
type Store interface {
	Close() error
	SaveCheckout(rec domain.Checkout) error
	Checkout(id string) (domain.Checkout, bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RecordTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRecordTTL       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RecordTTL <= 0 {
		opts.RecordTTL = defaultRecordTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                  { return nil }
func (noopStore) SaveCheckout(domain.Checkout) error            { return nil }
func (noopStore) Checkout(string) (domain.Checkout, bool, error) { return domain.Checkout{}, false, nil }
