package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/digest-merchant-sdk/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const checkoutBucket = "checkouts"

// storedCheckout is the bucket value: the record plus its expiry.
type storedCheckout struct {
	Checkout  domain.Checkout `json:"checkout"`
	ExpiresAt int64           `json:"expires_at"`
}

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	recordTTL       time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(checkoutBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		recordTTL:       opts.RecordTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SaveCheckout stores rec under its checkout id, replacing any previous record.
func (b *boltStore) SaveCheckout(rec domain.Checkout) error {
	if b == nil || b.db == nil {
		return nil
	}
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return fmt.Errorf("checkout id is empty")
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	raw, err := json.Marshal(storedCheckout{Checkout: rec, ExpiresAt: now.Add(b.recordTTL).Unix()})
	if err != nil {
		return fmt.Errorf("encode checkout: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(checkoutBucket))
		if bucket == nil {
			return fmt.Errorf("checkout bucket missing")
		}
		return bucket.Put([]byte(id), raw)
	})
}

// Checkout looks up a stored, unexpired checkout record.
func (b *boltStore) Checkout(id string) (domain.Checkout, bool, error) {
	if b == nil || b.db == nil {
		return domain.Checkout{}, false, nil
	}

	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return domain.Checkout{}, false, err
	}

	var (
		rec   domain.Checkout
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(checkoutBucket))
		if bucket == nil {
			return fmt.Errorf("checkout bucket missing")
		}

		key := []byte(id)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		stored, ok := decodeStored(value)
		if !ok || !time.Unix(stored.ExpiresAt, 0).After(time.Now()) {
			return bucket.Delete(key)
		}

		rec = stored.Checkout
		found = true
		return nil
	})
	return rec, found, err
}

// maybeCleanupExpired removes expired records on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(checkoutBucket))
		if bucket == nil {
			return fmt.Errorf("checkout bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			stored, ok := decodeStored(v)
			if !ok || !time.Unix(stored.ExpiresAt, 0).After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func decodeStored(value []byte) (storedCheckout, bool) {
	var stored storedCheckout
	if err := json.Unmarshal(value, &stored); err != nil {
		return storedCheckout{}, false
	}
	if stored.ExpiresAt <= 0 {
		return storedCheckout{}, false
	}
	return stored, true
}
