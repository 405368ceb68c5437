package session

import (
	"context"
	"time"
)

// Store persists session payloads. The string it hands back is what goes
// into the cookie: an opaque id for keyed stores, or the serialized payload
// for CookieStore.
type Store interface {
	// CreateData persists p and returns the value identifying it.
	CreateData(ctx context.Context, p Payload, expires *time.Time) (string, error)

	// ReadData returns the payload for id, or nil with a nil error when the
	// session does not exist or has expired.
	ReadData(ctx context.Context, id string) (*Payload, error)

	// UpdateData overwrites the payload for id with a refreshed expiry and
	// returns the value to send back to the client.
	UpdateData(ctx context.Context, id string, p Payload, expires *time.Time) (string, error)

	// DeleteData removes id. Deleting a missing id is not an error.
	DeleteData(ctx context.Context, id string) error
}

type storeConfig struct {
	prefix string
	now    func() time.Time
}

func defaultStoreConfig() storeConfig {
	return storeConfig{prefix: DefaultKeyPrefix, now: time.Now}
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

// DefaultKeyPrefix namespaces keys in shared key-value stores.
const DefaultKeyPrefix = "snkrs:"

// WithKeyPrefix sets the key namespace used by RedisStore and MemoryStore.
func WithKeyPrefix(prefix string) StoreOption {
	return func(c *storeConfig) { c.prefix = prefix }
}

// WithStoreClock overrides the wall clock used to compute expiries.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func newStoreConfig(opts []StoreOption) storeConfig {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
