package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// MaxCookiePayload caps the encoded payload so the signed cookie stays under
// the 4096 byte limit browsers enforce per cookie.
const MaxCookiePayload = 2800

type cookieEnvelope struct {
	Expires int64   `json:"exp"`
	Data    Payload `json:"data"`
}

// CookieStore keeps the whole payload in the cookie value. The value is
// base64url JSON carrying its own expiry; integrity comes from the cookie
// codec that signs it.
type CookieStore struct {
	cfg storeConfig
}

// NewCookieStore creates a self-contained cookie store.
func NewCookieStore(opts ...StoreOption) *CookieStore {
	return &CookieStore{cfg: newStoreConfig(opts)}
}

// CreateData serializes p with its expiry.
func (s *CookieStore) CreateData(ctx context.Context, p Payload, expires *time.Time) (string, error) {
	at, _ := ResolveExpiry(s.cfg.now(), expires)

	data, err := json.Marshal(cookieEnvelope{Expires: at.UnixMilli(), Data: p})
	if err != nil {
		return "", errors.Join(ErrMalformedPayload, err)
	}

	value := base64.RawURLEncoding.EncodeToString(data)
	if len(value) > MaxCookiePayload {
		return "", ErrPayloadTooLarge
	}
	return value, nil
}

// ReadData decodes a value produced by CreateData. Malformed or expired
// values read as absent.
func (s *CookieStore) ReadData(ctx context.Context, id string) (*Payload, error) {
	if id == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return nil, nil
	}

	var env cookieEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil
	}

	if !s.cfg.now().Before(time.UnixMilli(env.Expires)) {
		return nil, nil
	}

	return &env.Data, nil
}

// UpdateData re-serializes p; the previous value is irrelevant.
func (s *CookieStore) UpdateData(ctx context.Context, id string, p Payload, expires *time.Time) (string, error) {
	return s.CreateData(ctx, p, expires)
}

// DeleteData is a no-op: there is nothing server-side. Clearing the cookie
// is what ends the session.
func (s *CookieStore) DeleteData(ctx context.Context, id string) error {
	return nil
}
