package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps payloads in Redis under prefix+id with a TTL. Redis is the
// only authority on expiry; the payload itself carries none.
type RedisStore struct {
	client redis.UniversalClient
	cfg    storeConfig
}

// NewRedisStore creates a store on top of an already connected client.
func NewRedisStore(client redis.UniversalClient, opts ...StoreOption) *RedisStore {
	return &RedisStore{client: client, cfg: newStoreConfig(opts)}
}

func (s *RedisStore) key(id string) string {
	return s.cfg.prefix + id
}

// CreateData writes p under a fresh id.
func (s *RedisStore) CreateData(ctx context.Context, p Payload, expires *time.Time) (string, error) {
	id := NewID()
	if err := s.write(ctx, id, p, expires); err != nil {
		return "", err
	}
	return id, nil
}

// ReadData returns nil, nil for unknown, expired or malformed ids.
func (s *RedisStore) ReadData(ctx context.Context, id string) (*Payload, error) {
	if !ValidID(id) {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return decodePayload(data)
}

// UpdateData overwrites the record and resets its TTL. An expiry at or
// before now deletes the record instead.
func (s *RedisStore) UpdateData(ctx context.Context, id string, p Payload, expires *time.Time) (string, error) {
	if !ValidID(id) {
		return "", ErrInvalidID
	}
	if err := s.write(ctx, id, p, expires); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteData removes the record. Missing keys are ignored.
func (s *RedisStore) DeleteData(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, id string, p Payload, expires *time.Time) error {
	_, ttl := ResolveExpiry(s.cfg.now(), expires)
	// Redis takes millisecond precision at best; anything that rounds to
	// zero would otherwise be stored without expiry.
	ttl = ttl.Truncate(time.Millisecond)
	if ttl <= 0 {
		return s.DeleteData(ctx, id)
	}

	data, err := encodePayload(p)
	if err != nil {
		return errors.Join(ErrMalformedPayload, err)
	}

	if err := s.client.Set(ctx, s.key(id), data, ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
