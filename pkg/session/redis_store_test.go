package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snkrs-app/snkrs/pkg/session"
)

func setupRedisStore(t *testing.T, opts ...session.StoreOption) (*session.RedisStore, *miniredis.Miniredis, *fixedClock) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := newClock()
	opts = append([]session.StoreOption{session.WithStoreClock(clock.Now)}, opts...)
	return session.NewRedisStore(client, opts...), mr, clock
}

func TestRedisStore_Contract(t *testing.T) {
	store, mr, clock := setupRedisStore(t)
	testStoreContract(t, store, clock, mr.FastForward)
}

func TestRedisStore_Keys(t *testing.T) {
	ctx := context.Background()

	t.Run("default prefix and two week ttl", func(t *testing.T) {
		store, mr, _ := setupRedisStore(t)

		id, err := store.CreateData(ctx, samplePayload(), nil)
		require.NoError(t, err)

		assert.True(t, mr.Exists("snkrs:"+id))
		assert.Equal(t, 14*24*time.Hour, mr.TTL("snkrs:"+id))
	})

	t.Run("custom prefix", func(t *testing.T) {
		store, mr, _ := setupRedisStore(t, session.WithKeyPrefix("test:"))

		id, err := store.CreateData(ctx, samplePayload(), nil)
		require.NoError(t, err)
		assert.True(t, mr.Exists("test:"+id))
		assert.False(t, mr.Exists("snkrs:"+id))
	})

	t.Run("explicit expiry sets ttl", func(t *testing.T) {
		store, mr, clock := setupRedisStore(t)

		exp := clock.Now().Add(90 * time.Minute)
		id, err := store.CreateData(ctx, samplePayload(), &exp)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, mr.TTL("snkrs:"+id))
	})

	t.Run("sub-second ttl keeps millisecond precision", func(t *testing.T) {
		store, mr, clock := setupRedisStore(t)

		exp := clock.Now().Add(1500 * time.Millisecond)
		id, err := store.CreateData(ctx, samplePayload(), &exp)
		require.NoError(t, err)
		assert.Equal(t, 1500*time.Millisecond, mr.TTL("snkrs:"+id))
	})

	t.Run("ttl under a millisecond is not written", func(t *testing.T) {
		store, mr, clock := setupRedisStore(t)

		exp := clock.Now().Add(500 * time.Microsecond)
		id, err := store.CreateData(ctx, samplePayload(), &exp)
		require.NoError(t, err)
		assert.False(t, mr.Exists("snkrs:"+id))
	})

	t.Run("update refreshes ttl", func(t *testing.T) {
		store, mr, _ := setupRedisStore(t)

		id, err := store.CreateData(ctx, samplePayload(), nil)
		require.NoError(t, err)

		mr.FastForward(7 * 24 * time.Hour)
		assert.Equal(t, 7*24*time.Hour, mr.TTL("snkrs:"+id))

		_, err = store.UpdateData(ctx, id, samplePayload(), nil)
		require.NoError(t, err)
		assert.Equal(t, 14*24*time.Hour, mr.TTL("snkrs:"+id))
	})
}

func TestRedisStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed stored payload", func(t *testing.T) {
		store, mr, _ := setupRedisStore(t)

		id := session.NewID()
		require.NoError(t, mr.Set("snkrs:"+id, "{not json"))

		got, err := store.ReadData(ctx, id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, session.ErrMalformedPayload)
	})

	t.Run("invalid id reads as absent", func(t *testing.T) {
		store, _, _ := setupRedisStore(t)

		got, err := store.ReadData(ctx, "../../etc")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalid id cannot be updated", func(t *testing.T) {
		store, _, _ := setupRedisStore(t)

		_, err := store.UpdateData(ctx, "nope", samplePayload(), nil)
		assert.ErrorIs(t, err, session.ErrInvalidID)
	})

	t.Run("backend unavailable", func(t *testing.T) {
		store, mr, _ := setupRedisStore(t)
		id, err := store.CreateData(ctx, samplePayload(), nil)
		require.NoError(t, err)

		mr.SetError("ERR backend down")
		t.Cleanup(func() { mr.SetError("") })

		_, err = store.CreateData(ctx, samplePayload(), nil)
		assert.ErrorIs(t, err, session.ErrStoreUnavailable)

		_, err = store.ReadData(ctx, id)
		assert.ErrorIs(t, err, session.ErrStoreUnavailable)

		_, err = store.UpdateData(ctx, id, samplePayload(), nil)
		assert.ErrorIs(t, err, session.ErrStoreUnavailable)

		err = store.DeleteData(ctx, id)
		assert.ErrorIs(t, err, session.ErrStoreUnavailable)
	})
}
