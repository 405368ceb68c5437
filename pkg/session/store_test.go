package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snkrs-app/snkrs/pkg/session"
)

// fixedClock is a settable clock shared by stores and storages in tests.
type fixedClock struct {
	now time.Time
}

func newClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func samplePayload() session.Payload {
	return session.Payload{
		UserID: "user-1",
		Flash:  map[string]any{"notice": "welcome"},
		Values: map[string]any{"theme": "dark", "pairs": float64(12)},
	}
}

// testStoreContract checks the behaviour every Store must share. advance
// moves time forward for the store under test.
func testStoreContract(t *testing.T, store session.Store, clock *fixedClock, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		p := samplePayload()
		id, err := store.CreateData(ctx, p, nil)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := store.ReadData(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, p.UserID, got.UserID)
		assert.Equal(t, p.Flash, got.Flash)
		assert.Equal(t, p.Values, got.Values)
		assert.Equal(t, session.PayloadVersion, got.Version)
	})

	t.Run("unknown id is absent", func(t *testing.T) {
		got, err := store.ReadData(ctx, session.NewID())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("update is last write wins", func(t *testing.T) {
		id, err := store.CreateData(ctx, session.Payload{}, nil)
		require.NoError(t, err)

		id, err = store.UpdateData(ctx, id, session.Payload{Flash: map[string]any{"flash": "a"}}, nil)
		require.NoError(t, err)
		id, err = store.UpdateData(ctx, id, session.Payload{Flash: map[string]any{"flash": "b"}}, nil)
		require.NoError(t, err)

		got, err := store.ReadData(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, map[string]any{"flash": "b"}, got.Flash)
	})

	t.Run("past expiry reads as absent", func(t *testing.T) {
		id, err := store.CreateData(ctx, samplePayload(), nil)
		require.NoError(t, err)

		past := clock.Now().Add(-time.Second)
		id, err = store.UpdateData(ctx, id, samplePayload(), &past)
		require.NoError(t, err)

		got, err := store.ReadData(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		exp := clock.Now().Add(10 * time.Second)
		id, err := store.CreateData(ctx, samplePayload(), &exp)
		require.NoError(t, err)

		got, err := store.ReadData(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)

		advance(11 * time.Second)

		got, err = store.ReadData(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete then read is absent", func(t *testing.T) {
		id, err := store.CreateData(ctx, samplePayload(), nil)
		require.NoError(t, err)
		require.NoError(t, store.DeleteData(ctx, id))
		require.NoError(t, store.DeleteData(ctx, id), "deleting twice is fine")

		got, err := store.ReadData(ctx, id)
		require.NoError(t, err)
		if _, ok := store.(*session.CookieStore); ok {
			// Nothing server-side to delete; the facade clears the cookie.
			assert.NotNil(t, got)
			return
		}
		assert.Nil(t, got)
	})
}
