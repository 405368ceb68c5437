package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snkrs-app/snkrs/pkg/environment"
	"github.com/snkrs-app/snkrs/pkg/session"
)

func TestMiddleware(t *testing.T) {
	clock := newClock()
	storage := newTestStorage(t, session.NewCookieStore(session.WithStoreClock(clock.Now)), environment.Development, clock)

	handler := storage.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if ok {
			w.Header().Set("X-Session-New", "false")
			if sess.IsNew() {
				w.Header().Set("X-Session-New", "true")
			}
			w.Header().Set("X-User-ID", sess.UserID())
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("empty session without cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Header().Get("X-Session-New"))
	})

	t.Run("loads committed session", func(t *testing.T) {
		sess := session.NewSession()
		sess.SetUserID("u-1")
		header, err := storage.Commit(context.Background(), sess)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", requestHeader(t, header))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "false", w.Header().Get("X-Session-New"))
		assert.Equal(t, "u-1", w.Header().Get("X-User-ID"))
	})
}

func TestMiddleware_BackendError(t *testing.T) {
	clock := newClock()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	storage := newTestStorage(t, session.NewRedisStore(client, session.WithStoreClock(clock.Now)), environment.Production, clock)

	header, err := storage.Commit(context.Background(), session.NewSession())
	require.NoError(t, err)
	mr.SetError("ERR backend down")

	called := false
	handler := storage.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", requestHeader(t, header))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, called)
}

func TestRequireAuth(t *testing.T) {
	clock := newClock()
	storage := newTestStorage(t, session.NewCookieStore(session.WithStoreClock(clock.Now)), environment.Development, clock)

	protected := storage.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.MustFromContext(r.Context())
		w.Header().Set("X-User-ID", sess.UserID())
		w.WriteHeader(http.StatusOK)
	}))

	commit := func(userID string) string {
		sess := session.NewSession()
		sess.SetUserID(userID)
		header, err := storage.Commit(context.Background(), sess)
		require.NoError(t, err)
		return requestHeader(t, header)
	}

	t.Run("allows authenticated session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Cookie", commit("u-9"))
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-9", w.Header().Get("X-User-ID"))
	})

	t.Run("blocks anonymous session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Cookie", commit(""))
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("blocks no session", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("uses session already in context", func(t *testing.T) {
		sess := session.NewSession()
		sess.SetUserID("ctx-user")

		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r = r.WithContext(session.WithSession(r.Context(), sess))
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ctx-user", w.Header().Get("X-User-ID"))
	})
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, ok := session.FromContext(ctx)
	assert.False(t, ok)
	_, ok = session.UserIDFromContext(ctx)
	assert.False(t, ok)
	assert.Panics(t, func() { session.MustFromContext(ctx) })

	sess := session.NewSession()
	ctx = session.WithSession(ctx, sess)
	_, ok = session.UserIDFromContext(ctx)
	assert.False(t, ok, "anonymous")

	sess.SetUserID("u-3")
	id, ok := session.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-3", id)
	assert.Same(t, sess, session.MustFromContext(ctx))
}
