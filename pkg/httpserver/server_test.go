package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snkrs-app/snkrs/pkg/httpserver"
	"github.com/snkrs-app/snkrs/pkg/logger"
)

func startServer(t *testing.T, srv *httpserver.Server, ctx context.Context, h http.Handler) <-chan error {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 5*time.Millisecond)
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err, "run")
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestRunAndShutdown(t *testing.T) {
	t.Parallel()

	var stopped atomic.Int32
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(100*time.Millisecond),
		httpserver.WithStopHook(func(context.Context) error { stopped.Add(1); return nil }),
		httpserver.WithStopHook(func(context.Context) error { return errors.New("close failed") }),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := startServer(t, srv, ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	resp, err := http.Get("http://" + srv.Addr().String())
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	waitDone(t, done)

	require.NoError(t, srv.Shutdown(context.Background()), "second shutdown")
	assert.Equal(t, int32(1), stopped.Load(), "stop hooks run once, failures logged only")
}

func TestStartErrors(t *testing.T) {
	t.Parallel()

	t.Run("bad address", func(t *testing.T) {
		srv := httpserver.New(httpserver.WithAddr(":invalid"))
		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("start hook fails", func(t *testing.T) {
		boom := errors.New("boom")
		srv := httpserver.New(
			httpserver.WithAddr("127.0.0.1:0"),
			httpserver.WithStartHook(func(context.Context) error { return boom }),
		)
		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("already running", func(t *testing.T) {
		srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(50*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		done := startServer(t, srv, ctx, http.NewServeMux())

		err := srv.Run(context.Background(), http.NewServeMux())
		assert.ErrorIs(t, err, httpserver.ErrStart)

		cancel()
		waitDone(t, done)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0", ShutdownTimeout: 50 * time.Millisecond},
		httpserver.WithLogger(logger.Discard()))
	ctx, cancel := context.WithCancel(context.Background())
	done := startServer(t, srv, ctx, nil)

	resp, err := http.Get("http://" + srv.Addr().String())
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	waitDone(t, done)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"addr", func() { httpserver.WithAddr("") }},
		{"read", func() { httpserver.WithReadTimeout(-time.Second) }},
		{"write", func() { httpserver.WithWriteTimeout(-time.Second) }},
		{"idle", func() { httpserver.WithIdleTimeout(-time.Second) }},
		{"shutdown", func() { httpserver.WithShutdownTimeout(-time.Second) }},
		{"start hook", func() { httpserver.WithStartHook(nil) }},
		{"stop hook", func() { httpserver.WithStopHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.fn)
		})
	}
	assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	t.Run("liveness", func(t *testing.T) {
		w := httptest.NewRecorder()
		httpserver.LivenessHandler()(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alive", decode(t, w)["status"])
	})

	t.Run("ready", func(t *testing.T) {
		h := httpserver.ReadinessHandler(logger.Discard(), time.Second,
			map[string]string{"session_backend": "redis"},
			httpserver.Probe{Name: "redis", Check: func(context.Context) error { return nil }},
		)
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, map[string]any{"redis": "ok"}, body["checks"])
		assert.Equal(t, map[string]any{"session_backend": "redis"}, body["info"])
	})

	t.Run("not ready", func(t *testing.T) {
		h := httpserver.ReadinessHandler(logger.Discard(), time.Second, nil,
			httpserver.Probe{Name: "redis", Check: func(context.Context) error { return errors.New("down") }},
			httpserver.Probe{Name: "postgres", Check: func(context.Context) error { return nil }},
		)
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := decode(t, w)
		assert.Equal(t, "not_ready", body["status"])
		assert.Equal(t, map[string]any{"redis": "error", "postgres": "ok"}, body["checks"])
	})

	t.Run("probe sees deadline", func(t *testing.T) {
		h := httpserver.ReadinessHandler(logger.Discard(), 10*time.Millisecond, nil,
			httpserver.Probe{Name: "slow", Check: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}},
		)
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
