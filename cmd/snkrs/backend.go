package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/snkrs-app/snkrs/db"
	"github.com/snkrs-app/snkrs/pkg/httpserver"
	"github.com/snkrs-app/snkrs/pkg/logger"
	"github.com/snkrs-app/snkrs/pkg/pg"
	"github.com/snkrs-app/snkrs/pkg/redis"
	"github.com/snkrs-app/snkrs/pkg/session"
)

// sessionBackend is the store selected at start-up plus what it needs to be
// probed and closed.
type sessionBackend struct {
	store   session.Store
	probes  []httpserver.Probe
	closers []httpserver.Hook
}

func openSessionBackend(ctx context.Context, backend session.Backend, cfg configs, log *slog.Logger) (*sessionBackend, error) {
	storeOpts := []session.StoreOption{session.WithKeyPrefix(cfg.session.KeyPrefix)}

	switch backend {
	case session.BackendCookie:
		return &sessionBackend{store: session.NewCookieStore(storeOpts...)}, nil

	case session.BackendMemory:
		store := session.NewMemoryStore(cfg.session.CleanupInterval, storeOpts...)
		return &sessionBackend{
			store:   store,
			closers: []httpserver.Hook{func(context.Context) error { return store.Close() }},
		}, nil

	case session.BackendRedis:
		client, err := redis.Connect(ctx, cfg.redis)
		if err != nil {
			return nil, fmt.Errorf("session redis: %w", err)
		}
		return &sessionBackend{
			store:   session.NewRedisStore(client, storeOpts...),
			probes:  []httpserver.Probe{{Name: "redis", Check: redis.Healthcheck(client)}},
			closers: []httpserver.Hook{func(context.Context) error { return client.Close() }},
		}, nil

	case session.BackendPostgres:
		pool, err := pg.Connect(ctx, cfg.pg)
		if err != nil {
			return nil, fmt.Errorf("session postgres: %w", err)
		}
		if err := pg.Migrate(ctx, pool, cfg.pg, db.Migrations, log); err != nil {
			pool.Close()
			return nil, err
		}

		store := session.NewPostgresStore(pool, storeOpts...)
		cleanupCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		go cleanupExpired(cleanupCtx, store, cfg.session.CleanupInterval, log)

		return &sessionBackend{
			store:  store,
			probes: []httpserver.Probe{{Name: "postgres", Check: pg.Healthcheck(pool)}},
			closers: []httpserver.Hook{func(context.Context) error {
				cancel()
				pool.Close()
				return nil
			}},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", session.ErrUnknownBackend, backend)
	}
}

// close runs the closers in reverse order and logs their failures. It is used
// when start-up fails after the backend was opened.
func (b *sessionBackend) close(ctx context.Context, log *slog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			log.ErrorContext(ctx, "failed to close session backend", logger.Error(err))
		}
	}
}

type expiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// cleanupExpired purges expired session rows every interval until ctx is done.
func cleanupExpired(ctx context.Context, store expiredDeleter, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				log.ErrorContext(ctx, "failed to delete expired sessions", logger.Error(err))
				continue
			}
			if n > 0 {
				log.DebugContext(ctx, "deleted expired sessions", slog.Int64("count", n))
			}
		}
	}
}
