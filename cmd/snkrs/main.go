package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/snkrs-app/snkrs/modules/account"
	"github.com/snkrs-app/snkrs/pkg/config"
	"github.com/snkrs-app/snkrs/pkg/environment"
	"github.com/snkrs-app/snkrs/pkg/httpserver"
	"github.com/snkrs-app/snkrs/pkg/logger"
	"github.com/snkrs-app/snkrs/pkg/pg"
	"github.com/snkrs-app/snkrs/pkg/redis"
	"github.com/snkrs-app/snkrs/pkg/session"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"snkrs"`
}

type configs struct {
	app     appConfig
	session session.Config
	redis   redis.Config
	pg      pg.Config
	http    httpserver.Config
	account account.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "snkrs:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg configs
	for _, load := range []func() error{
		func() error { return config.Load(&cfg.app) },
		func() error { return config.Load(&cfg.session) },
		func() error { return config.Load(&cfg.redis) },
		func() error { return config.Load(&cfg.pg) },
		func() error { return config.Load(&cfg.http) },
		func() error { return config.Load(&cfg.account) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	env := environment.Parse(cfg.app.Env)
	log := logger.New(
		logger.WithEnvironment(env, cfg.app.Name),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
		logger.WithContextExtractors(environment.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := cfg.session.ResolveBackend(env)
	if err != nil {
		return err
	}
	codec, err := cfg.session.NewCodec(env)
	if err != nil {
		return fmt.Errorf("session cookie: %w", err)
	}

	sb, err := openSessionBackend(ctx, backend, cfg, log)
	if err != nil {
		return err
	}

	storage, err := session.NewStorage(sb.store, codec,
		session.WithLogger(log),
		session.WithBackendName(backend.String()),
	)
	if err != nil {
		sb.close(ctx, log)
		return err
	}

	authn, err := account.NewStaticAuthenticator(cfg.account.Users)
	if err != nil {
		sb.close(ctx, log)
		return fmt.Errorf("account users: %w", err)
	}

	log.InfoContext(ctx, "session storage ready",
		logger.Backend(backend.String()),
		slog.Bool("secure_cookie", codec.Defaults().Secure),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(environment.Middleware(env))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, cfg.http.ReadinessTimeout,
		map[string]string{"session_backend": backend.String()},
		sb.probes...,
	))
	r.Mount("/account", account.Router(storage, authn, cfg.account, log))

	opts := []httpserver.Option{httpserver.WithLogger(log)}
	for _, h := range sb.closers {
		opts = append(opts, httpserver.WithStopHook(h))
	}

	return httpserver.NewFromConfig(cfg.http, opts...).Run(ctx, r)
}
