// Package httpserver runs the snkrs HTTP handler with graceful shutdown and
// exposes liveness/readiness handlers.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// shuts the server down within the configured deadline and runs the stop
// hooks, which is where long-lived clients (session stores, pools) are
// closed:
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(context.Context) error { return rdb.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil { ... }
//
// Errors from Run are wrapped with ErrStart, errors from Shutdown with
// ErrShutdown.
package httpserver
