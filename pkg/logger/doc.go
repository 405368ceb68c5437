// Package logger builds the process-wide *slog.Logger.
//
// New assembles a text or JSON slog.Handler from Option values and wraps it in
// a decorator that runs ContextExtractor callbacks on every record, so values
// carried in context.Context (request id, environment) show up in the output
// without callers passing them explicitly.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "snkrs"),
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	    logger.WithContextExtractors(environment.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// Attribute helpers (Error, Component, Backend, UserID, Duration) keep key
// names consistent across packages. Error and UserID return an empty
// slog.Attr for nil input, so they can be passed unconditionally.
package logger
