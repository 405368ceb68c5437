// Package environment describes the deployment environment the process runs in
// and carries it through context.Context, HTTP requests and structured logs.
//
// The environment is decided once at start-up with Parse and never changes for
// the life of the process. Security-sensitive behaviour (for example the Secure
// attribute on session cookies, or which session backend is used) keys off
// Environment.IsProduction.
//
// # Usage
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//
//	mux := http.NewServeMux()
//	handler := environment.Middleware(env)(mux)
//
//	if environment.IsProduction(r.Context()) {
//	    // production-only behaviour
//	}
//
// LoggerExtractor plugs the context value into logger.WithContextExtractors.
package environment
