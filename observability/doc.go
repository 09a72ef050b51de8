// Package observability provides structured logging for the envproxy
// library and its diagnostic tooling.
//
// Proxy resolution itself never returns errors: every failure collapses
// to "no proxy". Logging is therefore the only window into why a
// resolution came out the way it did. It is strictly non-contractual:
// the library defaults to a nop logger and stays silent unless a caller
// opts in.
//
// # Usage
//
// Create a logger and hand it to a resolver:
//
//	logger, err := observability.NewLogger(observability.LogConfig{
//	    Level:  "debug",
//	    Format: "console",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := envproxy.New(envproxy.WithLogger(logger))
//
// # Context Helpers
//
// Request-scoped IDs for the diagnostic HTTP server:
//
//	ctx = observability.ContextWithRequestID(ctx, "req-123")
//	requestID := observability.RequestIDFromContext(ctx)
package observability
