// Package middleware provides the HTTP middleware chain for the diagnostic
// server: panic recovery, request ID propagation, and request logging.
//
// The middlewares compose by wrapping, outermost first:
//
//	handler := middleware.Recovery(logger)(
//	    middleware.RequestID()(
//	        middleware.Logging(logger)(mux),
//	    ),
//	)
package middleware
