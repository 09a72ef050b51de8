// Package envproxy resolves which proxy server, if any, should be used to
// reach a URL, based on the standard proxy environment variables
// (http_proxy, https_proxy, ftp_proxy, all_proxy, no_proxy and their
// uppercase forms).
//
// Resolution is a pure decision: it reads variables, matches the target
// host against no_proxy, picks the variable chain for the target scheme,
// and returns a proxy URL with an explicit port. Every failure mode
// (malformed target, excluded host, unusable variable value) collapses to
// "connect directly"; Resolve never returns an error.
//
// # Features
//
//   - Lowercase-before-uppercase variable precedence
//   - no_proxy suffix matching with "*" wildcard support
//   - Scheme-specific fallback chains (https_proxy, ftp_proxy, http_proxy,
//     all_proxy)
//   - Default port 8080 attached to portless proxy URLs
//   - Pluggable variable sources for tests and captured snapshots
//   - http.Transport and golang.org/x/net/proxy integration
//
// # Usage
//
// The package-level helper reads the process environment:
//
//	if proxy, ok := envproxy.ForURL("https://internal.example.com"); ok {
//	    // dial through proxy
//	}
//
// A Resolver can be configured with an explicit variable source, a logger,
// and metrics:
//
//	r := envproxy.New(
//	    envproxy.WithEnvironment(envproxy.MapEnvironment{
//	        "http_proxy": "http://proxy.corp:3128",
//	        "no_proxy":   "localhost,.corp.internal",
//	    }),
//	    envproxy.WithLogger(logger),
//	)
//	proxy, ok := r.Resolve("http://example.org")
//
// # HTTP Client Integration
//
// Wire a resolver into an HTTP client:
//
//	client := &http.Client{Transport: envproxy.NewTransport(r)}
//
// # Stable Views
//
// The process environment may change concurrently. Capture produces an
// immutable Snapshot that implements Environment:
//
//	snap := envproxy.Capture(envproxy.OSEnvironment())
//	r := envproxy.New(envproxy.WithEnvironment(snap))
package envproxy
