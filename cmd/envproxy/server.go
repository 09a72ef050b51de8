package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vyrodovalexey/envproxy"
	"github.com/vyrodovalexey/envproxy/envfile"
	"github.com/vyrodovalexey/envproxy/internal/health"
	"github.com/vyrodovalexey/envproxy/internal/middleware"
	"github.com/vyrodovalexey/envproxy/observability"
)

// runServer runs the diagnostic HTTP server until a shutdown signal arrives.
func runServer(flags cliFlags, env envproxy.Environment, source *envfile.Source, logger observability.Logger) {
	registry := prometheus.NewRegistry()
	resolver := envproxy.New(
		envproxy.WithEnvironment(env),
		envproxy.WithLogger(logger),
		envproxy.WithMetrics(envproxy.NewMetrics(registry, "envproxy")),
	)

	checker := health.NewChecker(version)
	if source != nil {
		checker.RegisterCheck("envfile", envfileCheck(source))
	}

	server := createServer(flags.serveAddr, resolver, env, checker, registry, logger)
	go runHTTPServer(server, logger)

	watcher := startFileWatcher(source, logger)

	waitForShutdown(server, watcher, logger)
}

// createServer builds the diagnostic HTTP server.
func createServer(
	addr string,
	resolver *envproxy.Resolver,
	env envproxy.Environment,
	checker *health.Checker,
	registry *prometheus.Registry,
	logger observability.Logger,
) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", handleResolve(resolver))
	mux.HandleFunc("/env", handleEnv(env))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.HandleFunc("/health", checker.HealthHandler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
	mux.HandleFunc("/live", checker.LivenessHandler())

	logger.Info("starting diagnostic server",
		observability.String("address", addr),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           buildMiddlewareChain(mux, logger),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// buildMiddlewareChain wraps the handler with the standard middleware.
func buildMiddlewareChain(handler http.Handler, logger observability.Logger) http.Handler {
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.Recovery(logger)(handler)
	return handler
}

// handleResolve resolves the URL given in the url query parameter.
func handleResolve(resolver *envproxy.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if target == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing url query parameter"})
			return
		}

		proxyURL, ok := resolver.Resolve(target)
		writeJSON(w, http.StatusOK, resolutionResult{URL: target, Proxy: proxyURL, Proxied: ok})
	}
}

// handleEnv reports the currently captured proxy variables.
func handleEnv(env envproxy.Environment) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envproxy.Capture(env))
	}
}

// envfileCheck reports degraded while the source serves a stale snapshot
// after a failed reload.
func envfileCheck(source *envfile.Source) health.CheckFunc {
	return func() health.Check {
		if err := source.LastError(); err != nil {
			return health.Check{
				Status:  health.StatusDegraded,
				Message: fmt.Sprintf("serving stale proxy variables: %v", err),
			}
		}
		return health.Check{Status: health.StatusHealthy}
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// runHTTPServer runs the diagnostic HTTP server.
func runHTTPServer(server *http.Server, logger observability.Logger) {
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("diagnostic server error", observability.Error(err))
	}
}

// startFileWatcher watches the variable file behind source, if any.
func startFileWatcher(source *envfile.Source, logger observability.Logger) *envfile.Watcher {
	if source == nil {
		return nil
	}

	watcher, err := envfile.NewWatcher(source,
		func(envproxy.Snapshot) {
			logger.Info("proxy variables updated",
				observability.String("path", source.Path()),
			)
		},
		envfile.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create file watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Error("failed to start file watcher", observability.Error(err))
		return nil
	}

	return watcher
}

// waitForShutdown waits for a shutdown signal and performs graceful shutdown.
func waitForShutdown(server *http.Server, watcher *envfile.Watcher, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop diagnostic server gracefully", observability.Error(err))
	}
}
