// Package main is the entry point for the envproxy command line tool.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/envproxy"
	"github.com/vyrodovalexey/envproxy/envfile"
	"github.com/vyrodovalexey/envproxy/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// exitFunc allows tests to intercept os.Exit.
var exitFunc = os.Exit

// cliFlags holds command line flags.
type cliFlags struct {
	envFile     string
	serveAddr   string
	logLevel    string
	logFormat   string
	jsonOutput  bool
	dump        bool
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	env, source := buildEnvironment(flags, logger)

	switch {
	case flags.dump:
		if err := dumpSnapshot(env, os.Stdout); err != nil {
			fatalWithSync(logger, "failed to dump proxy variables", observability.Error(err))
		}
	case flags.serveAddr != "":
		runServer(flags, env, source, logger)
	default:
		runResolve(flags, env, logger)
	}
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	envFile := flag.String("env-file", getEnvOrDefault("ENVPROXY_ENV_FILE", ""),
		"Path to a proxy variable file used instead of the process environment")
	serveAddr := flag.String("serve", getEnvOrDefault("ENVPROXY_LISTEN_ADDR", ""),
		"Listen address for the diagnostic HTTP server (e.g. :8081)")
	logLevel := flag.String("log-level", getEnvOrDefault("ENVPROXY_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("ENVPROXY_LOG_FORMAT", "json"),
		"Log format (json, console)")
	jsonOutput := flag.Bool("json", getEnvBool("ENVPROXY_JSON", false),
		"Print resolutions as line-delimited JSON")
	dump := flag.Bool("dump", false, "Print the captured proxy variables as YAML")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		envFile:     *envFile,
		serveAddr:   *serveAddr,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		jsonOutput:  *jsonOutput,
		dump:        *dump,
		showVersion: *showVersion,
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("envproxy version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		exitFunc(1)
		return nil
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// fatalWithSync logs the message, flushes the logger, and exits.
func fatalWithSync(logger observability.Logger, msg string, fields ...observability.Field) {
	logger.Error(msg, fields...)
	_ = logger.Sync()
	exitFunc(1)
}

// buildEnvironment selects the proxy variable source for all modes. The
// returned source is nil unless a variable file is in use.
func buildEnvironment(flags cliFlags, logger observability.Logger) (envproxy.Environment, *envfile.Source) {
	if flags.envFile == "" {
		return envproxy.OSEnvironment(), nil
	}

	source, err := envfile.NewSource(flags.envFile)
	if err != nil {
		fatalWithSync(logger, "failed to load proxy variable file", observability.Error(err))
		return nil, nil // unreachable in production; allows tests to continue
	}

	logger.Info("loaded proxy variable file", observability.String("path", source.Path()))

	return source, source
}

// runResolve resolves each positional URL and prints one line per URL.
func runResolve(flags cliFlags, env envproxy.Environment, logger observability.Logger) {
	urls := flag.Args()
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: envproxy [flags] <url> ...")
		flag.PrintDefaults()
		exitFunc(2)
		return
	}

	resolver := envproxy.New(
		envproxy.WithEnvironment(env),
		envproxy.WithLogger(logger),
	)

	if err := printResolutions(resolver, urls, flags.jsonOutput, os.Stdout); err != nil {
		fatalWithSync(logger, "failed to write resolutions", observability.Error(err))
	}
}

// resolutionResult is the JSON form of a single resolution.
type resolutionResult struct {
	URL     string `json:"url"`
	Proxy   string `json:"proxy,omitempty"`
	Proxied bool   `json:"proxied"`
}

// printResolutions writes one line per URL: the proxy URL or "direct", or a
// JSON object when jsonOutput is set.
func printResolutions(r *envproxy.Resolver, urls []string, jsonOutput bool, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, target := range urls {
		proxyURL, ok := r.Resolve(target)

		if jsonOutput {
			if err := enc.Encode(resolutionResult{URL: target, Proxy: proxyURL, Proxied: ok}); err != nil {
				return err
			}
			continue
		}

		line := proxyURL
		if !ok {
			line = "direct"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// dumpSnapshot prints the captured proxy variables as YAML.
func dumpSnapshot(env envproxy.Environment, w io.Writer) error {
	data, err := yaml.Marshal(envproxy.Capture(env))
	if err != nil {
		return fmt.Errorf("failed to encode proxy variables: %w", err)
	}

	_, err = w.Write(data)
	return err
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a boolean or a default.
// Accepts "true", "1", "yes", "on" (case-insensitive) as true values.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
