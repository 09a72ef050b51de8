package envproxy

import (
	"net"
	"net/url"
	"strconv"

	"github.com/vyrodovalexey/envproxy/observability"
)

// DefaultProxyPort is attached to proxy URLs that carry no explicit port.
const DefaultProxyPort = 8080

// proxyVarChains maps a target scheme to the proxy variables consulted for
// it, in precedence order. Schemes not listed here fall back to all_proxy
// alone.
var proxyVarChains = map[string][]string{
	"https": {HTTPSProxyVar, HTTPProxyVar, AllProxyVar},
	"http":  {HTTPProxyVar, AllProxyVar},
	"ftp":   {FTPProxyVar, HTTPProxyVar, AllProxyVar},
}

// Resolver decides which proxy, if any, applies to a target URL. It holds
// no mutable state and is safe for concurrent use as long as its
// Environment is.
type Resolver struct {
	env         Environment
	logger      observability.Logger
	metrics     *Metrics
	defaultPort int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEnvironment sets the variable source. The default is the process
// environment.
func WithEnvironment(env Environment) Option {
	return func(r *Resolver) {
		if env != nil {
			r.env = env
		}
	}
}

// WithLogger sets the logger for resolution diagnostics, which are emitted
// at debug level. The default logger discards everything.
func WithLogger(logger observability.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics attaches outcome counters to the resolver.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithDefaultPort overrides the port attached to portless proxy URLs.
func WithDefaultPort(port int) Option {
	return func(r *Resolver) {
		if port > 0 {
			r.defaultPort = port
		}
	}
}

// New creates a Resolver. Without options it reads the process environment,
// logs nothing, and records no metrics.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		env:         OSEnvironment(),
		logger:      observability.NopLogger(),
		defaultPort: DefaultProxyPort,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// defaultResolver backs the package-level ForURL helper.
var defaultResolver = New()

// ForURL resolves target against the process environment with default
// settings. It is shorthand for New().Resolve(target).
func ForURL(target string) (string, bool) {
	return defaultResolver.Resolve(target)
}

// Resolve determines the proxy for target. It returns the proxy URL with an
// explicit port and true, or "" and false when the connection should be
// made directly. Malformed targets, no_proxy exclusions, absent variables,
// and unusable variable values all collapse to ("", false); Resolve never
// returns an error.
func (r *Resolver) Resolve(target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		r.record("", outcomeInvalidTarget)
		r.logger.Debug("target is not an absolute url",
			observability.String("target", target))
		return "", false
	}

	host := u.Hostname()
	if value, ok := lookupPair(r.env, NoProxyVar); ok {
		if value == noProxyWildcard {
			r.record(u.Scheme, outcomeDisabled)
			r.logger.Debug("proxying disabled by no_proxy wildcard",
				observability.String("host", host))
			return "", false
		}
		if hostMatchesNoProxy(value, host) {
			r.record(u.Scheme, outcomeNoProxyMatch)
			r.logger.Debug("host excluded by no_proxy",
				observability.String("host", host),
				observability.String("no_proxy", value))
			return "", false
		}
	}

	name, candidate, ok := r.candidateFor(u.Scheme)
	if !ok {
		r.record(u.Scheme, outcomeNoVariable)
		r.logger.Debug("no proxy variable set for scheme",
			observability.String("scheme", u.Scheme))
		return "", false
	}

	proxy, ok := normalizeProxy(candidate, r.defaultPort)
	if !ok {
		r.record(u.Scheme, outcomeInvalidProxyURL)
		r.logger.Debug("proxy variable value is not a usable url",
			observability.String("variable", name),
			observability.String("value", candidate))
		return "", false
	}

	r.record(u.Scheme, outcomeProxied)
	r.logger.Debug("resolved proxy",
		observability.String("target", target),
		observability.String("variable", name),
		observability.String("proxy", proxy))
	return proxy, true
}

// candidateFor walks the variable chain for scheme and returns the name and
// value of the first present variable. A present-but-empty value wins its
// slot like any other value; there is no fallback past it.
func (r *Resolver) candidateFor(scheme string) (string, string, bool) {
	chain, ok := proxyVarChains[scheme]
	if !ok {
		chain = []string{AllProxyVar}
	}
	for _, name := range chain {
		if value, ok := lookupPair(r.env, name); ok {
			return name, value, true
		}
	}
	return "", "", false
}

// normalizeProxy validates a proxy variable value and guarantees an
// explicit port on the result. A value that already names a port is
// returned byte for byte as it appeared in the environment; a portless one
// is re-serialized with defaultPort attached. Values that do not parse as
// an absolute URL with a host yield no proxy, with no fallback to a
// lower-priority variable.
func normalizeProxy(value string, defaultPort int) (string, bool) {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", false
	}
	if u.Port() != "" {
		return value, true
	}
	u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(defaultPort))
	return u.String(), true
}

func (r *Resolver) record(scheme, outcome string) {
	if r.metrics != nil {
		r.metrics.Record(scheme, outcome)
	}
}
