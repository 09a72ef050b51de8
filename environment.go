package envproxy

import (
	"os"
	"strings"
)

// Proxy variable names in their canonical lowercase form. The uppercase
// forms are derived with strings.ToUpper where a pair is consulted.
const (
	HTTPProxyVar  = "http_proxy"
	HTTPSProxyVar = "https_proxy"
	FTPProxyVar   = "ftp_proxy"
	AllProxyVar   = "all_proxy"
	NoProxyVar    = "no_proxy"
)

// Environment supplies named variables to the resolver. Lookup is
// case-sensitive and must report presence separately from the value, so
// that a present-but-empty variable is distinguishable from an absent one
// (os.LookupEnv semantics).
type Environment interface {
	Lookup(name string) (value string, ok bool)
}

// osEnvironment reads the process environment.
type osEnvironment struct{}

func (osEnvironment) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// OSEnvironment returns an Environment backed by the process environment.
// This is the source a Resolver uses unless WithEnvironment overrides it.
func OSEnvironment() Environment {
	return osEnvironment{}
}

// MapEnvironment is a fixed in-memory variable source. The zero value is an
// empty environment. Concurrent reads are safe; callers must not mutate the
// map while a Resolver is using it.
type MapEnvironment map[string]string

// Lookup implements Environment.
func (m MapEnvironment) Lookup(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}

// lookupPair reads the lowercase variable name, falling back to the
// uppercase form only when the lowercase one is entirely absent. A present
// but empty value stops the fallback; the empty value then fails URL
// validation downstream, so the pair still resolves to no proxy.
func lookupPair(env Environment, name string) (string, bool) {
	if value, ok := env.Lookup(name); ok {
		return value, true
	}
	return env.Lookup(strings.ToUpper(name))
}
