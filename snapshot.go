package envproxy

import "strings"

// Snapshot is a captured view of the proxy variables. Pointer fields keep
// the distinction between an absent variable and a present empty one.
//
// A Snapshot implements Environment, so it can be handed to a Resolver to
// decouple resolution from later changes to the underlying source. The
// YAML form doubles as the envfile on-disk format.
type Snapshot struct {
	HTTPProxy  *string `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy *string `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	FTPProxy   *string `yaml:"ftp_proxy,omitempty" json:"ftp_proxy,omitempty"`
	AllProxy   *string `yaml:"all_proxy,omitempty" json:"all_proxy,omitempty"`
	NoProxy    *string `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// Capture reads the effective value of every proxy variable pair from env,
// applying the same lowercase-first precedence the Resolver uses. The
// result is independent of env and safe to share between goroutines.
func Capture(env Environment) Snapshot {
	return Snapshot{
		HTTPProxy:  capturePair(env, HTTPProxyVar),
		HTTPSProxy: capturePair(env, HTTPSProxyVar),
		FTPProxy:   capturePair(env, FTPProxyVar),
		AllProxy:   capturePair(env, AllProxyVar),
		NoProxy:    capturePair(env, NoProxyVar),
	}
}

func capturePair(env Environment, name string) *string {
	if value, ok := lookupPair(env, name); ok {
		return &value
	}
	return nil
}

// Lookup implements Environment. The lowercase and uppercase forms of a
// variable name both resolve to the captured effective value; any other
// name is absent.
func (s Snapshot) Lookup(name string) (string, bool) {
	lower := strings.ToLower(name)
	if name != lower && name != strings.ToUpper(lower) {
		return "", false
	}

	var value *string
	switch lower {
	case HTTPProxyVar:
		value = s.HTTPProxy
	case HTTPSProxyVar:
		value = s.HTTPSProxy
	case FTPProxyVar:
		value = s.FTPProxy
	case AllProxyVar:
		value = s.AllProxy
	case NoProxyVar:
		value = s.NoProxy
	default:
		return "", false
	}

	if value == nil {
		return "", false
	}
	return *value, true
}
