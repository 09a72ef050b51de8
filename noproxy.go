package envproxy

import "strings"

// noProxyWildcard disables proxying for every host.
const noProxyWildcard = "*"

// splitNoProxy splits a no_proxy value on commas and spaces. Empty tokens
// are dropped so that stray separators never match anything.
func splitNoProxy(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// hostMatchesNoProxy reports whether host is excluded by a no_proxy value.
// A host is excluded when it literally, case-sensitively ends with any
// token. The comparison is a plain suffix check, not domain-aware: the
// token "example.org" excludes both "example.org" and "www.example.org",
// and also "notexample.org". That looseness is long-standing behavior of
// this variable and is kept as is.
func hostMatchesNoProxy(value, host string) bool {
	for _, token := range splitNoProxy(value) {
		if strings.HasSuffix(host, token) {
			return true
		}
	}
	return false
}
