package envproxy

import (
	"net"
	"net/url"

	"golang.org/x/net/proxy"
)

// DialerForURL returns a dialer suited to reaching target. When no proxy
// applies, the forward dialer is returned as is; a nil forward means a zero
// net.Dialer. When a proxy applies, the dialer routes connections through
// it via golang.org/x/net/proxy, which supports SOCKS5 natively and other
// schemes registered with proxy.RegisterDialerType. Unsupported proxy
// schemes return the forward dialer alongside the error. No I/O happens
// until the returned dialer is used.
func (r *Resolver) DialerForURL(target string, forward *net.Dialer) (proxy.Dialer, error) {
	if forward == nil {
		forward = &net.Dialer{}
	}
	resolved, ok := r.Resolve(target)
	if !ok {
		return forward, nil
	}
	u, err := url.Parse(resolved)
	if err != nil {
		return forward, err
	}
	dialer, err := proxy.FromURL(u, forward)
	if err != nil {
		return forward, err
	}
	return dialer, nil
}
