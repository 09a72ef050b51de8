package envproxy

import (
	"net/http"
	"net/url"
	"time"
)

// ProxyFunc adapts the resolver for use as http.Transport.Proxy. Requests
// whose target resolves to no proxy get (nil, nil), telling the transport
// to connect directly; resolution never produces an error.
func (r *Resolver) ProxyFunc() func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		if req.URL == nil {
			return nil, nil
		}
		resolved, ok := r.Resolve(req.URL.String())
		if !ok {
			return nil, nil
		}
		u, err := url.Parse(resolved)
		if err != nil {
			return nil, nil
		}
		return u, nil
	}
}

// NewTransport returns an http.Transport that consults r for every request.
// Pool sizing and timeouts follow common reverse-proxy client settings.
// Constructing the transport opens no connections.
func NewTransport(r *Resolver) *http.Transport {
	return &http.Transport{
		Proxy:                 r.ProxyFunc(),
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
