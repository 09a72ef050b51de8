package envproxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for the resolutions counter, one per exit path of
// Resolve. Every outcome other than "proxied" means a direct connection.
const (
	outcomeProxied         = "proxied"
	outcomeDisabled        = "disabled"
	outcomeNoProxyMatch    = "no_proxy_match"
	outcomeNoVariable      = "no_variable"
	outcomeInvalidTarget   = "invalid_target"
	outcomeInvalidProxyURL = "invalid_proxy_url"
)

// Metrics counts resolution outcomes. Attach to a Resolver with
// WithMetrics.
type Metrics struct {
	ResolutionsTotal *prometheus.CounterVec
}

// NewMetrics creates resolution metrics registered with reg. The scheme
// label carries the parsed target scheme and is empty when the target
// itself did not parse.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	return &Metrics{
		ResolutionsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Total proxy resolutions by target scheme and outcome.",
			},
			[]string{"scheme", "outcome"},
		),
	}
}

// Record counts one resolution outcome.
func (m *Metrics) Record(scheme, outcome string) {
	m.ResolutionsTotal.WithLabelValues(scheme, outcome).Inc()
}
