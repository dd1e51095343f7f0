// Package metrics exposes Prometheus collectors for the gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samvad-hq/samvad-news-gateway/pkg/providers"
)

// MetricsNamespace prefixes every gateway metric.
const MetricsNamespace = "news_gateway"

// Metrics holds the gateway collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamDuration      *prometheus.HistogramVec
	HTTPRequestsTotal     *prometheus.CounterVec
}

// New creates a private registry with Go/process collectors and the gateway metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "upstream_requests_total",
				Help:      "Upstream news API calls by provider, endpoint and outcome",
			},
			[]string{"provider", "endpoint", "outcome"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Latency of upstream news API calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider", "endpoint"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served by route and status",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveUpstream implements news.Observer.
func (m *Metrics) ObserveUpstream(provider string, endpoint providers.EndpointKind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(provider, string(endpoint), outcome).Inc()
	m.UpstreamDuration.WithLabelValues(provider, string(endpoint)).Observe(elapsed.Seconds())
}

// ObserveHTTP counts one served request.
func (m *Metrics) ObserveHTTP(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
