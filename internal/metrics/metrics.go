// Package metrics exposes Prometheus collectors for the widget host.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat outcomes recorded by ObserveChat.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Metrics groups the collectors registered for one server.
type Metrics struct {
	registry       *prometheus.Registry
	chatRequests   *prometheus.CounterVec
	chatDuration   prometheus.Histogram
	offersReturned prometheus.Counter
	manifestServed prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iachat",
			Name:      "chat_requests_total",
			Help:      "Chat requests handled, by outcome.",
		}, []string{"outcome"}),
		chatDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "iachat",
			Name:      "chat_reply_seconds",
			Help:      "Time spent producing a chat reply.",
			Buckets:   prometheus.DefBuckets,
		}),
		offersReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "iachat",
			Name:      "offers_returned_total",
			Help:      "Offers attached to chat replies.",
		}),
		manifestServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "iachat",
			Name:      "manifest_requests_total",
			Help:      "latest.json responses served to loaders.",
		}),
	}
	m.registry.MustRegister(
		m.chatRequests,
		m.chatDuration,
		m.offersReturned,
		m.manifestServed,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveChat records one chat request.
func (m *Metrics) ObserveChat(outcome string, started time.Time, offers int) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.chatDuration.Observe(time.Since(started).Seconds())
		m.offersReturned.Add(float64(offers))
	}
}

// ManifestServed counts a manifest response.
func (m *Metrics) ManifestServed() {
	if m == nil {
		return
	}
	m.manifestServed.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
