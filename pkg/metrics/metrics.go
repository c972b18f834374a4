// Package metrics exposes Prometheus collectors for HTTP traffic and
// tipping activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	TipsSubmitted    *prometheus.CounterVec
	TipAmountCents   *prometheus.CounterVec
	ReviewsSubmitted *prometheus.CounterVec
	ReviewsModerated *prometheus.CounterVec
	UsersProvisioned prometheus.Counter
	RateLimited      *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipsy",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tipsy",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tipsy",
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		TipsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipsy",
			Name:      "tips_submitted_total",
			Help:      "Tips recorded, by currency and whether a rating was attached.",
		}, []string{"currency", "rated"}),
		TipAmountCents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipsy",
			Name:      "tip_amount_cents_total",
			Help:      "Sum of recorded tip amounts in minor units, by currency.",
		}, []string{"currency"}),
		ReviewsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipsy",
			Name:      "reviews_submitted_total",
			Help:      "Reviews created, by source (tip or direct).",
		}, []string{"source"}),
		ReviewsModerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipsy",
			Name:      "reviews_moderated_total",
			Help:      "Moderation decisions, by action.",
		}, []string{"action"}),
		UsersProvisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tipsy",
			Name:      "users_provisioned_total",
			Help:      "Users created on first authenticated request.",
		}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipsy",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by route.",
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.TipsSubmitted,
		m.TipAmountCents,
		m.ReviewsSubmitted,
		m.ReviewsModerated,
		m.UsersProvisioned,
		m.RateLimited,
	)

	return m
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// The recorders below are nil-safe so callers can run without metrics.

// ObserveTip records a stored tip.
func (m *Metrics) ObserveTip(currency string, amountCents int64, rated bool) {
	if m == nil {
		return
	}
	r := "false"
	if rated {
		r = "true"
	}
	m.TipsSubmitted.WithLabelValues(currency, r).Inc()
	m.TipAmountCents.WithLabelValues(currency).Add(float64(amountCents))
}

// ObserveReview records a created review.
func (m *Metrics) ObserveReview(source string) {
	if m == nil {
		return
	}
	m.ReviewsSubmitted.WithLabelValues(source).Inc()
}

// ObserveModeration records a moderation decision.
func (m *Metrics) ObserveModeration(action string) {
	if m == nil {
		return
	}
	m.ReviewsModerated.WithLabelValues(action).Inc()
}

// ObserveProvisioned records an auto-provisioned user.
func (m *Metrics) ObserveProvisioned() {
	if m == nil {
		return
	}
	m.UsersProvisioned.Inc()
}

// ObserveRateLimited records a rejected request.
func (m *Metrics) ObserveRateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(route).Inc()
}
