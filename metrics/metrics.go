package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Checkout outcome labels, one per stage that can end a checkout.
const (
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeEmptyCart       = "empty"
	OutcomeOrderFailed     = "order"
	OutcomeItemsFailed     = "order_items"
	OutcomeStockFailed     = "stock"
	OutcomeSuccess         = "success"
)

// Metrics groups the collectors the storefront records.
type Metrics struct {
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	CheckoutOutcomes     *prometheus.CounterVec
	CheckoutDuration     prometheus.Histogram
	EventPublishFailures *prometheus.CounterVec
	registry             *prometheus.Registry
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CheckoutOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Checkout attempts by the stage that ended them.",
		}, []string{"outcome"}),
		CheckoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_duration_seconds",
			Help:      "Duration of checkout attempts that reached the remote backend.",
			Buckets:   prometheus.DefBuckets,
		}),
		EventPublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failed_total",
			Help:      "Count of domain event publish failures.",
		}, []string{"event"}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.CheckoutOutcomes,
		m.CheckoutDuration,
		m.EventPublishFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Checkout records one checkout outcome. A nil receiver is a no-op.
func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.CheckoutOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveCheckout records the duration of a checkout attempt.
func (m *Metrics) ObserveCheckout(seconds float64) {
	if m == nil {
		return
	}
	m.CheckoutDuration.Observe(seconds)
}

// PublishFailed counts a failed event publish.
func (m *Metrics) PublishFailed(event string) {
	if m == nil {
		return
	}
	m.EventPublishFailures.WithLabelValues(event).Inc()
}
