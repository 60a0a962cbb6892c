// Package metrics collects Prometheus metrics for commerce API calls and
// the storefront's own HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements api.Observer and records inbound requests.
type Collector struct {
	calls       *prometheus.CounterVec
	callLatency *prometheus.HistogramVec
	requests    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_api_calls_total",
			Help: "Commerce API calls by resource, method and outcome.",
		}, []string{"resource", "method", "outcome"}),
		callLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_api_call_duration_seconds",
			Help:    "Commerce API call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Storefront HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
	}

	reg.MustRegister(c.calls, c.callLatency, c.requests)
	return c
}

// ObserveCall records one commerce API call.
func (c *Collector) ObserveCall(resource, method, outcome string, elapsed time.Duration) {
	c.calls.WithLabelValues(resource, method, outcome).Inc()
	c.callLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// ObserveRequest records one response served by the storefront.
func (c *Collector) ObserveRequest(method string, status int) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
