// Package metrics collects Prometheus metrics and serves them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the Prometheus-backed implementation of the observer
// interfaces used by middleware, handler and service.
type Collector struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	logins        *prometheus.CounterVec
	noteMutations *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notes_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notes_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notes_logins_total",
			Help: "OAuth callbacks by outcome (success or failure reason).",
		}, []string{"result"}),
		noteMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notes_note_mutations_total",
			Help: "Successful note mutations by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(c.requests, c.duration, c.logins, c.noteMutations)
	return c
}

// ObserveRequest records one finished HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// LoginAttempted records how an OAuth callback ended.
func (c *Collector) LoginAttempted(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// NoteMutated records a successful create, update or delete.
func (c *Collector) NoteMutated(op string) {
	c.noteMutations.WithLabelValues(op).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
