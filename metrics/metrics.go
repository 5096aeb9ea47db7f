// Package metrics registers the prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry so tests can build isolated instances.
type Metrics struct {
	Registry *prometheus.Registry

	requests              *prometheus.CounterVec
	latency               *prometheus.HistogramVec
	subscriptionTransfers *prometheus.CounterVec
	revalidations         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "budget_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "budget_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		subscriptionTransfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "budget_subscription_transitions_total",
			Help: "Subscription status changes by source and target status.",
		}, []string{"from", "to"}),
		revalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "budget_revalidations_total",
			Help: "View invalidations by path.",
		}, []string{"path"}),
	}
	m.Registry.MustRegister(
		m.requests,
		m.latency,
		m.subscriptionTransfers,
		m.revalidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SubscriptionTransition records a status change. A nil receiver is a no-op.
func (m *Metrics) SubscriptionTransition(from, to string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.subscriptionTransfers.WithLabelValues(from, to).Add(float64(n))
}

// Revalidated records a view invalidation. A nil receiver is a no-op.
func (m *Metrics) Revalidated(path string) {
	if m == nil {
		return
	}
	m.revalidations.WithLabelValues(path).Inc()
}

// Middleware counts and times every request by its route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
