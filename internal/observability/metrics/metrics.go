package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config configures metric const labels.
type Config struct {
	ServiceName string
	Environment string
}

const (
	CacheResultHit  = "hit"
	CacheResultMiss = "miss"

	UpstreamOutcomeOK    = "ok"
	UpstreamOutcomeError = "error"
)

// Metrics exposes application-level collectors.
type Metrics struct {
	availabilityCache *prometheus.CounterVec
	upstreamCalls     *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	bookings          *prometheus.CounterVec
	webhooks          *prometheus.CounterVec
}

// HTTPMetrics captures inbound request counts and latency.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the domain collectors on the default registerer.
func New(cfg Config) *Metrics {
	return newMetrics(prometheus.DefaultRegisterer, cfg)
}

// NewHTTPMetrics registers the HTTP collectors on the default registerer.
func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
}

// NewWithRegisterer is New against an explicit registerer, used by tests and tools.
func NewWithRegisterer(registerer prometheus.Registerer, cfg Config) *Metrics {
	return newMetrics(registerer, cfg)
}

func constLabels(cfg Config) prometheus.Labels {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "channelbridge"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}
}

func newMetrics(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	m := &Metrics{
		availabilityCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "channelbridge_availability_cache_total",
			Help:        "Availability lookups by cache result.",
			ConstLabels: labels,
		}, []string{"result"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "channelbridge_upstream_calls_total",
			Help:        "Calls to the property-management API by operation and outcome.",
			ConstLabels: labels,
		}, []string{"operation", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "channelbridge_upstream_duration_seconds",
			Help:        "Latency of property-management API calls.",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			ConstLabels: labels,
		}, []string{"operation"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "channelbridge_bookings_total",
			Help:        "Booking submissions by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "channelbridge_webhooks_total",
			Help:        "Inbound webhook notifications by method and outcome.",
			ConstLabels: labels,
		}, []string{"method", "outcome"}),
	}

	registerer.MustRegister(
		m.availabilityCache,
		m.upstreamCalls,
		m.upstreamDuration,
		m.bookings,
		m.webhooks,
	)
	return m
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	h := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "channelbridge_http_requests_total",
			Help:        "Inbound HTTP requests by route and status code.",
			ConstLabels: labels,
		}, []string{"method", "route", "status_code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "channelbridge_http_request_duration_seconds",
			Help:        "Inbound HTTP request latency by route.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "route"}),
	}
	registerer.MustRegister(h.requests, h.duration)
	return h
}

// RecordCache counts an availability cache hit or miss.
func (m *Metrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.availabilityCache.WithLabelValues(result).Inc()
}

// ObserveUpstream records one call to the property-management API.
func (m *Metrics) ObserveUpstream(operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := UpstreamOutcomeOK
	if err != nil {
		outcome = UpstreamOutcomeError
	}
	m.upstreamCalls.WithLabelValues(operation, outcome).Inc()
	m.upstreamDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordBooking counts a booking submission outcome.
func (m *Metrics) RecordBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

// RecordWebhook counts an inbound webhook.
func (m *Metrics) RecordWebhook(method, outcome string) {
	if m == nil {
		return
	}
	m.webhooks.WithLabelValues(strings.ToUpper(method), outcome).Inc()
}

// GinMiddleware records request count and latency per matched route.
func GinMiddleware(h *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		h.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		h.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
