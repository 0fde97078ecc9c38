// Package metrics holds the Prometheus collectors of the backend. They are
// registered on the default registry at init through promauto and exposed on
// GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "integra"

// HTTPRequestsTotal counts requests by method, route template and status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration uses the route template ("/ventas/imprimir/:id"), never
// the raw path, to keep label cardinality bounded.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// JobsProcessedTotal counts background jobs.
// result: "ok", "retry" or "dlq".
var JobsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_processed_total",
		Help:      "Background jobs processed, by queue and result.",
	},
	[]string{"queue", "result"},
)

// SessionRejectionsTotal counts authenticated requests refused by the
// session/licence guard, by error code.
var SessionRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_rejections_total",
		Help:      "Requests rejected by the session and licence guard.",
	},
	[]string{"code"},
)

var BreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_open",
		Help:      "1 while the named circuit breaker is open or probing.",
	},
	[]string{"name"},
)
