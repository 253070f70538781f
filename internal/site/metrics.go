// ABOUTME: Prometheus metrics for the site server
// ABOUTME: Request counters and latency by method, plus manual revalidation outcomes

package site

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_http_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_http_request_duration_seconds",
		Help:    "HTTP request latency by method",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	revalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_manual_revalidations_total",
		Help: "Manual full-site revalidation requests by result",
	}, []string{"result"})
)

// instrument wraps h with the request counter and latency histogram.
func instrument(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(httpRequestDuration,
		promhttp.InstrumentHandlerCounter(httpRequestsTotal, h))
}
