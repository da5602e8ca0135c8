package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(backendRequests, backendLatency) }

var backendRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_backend_requests_total",
		Help: "Voucher backend calls by operation and HTTP status ('error' for transport failures).",
	},
	[]string{"op", "status"},
)

var backendLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "console_backend_request_duration_seconds",
		Help:    "Voucher backend call latency.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"op"},
)

// ObserveBackend records one backend call. statusCode 0 means the request never got a response.
func ObserveBackend(op string, statusCode int, elapsed time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	backendRequests.WithLabelValues(norm(op), status).Inc()
	backendLatency.WithLabelValues(norm(op)).Observe(elapsed.Seconds())
}
