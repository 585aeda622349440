package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaspazof_http_requests_total",
			Help: "The total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kaspazof_http_request_duration_seconds",
			Help:    "The HTTP request latencies in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"method", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
}

// GetRequestsTotal returns the requests total metric for middleware use
func GetRequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// GetRequestDuration returns the request duration metric for middleware use
func GetRequestDuration() *prometheus.HistogramVec {
	return requestDuration
}

// LogMetricsInitialization logs that metrics have been initialized
func (s *Server) LogMetricsInitialization() {
	if s.logger != nil {
		s.logger.Info("Prometheus metrics initialized and registered")
		s.logger.WithFields(map[string]interface{}{
			"kaspazof_http_requests_total":               "Counter for HTTP requests by method, endpoint, status",
			"kaspazof_http_request_duration_seconds":     "Histogram for HTTP request duration by method, endpoint",
			"kaspazof_cache_lookups_total":               "Counter for cache lookups by result",
			"kaspazof_upstream_request_duration_seconds": "Histogram for node and price API calls",
			"metrics_endpoint":                           "/metrics",
		}).Debug("Available Prometheus metrics")
	}
}

// metricsEndpoint serves the default registry, which also carries the cache, upstream and
// websocket collectors.
func (s *Server) metricsEndpoint(c echo.Context) error {
	if s.logger != nil {
		s.logger.Debug("Serving Prometheus metrics")
	}
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
