// Package metrics holds the Prometheus collectors shared by the API server and its upstream clients.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaspazof_cache_lookups_total",
			Help: "Cache lookups by result (hit, miss, error, corrupt)",
		},
		[]string{"result"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kaspazof_upstream_request_duration_seconds",
			Help:    "Latency of calls to the Kaspa node and the price API",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"upstream", "operation", "outcome"},
	)

	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kaspazof_ws_connections",
			Help: "Open WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(cacheLookups)
	prometheus.MustRegister(upstreamDuration)
	prometheus.MustRegister(wsConnections)
}

// CacheObserver implements ports.CacheObserver on top of the lookup counter.
type CacheObserver struct{}

func (CacheObserver) ObserveCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// ObserveUpstream records one upstream call. outcome is "ok" when err is nil, "error" otherwise.
func ObserveUpstream(upstream, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamDuration.WithLabelValues(upstream, operation, outcome).Observe(time.Since(start).Seconds())
}

// SetWSConnections reports the current hub size.
func SetWSConnections(n int) {
	wsConnections.Set(float64(n))
}
