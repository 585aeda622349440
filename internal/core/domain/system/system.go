package system

import "time"

// ServiceStatus is the outcome of one dependency probe.
type ServiceStatus struct {
	Name      string    `json:"name"`
	Status    bool      `json:"status"`
	LatencyMS *float64  `json:"latency_ms,omitempty"`
	LastCheck time.Time `json:"last_check"`
	Error     string    `json:"error,omitempty"`
}

type Info struct {
	Environment string          `json:"environment"`
	Version     string          `json:"version"`
	Uptime      int64           `json:"uptime"`
	Services    []ServiceStatus `json:"services"`
}
