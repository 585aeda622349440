package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/system"
	"github.com/kaspazof/kaspazof-api/internal/core/ports"
)

const probeTimeout = 5 * time.Second

// UptimeFunc reports host uptime in seconds.
type UptimeFunc func(ctx context.Context) (int64, error)

type SystemService struct {
	checkers    []ports.HealthChecker
	environment string
	version     string
	uptime      UptimeFunc
	logger      *logrus.Logger
	now         func() time.Time
}

func NewSystemService(checkers []ports.HealthChecker, environment, version string, uptime UptimeFunc, logger *logrus.Logger) *SystemService {
	return &SystemService{
		checkers:    checkers,
		environment: environment,
		version:     version,
		uptime:      uptime,
		logger:      logger,
		now:         time.Now,
	}
}

// GetSystemInfo probes every dependency in turn. Probe failures are reported, never returned.
func (s *SystemService) GetSystemInfo(ctx context.Context) *system.Info {
	services := make([]system.ServiceStatus, 0, len(s.checkers))
	for _, hc := range s.checkers {
		if hc == nil {
			continue
		}
		services = append(services, s.probe(ctx, hc))
	}

	var uptime int64
	if s.uptime != nil {
		if v, err := s.uptime(ctx); err == nil {
			uptime = v
		} else if s.logger != nil {
			s.logger.WithError(err).Warn("failed to read host uptime")
		}
	}

	return &system.Info{
		Environment: s.environment,
		Version:     s.version,
		Uptime:      uptime,
		Services:    services,
	}
}

func (s *SystemService) probe(ctx context.Context, hc ports.HealthChecker) system.ServiceStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := s.now()
	err := hc.Check(ctx)
	latency := float64(s.now().Sub(start).Microseconds()) / 1000

	st := system.ServiceStatus{
		Name:      hc.Name(),
		Status:    err == nil,
		LatencyMS: &latency,
		LastCheck: s.now().UTC(),
	}
	if err != nil {
		st.Error = err.Error()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"service": hc.Name()}).WithError(err).Warn("dependency unhealthy")
		}
	}
	return st
}
