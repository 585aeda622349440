package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/mining"
	"github.com/kaspazof/kaspazof-api/internal/core/ports"
)

// MiningMonitorConfig controls the poll cadence.
type MiningMonitorConfig struct {
	Interval      time.Duration
	RetryInterval time.Duration
}

// MiningMonitor polls the node and republishes node/mining values as metrics.
type MiningMonitor struct {
	node          ports.NodeService
	metrics       ports.MiningMetrics
	logger        *logrus.Logger
	interval      time.Duration
	retryInterval time.Duration
	startedAt     time.Time
	now           func() time.Time

	mu    sync.RWMutex
	stats mining.Stats
}

func NewMiningMonitor(node ports.NodeService, metrics ports.MiningMetrics, cfg *MiningMonitorConfig, logger *logrus.Logger) *MiningMonitor {
	interval := 30 * time.Second
	retry := 60 * time.Second
	if cfg != nil {
		if cfg.Interval > 0 {
			interval = cfg.Interval
		}
		if cfg.RetryInterval > 0 {
			retry = cfg.RetryInterval
		}
	}
	return &MiningMonitor{
		node:          node,
		metrics:       metrics,
		logger:        logger,
		interval:      interval,
		retryInterval: retry,
		startedAt:     time.Now(),
		now:           time.Now,
	}
}

// Collect runs one poll cycle. getInfo and getMiningInfo failures abort the cycle;
// getPoolStats is optional and its failure is ignored.
func (m *MiningMonitor) Collect(ctx context.Context) error {
	info, _, err := m.node.GetRawInfo(ctx)
	if err != nil {
		return err
	}
	m.metrics.SetBlockHeight(float64(info.BlockCount))
	m.metrics.SetPeerCount(float64(info.PeerCount))

	mi, _, err := m.node.GetMiningInfo(ctx)
	if err != nil {
		return err
	}
	m.metrics.SetDifficulty(mi.Difficulty)

	m.mu.Lock()
	m.stats.Difficulty = mi.Difficulty
	m.mu.Unlock()

	if ps, err := m.node.GetPoolStats(ctx); err == nil {
		m.metrics.SetHashrate(ps.Hashrate)
		m.mu.Lock()
		m.stats.Hashrate = ps.Hashrate
		m.mu.Unlock()
	} else if m.logger != nil {
		m.logger.WithError(err).Debug("pool stats unavailable")
	}

	m.metrics.SetUptime(m.now().Sub(m.startedAt).Seconds())

	if m.logger != nil {
		m.logger.WithFields(logrus.Fields{"difficulty": mi.Difficulty, "block_count": info.BlockCount}).Info("mining metrics collected")
	}
	return nil
}

// Run polls until ctx is cancelled, waiting RetryInterval after a failed cycle.
func (m *MiningMonitor) Run(ctx context.Context) {
	for {
		wait := m.interval
		if err := m.Collect(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			if m.logger != nil {
				m.logger.WithError(err).Error("failed to collect mining metrics")
			}
			wait = m.retryInterval
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// Stats returns a copy of the latest snapshot with uptime filled in.
func (m *MiningMonitor) Stats() mining.Stats {
	m.mu.RLock()
	s := m.stats
	m.mu.RUnlock()
	s.Uptime = int64(m.now().Sub(m.startedAt).Seconds())
	return s
}

// Uptime is the time since the monitor was created.
func (m *MiningMonitor) Uptime() time.Duration {
	return m.now().Sub(m.startedAt)
}
