package ports

import (
	"time"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/mining"
)

// MiningMonitor exposes the poller's latest snapshot.
type MiningMonitor interface {
	Stats() mining.Stats
	Uptime() time.Duration
}

// MiningMetrics receives the values collected on each poll cycle.
type MiningMetrics interface {
	SetBlockHeight(v float64)
	SetPeerCount(v float64)
	SetDifficulty(v float64)
	SetHashrate(v float64)
	SetUptime(seconds float64)
}
