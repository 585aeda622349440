package metrics

import "github.com/prometheus/client_golang/prometheus"

// Mining holds the gauges published by the mining monitor. It implements ports.MiningMetrics.
type Mining struct {
	BlockHeight     prometheus.Gauge
	PeerCount       prometheus.Gauge
	Difficulty      prometheus.Gauge
	Hashrate        prometheus.Gauge
	Uptime          prometheus.Gauge
	BlocksFound     prometheus.Counter
	SharesSubmitted prometheus.Counter
}

// NewMining creates the mining collectors and registers them with reg.
func NewMining(reg prometheus.Registerer) *Mining {
	m := &Mining{
		BlockHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kaspa_node_block_height",
			Help: "Current block height",
		}),
		PeerCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kaspa_node_peer_count",
			Help: "Number of connected peers",
		}),
		Difficulty: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kaspa_mining_difficulty",
			Help: "Current mining difficulty",
		}),
		Hashrate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kaspa_mining_hashrate",
			Help: "Current hashrate in H/s",
		}),
		Uptime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kaspa_mining_uptime_seconds",
			Help: "Mining monitor uptime in seconds",
		}),
		BlocksFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kaspa_mining_blocks_found_total",
			Help: "Total number of blocks found",
		}),
		SharesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kaspa_mining_shares_submitted_total",
			Help: "Total number of shares submitted",
		}),
	}
	reg.MustRegister(m.BlockHeight, m.PeerCount, m.Difficulty, m.Hashrate, m.Uptime, m.BlocksFound, m.SharesSubmitted)
	return m
}

func (m *Mining) SetBlockHeight(v float64)  { m.BlockHeight.Set(v) }
func (m *Mining) SetPeerCount(v float64)    { m.PeerCount.Set(v) }
func (m *Mining) SetDifficulty(v float64)   { m.Difficulty.Set(v) }
func (m *Mining) SetHashrate(v float64)     { m.Hashrate.Set(v) }
func (m *Mining) SetUptime(seconds float64) { m.Uptime.Set(seconds) }
