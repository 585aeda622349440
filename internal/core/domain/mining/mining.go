package mining

import "time"

// Stats is the snapshot served by the mining monitor's GET /stats.
type Stats struct {
	Hashrate        float64    `json:"hashrate"`
	BlocksFound     int64      `json:"blocks_found"`
	SharesSubmitted int64      `json:"shares_submitted"`
	Difficulty      float64    `json:"difficulty"`
	Uptime          int64      `json:"uptime"`
	LastBlockTime   *time.Time `json:"last_block_time"`
}

// Info is the subset of getMiningInfo the monitor reads.
type Info struct {
	Difficulty float64 `json:"difficulty"`
}

// PoolStats is the subset of getPoolStats the monitor reads. Not every node exposes it.
type PoolStats struct {
	Hashrate float64 `json:"hashrate"`
}
