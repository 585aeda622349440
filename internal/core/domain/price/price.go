package price

import (
	"fmt"
	"time"
)

// Record is the latest known KAS quote. It is only built from a successful upstream response.
type Record struct {
	USD       float64   `json:"usd"`
	EUR       float64   `json:"eur"`
	Change24h float64   `json:"change_24h"`
	FetchedAt time.Time `json:"fetched_at"`
	Volume24h *float64  `json:"volume_24h,omitempty"`
	MarketCap *float64  `json:"market_cap,omitempty"`
}

// Validate enforces usd>0 and eur>0.
func (r *Record) Validate() error {
	if r.USD <= 0 {
		return fmt.Errorf("usd must be greater than 0, got %v", r.USD)
	}
	if r.EUR <= 0 {
		return fmt.Errorf("eur must be greater than 0, got %v", r.EUR)
	}
	if r.FetchedAt.IsZero() {
		return fmt.Errorf("fetched_at is required")
	}
	return nil
}

// MaxHistoryDays bounds GET /prices/history.
const MaxHistoryDays = 365

// HistoryInterval picks the upstream chart granularity for a window.
func HistoryInterval(days int) string {
	if days > 1 {
		return "daily"
	}
	return "hourly"
}
