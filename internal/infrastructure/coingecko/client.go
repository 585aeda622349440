// Package coingecko fetches KAS market data from a CoinGecko-compatible REST API.
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/price"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/metrics"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultCoinID  = "kaspa"
	DefaultTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

type Config struct {
	BaseURL string
	CoinID  string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	coinID     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
	now        func() time.Time
}

// NewClient builds a client. Per-request deadlines come from the context so that history
// calls can use twice the price timeout.
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	coin := cfg.CoinID
	if coin == "" {
		coin = DefaultCoinID
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    base,
		coinID:     coin,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
		now:        time.Now,
	}
}

// simplePrice is one coin entry of /simple/price. Pointers tell absent fields from zero.
type simplePrice struct {
	USD       *float64 `json:"usd"`
	EUR       *float64 `json:"eur"`
	Change24h *float64 `json:"usd_24h_change"`
	Volume24h *float64 `json:"usd_24h_vol"`
	MarketCap *float64 `json:"usd_market_cap"`
}

// FetchPrice returns the current quote. Every failure is a PriceError; HTTP 429 is the
// rate-limited variant.
func (c *Client) FetchPrice(ctx context.Context) (rec *price.Record, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("price_api", "simple_price", start, err) }()

	q := url.Values{}
	q.Set("ids", c.coinID)
	q.Set("vs_currencies", "usd,eur")
	q.Set("include_24hr_change", "true")
	q.Set("include_24hr_vol", "true")
	q.Set("include_market_cap", "true")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.get(ctx, "/simple/price", q, "Timeout fetching price data")
	if err != nil {
		return nil, err
	}

	var payload map[string]simplePrice
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.NewPriceError("Invalid price data format", err)
	}
	entry, ok := payload[c.coinID]
	if !ok {
		return nil, apperr.NewPriceError("Kaspa data not found in API response", nil)
	}
	if entry.USD == nil {
		return nil, apperr.NewPriceError("Missing required field: usd", nil)
	}
	if entry.EUR == nil {
		return nil, apperr.NewPriceError("Missing required field: eur", nil)
	}

	rec = &price.Record{
		USD:       *entry.USD,
		EUR:       *entry.EUR,
		FetchedAt: c.now().UTC(),
		Volume24h: entry.Volume24h,
		MarketCap: entry.MarketCap,
	}
	if entry.Change24h != nil {
		rec.Change24h = *entry.Change24h
	}
	if err := rec.Validate(); err != nil {
		return nil, apperr.NewPriceError("Invalid price data format", err)
	}
	return rec, nil
}

// FetchHistory returns the market_chart payload for the last days, untouched.
func (c *Client) FetchHistory(ctx context.Context, days int) (out json.RawMessage, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("price_api", "market_chart", start, err) }()

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", price.HistoryInterval(days))

	ctx, cancel := context.WithTimeout(ctx, 2*c.timeout)
	defer cancel()

	body, err := c.get(ctx, "/coins/"+url.PathEscape(c.coinID)+"/market_chart", q, "Timeout fetching price history")
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, apperr.NewPriceError("Invalid price history format", nil)
	}
	return json.RawMessage(body), nil
}

// Ping reports whether {base}/ping answers 200.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	_, err := c.get(ctx, "/ping", nil, "Timeout pinging price API")
	return err
}

func (c *Client) get(ctx context.Context, path string, q url.Values, timeoutMsg string) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperr.NewPriceError("Unexpected error fetching price data", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.NewPriceError(timeoutMsg, err)
		}
		if c.logger != nil {
			c.logger.WithField("path", path).WithError(err).Debug("price API request failed")
		}
		return nil, apperr.NewPriceError("Unexpected error fetching price data", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperr.NewRateLimitedError("Rate limit exceeded, please try again later")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.NewPriceError(fmt.Sprintf("API error: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.NewPriceError(timeoutMsg, err)
		}
		return nil, apperr.NewPriceError("Unexpected error fetching price data", err)
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
