// Package kaspa is a JSON-RPC 2.0 client for a single Kaspa node endpoint.
package kaspa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/metrics"
)

const (
	DefaultTimeout = 10 * time.Second
	// maxResponseSize caps how much of a node response is read.
	maxResponseSize = 32 << 20
)

type Config struct {
	URL      string
	User     string
	Password string
	Timeout  time.Duration
}

// Client issues one HTTP POST per call. There is no retry.
type Client struct {
	url        string
	user       string
	password   string
	httpClient *http.Client
	logger     *logrus.Logger
	nextID     atomic.Int64
}

func NewClient(cfg Config, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		url:        cfg.URL,
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		logger:     logger,
	}
}

// Call sends method with params (nil sends an empty object) and returns the raw result.
// Every failure is a NodeError.
func (c *Client) Call(ctx context.Context, method string, params any) (res json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream("kaspa_node", method, start, err)
		if err != nil && c.logger != nil {
			c.logger.WithFields(logrus.Fields{"method": method}).WithError(err).Error("RPC call failed")
		}
	}()

	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(request{
		JSONRPC: jsonRPCVersion,
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return nil, apperr.NewNodeError("RPC call failed: invalid params", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.NewNodeError("RPC call failed", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" || c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.NewNodeError("Timeout connecting to Kaspa node", err)
		}
		return nil, apperr.NewNodeError("Cannot connect to Kaspa node", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.NewNodeError("Timeout connecting to Kaspa node", err)
		}
		return nil, apperr.NewNodeError("RPC call failed: reading response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.NewNodeError(fmt.Sprintf("RPC call failed: HTTP %d", resp.StatusCode), nil)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, apperr.NewNodeError("Invalid RPC response format", err)
	}
	if len(rpcResp.Error) > 0 && string(rpcResp.Error) != "null" {
		rpcErr := decodeRPCError(rpcResp.Error)
		return nil, apperr.NewNodeError("RPC Error: "+rpcErr.Message, rpcErr)
	}
	if res := bytes.TrimSpace(rpcResp.Result); len(res) == 0 || bytes.Equal(res, []byte("null")) {
		return nil, apperr.NewNodeError("Invalid RPC response format", nil)
	}
	return rpcResp.Result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
