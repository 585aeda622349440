// Package monitorserver is the HTTP surface of the mining monitor: liveness, the collected
// stats, raw node RPC passthroughs and the Prometheus endpoint for the mining collectors.
package monitorserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/ports"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/httpserver"
	customMiddleware "github.com/kaspazof/kaspazof-api/internal/infrastructure/httpserver/middleware"
)

const serviceName = "KaspaZof Mining Monitor"

type Config struct {
	Host    string
	Port    string
	Version string
}

type Server struct {
	echo    *echo.Echo
	config  *Config
	logger  *logrus.Logger
	node    ports.NodeService
	monitor ports.MiningMonitor
	metrics http.Handler
}

// NewServer builds the monitor API. gatherer is served on /metrics.
func NewServer(cfg *Config, node ports.NodeService, monitor ports.MiningMonitor, gatherer prometheus.Gatherer, logger *logrus.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpserver.NewErrorHandler(logger)

	s := &Server{
		echo:    e,
		config:  cfg,
		logger:  logger,
		node:    node,
		monitor: monitor,
		metrics: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(customMiddleware.NewLoggingMiddleware(logger).RequestLogging())

	e.GET("/", s.root)
	e.GET("/health", s.health)
	e.GET("/stats", s.stats)
	e.GET("/node/info", s.nodeInfo)
	e.GET("/mining/info", s.miningInfo)
	e.GET("/metrics", echo.WrapHandler(s.metrics))
	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	if s.logger != nil {
		s.logger.Infof("Starting mining monitor HTTP server on %s", addr)
	}
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"service": serviceName,
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health":      "/health",
			"stats":       "/stats",
			"node_info":   "/node/info",
			"mining_info": "/mining/info",
			"metrics":     "/metrics",
		},
	})
}

// health reports 503 when the node does not answer getInfo.
func (s *Server) health(c echo.Context) error {
	if _, _, err := s.node.GetRawInfo(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("Service unhealthy: %v", err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"kaspa_node": "connected",
		"uptime":     s.monitor.Uptime().Seconds(),
	})
}

func (s *Server) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.monitor.Stats())
}

func (s *Server) nodeInfo(c echo.Context) error {
	_, raw, err := s.node.GetRawInfo(c.Request().Context())
	if err != nil {
		return rpcFailure(err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

func (s *Server) miningInfo(c echo.Context) error {
	_, raw, err := s.node.GetMiningInfo(c.Request().Context())
	if err != nil {
		return rpcFailure(err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

func rpcFailure(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("RPC error: %v", err)).SetInternal(err)
}
