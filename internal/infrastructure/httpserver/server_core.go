package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/ports"
	customMiddleware "github.com/kaspazof/kaspazof-api/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	ProjectName    string
	Version        string
	Environment    string
}

type ServerDeps struct {
	PriceService       ports.PriceService
	NodeService        ports.NodeService
	WalletService      ports.WalletService
	SystemService      ports.SystemService
	CacheService       ports.CacheService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
	// WebSocket is mounted at /ws when set.
	WebSocket http.Handler
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	priceSvc       ports.PriceService
	nodeSvc        ports.NodeService
	walletSvc      ports.WalletService
	systemSvc      ports.SystemService
	cacheSvc       ports.CacheService
	ws             http.Handler
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		priceSvc:       deps.PriceService,
		nodeSvc:        deps.NodeService,
		walletSvc:      deps.WalletService,
		systemSvc:      deps.SystemService,
		cacheSvc:       deps.CacheService,
		ws:             deps.WebSocket,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(logger)

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
