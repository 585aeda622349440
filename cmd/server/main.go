package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/kaspazof/kaspazof-api/configs"
	"github.com/kaspazof/kaspazof-api/internal/application/services"
	"github.com/kaspazof/kaspazof-api/internal/core/ports"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/coingecko"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/db"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/health"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/httpserver"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/kaspa"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/metrics"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/redis"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/ws"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("Starting %s API...", cfg.App.ProjectName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it every cache lookup misses and rate limiting fails open.
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Invalid Redis configuration:", err)
	}
	redisCache := redis.NewRedisCache(redisClient, cfg.Redis.KeyPrefix)
	cacheService := services.NewCacheService(redisCache, metrics.CacheObserver{}, logger)
	connectCtx, cancelConnect := context.WithTimeout(ctx, 5*time.Second)
	if cacheService.Connect(connectCtx) {
		logger.Info("Connected to Redis successfully")
	}
	cancelConnect()
	defer cacheService.Disconnect()

	rpcClient := kaspa.NewClient(kaspa.Config{
		URL:      cfg.Kaspa.RPCURL,
		User:     cfg.Kaspa.User,
		Password: cfg.Kaspa.Password,
		Timeout:  cfg.Kaspa.Timeout,
	}, logger)
	nodeService := services.NewNodeService(rpcClient, logger)

	priceClient := coingecko.NewClient(coingecko.Config{
		BaseURL: cfg.Price.APIURL,
		CoinID:  cfg.Price.CoinID,
		Timeout: cfg.Price.Timeout,
	}, logger)
	priceService := services.NewPriceService(priceClient, cacheService, cfg.Price.CacheTTL, logger)

	walletService := services.NewWalletService(logger)

	hcSlice := []ports.HealthChecker{
		health.NewCacheHealthChecker(cacheService),
		health.NewNodeHealthChecker(nodeService),
		health.NewPriceHealthChecker(priceService),
	}
	if cfg.Database.DSN != "" {
		database, err := db.NewDatabase(&cfg.Database)
		if err != nil {
			logger.WithError(err).Warn("Database configured but unusable; skipping its health probe")
		} else {
			defer database.Close()
			hcSlice = append(hcSlice, health.NewDBHealthChecker(database))
		}
	}
	systemService := services.NewSystemService(hcSlice, cfg.App.Environment, cfg.App.Version, health.HostUptime, logger)

	var rateLimiterService ports.RateLimiterService
	if cfg.RateLimit.RequestsPerMinute > 0 {
		rateLimiterService = services.NewRateLimiterService(redis.NewRateLimitRepository(redisClient), &services.RateLimiterConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			BurstMultiplier:   cfg.RateLimit.BurstMultiplier,
			KeyPrefix:         redis.Namespace(cfg.Redis.KeyPrefix, "ratelimit:ip"),
		}, logger)
	}

	hub := ws.NewHub(priceService, nodeService, cfg.WS.PushInterval, cfg.Server.AllowedOrigins, logger)
	go hub.Run(ctx)

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ProjectName:    cfg.App.ProjectName,
		Version:        cfg.App.Version,
		Environment:    cfg.App.Environment,
	}

	deps := httpserver.ServerDeps{
		PriceService:       priceService,
		NodeService:        nodeService,
		WalletService:      walletService,
		SystemService:      systemService,
		CacheService:       cacheService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     hcSlice,
		WebSocket:          hub,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
