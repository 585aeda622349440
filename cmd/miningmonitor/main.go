package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	config "github.com/kaspazof/kaspazof-api/configs"
	"github.com/kaspazof/kaspazof-api/internal/application/services"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/kaspa"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/metrics"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/monitorserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rpcClient := kaspa.NewClient(kaspa.Config{
		URL:      cfg.Kaspa.RPCURL,
		User:     cfg.Kaspa.User,
		Password: cfg.Kaspa.Password,
		Timeout:  cfg.Monitor.RPCTimeout,
	}, logger)
	nodeService := services.NewNodeService(rpcClient, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	miningMetrics := metrics.NewMining(reg)

	monitor := services.NewMiningMonitor(nodeService, miningMetrics, &services.MiningMonitorConfig{
		Interval:      cfg.Monitor.Interval,
		RetryInterval: cfg.Monitor.RetryInterval,
	}, logger)

	logger.WithFields(logrus.Fields{
		"rpc_url":        cfg.Kaspa.RPCURL,
		"interval":       cfg.Monitor.Interval.String(),
		"mining_address": cfg.Monitor.MiningAddress,
	}).Info("Starting mining monitor")
	go monitor.Run(ctx)

	server := monitorserver.NewServer(&monitorserver.Config{
		Host:    cfg.Monitor.Host,
		Port:    cfg.Monitor.Port,
		Version: cfg.App.Version,
	}, nodeService, monitor, reg, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start monitor server:", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down mining monitor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Monitor server forced to shutdown")
	}
}
