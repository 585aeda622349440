package httpserver

import (
	"github.com/labstack/echo/v4"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.root)
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)
	if s.ws != nil {
		s.echo.GET("/ws", echo.WrapHandler(s.ws))
	}

	api := s.echo.Group("/api/v1")
	api.Use(s.middleware.RateLimit.Handler())

	system := api.Group("/system")
	system.GET("/info", s.getSystemInfo)
	system.GET("/health", s.systemHealth)
	system.GET("/cache/stats", s.getCacheStats)

	prices := api.Group("/prices")
	prices.GET("/current", s.getCurrentPrice)
	prices.GET("/history", s.getPriceHistory)

	node := api.Group("/node")
	node.GET("/status", s.getNodeStatus)
	node.GET("/block", s.getBlockInfo)

	wallets := api.Group("/wallets")
	wallets.POST("/create", s.createWallet)
	wallets.GET("", s.listWallets)
	wallets.GET("/:wallet_id", s.getWallet)
}
