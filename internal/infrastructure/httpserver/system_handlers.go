package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *Server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Welcome to " + s.config.ProjectName + " API",
		"version":    s.config.Version,
		"health_url": "/health",
	})
}

func (s *Server) getSystemInfo(c echo.Context) error {
	return respondData(c, s.systemSvc.GetSystemInfo(c.Request().Context()))
}

// systemHealth is a liveness probe: it never touches a dependency.
func (s *Server) systemHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) getCacheStats(c echo.Context) error {
	var stats map[string]any
	if s.cacheSvc == nil {
		stats = map[string]any{"connected": false}
	} else {
		stats = s.cacheSvc.Stats(c.Request().Context())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"cache_stats": stats})
}
