package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) getNodeStatus(c echo.Context) error {
	info, err := s.nodeSvc.GetNodeInfo(c.Request().Context())
	if err != nil {
		return err
	}
	return respondData(c, info)
}

// getBlockInfo returns the block named by ?block_hash=, or the current tip when omitted.
func (s *Server) getBlockInfo(c echo.Context) error {
	block, err := s.nodeSvc.GetBlockInfo(c.Request().Context(), c.QueryParam("block_hash"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    block,
	})
}
