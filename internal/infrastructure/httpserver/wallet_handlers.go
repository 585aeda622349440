package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/wallet"
)

type walletListResponse struct {
	Success bool `json:"success"`
	*wallet.List
}

func (s *Server) createWallet(c echo.Context) error {
	var req wallet.CreateWalletRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationError("invalid request body", "")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	w, err := s.walletSvc.CreateWallet(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, w)
}

func (s *Server) listWallets(c echo.Context) error {
	list, err := s.walletSvc.ListWallets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, walletListResponse{Success: true, List: list})
}

func (s *Server) getWallet(c echo.Context) error {
	w, err := s.walletSvc.GetWallet(c.Request().Context(), c.Param("wallet_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}
