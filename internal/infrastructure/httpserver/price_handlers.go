package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
)

const defaultHistoryDays = 7

func (s *Server) getCurrentPrice(c echo.Context) error {
	rec, err := s.priceSvc.GetPrice(c.Request().Context())
	if err != nil {
		return err
	}
	return respondData(c, rec)
}

// getPriceHistory proxies the market chart; range checks live in the price service.
func (s *Server) getPriceHistory(c echo.Context) error {
	days := defaultHistoryDays
	if err := echo.QueryParamsBinder(c).Int("days", &days).BindError(); err != nil {
		verr := apperr.NewValidationError("days must be an integer", "days")
		verr.Details = []apperr.FieldError{{Field: "days", Message: "value is not a valid integer", Type: "type_error.integer"}}
		return verr
	}

	history, err := s.priceSvc.GetPriceHistory(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"data":        history,
		"period_days": days,
	})
}
