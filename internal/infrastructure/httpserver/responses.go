package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// DataResponse is the success envelope shared by the /api/v1 endpoints.
type DataResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func respondData(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, DataResponse{Success: true, Data: data, Timestamp: time.Now().UTC()})
}
