package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
)

// ErrorBody is the "error" member of every failed API response.
type ErrorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Field   string              `json:"field,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// errorStatus maps an error to the status code and body the client receives.
// echo errors keep their code (their internal cause is only logged), validation errors are 422,
// other domain errors 400 and everything else is an opaque 500.
func errorStatus(err error) (int, ErrorBody) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, ErrorBody{Code: fmt.Sprintf("HTTP_%d", he.Code), Message: msg}
	}

	if ae, ok := apperr.As(err); ok {
		body := ErrorBody{Code: ae.Code, Message: ae.Message, Field: ae.Field, Details: ae.Details}
		if ae.Kind == apperr.KindValidation {
			return http.StatusUnprocessableEntity, body
		}
		return http.StatusBadRequest, body
	}

	return http.StatusInternalServerError, ErrorBody{Code: "INTERNAL_ERROR", Message: "Internal server error"}
}

// NewErrorHandler renders every handler error as an ErrorResponse.
func NewErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		writeError(logger, err, c)
	}
}

func writeError(logger *logrus.Logger, err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := errorStatus(err)
	if logger != nil {
		entry := logger.WithError(err).WithFields(map[string]interface{}{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
			"status": code,
		})
		if code >= http.StatusInternalServerError {
			entry.Error("unhandled error")
		} else {
			entry.Debug("request rejected")
		}
	}

	resp := ErrorResponse{Success: false, Error: body, Timestamp: time.Now().UTC()}
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, resp)
	}
	if werr != nil && logger != nil {
		logger.WithError(werr).Warn("failed to write error response")
	}
}
