package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"investor-education/internal/api/models"
	"investor-education/internal/learnhub"
	"investor-education/internal/market"
	"investor-education/internal/model"
	"investor-education/internal/simulator"
)

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func badRequest(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// writeDomainError maps ledger, market and learn hub errors onto HTTP responses.
func writeDomainError(c *gin.Context, err error) {
	var apiErr *market.APIError
	var fetchErr *learnhub.FetchError

	switch {
	case errors.Is(err, model.ErrInsufficientFunds):
		writeError(c, http.StatusConflict, "INSUFFICIENT_FUNDS", err.Error(), nil)
	case errors.Is(err, model.ErrInsufficientHoldings):
		writeError(c, http.StatusConflict, "INSUFFICIENT_HOLDINGS", err.Error(), nil)
	case errors.Is(err, model.ErrInvalidOrder):
		writeError(c, http.StatusBadRequest, "INVALID_ORDER", err.Error(), nil)
	case errors.Is(err, simulator.ErrTooManySymbols):
		writeError(c, http.StatusBadRequest, "TOO_MANY_SYMBOLS", err.Error(), nil)
	case errors.Is(err, learnhub.ErrEmptyInput):
		writeError(c, http.StatusBadRequest, "EMPTY_INPUT", err.Error(), nil)
	case errors.Is(err, learnhub.ErrUnsupportedLanguage):
		writeError(c, http.StatusBadRequest, "UNSUPPORTED_LANGUAGE", err.Error(), nil)
	case errors.As(err, &fetchErr):
		writeError(c, http.StatusBadGateway, "FETCH_ERROR", err.Error(), map[string]interface{}{
			"url": fetchErr.URL,
		})
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		writeError(c, status, apiErr.Code, apiErr.Message, map[string]interface{}{
			"status_code": apiErr.StatusCode,
			"retry_after": apiErr.RetryAfter,
		})
	default:
		writeError(c, http.StatusBadGateway, "MARKET_DATA_ERROR", err.Error(), nil)
	}
}
