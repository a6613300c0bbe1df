package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"investor-education/internal/api/models"
	"investor-education/internal/simulator"
)

// MarketHandler serves quotes
type MarketHandler struct {
	sim *simulator.Simulator
}

func NewMarketHandler(sim *simulator.Simulator) *MarketHandler {
	return &MarketHandler{sim: sim}
}

// GetQuotes handles GET /api/v1/market/quotes?symbols=A,B
func (h *MarketHandler) GetQuotes(c *gin.Context) {
	symbols := strings.Split(c.Query("symbols"), ",")
	quotes, err := h.sim.Quote(c.Request.Context(), symbols)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.QuotesResponse{Quotes: quotes})
}
