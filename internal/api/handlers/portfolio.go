package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investor-education/internal/api/models"
	"investor-education/internal/model"
	"investor-education/internal/simulator"
)

// PortfolioHandler handles the paper-trading endpoints
type PortfolioHandler struct {
	sim *simulator.Simulator
	log *zap.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(sim *simulator.Simulator, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{sim: sim, log: logger}
}

// GetPortfolio handles GET /api/v1/portfolio
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Overview(c.Request.Context()))
}

// PlaceOrder handles POST /api/v1/portfolio/orders
func (h *PortfolioHandler) PlaceOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	side, err := model.ParseSide(req.Side)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	trade, err := h.sim.PlaceOrder(c.Request.Context(), simulator.Ticket{
		Symbol: req.Symbol,
		Side:   side,
		Qty:    req.Qty,
		Price:  req.Price,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	h.log.Debug("PortfolioHandler: order placed", zap.String("symbol", trade.Symbol), zap.Int("qty", trade.Qty))
	c.JSON(http.StatusCreated, models.OrderResponse{
		Trade: trade,
		Cash:  h.sim.Overview(c.Request.Context()).Cash,
	})
}

// GetHistory handles GET /api/v1/portfolio/history
func (h *PortfolioHandler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, models.HistoryResponse{Trades: h.sim.History()})
}

// ExportCSV handles GET /api/v1/portfolio/history.csv
func (h *PortfolioHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, simulator.TradesFilename))
	c.Status(http.StatusOK)
	if err := simulator.WriteTradesCSV(c.Writer, h.sim.Trades()); err != nil {
		h.log.Error("PortfolioHandler: csv export failed", zap.Error(err))
	}
}
