package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"investor-education/internal/api/models"
	"investor-education/internal/learnhub"
)

// LearnHubHandler translates and summarizes articles
type LearnHubHandler struct {
	hub *learnhub.Hub
}

func NewLearnHubHandler(hub *learnhub.Hub) *LearnHubHandler {
	return &LearnHubHandler{hub: hub}
}

// Process handles POST /api/v1/learn
func (h *LearnHubHandler) Process(c *gin.Context) {
	var req models.LearnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	summarize := true
	if req.Summarize != nil {
		summarize = *req.Summarize
	}

	res, err := h.hub.Process(c.Request.Context(), learnhub.Request{
		URL:       req.URL,
		Text:      req.Text,
		Lang:      req.Lang,
		Summarize: summarize,
		Sentences: req.Sentences,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
