package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investor-education/internal/api/models"
	"investor-education/internal/session"
)

// SessionHandler persists the learner's session
type SessionHandler struct {
	sess *session.Session
	log  *zap.Logger
}

func NewSessionHandler(sess *session.Session, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sess: sess, log: logger}
}

// Save handles POST /api/v1/session/save
func (h *SessionHandler) Save(c *gin.Context) {
	if err := h.sess.Save(c.Request.Context()); err != nil {
		h.log.Error("SessionHandler: save failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "SAVE_FAILED", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, models.SaveResponse{Status: "saved", SavedAt: time.Now().UTC()})
}
