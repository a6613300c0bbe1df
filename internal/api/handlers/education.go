package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investor-education/internal/api/models"
	"investor-education/internal/education"
	"investor-education/internal/session"
)

// EducationHandler serves lessons, the quiz, the risk profiler and the dashboard
type EducationHandler struct {
	sess *session.Session
	log  *zap.Logger
}

func NewEducationHandler(sess *session.Session, logger *zap.Logger) *EducationHandler {
	return &EducationHandler{sess: sess, log: logger}
}

// ListLessons handles GET /api/v1/lessons
func (h *EducationHandler) ListLessons(c *gin.Context) {
	progress := h.sess.Snapshot().Progress
	resp := models.LessonsResponse{Lessons: []models.LessonInfo{}}
	for _, l := range education.Lessons() {
		resp.Lessons = append(resp.Lessons, models.LessonInfo{Lesson: l, Completed: progress[l.Key]})
	}
	resp.Completed = education.CountCompleted(progress)
	resp.Total = len(resp.Lessons)
	c.JSON(http.StatusOK, resp)
}

// GetLesson handles GET /api/v1/lessons/:key (?format=html adds rendered HTML)
func (h *EducationHandler) GetLesson(c *gin.Context) {
	l, err := education.FindLesson(c.Param("key"))
	if err != nil {
		writeError(c, http.StatusNotFound, "LESSON_NOT_FOUND", err.Error(), nil)
		return
	}
	info := models.LessonInfo{Lesson: l, Completed: h.sess.Snapshot().Progress[l.Key]}
	if c.Query("format") == "html" {
		html, err := l.HTML()
		if err != nil {
			writeError(c, http.StatusInternalServerError, "RENDER_ERROR", err.Error(), nil)
			return
		}
		info.HTML = html
	}
	c.JSON(http.StatusOK, info)
}

// CompleteLesson handles POST /api/v1/lessons/:key/complete
func (h *EducationHandler) CompleteLesson(c *gin.Context) {
	key := c.Param("key")
	if err := h.sess.CompleteLesson(key); err != nil {
		if errors.Is(err, education.ErrUnknownLesson) {
			writeError(c, http.StatusNotFound, "LESSON_NOT_FOUND", err.Error(), nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "completed": true})
}

// GetQuiz handles GET /api/v1/quiz
func (h *EducationHandler) GetQuiz(c *gin.Context) {
	c.JSON(http.StatusOK, models.QuizResponse{
		Questions: education.QuizQuestions(),
		Total:     education.QuizTotal(),
	})
}

// SubmitQuiz handles POST /api/v1/quiz
func (h *EducationHandler) SubmitQuiz(c *gin.Context) {
	var req models.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.sess.RecordQuiz(c.Request.Context(), req.Answers, req.Name)
	if err != nil {
		// The attempt is graded and recorded in memory; only persistence failed.
		h.log.Error("EducationHandler: leaderboard save failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, out)
}

// GetLeaderboard handles GET /api/v1/leaderboard
func (h *EducationHandler) GetLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, models.LeaderboardResponse{Entries: h.sess.Leaderboard()})
}

// GetRiskQuestions handles GET /api/v1/risk/questions
func (h *EducationHandler) GetRiskQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, models.RiskQuestionsResponse{
		Questions:      education.RiskQuestions(),
		CurrentProfile: h.sess.Snapshot().RiskProfile,
	})
}

// SubmitRisk handles POST /api/v1/risk
func (h *EducationHandler) SubmitRisk(c *gin.Context) {
	var req models.RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sess.SetRiskProfile(req.Answers))
}

// GetDashboard handles GET /api/v1/dashboard
func (h *EducationHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.sess.Dashboard())
}

// GetCertificate handles GET /api/v1/certificate
func (h *EducationHandler) GetCertificate(c *gin.Context) {
	text, ok := h.sess.Certificate()
	if !ok {
		writeError(c, http.StatusNotFound, "CERTIFICATE_NOT_EARNED",
			"score at least 4 on the quiz to earn a certificate", map[string]interface{}{
				"required_score": education.CertificateScore,
			})
		return
	}
	c.JSON(http.StatusOK, models.CertificateResponse{Text: text, Filename: "certificate.txt"})
}

// ListResources handles GET /api/v1/resources
func (h *EducationHandler) ListResources(c *gin.Context) {
	c.JSON(http.StatusOK, models.ResourcesResponse{Resources: education.Resources()})
}
