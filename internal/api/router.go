// Package api wires the HTTP routes for the investor-education service.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investor-education/internal/api/handlers"
	"investor-education/internal/api/middleware"
	"investor-education/internal/learnhub"
	"investor-education/internal/session"
	"investor-education/internal/simulator"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Session        *session.Session
	Simulator      *simulator.Simulator
	LearnHub       *learnhub.Hub
	Logger         *zap.Logger
	AllowedOrigins []string
	// StaticDir holds a built web client; empty or missing disables static serving.
	StaticDir string
}

// NewRouter builds the gin engine with middleware and all /api/v1 routes.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))

	portfolioHandler := handlers.NewPortfolioHandler(d.Simulator, logger)
	marketHandler := handlers.NewMarketHandler(d.Simulator)
	educationHandler := handlers.NewEducationHandler(d.Session, logger)
	learnHubHandler := handlers.NewLearnHubHandler(d.LearnHub)
	sessionHandler := handlers.NewSessionHandler(d.Session, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/portfolio", portfolioHandler.GetPortfolio)
		api.POST("/portfolio/orders", portfolioHandler.PlaceOrder)
		api.GET("/portfolio/history", portfolioHandler.GetHistory)
		api.GET("/portfolio/history.csv", portfolioHandler.ExportCSV)

		api.GET("/market/quotes", marketHandler.GetQuotes)

		api.GET("/lessons", educationHandler.ListLessons)
		api.GET("/lessons/:key", educationHandler.GetLesson)
		api.POST("/lessons/:key/complete", educationHandler.CompleteLesson)

		api.GET("/quiz", educationHandler.GetQuiz)
		api.POST("/quiz", educationHandler.SubmitQuiz)
		api.GET("/leaderboard", educationHandler.GetLeaderboard)

		api.GET("/risk/questions", educationHandler.GetRiskQuestions)
		api.POST("/risk", educationHandler.SubmitRisk)

		api.GET("/dashboard", educationHandler.GetDashboard)
		api.GET("/certificate", educationHandler.GetCertificate)
		api.GET("/resources", educationHandler.ListResources)

		if d.LearnHub != nil {
			api.POST("/learn", learnHubHandler.Process)
		}
		api.POST("/session/save", sessionHandler.Save)
	}

	serveStatic(router, d.StaticDir, logger)
	return router
}

// serveStatic serves a single-page web client, falling back to index.html for
// every non-API path.
func serveStatic(router *gin.Engine, staticDir string, logger *zap.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	}

	if staticDir == "" {
		router.NoRoute(notFound)
		return
	}
	if _, err := os.Stat(staticDir); err != nil {
		logger.Info("static directory not found, skipping static file serving", zap.String("dir", staticDir))
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
	logger.Info("serving static files", zap.String("dir", staticDir))
}
