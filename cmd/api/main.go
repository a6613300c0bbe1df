package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investor-education/internal/api"
	"investor-education/internal/config"
	"investor-education/internal/data"
	"investor-education/internal/learnhub"
	"investor-education/internal/logging"
	"investor-education/internal/market"
	"investor-education/internal/session"
	"investor-education/internal/simulator"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if wd, err := os.Getwd(); err == nil {
		logger.Info("starting", zap.String("working_directory", wd), zap.String("env", cfg.Server.Env))
	}

	store, err := data.OpenStore(cfg.Storage.Driver, cfg.Storage.Dir)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	sess, err := session.New(cfg.Portfolio.StartingCash, store, logger)
	if err != nil {
		logger.Fatal("failed to create session", zap.Error(err))
	}
	ctx := context.Background()
	if err := sess.Load(ctx); err != nil {
		logger.Warn("failed to load saved session, starting fresh", zap.Error(err))
	}

	src, err := market.NewFromConfig(cfg.Market, logger)
	if err != nil {
		logger.Fatal("failed to create market source", zap.Error(err))
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	hub := learnhub.NewFromConfig(ctx, cfg.LearnHub, logger)
	defer hub.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Session:        sess,
		Simulator:      simulator.New(sess, src, cfg.Portfolio, cfg.Market, logger),
		LearnHub:       hub,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := sess.Save(shutdownCtx); err != nil {
		logger.Error("failed to save session", zap.Error(err))
	} else {
		logger.Info("session saved", zap.String("dir", cfg.Storage.Dir))
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.File != "" {
		return logging.NewWithFile(cfg.Level, cfg.File)
	}
	return logging.New(cfg.Level)
}
