package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogicum/internal/config"
	"blogicum/internal/db"
	"blogicum/internal/handlers"
	"blogicum/internal/logging"
	"blogicum/internal/repository"
	"blogicum/internal/router"
	"blogicum/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	database, err := db.Open(cfg, logger)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	env := &handlers.Env{
		Posts:      repository.NewPostRepository(database),
		Comments:   repository.NewCommentRepository(database),
		Categories: repository.NewCategoryRepository(database),
		Locations:  repository.NewLocationRepository(database),
		Users:      repository.NewUserRepository(database),
		Images:     services.NewImageStore(cfg.MediaDir),
		Log:        logger,
		Now:        time.Now,
		PageSize:   cfg.PageSize,
		SiteName:   cfg.SiteName,
		SiteURL:    cfg.SiteURL,
	}

	r, err := router.New(router.Options{
		Env:           env,
		SessionSecret: cfg.SessionSecret,
		SiteName:      cfg.SiteName,
		MediaDir:      cfg.MediaDir,
		SecureCookies: cfg.IsProduction(),
	})
	if err != nil {
		logger.Fatal("router init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("blogicum server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
