package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/config"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/database"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/github"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/handler"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/repository"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/usecase"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf(".env not found: %v", err)
	}
	if !cfg.OAuthConfigured() {
		logger.Warn("OAuth not configured, login is disabled and GitHub calls are anonymous")
	}

	// History store: Postgres when configured, in-memory otherwise.
	var historyRepo domain.HistoryRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Database connection failed: %v", err)
		}
		defer db.Close()
		logger.Info("Database connected")
		historyRepo = repository.NewPostgresHistoryRepository(db)
	} else {
		logger.Info("No DATABASE_URL, keeping lookup history in memory")
		historyRepo = repository.NewMemoryHistoryRepository()
	}

	ghClient := github.NewClient(cfg.GithubAPIURL, cfg.RepoOwner, cfg.RepoName, logger)

	authUC := usecase.NewAuthUseCase(cfg)
	trackerUC := usecase.NewTrackerUseCase(ghClient)
	historyUC := usecase.NewHistoryUseCase(historyRepo)

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(handler.LoggingMiddleware(logger))

	apiHandler := handler.NewAPIHandler(authUC, trackerUC, historyUC, logger)
	apiHandler.RegisterRoutes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Infof("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}

	logger.Info("Server exited")
}
