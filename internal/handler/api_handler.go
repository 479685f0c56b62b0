package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

type APIHandler struct {
	*AuthHandler
	*TrackerHandler
	*HistoryHandler
}

func NewAPIHandler(
	authUseCase domain.AuthUseCase,
	trackerUseCase domain.TrackerUseCase,
	historyUseCase domain.HistoryUseCase,
	logger *logrus.Logger,
) *APIHandler {

	return &APIHandler{
		AuthHandler:    NewAuthHandler(authUseCase, logger),
		TrackerHandler: NewTrackerHandler(trackerUseCase, authUseCase, logger),
		HistoryHandler: NewHistoryHandler(historyUseCase, authUseCase, logger),
	}
}

// RegisterRoutes mounts the API surface on the echo instance.
func (h *APIHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/auth/github", h.Authorize)
	e.GET("/api/auth/callback", h.Callback)
	e.POST("/api/auth/logout", h.Logout)
	e.GET("/api/auth/token", h.Token)

	e.GET("/api/branches", h.GetBranches)
	e.GET("/api/pr/:number", h.GetPullRequest)
	e.GET("/api/pr/:number/reviews", h.GetReviews)
	e.GET("/api/pr/:number/checks", h.GetChecks)
	e.GET("/api/pr/:number/branches", h.GetContainment)
	e.GET("/api/pr/:number/report", h.GetReport)

	e.GET("/api/history", h.List)
	e.POST("/api/history", h.Save)
	e.DELETE("/api/history/:pr", h.Delete)
}
