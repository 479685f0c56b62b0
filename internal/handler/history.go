package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

// HistoryHandler serves the per-session lookup history. Requests
// without a valid session are not errors: reads come back empty and
// writes are silently dropped, mirroring browser storage that is
// absent outside a browser.
type HistoryHandler struct {
	*BaseHandler
	historyUC domain.HistoryUseCase
	authUC    domain.AuthUseCase
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyUC domain.HistoryUseCase, authUC domain.AuthUseCase, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{
		BaseHandler: NewBaseHandler(logger),
		historyUC:   historyUC,
		authUC:      authUC,
	}
}

// List returns the session's history, oldest first.
func (h *HistoryHandler) List(c echo.Context) error {
	entries, err := h.historyUC.List(c.Request().Context(), historyOwner(c, h.authUC))
	if err != nil {
		h.logRequest(c, "history_list").WithError(err).Error("History list failed")
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Save records one looked-up PR. Saving the same PR number again is a
// no-op.
func (h *HistoryHandler) Save(c echo.Context) error {
	var entry domain.HistoryEntry
	if err := c.Bind(&entry); err != nil {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}
	if entry.PR <= 0 {
		return writeDomainError(c, domain.ErrInvalidPRNumber)
	}

	if err := h.historyUC.Save(c.Request().Context(), historyOwner(c, h.authUC), entry); err != nil {
		h.logRequest(c, "history_save").WithError(err).Error("History save failed")
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes one PR from the session's history.
func (h *HistoryHandler) Delete(c echo.Context) error {
	pr, err := strconv.Atoi(c.Param("pr"))
	if err != nil || pr <= 0 {
		return writeDomainError(c, domain.ErrInvalidPRNumber)
	}

	if err := h.historyUC.Delete(c.Request().Context(), historyOwner(c, h.authUC), pr); err != nil {
		h.logRequest(c, "history_delete").WithError(err).Error("History delete failed")
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
