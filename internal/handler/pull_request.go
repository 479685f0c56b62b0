package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

// TrackerHandler serves the GitHub-backed lookup endpoints. Every
// endpoint works anonymously; a session or Authorization header lifts
// the upstream rate limit.
type TrackerHandler struct {
	*BaseHandler
	trackerUC domain.TrackerUseCase
	authUC    domain.AuthUseCase
}

// NewTrackerHandler creates a new TrackerHandler.
func NewTrackerHandler(trackerUC domain.TrackerUseCase, authUC domain.AuthUseCase, logger *logrus.Logger) *TrackerHandler {
	return &TrackerHandler{
		BaseHandler: NewBaseHandler(logger),
		trackerUC:   trackerUC,
		authUC:      authUC,
	}
}

func prNumber(c echo.Context) (int, error) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		return 0, domain.ErrInvalidPRNumber
	}
	return number, nil
}

// GetBranches returns the candidate branch list. Upstream failures are
// absorbed by the baseline fallback, so this never errors.
func (h *TrackerHandler) GetBranches(c echo.Context) error {
	branches := h.trackerUC.Branches(c.Request().Context(), requestToken(c, h.authUC))
	return c.JSON(http.StatusOK, branches)
}

// GetPullRequest returns the PR projection. The body carries the
// upstream fetch status so the UI can tell "not found" from transient
// failures.
func (h *TrackerHandler) GetPullRequest(c echo.Context) error {
	number, err := prNumber(c)
	if err != nil {
		return writeDomainError(c, err)
	}

	pr, err := h.trackerUC.PullRequest(c.Request().Context(), requestToken(c, h.authUC), number)
	if err != nil {
		h.logRequest(c, "get_pr").WithError(err).Error("PR fetch failed")
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, pr)
}

// GetReviews returns the PR's approving reviewers.
func (h *TrackerHandler) GetReviews(c echo.Context) error {
	number, err := prNumber(c)
	if err != nil {
		return writeDomainError(c, err)
	}

	approvers, err := h.trackerUC.Approvers(c.Request().Context(), requestToken(c, h.authUC), number)
	if err != nil {
		h.logRequest(c, "get_reviews").WithError(err).Error("Review fetch failed")
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, approvers)
}

// GetChecks returns the merged CI status for the PR's head commit.
func (h *TrackerHandler) GetChecks(c echo.Context) error {
	number, err := prNumber(c)
	if err != nil {
		return writeDomainError(c, err)
	}

	checks, err := h.trackerUC.CIStatus(c.Request().Context(), requestToken(c, h.authUC), number)
	if err != nil {
		h.logRequest(c, "get_checks").WithError(err).Error("CI status fetch failed")
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, checks)
}

// GetContainment reports, per candidate branch, whether the PR's merge
// commit has landed there.
func (h *TrackerHandler) GetContainment(c echo.Context) error {
	number, err := prNumber(c)
	if err != nil {
		return writeDomainError(c, err)
	}

	result, err := h.trackerUC.Containment(c.Request().Context(), requestToken(c, h.authUC), number)
	if err != nil {
		h.logRequest(c, "get_containment").WithError(err).Error("Containment check failed")
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetReport bundles the PR projection, approvers and CI status.
func (h *TrackerHandler) GetReport(c echo.Context) error {
	number, err := prNumber(c)
	if err != nil {
		return writeDomainError(c, err)
	}

	report, err := h.trackerUC.Report(c.Request().Context(), requestToken(c, h.authUC), number)
	if err != nil {
		h.logRequest(c, "get_report").WithError(err).Error("Report build failed")
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
