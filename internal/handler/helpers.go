package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

const (
	sessionCookieName = "session"
	stateCookieName   = "oauth_state"
)

func toErrorResponse(code, message string) domain.ErrorResponse {
	return domain.ErrorResponse{
		Error: domain.HTTPError{
			Code:    code,
			Message: message,
		},
	}
}

func getHTTPStatusCode(err error) int {
	switch {
	// Bad request (400) - missing or malformed input
	case errors.Is(err, domain.ErrMissingParameters),
		errors.Is(err, domain.ErrInvalidPRNumber):
		return http.StatusBadRequest

	// CSRF / integrity failures (403)
	case errors.Is(err, domain.ErrInvalidStateToken),
		errors.Is(err, domain.ErrStateMismatch):
		return http.StatusForbidden

	// Unauthenticated (401)
	case errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrInvalidSession):
		return http.StatusUnauthorized

	// Configuration and upstream exchange failures (500)
	case errors.Is(err, domain.ErrMissingOAuthConfig),
		errors.Is(err, domain.ErrTokenExchange):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(c echo.Context, err error) error {
	httpErr, known := domain.ToHTTPError(err)
	if !known {
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	// Exchange failures surface the upstream error message.
	if errors.Is(err, domain.ErrTokenExchange) {
		httpErr.Message = err.Error()
	}
	return c.JSON(getHTTPStatusCode(err), domain.ErrorResponse{Error: httpErr})
}

// sessionToken reads the verified GitHub token out of the session
// cookie; "" when there is no valid session.
func sessionToken(c echo.Context, auth domain.AuthUseCase) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	info, err := auth.ReadSession(cookie.Value)
	if err != nil {
		return ""
	}
	return info.Token
}

// requestToken picks the GitHub token for an upstream call: an explicit
// Authorization header wins, the session cookie is the fallback and
// anonymous access the last resort.
func requestToken(c echo.Context, auth domain.AuthUseCase) string {
	if header := c.Request().Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 {
			return parts[1]
		}
	}
	return sessionToken(c, auth)
}

// historyOwner derives the opaque history key for the current session.
// The token itself never reaches storage.
func historyOwner(c echo.Context, auth domain.AuthUseCase) string {
	token := sessionToken(c, auth)
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
