package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/token"
)

// AuthHandler serves the OAuth redirect dance and the session bridge.
type AuthHandler struct {
	*BaseHandler
	authUC domain.AuthUseCase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authUC domain.AuthUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authUC:      authUC,
	}
}

func secureCookies(c echo.Context) bool {
	return c.Scheme() == "https"
}

// Authorize starts the flow: signs a fresh state token into a transient
// cookie and redirects to the GitHub authorize endpoint.
func (h *AuthHandler) Authorize(c echo.Context) error {
	mode := c.QueryParam("mode")

	redirect, err := h.authUC.BeginAuthorization(mode)
	if err != nil {
		h.logRequest(c, "authorize").WithError(err).Error("Authorization refused")
		return writeDomainError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    redirect.StateToken,
		Path:     "/",
		MaxAge:   redirect.CookieMaxAge,
		HttpOnly: true,
		Secure:   secureCookies(c),
		SameSite: http.SameSiteLaxMode,
	})

	h.logRequest(c, "authorize").WithField("mode", mode).Info("Redirecting to GitHub")
	return c.Redirect(http.StatusFound, redirect.URL)
}

// Callback finishes the flow: validates the CSRF state, exchanges the
// code and installs the session cookie.
func (h *AuthHandler) Callback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")

	stateCookie, err := c.Cookie(stateCookieName)
	if code == "" || state == "" || err != nil {
		return writeDomainError(c, domain.ErrMissingParameters)
	}

	session, err := h.authUC.CompleteAuthorization(c.Request().Context(), code, state, stateCookie.Value)
	if err != nil {
		h.logRequest(c, "callback").WithError(err).Warn("Callback rejected")
		return writeDomainError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    session,
		Path:     "/",
		MaxAge:   int(token.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secureCookies(c),
		SameSite: http.SameSiteStrictMode,
	})

	// The state token is consumed exactly once.
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.logRequest(c, "callback").Info("Session established")
	return c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie. Never fails.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Token is the session bridge: the browser reads the GitHub token out
// of its own verified session so it can attach it to API calls.
func (h *AuthHandler) Token(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return writeDomainError(c, domain.ErrNotAuthenticated)
	}

	info, err := h.authUC.ReadSession(cookie.Value)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}
