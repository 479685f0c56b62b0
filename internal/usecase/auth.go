package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/config"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/token"
)

// oauthScopes are requested from GitHub during authorization.
const oauthScopes = "read:user read:org"

// AuthUseCase implements the OAuth redirect dance and session reads.
type AuthUseCase struct {
	cfg   config.Config
	codec *token.Codec
	httpc *http.Client
}

// NewAuthUseCase creates a new AuthUseCase signing tokens with the
// configured session secret.
func NewAuthUseCase(cfg config.Config) domain.AuthUseCase {
	return &AuthUseCase{
		cfg:   cfg,
		codec: token.NewCodec(cfg.SessionSecret),
		httpc: &http.Client{},
	}
}

// BeginAuthorization generates a fresh CSRF state value, signs it
// together with the requested mode, and builds the upstream authorize
// redirect. Fails closed when the OAuth app is not configured.
func (uc *AuthUseCase) BeginAuthorization(mode string) (*domain.AuthorizationRedirect, error) {
	if !uc.cfg.OAuthConfigured() {
		return nil, domain.ErrMissingOAuthConfig
	}
	if mode == "" {
		mode = token.DefaultMode
	}

	state := uuid.NewString()
	stateToken, err := uc.codec.Sign(token.NewStateClaims(state, mode))
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("client_id", uc.cfg.GithubClientID)
	query.Set("redirect_uri", uc.cfg.GithubCallbackURL)
	query.Set("scope", oauthScopes)
	query.Set("state", state)

	return &domain.AuthorizationRedirect{
		URL:          uc.cfg.GithubOAuthURL + "/login/oauth/authorize?" + query.Encode(),
		StateToken:   stateToken,
		CookieMaxAge: int(token.StateTTL.Seconds()),
	}, nil
}

// CompleteAuthorization validates the CSRF state, exchanges the code
// for an access token and returns a freshly signed session token.
func (uc *AuthUseCase) CompleteAuthorization(ctx context.Context, code, stateParam, stateCookie string) (string, error) {
	if code == "" || stateParam == "" || stateCookie == "" {
		return "", domain.ErrMissingParameters
	}

	var claims token.StateClaims
	if err := uc.codec.Verify(stateCookie, &claims); err != nil {
		return "", domain.ErrInvalidStateToken
	}
	if stateParam != claims.State {
		return "", domain.ErrStateMismatch
	}

	accessToken, err := uc.exchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	return uc.codec.Sign(token.NewSessionClaims(accessToken, claims.Mode))
}

// exchangeCode performs the server-to-server code/token exchange.
func (uc *AuthUseCase) exchangeCode(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     uc.cfg.GithubClientID,
		"client_secret": uc.cfg.GithubClientSecret,
		"code":          code,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uc.cfg.GithubOAuthURL+"/login/oauth/access_token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := uc.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	var data struct {
		AccessToken      string `json:"access_token"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenExchange, err)
	}

	if data.AccessToken == "" {
		reason := data.ErrorDescription
		if reason == "" {
			reason = data.Error
		}
		if reason == "" {
			reason = "unknown error"
		}
		return "", fmt.Errorf("%w: %s", domain.ErrTokenExchange, reason)
	}

	return data.AccessToken, nil
}

// ReadSession verifies a session cookie value and extracts its payload.
func (uc *AuthUseCase) ReadSession(raw string) (*domain.SessionInfo, error) {
	if raw == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var claims token.SessionClaims
	if err := uc.codec.Verify(raw, &claims); err != nil {
		return nil, domain.ErrInvalidSession
	}

	mode := claims.Mode
	if mode == "" {
		mode = token.DefaultMode
	}
	return &domain.SessionInfo{Token: claims.GithubToken, Mode: mode}, nil
}
