// Package token signs and verifies the short-lived artifacts the OAuth
// flow rides on: the 5-minute CSRF state token and the 7-day session.
// Both share one HS256 codec over the configured session secret.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	StateTTL   = 5 * time.Minute
	SessionTTL = 7 * 24 * time.Hour
)

// DefaultMode is used when a token carries no mode claim.
const DefaultMode = "read"

// StateClaims is the payload of the transient oauth_state cookie.
type StateClaims struct {
	State string `json:"state"`
	Mode  string `json:"mode"`
	jwt.RegisteredClaims
}

// SessionClaims is the payload of the session cookie.
type SessionClaims struct {
	GithubToken string `json:"github_token"`
	Mode        string `json:"mode"`
	jwt.RegisteredClaims
}

// Codec signs and verifies claims with a shared HMAC secret.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses raw into claims, enforcing HMAC signing, signature
// validity and expiry.
func (c *Codec) Verify(raw string, claims jwt.Claims) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil {
		return err
	}
	if !tok.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// NewStateClaims builds the state token payload with its 5-minute
// expiry window.
func NewStateClaims(state, mode string) StateClaims {
	return StateClaims{
		State:            state,
		Mode:             mode,
		RegisteredClaims: registered(StateTTL),
	}
}

// NewSessionClaims builds the session payload with its 7-day expiry
// window.
func NewSessionClaims(githubToken, mode string) SessionClaims {
	return SessionClaims{
		GithubToken:      githubToken,
		Mode:             mode,
		RegisteredClaims: registered(SessionTTL),
	}
}
