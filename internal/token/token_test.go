package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/token"
)

func TestSessionRoundTrip(t *testing.T) {
	codec := token.NewCodec("test-secret")

	raw, err := codec.Sign(token.NewSessionClaims("gho_abc123", "read"))
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	var claims token.SessionClaims
	err = codec.Verify(raw, &claims)
	require.NoError(t, err)
	assert.Equal(t, "gho_abc123", claims.GithubToken)
	assert.Equal(t, "read", claims.Mode)
}

func TestStateRoundTrip(t *testing.T) {
	codec := token.NewCodec("test-secret")

	raw, err := codec.Sign(token.NewStateClaims("some-state-value", "write"))
	require.NoError(t, err)

	var claims token.StateClaims
	err = codec.Verify(raw, &claims)
	require.NoError(t, err)
	assert.Equal(t, "some-state-value", claims.State)
	assert.Equal(t, "write", claims.Mode)
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec := token.NewCodec("test-secret")

	expired := token.SessionClaims{
		GithubToken: "gho_abc123",
		Mode:        "read",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	raw, err := codec.Sign(expired)
	require.NoError(t, err)

	var claims token.SessionClaims
	assert.Error(t, codec.Verify(raw, &claims))
}

func TestVerifyRejectsTampered(t *testing.T) {
	codec := token.NewCodec("test-secret")

	raw, err := codec.Sign(token.NewStateClaims("some-state-value", "read"))
	require.NoError(t, err)

	// Flip one character anywhere in the token.
	tampered := []byte(raw)
	if tampered[10] == 'a' {
		tampered[10] = 'b'
	} else {
		tampered[10] = 'a'
	}

	var claims token.StateClaims
	assert.Error(t, codec.Verify(string(tampered), &claims))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := token.NewCodec("secret-one").Sign(token.NewSessionClaims("gho_abc123", "read"))
	require.NoError(t, err)

	var claims token.SessionClaims
	assert.Error(t, token.NewCodec("secret-two").Verify(raw, &claims))
}

func TestVerifyRejectsNonHMAC(t *testing.T) {
	// alg=none tokens must never verify.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, token.NewSessionClaims("gho_abc123", "read")).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	var claims token.SessionClaims
	assert.Error(t, token.NewCodec("test-secret").Verify(unsigned, &claims))
}

func TestTTLConstants(t *testing.T) {
	assert.Equal(t, 5*time.Minute, token.StateTTL)
	assert.Equal(t, 7*24*time.Hour, token.SessionTTL)
}
