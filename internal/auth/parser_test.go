package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
}

func TestParseExtractsEmail(t *testing.T) {
	parser := NewParser("secret")
	token, err := parser.Issue("Ana@Shipstore.com.br", validClaims())
	require.NoError(t, err)

	principal, err := parser.Parse(token)
	require.NoError(t, err)
	// identities are compared exactly as issued
	require.Equal(t, "Ana@Shipstore.com.br", principal.Email)
}

func TestParseFallsBackToSubject(t *testing.T) {
	parser := NewParser("secret")
	claims := validClaims()
	claims.Subject = "ops@shipstore.com.br"
	token, err := parser.Issue("", claims)
	require.NoError(t, err)

	principal, err := parser.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "ops@shipstore.com.br", principal.Email)
}

func TestParseRejects(t *testing.T) {
	parser := NewParser("secret")

	expired, err := parser.Issue("a@b.c", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))})
	require.NoError(t, err)
	foreign, err := NewParser("other").Issue("a@b.c", validClaims())
	require.NoError(t, err)
	noExpiry, err := parser.Issue("a@b.c", jwt.RegisteredClaims{})
	require.NoError(t, err)
	noEmail, err := parser.Issue("", validClaims())
	require.NoError(t, err)

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not-a-token",
		"expired":   expired,
		"signature": foreign,
		"no expiry": noExpiry,
		"no email":  noEmail,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parser.Parse(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
