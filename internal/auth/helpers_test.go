package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	return mintToken(t, jwt.MapClaims{
		"id":       "user-1",
		"username": "admin",
		"email":    "admin@example.com",
		"role":     "ADMIN",
		"exp":      exp.Unix(),
	})
}
