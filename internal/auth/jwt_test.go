package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ValidToken(t *testing.T) {
	token := tokenExpiringAt(t, testNow.Add(time.Hour))

	claims, err := Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", claims["email"])
	exp, ok := claims.Expiry()
	require.True(t, ok)
	assert.Equal(t, float64(testNow.Add(time.Hour).Unix()), exp)
}

func TestDecode_IgnoresSignature(t *testing.T) {
	token := tokenExpiringAt(t, testNow.Add(time.Hour))
	tampered := token[:len(token)-4] + "AAAA"

	_, err := Decode(tampered)
	assert.NoError(t, err, "signature verification belongs to the API")
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"single segment", "not-a-token"},
		{"two segments", "abc.def"},
		{"corrupt payload encoding", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.sig"},
		{"missing alg", "e30.e30.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name    string
		claims  Claims
		expired bool
	}{
		{"one hour ahead", Claims{"exp": float64(testNow.Add(time.Hour).Unix())}, false},
		{"one hour ago", Claims{"exp": float64(testNow.Add(-time.Hour).Unix())}, true},
		{"exactly now", Claims{"exp": float64(testNow.Unix())}, true},
		{"one second ahead", Claims{"exp": float64(testNow.Unix() + 1)}, false},
		{"missing exp", Claims{"email": "a@b.c"}, true},
		{"non numeric exp", Claims{"exp": "tomorrow"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, IsExpired(tt.claims, testNow))
		})
	}
}

func TestIsExpired_ComparesMilliseconds(t *testing.T) {
	// exp is whole seconds; a clock 1ms before the boundary is still valid
	exp := testNow.Add(time.Minute)
	claims := Claims{"exp": float64(exp.Unix())}

	assert.False(t, IsExpired(claims, exp.Add(-time.Millisecond)))
	assert.True(t, IsExpired(claims, exp))
}

func TestDecode_RoundTripsCustomClaims(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{"exp": testNow.Unix(), "firstName": "Ada"})

	claims, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "Ada", User(claims).DisplayName())
}
