package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDecode is returned when a token does not have the shape of a signed JWT
var ErrDecode = errors.New("malformed token")

// Claims represents the decoded payload of a bearer token
type Claims map[string]any

// Expiry returns the exp claim in seconds since the epoch
func (c Claims) Expiry() (float64, bool) {
	switch exp := c["exp"].(type) {
	case float64:
		return exp, true
	case json.Number:
		v, err := exp.Float64()
		return v, err == nil
	case int64:
		return float64(exp), true
	case int:
		return float64(exp), true
	default:
		return 0, false
	}
}

// Decode extracts the claims from a token payload.
// The signature is NOT verified: every authorization decision is taken again
// by the API, the client only needs the expiry and identity fields.
func Decode(tokenString string) (Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrDecode)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return Claims(claims), nil
}

// IsExpired reports whether the claims expired at now.
// exp is in seconds and compared against a millisecond clock; a token
// without exp is treated as expired.
func IsExpired(claims Claims, now time.Time) bool {
	exp, ok := claims.Expiry()
	if !ok {
		return true
	}
	return exp*1000 <= float64(now.UnixMilli())
}
