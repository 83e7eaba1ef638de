package graphql

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/internal/tokenstore"
)

// CodeUnauthenticated is the extensions.code the API uses for rejected tokens
const CodeUnauthenticated = "UNAUTHENTICATED"

// authFailureMarkers are matched against error messages when the API does
// not supply a code. The wording is not a stable contract.
var authFailureMarkers = []string{"Unauthorized", "Authentication"}

// IsAuthFailure reports whether a protocol error means the token is no longer valid
func IsAuthFailure(e Error) bool {
	if e.Code() == CodeUnauthenticated {
		return true
	}
	for _, marker := range authFailureMarkers {
		if strings.Contains(e.Message, marker) {
			return true
		}
	}
	return false
}

// ErrorLink logs protocol and transport errors and evicts the session when
// the API rejects the token: the stored token is removed and the application
// is sent to the login view. Results and errors are passed through unchanged.
func ErrorLink(store tokenstore.Store, nav auth.Navigator, logger zerolog.Logger) Link {
	return func(next Handler) Handler {
		return func(ctx context.Context, op *Operation) (*Result, error) {
			result, err := next(ctx, op)

			evict := false
			if result != nil {
				for _, gqlErr := range result.Errors {
					logger.Error().
						Str("operation", op.Name).
						Str("message", gqlErr.Message).
						Str("locations", formatLocations(gqlErr.Locations)).
						Str("path", formatPath(gqlErr.Path)).
						Msg("GraphQL error")
					if IsAuthFailure(gqlErr) {
						evict = true
					}
				}
			}

			if err != nil {
				logger.Error().Err(err).Str("operation", op.Name).Msg("Network error")
				if IsUnauthorized(err) {
					evict = true
				}
			}

			if evict {
				logger.Warn().Str("operation", op.Name).Msg("API rejected credentials, ending session")
				store.Remove()
				if nav != nil {
					nav.Navigate(auth.LoginPath)
				}
			}

			return result, err
		}
	}
}

func formatLocations(locs []Location) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

func formatPath(path []any) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}
