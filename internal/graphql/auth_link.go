package graphql

import (
	"context"
	"net/http"

	"github.com/folio-dev/folio/internal/tokenstore"
)

const bearerPrefix = "Bearer "

// AuthLink sets the Authorization header from the current token, or leaves
// it unset when no token is stored
func AuthLink(store tokenstore.Store) Link {
	return func(next Handler) Handler {
		return func(ctx context.Context, op *Operation) (*Result, error) {
			header := op.Header.Clone()
			if header == nil {
				header = http.Header{}
			}

			if token, ok := store.Get(); ok {
				header.Set("Authorization", bearerPrefix+token)
			} else {
				header.Del("Authorization")
			}

			forwarded := *op
			forwarded.Header = header
			return next(ctx, &forwarded)
		}
	}
}
