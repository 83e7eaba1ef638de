package graphql

import "context"

// Handler executes an operation and returns the API response
type Handler func(ctx context.Context, op *Operation) (*Result, error)

// Link wraps a Handler. A link may inspect or mutate the operation before
// calling next, inspect the result after, or short-circuit entirely.
type Link func(next Handler) Handler

// Chain composes links around a terminating handler. The first link is the
// outermost: it sees the operation first and the final result last.
func Chain(terminal Handler, links ...Link) Handler {
	h := terminal
	for i := len(links) - 1; i >= 0; i-- {
		h = links[i](h)
	}
	return h
}
