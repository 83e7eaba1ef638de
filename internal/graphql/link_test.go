package graphql

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/internal/tokenstore"
)

func recordingLink(name string, calls *[]string) Link {
	return func(next Handler) Handler {
		return func(ctx context.Context, op *Operation) (*Result, error) {
			*calls = append(*calls, name+":before")
			res, err := next(ctx, op)
			*calls = append(*calls, name+":after")
			return res, err
		}
	}
}

func TestChain_Order(t *testing.T) {
	var calls []string
	terminal := func(ctx context.Context, op *Operation) (*Result, error) {
		calls = append(calls, "terminal")
		return &Result{}, nil
	}

	h := Chain(terminal, recordingLink("outer", &calls), recordingLink("inner", &calls))
	_, err := h(context.Background(), &Operation{})
	require.NoError(t, err)

	assert.Equal(t, []string{"outer:before", "inner:before", "terminal", "inner:after", "outer:after"}, calls)
}

func TestChain_ShortCircuit(t *testing.T) {
	blocked := errors.New("blocked")
	stop := func(next Handler) Handler {
		return func(ctx context.Context, op *Operation) (*Result, error) {
			return nil, blocked
		}
	}
	terminal := func(ctx context.Context, op *Operation) (*Result, error) {
		t.Fatal("terminal must not run")
		return nil, nil
	}

	_, err := Chain(terminal, stop)(context.Background(), &Operation{})
	assert.ErrorIs(t, err, blocked)
}

func captureHeader(got *http.Header) Handler {
	return func(ctx context.Context, op *Operation) (*Result, error) {
		*got = op.Header
		return &Result{}, nil
	}
}

func TestAuthLink_InjectsBearer(t *testing.T) {
	store := tokenstore.NewMemory()
	store.Set("abc123")

	var got http.Header
	_, err := Chain(captureHeader(&got), AuthLink(store))(context.Background(), &Operation{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc123", got.Get("Authorization"))
}

func TestAuthLink_NoTokenLeavesHeaderUnset(t *testing.T) {
	op := &Operation{Header: http.Header{"Authorization": {"Bearer stale"}, "X-Trace": {"1"}}}

	var got http.Header
	_, err := Chain(captureHeader(&got), AuthLink(tokenstore.NewMemory()))(context.Background(), op)
	require.NoError(t, err)

	_, present := got["Authorization"]
	assert.False(t, present)
	assert.Equal(t, "1", got.Get("X-Trace"))
	assert.Equal(t, "Bearer stale", op.Header.Get("Authorization"), "caller's operation is not mutated")
}

func TestAuthLink_ReadsTokenPerRequest(t *testing.T) {
	store := tokenstore.NewMemory()
	var got http.Header
	h := Chain(captureHeader(&got), AuthLink(store))

	_, _ = h(context.Background(), &Operation{})
	assert.Empty(t, got.Get("Authorization"))

	store.Set("fresh")
	_, _ = h(context.Background(), &Operation{})
	assert.Equal(t, "Bearer fresh", got.Get("Authorization"))
}

func TestIsAuthFailure(t *testing.T) {
	tests := []struct {
		name string
		err  Error
		want bool
	}{
		{"unauthorized message", Error{Message: "Unauthorized access"}, true},
		{"authentication message", Error{Message: "Authentication required"}, true},
		{"structured code", Error{Message: "Token expired", Extensions: map[string]any{"code": "UNAUTHENTICATED"}}, true},
		{"other code", Error{Message: "Not found", Extensions: map[string]any{"code": "NOT_FOUND"}}, false},
		{"case sensitive fallback", Error{Message: "unauthorized"}, false},
		{"validation error", Error{Message: "titre is required"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthFailure(tt.err))
		})
	}
}

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

func TestErrorLink_EvictsOnAuthFailure(t *testing.T) {
	store := tokenstore.NewMemory()
	store.Set("stale-token")
	nav := &recordingNavigator{}

	terminal := func(ctx context.Context, op *Operation) (*Result, error) {
		return &Result{Errors: Errors{{Message: "Unauthorized access", Path: []any{"getProjets"}}}}, nil
	}

	res, err := Chain(terminal, ErrorLink(store, nav, zerolog.Nop()))(context.Background(), &Operation{Name: "GetProjets"})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1, "the result is passed through")

	_, ok := store.Get()
	assert.False(t, ok)
	assert.Equal(t, []string{auth.LoginPath}, nav.paths)
}

func TestErrorLink_EvictsOnceForSeveralAuthErrors(t *testing.T) {
	store := tokenstore.NewMemory()
	store.Set("stale-token")
	nav := &recordingNavigator{}

	terminal := func(ctx context.Context, op *Operation) (*Result, error) {
		return &Result{Errors: Errors{{Message: "Unauthorized"}, {Message: "Authentication failed"}}}, nil
	}

	_, _ = Chain(terminal, ErrorLink(store, nav, zerolog.Nop()))(context.Background(), &Operation{})
	assert.Len(t, nav.paths, 1)
}

func TestErrorLink_KeepsTokenOnOtherErrors(t *testing.T) {
	store := tokenstore.NewMemory()
	store.Set("good-token")
	nav := &recordingNavigator{}

	terminal := func(ctx context.Context, op *Operation) (*Result, error) {
		return &Result{Errors: Errors{{Message: "Projet introuvable"}}}, nil
	}

	_, _ = Chain(terminal, ErrorLink(store, nav, zerolog.Nop()))(context.Background(), &Operation{})

	token, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "good-token", token)
	assert.Empty(t, nav.paths)
}

func TestErrorLink_TransportErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		evict bool
	}{
		{"connection refused", &TransportError{Err: errors.New("connection refused")}, false},
		{"server error", &TransportError{StatusCode: http.StatusBadGateway, Body: "bad gateway"}, false},
		{"unauthorized status", &TransportError{StatusCode: http.StatusUnauthorized, Body: "nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tokenstore.NewMemory()
			store.Set("token")
			nav := &recordingNavigator{}

			terminal := func(ctx context.Context, op *Operation) (*Result, error) {
				return nil, tt.err
			}

			_, err := Chain(terminal, ErrorLink(store, nav, zerolog.Nop()))(context.Background(), &Operation{})
			assert.ErrorIs(t, err, tt.err, "transport errors reach the caller")

			_, ok := store.Get()
			assert.Equal(t, !tt.evict, ok)
			assert.Equal(t, tt.evict, len(nav.paths) == 1)
		})
	}
}

func TestErrors_Error(t *testing.T) {
	assert.Equal(t, "first", Errors{{Message: "first"}}.Error())
	assert.Equal(t, "first (and 2 more errors)", Errors{{Message: "first"}, {Message: "b"}, {Message: "c"}}.Error())
}
