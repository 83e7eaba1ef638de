package portfolio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/folio-dev/folio/internal/graphql"
)

type recordedRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	Authorization string         `json:"-"`
}

// fakeAPI answers GraphQL operations with canned bodies keyed by operation name
type fakeAPI struct {
	t         *testing.T
	mu        sync.Mutex
	responses map[string]string
	requests  []recordedRequest
	server    *httptest.Server
}

func newFakeAPI(t *testing.T, responses map[string]string) *fakeAPI {
	t.Helper()
	api := &fakeAPI{t: t, responses: responses}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	var req recordedRequest
	require.NoError(a.t, json.NewDecoder(r.Body).Decode(&req))
	req.Authorization = r.Header.Get("Authorization")

	a.mu.Lock()
	a.requests = append(a.requests, req)
	body, ok := a.responses[req.OperationName]
	a.mu.Unlock()

	if !ok {
		body = `{"errors":[{"message":"unexpected operation ` + req.OperationName + `"}]}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func (a *fakeAPI) last() recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(a.t, a.requests)
	return a.requests[len(a.requests)-1]
}

func (a *fakeAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

func (a *fakeAPI) service(opts ...Option) *Service {
	client := graphql.NewClient(graphql.Options{
		Endpoint: a.server.URL,
		Cache:    graphql.NewMemoryCache(0),
		Logger:   zerolog.Nop(),
	})
	return NewService(client, zerolog.Nop(), opts...)
}

type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) RequestRefresh(context.Context) error {
	r.calls++
	return r.err
}
