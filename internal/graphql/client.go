package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/internal/tokenstore"
)

// Options configures a Client
type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	Store      tokenstore.Store
	Navigator  auth.Navigator
	Cache      Cache
	Logger     zerolog.Logger
}

// Client sends operations through the link chain:
// ErrorLink -> AuthLink -> HTTPLink.
type Client struct {
	handler Handler
	cache   Cache
	logger  zerolog.Logger
}

// NewClient builds the default link chain
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	store := opts.Store
	if store == nil {
		store = tokenstore.NewMemory()
	}

	handler := Chain(
		HTTPLink(opts.Endpoint, httpClient),
		ErrorLink(store, opts.Navigator, opts.Logger),
		AuthLink(store),
	)

	return NewClientWithHandler(handler, opts.Cache, opts.Logger)
}

// NewClientWithHandler wraps an already composed handler
func NewClientWithHandler(handler Handler, cache Cache, logger zerolog.Logger) *Client {
	return &Client{handler: handler, cache: cache, logger: logger}
}

// Do executes an operation under the given fetch policy. The returned
// result may carry both data and errors; err is only set when no result
// could be produced. A rejected token is never answered from the cache.
func (c *Client) Do(ctx context.Context, op Operation, policy FetchPolicy) (*Result, error) {
	if policy == NetworkOnly || c.cache == nil {
		return c.handler(ctx, &op)
	}

	key := CacheKey(&op)
	result, err := c.handler(ctx, &op)
	if err != nil {
		if !IsTransportError(err) || IsUnauthorized(err) {
			return nil, err
		}
		cached, ok := c.cache.Get(ctx, key)
		if !ok {
			return nil, err
		}
		c.logger.Warn().Err(err).Str("operation", op.Name).Msg("API unreachable, serving cached response")
		return &Result{Data: cached}, nil
	}

	if hasData(result.Data) {
		data := result.Data
		if existing, ok := c.cache.Get(ctx, key); ok {
			data = MergeData(existing, result.Data)
		}
		c.cache.Set(ctx, key, data)
	}

	return result, nil
}

// Query runs a one-shot query against the network
func (c *Client) Query(ctx context.Context, op Operation, out any) error {
	return c.run(ctx, op, NetworkOnly, out)
}

// Watch runs a long-lived query: network first, cached response as fallback
func (c *Client) Watch(ctx context.Context, op Operation, out any) error {
	return c.run(ctx, op, CacheAndNetwork, out)
}

// Mutate runs a mutation. Cached query responses are invalidated when the
// mutation went through.
func (c *Client) Mutate(ctx context.Context, op Operation, out any) error {
	err := c.run(ctx, op, NetworkOnly, out)
	if err == nil {
		c.Invalidate(ctx)
	}
	return err
}

// Refresh fetches op from the network and replaces its cached response.
// Unlike Watch it never falls back to the cache.
func (c *Client) Refresh(ctx context.Context, op Operation) error {
	result, err := c.handler(ctx, &op)
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return result.Errors
	}
	if c.cache != nil && hasData(result.Data) {
		c.cache.Set(ctx, CacheKey(&op), result.Data)
	}
	return nil
}

// Invalidate drops every cached response
func (c *Client) Invalidate(ctx context.Context) {
	if c.cache != nil {
		c.cache.Purge(ctx)
	}
}

func (c *Client) run(ctx context.Context, op Operation, policy FetchPolicy, out any) error {
	result, err := c.Do(ctx, op, policy)
	if err != nil {
		return err
	}

	// Partial data is decoded even when errors are present
	if out != nil && len(result.Data) > 0 {
		if err := json.Unmarshal(result.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", op.Name, err)
		}
	}

	if len(result.Errors) > 0 {
		return result.Errors
	}
	return nil
}

func hasData(data json.RawMessage) bool {
	return len(data) > 0 && string(data) != "null"
}
