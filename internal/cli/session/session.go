// Package session wires the CLI's token store, GraphQL client and session
// manager together.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/internal/graphql"
	"github.com/folio-dev/folio/internal/portfolio"
	"github.com/folio-dev/folio/internal/tokenstore"
)

// ErrNotLoggedIn is returned by Require when there is no valid session
var ErrNotLoggedIn = errors.New("not authenticated. Please run 'folio login' first")

// ErrSessionExpired is returned when the API rejected the stored token mid-command
var ErrSessionExpired = errors.New("session expired. Please run 'folio login' again")

// Options configures a CLI session
type Options struct {
	APIURL       string
	Timeout      time.Duration
	TokenBackend string
	TokenDBPath  string
	Logger       zerolog.Logger

	// Store overrides TokenBackend
	Store tokenstore.Store
	// Notices receives user-facing messages, such as the forced logout notice
	Notices io.Writer
}

// Session is one CLI invocation's view of the user's login state
type Session struct {
	Store     tokenstore.Store
	Client    *graphql.Client
	Portfolio *portfolio.Service
	Manager   *auth.Manager

	nav       *terminalNavigator
	closeFunc func() error
}

// terminalNavigator stands in for page navigation: a request to go to the
// login view is reported to the user and remembered
type terminalNavigator struct {
	mu      sync.Mutex
	out     io.Writer
	evicted bool
}

func (n *terminalNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if path != auth.LoginPath || n.evicted {
		return
	}
	n.evicted = true
	if n.out != nil {
		fmt.Fprintln(n.out, "Your session has expired or was revoked. Run 'folio login' to sign in again.")
	}
}

func (n *terminalNavigator) wasEvicted() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.evicted
}

// Open restores the session from the configured token store
func Open(opts Options) (*Session, error) {
	store := opts.Store
	closeFunc := func() error { return nil }
	if store == nil {
		var err error
		store, closeFunc, err = tokenstore.Open(opts.TokenBackend, opts.TokenDBPath, opts.Logger)
		if err != nil {
			return nil, err
		}
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	nav := &terminalNavigator{out: opts.Notices}
	client := graphql.NewClient(graphql.Options{
		Endpoint:   opts.APIURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Store:      store,
		Navigator:  nav,
		Logger:     opts.Logger,
	})
	svc := portfolio.NewService(client, opts.Logger)
	manager := auth.NewManager(store, svc, opts.Logger)

	s := &Session{
		Store:     store,
		Client:    client,
		Portfolio: svc,
		Manager:   manager,
		nav:       nav,
		closeFunc: closeFunc,
	}

	go manager.Init()

	return s, nil
}

// Require is the route guard for admin commands: it waits for the session
// to finish loading and fails unless the user is authenticated
func (s *Session) Require(ctx context.Context) error {
	for {
		switch auth.Decide(s.Manager.State()) {
		case auth.DecisionAllow:
			return nil
		case auth.DecisionRedirect:
			return ErrNotLoggedIn
		}
		if err := s.Manager.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for session: %w", err)
		}
	}
}

// Ready waits for the session to finish loading
func (s *Session) Ready(ctx context.Context) error {
	return s.Manager.Wait(ctx)
}

// Evicted reports whether the API rejected the token during this invocation
func (s *Session) Evicted() bool {
	return s.nav.wasEvicted()
}

// Err rewrites errors caused by a rejected token into ErrSessionExpired
func (s *Session) Err(err error) error {
	if err == nil {
		return nil
	}
	if s.Evicted() {
		s.Manager.Logout()
		return fmt.Errorf("%w (%w)", ErrSessionExpired, err)
	}
	return err
}

// Close releases the token store
func (s *Session) Close() error {
	return s.closeFunc()
}
