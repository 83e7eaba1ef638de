package auth

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/folio-dev/folio/internal/tokenstore"
)

// DefaultLoginError is reported when a failed login carries no usable message
const DefaultLoginError = "Erreur de connexion"

// LoginPayload is what the remote authentication operation returns
type LoginPayload struct {
	Token string
	User  map[string]any
}

// Authenticator performs the remote credential exchange
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (*LoginPayload, error)
}

// AuthenticatorFunc adapts a function into an Authenticator
type AuthenticatorFunc func(ctx context.Context, identifier, secret string) (*LoginPayload, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, identifier, secret string) (*LoginPayload, error) {
	return f(ctx, identifier, secret)
}

// LoginResult is the tagged outcome of a login attempt
type LoginResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Manager owns the session state. It is the only writer; consumers read
// snapshots through State.
type Manager struct {
	store  tokenstore.Store
	auth   Authenticator
	logger zerolog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	session Session

	initOnce sync.Once
	ready    chan struct{}
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithClock overrides the wall clock used for expiry checks
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager in the initializing state
func NewManager(store tokenstore.Store, authenticator Authenticator, logger zerolog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:   store,
		auth:    authenticator,
		logger:  logger,
		now:     time.Now,
		session: Session{Loading: true},
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init restores the session from the token store. It runs once; loading is
// cleared only after the decode and expiry checks completed.
func (m *Manager) Init() {
	m.initOnce.Do(func() {
		next := m.restore()

		m.mu.Lock()
		next.Loading = false
		m.session = next
		m.mu.Unlock()

		close(m.ready)
	})
}

func (m *Manager) restore() Session {
	token, ok := m.store.Get()
	if !ok {
		return Session{}
	}

	claims, err := Decode(token)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Invalid stored token, discarding")
		m.store.Remove()
		return Session{}
	}

	if IsExpired(claims, m.now()) {
		m.logger.Info().Msg("Stored token expired, discarding")
		m.store.Remove()
		return Session{}
	}

	return Session{User: User(claims), Token: token}
}

// Wait blocks until Init has completed or ctx is done
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login exchanges credentials for a token. Failures never escape as errors
// or panics: they are reported in the result and leave the state untouched.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (result LoginResult) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Msg("Login panicked")
			result = LoginResult{Error: loginErrorMessage(fmt.Errorf("%v", r))}
		}
	}()

	if m.auth == nil {
		return LoginResult{Error: DefaultLoginError}
	}

	payload, err := m.auth.Authenticate(ctx, identifier, secret)
	if err == nil && (payload == nil || payload.Token == "") {
		err = errors.New("no token returned")
	}
	if err != nil {
		m.logger.Warn().Err(err).Str("identifier", identifier).Msg("Login failed")
		return LoginResult{Error: loginErrorMessage(err)}
	}

	claims, err := Decode(payload.Token)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Login returned an undecodable token")
		return LoginResult{Error: loginErrorMessage(err)}
	}

	user := User(maps.Clone(claims))
	maps.Copy(user, payload.User)

	m.store.Set(payload.Token)

	m.mu.Lock()
	m.session.User = user
	m.session.Token = payload.Token
	m.mu.Unlock()

	m.logger.Info().Str("user_id", user.ID()).Msg("User logged in")

	return LoginResult{Success: true}
}

func loginErrorMessage(err error) string {
	if err == nil {
		return DefaultLoginError
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return DefaultLoginError
}

// Logout discards the token and clears the session. No network call is made.
func (m *Manager) Logout() {
	m.store.Remove()

	m.mu.Lock()
	m.session.User = nil
	m.session.Token = ""
	m.mu.Unlock()
}

// IsAuthenticated reports whether both token and user are present
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.IsAuthenticated()
}

// State returns a snapshot of the session
func (m *Manager) State() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.clone()
}
