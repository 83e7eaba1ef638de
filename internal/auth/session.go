package auth

import "maps"

// State is the lifecycle phase of a session
type State int

const (
	StateInitializing State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// User holds identity claims merged with the user data returned at login
type User map[string]any

func (u User) str(key string) string {
	if v, ok := u[key].(string); ok {
		return v
	}
	return ""
}

// ID returns the user id, falling back to the sub claim
func (u User) ID() string {
	if id := u.str("id"); id != "" {
		return id
	}
	return u.str("sub")
}

func (u User) Email() string    { return u.str("email") }
func (u User) Username() string { return u.str("username") }
func (u User) Role() string     { return u.str("role") }

// DisplayName returns the most human-friendly name available
func (u User) DisplayName() string {
	for _, key := range []string{"firstName", "username", "email"} {
		if v := u.str(key); v != "" {
			return v
		}
	}
	return u.ID()
}

// Session represents the authenticated session context
type Session struct {
	User    User   `json:"user,omitempty"`
	Token   string `json:"-"`
	Loading bool   `json:"loading"`
}

// IsAuthenticated holds iff both token and user are present
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && len(s.User) > 0
}

// State derives the lifecycle phase from the session fields
func (s Session) State() State {
	switch {
	case s.Loading:
		return StateInitializing
	case s.IsAuthenticated():
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

func (s Session) clone() Session {
	out := s
	if s.User != nil {
		out.User = maps.Clone(s.User)
	}
	return out
}
