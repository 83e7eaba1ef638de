// Package tokenstore persists the single bearer token the portfolio admin
// session is built from. Every medium stores it under the same fixed key and
// none of them report failures to callers: an unavailable medium behaves as
// an empty one.
package tokenstore

import "sync"

// Key is the fixed name the bearer token is stored under
const Key = "token"

// Store defines the token storage operations
type Store interface {
	// Get returns the stored token, ok is false when nothing is stored
	Get() (token string, ok bool)
	// Set persists the token, overwriting any prior value
	Set(token string)
	// Remove deletes the stored token; removing an absent token is a no-op
	Remove()
}

// Memory keeps the token in process memory
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *Memory) Set(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *Memory) Remove() {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
}
