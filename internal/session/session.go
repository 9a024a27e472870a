// Package session tracks authenticated sessions as opaque tokens. Sessions
// live in process memory only and are lost on restart, which matches the
// engine's current-session semantics: nothing about who is logged in is ever
// persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	accountID int64
	expires   time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration

	now func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Manager{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a session for the account and returns its token.
func (m *Manager) Create(accountID int64) string {
	token := uuid.New().String()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[token] = entry{accountID: accountID, expires: m.now().Add(m.ttl)}

	return token
}

// Resolve returns the account owning the token. Expired sessions are
// dropped on access.
func (m *Manager) Resolve(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return 0, false
	}
	if m.now().After(e.expires) {
		delete(m.sessions, token)
		return 0, false
	}

	return e.accountID, true
}

// Destroy closes the session. Reports whether the token was active.
func (m *Manager) Destroy(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return false
	}

	delete(m.sessions, token)

	return true
}
