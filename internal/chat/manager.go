package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Manager owns the live sessions, one per widget instance. Sessions
// idle past the TTL are disposed and forgotten on the next sweep.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewManager creates a session registry using opts as the template for
// every session it creates.
func NewManager(opts Options, ttl time.Duration, logger zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		ttl:      ttl,
		logger:   logger,
	}
}

// Create starts a new session for a visitor. An empty visitorID gets a
// generated one, which the client keeps for language persistence.
func (m *Manager) Create(visitorID string) *Session {
	session := NewSession(visitorID, m.opts)

	m.mu.Lock()
	m.sessions[session.ID] = session
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info().
		Str("session_id", session.ID).
		Str("visitor_id", session.VisitorID).
		Int("active_sessions", count).
		Msg("Session created")

	m.Sweep()
	return session
}

// Get looks up a live session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Remove disposes a session and drops it from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		session.Dispose()
		m.logger.Info().Str("session_id", id).Msg("Session removed")
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep disposes sessions idle past the TTL.
func (m *Manager) Sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, session := range m.sessions {
		if session.LastActive().Before(cutoff) {
			expired = append(expired, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Dispose()
		m.logger.Info().Str("session_id", session.ID).Msg("Idle session evicted")
	}
}

// StartSweeper sweeps on an interval until stop is closed.
func (m *Manager) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
