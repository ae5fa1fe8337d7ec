package collab

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"collab-docs-be/internal/pkg/logger"
)

// Manager keeps one Session per open document and reference-counts the
// participants so a session is loaded on the first join and flushed on
// the last leave.
type Manager struct {
	persister     Persister
	broadcaster   Broadcaster
	log           logger.ILogger
	autosaveDelay time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*managed
}

type managed struct {
	session *Session
	refs    int
}

func NewManager(p Persister, b Broadcaster, log logger.ILogger) *Manager {
	return &Manager{
		persister:     p,
		broadcaster:   b,
		log:           log,
		autosaveDelay: AutosaveDelay,
		sessions:      make(map[uuid.UUID]*managed),
	}
}

// Acquire returns the session for documentID, loading it from storage
// on the first reference.
func (m *Manager) Acquire(ctx context.Context, documentID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	if e, ok := m.sessions[documentID]; ok {
		e.refs++
		m.mu.Unlock()
		return e.session, nil
	}

	s := NewSession(documentID, m.persister, m.broadcaster, m.log, m.autosaveDelay)
	m.sessions[documentID] = &managed{session: s, refs: 1}
	m.mu.Unlock()

	if err := s.Load(ctx); err != nil {
		m.mu.Lock()
		delete(m.sessions, documentID)
		m.mu.Unlock()
		return nil, err
	}
	return s, nil
}

// Lookup returns the session for documentID without taking a
// reference, or nil when the document is not open.
func (m *Manager) Lookup(documentID uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[documentID]; ok {
		return e.session
	}
	return nil
}

// Release drops one reference. The last release flushes pending
// autosaves and discards the session.
func (m *Manager) Release(documentID uuid.UUID) {
	m.mu.Lock()
	e, ok := m.sessions[documentID]
	if !ok {
		m.mu.Unlock()
		return
	}
	e.refs--
	if e.refs > 0 {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, documentID)
	m.mu.Unlock()

	e.session.Close()
}

// Shutdown closes every open session, flushing pending saves.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for id, e := range m.sessions {
		open = append(open, e.session)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
}
