// Package session owns the process-wide session table and its lifecycle:
// fresh on creation, active after the first completed turn, gone on explicit
// deletion. State is in-memory only and lives for the process lifetime.
package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/helpdesk/internal/domain"
)

type entry struct {
	session *domain.Session
	// turnMu serializes turns within a single session; history appends and
	// the first-write-once billing cache are not safe under concurrent
	// mutation.
	turnMu sync.Mutex
}

// Manager is the concurrent session table keyed by session id.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*entry
	logger  *zap.Logger
}

// NewManager creates an empty session table.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Checkout returns the live session named by id, creating one when the id is
// unknown or empty, and locks it against concurrent turns. A caller-supplied
// id is honored for a new session; an empty id gets a generated UUID. The
// returned release func must be called once session mutation is finished.
func (m *Manager) Checkout(id string) (s *domain.Session, created bool, release func()) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok {
		if id == "" {
			id = uuid.NewString()
		}
		e = &entry{session: domain.NewSession(id)}
		m.entries[id] = e
		created = true
	}
	m.mu.Unlock()

	if created {
		m.logger.Info("created new session", zap.String("session_id", id))
	}

	e.turnMu.Lock()
	return e.session, created, e.turnMu.Unlock
}

// Snapshot is a consistent read view of a session, safe to use while a turn
// is mutating the live session.
type Snapshot struct {
	ID              string
	MessageCount    int
	ActiveCategory  domain.Category
	HasBillingCache bool
	Metadata        map[string]any
}

// Snapshot copies the session's observable state under the turn lock, so an
// introspection read never races a turn's history append or cache write. It
// blocks until any in-flight session mutation releases the lock.
func (m *Manager) Snapshot(id string) (Snapshot, bool) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}

	e.turnMu.Lock()
	defer e.turnMu.Unlock()
	s := e.session

	metadata := make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		metadata[k] = v
	}
	return Snapshot{
		ID:              s.ID,
		MessageCount:    len(s.History),
		ActiveCategory:  s.ActiveCategory,
		HasBillingCache: s.HasBillingCache(),
		Metadata:        metadata,
	}, true
}

// Delete removes the session. Operations on a deleted id behave as not
// found; the id is never reused.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return false
	}
	delete(m.entries, id)
	return true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
