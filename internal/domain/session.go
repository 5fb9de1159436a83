package domain

import "time"

// SessionState tracks the lifecycle of a session.
type SessionState string

const (
	// SessionFresh means no turn has completed yet.
	SessionFresh SessionState = "fresh"
	// SessionActive means at least one turn has completed.
	SessionActive SessionState = "active"
)

// Session holds the per-conversation state for a sequence of turns.
// A session is owned exclusively by the turn that currently holds it;
// the session manager serializes turns per session id.
type Session struct {
	ID             string         `json:"session_id"`
	History        []Message      `json:"messages"`
	PendingInput   string         `json:"-"`
	ActiveCategory Category       `json:"current_agent,omitempty"`
	BillingCache   string         `json:"-"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewSession creates an empty session with the given id.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		Metadata:  map[string]any{"created_at": now.Format(time.RFC3339)},
	}
}

// State derives the lifecycle state from the recorded history. Terminated
// sessions are removed from the session table and are never observed here.
func (s *Session) State() SessionState {
	if len(s.History) == 0 {
		return SessionFresh
	}
	return SessionActive
}

// Append adds a message to the history. History is append-only; insertion
// order is significant.
func (s *Session) Append(m Message) {
	s.History = append(s.History, m)
}

// SetBillingCache stores the hybrid strategy's cache artifact. The first
// write wins; later writes are ignored until the session ends.
func (s *Session) SetBillingCache(artifact string) {
	if s.BillingCache == "" {
		s.BillingCache = artifact
	}
}

// HasBillingCache reports whether the hybrid strategy has cached general
// billing context for this session.
func (s *Session) HasBillingCache() bool {
	return s.BillingCache != ""
}
