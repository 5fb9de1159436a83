package domain

import "time"

// EventType tags one event on a turn's output stream.
type EventType string

const (
	EventStart    EventType = "start"
	EventAgent    EventType = "agent"
	EventToken    EventType = "token"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// StreamEvent is one caller-visible event on a turn's ordered stream.
// Per turn: exactly one start, at most one agent, zero or more token,
// then exactly one of complete/error.
type StreamEvent struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	AgentType Category  `json:"agent_type,omitempty"`
	Content   string    `json:"content,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
}

// NewStartEvent announces the resolved or freshly created session.
func NewStartEvent(sessionID string) StreamEvent {
	return StreamEvent{
		Type:      EventStart,
		SessionID: sessionID,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewAgentEvent announces the category the turn was routed to.
func NewAgentEvent(category Category) StreamEvent {
	return StreamEvent{Type: EventAgent, AgentType: category}
}

// NewTokenEvent carries one text increment of the response.
func NewTokenEvent(content string) StreamEvent {
	return StreamEvent{Type: EventToken, Content: content}
}

// NewCompleteEvent terminates a successful stream.
func NewCompleteEvent(sessionID string, category Category) StreamEvent {
	return StreamEvent{
		Type:      EventComplete,
		SessionID: sessionID,
		AgentType: category,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewErrorEvent terminates a stream with a user-safe message.
func NewErrorEvent(message string) StreamEvent {
	return StreamEvent{
		Type:      EventError,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
