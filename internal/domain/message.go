package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single entry in a session's conversation history.
// Messages are immutable once created; AgentType is set only on
// assistant messages.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	AgentType Category  `json:"agent_type,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message tagged with the category
// that produced it.
func NewAssistantMessage(content string, category Category) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		AgentType: category,
		CreatedAt: time.Now(),
	}
}
