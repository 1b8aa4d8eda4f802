package findmystore

import (
	"context"
	"time"
)

// Role identifies the author of a chat message.
type Role string

// Role constants.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat session.
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageService persists chat history.
type MessageService interface {
	// CreateMessages appends messages to their sessions in one transaction.
	CreateMessages(ctx context.Context, msgs []*Message) error

	// FindMessages returns up to limit most recent messages of a session in
	// chronological order. A limit of zero returns the whole session.
	FindMessages(ctx context.Context, sessionID string, limit int) ([]*Message, error)
}

// ChatReply is the assistant's answer to a chat message.
type ChatReply struct {
	SessionID string   `json:"sessionId"`
	Text      string   `json:"text"`
	ToolCalls []string `json:"toolCalls,omitempty"` // Names of tools called this turn
}

// Chatter is a conversational assistant that keeps per-session history.
type Chatter interface {
	// Chat sends a user message to a session. An empty session ID starts a
	// new session whose ID is returned in the reply.
	Chat(ctx context.Context, sessionID, message string) (*ChatReply, error)
}

// ToolParamType is the JSON type of a tool parameter.
type ToolParamType string

// ToolParamType constants.
const (
	ToolParamString      ToolParamType = "string"
	ToolParamNumber      ToolParamType = "number"
	ToolParamInteger     ToolParamType = "integer"
	ToolParamBoolean     ToolParamType = "boolean"
	ToolParamStringArray ToolParamType = "string_array"
)

// ToolParam describes a tool parameter.
type ToolParam struct {
	Name        string
	Type        ToolParamType
	Description string
	Required    bool
	Enum        []string
}

// ToolSpec describes a tool the assistant can call.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

// Toolbox exposes application operations as assistant tools.
type Toolbox interface {
	// Tools lists the available tools.
	Tools() []ToolSpec

	// Call invokes a tool by name. The result must be JSON-serializable.
	// Returns ENOTFOUND for unknown tools and EINVALID for bad arguments.
	Call(ctx context.Context, name string, args map[string]any) (any, error)
}
