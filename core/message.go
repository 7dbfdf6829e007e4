package core

import (
	"time"

	"github.com/hupe1980/taskrouter/internal/util"
)

// Role identifies the author category of a Message.
type Role string

const (
	// RoleUser marks input typed by the human.
	RoleUser Role = "user"
	// RoleAssistant marks model output (text and/or tool call requests).
	RoleAssistant Role = "assistant"
	// RoleTool marks the outcome of a single tool invocation.
	RoleTool Role = "tool"
)

// ToolCall describes a tool invocation requested by the model.
type ToolCall struct {
	ID        string `json:"id,omitempty"`        // Correlates the call with its tool message
	Name      string `json:"name"`                // Tool name as declared to the model
	Arguments string `json:"arguments,omitempty"` // Raw argument payload (JSON object or single value)
}

// Message is a single entry of the conversation history. After it has been
// appended to a history it should be treated as immutable.
//
// ToolCalls is only populated on assistant messages that requested tools;
// ToolCallID and ToolName are only populated on tool messages.
type Message struct {
	ID         string     `json:"id"`
	Role       Role       `json:"role"`
	Author     string     `json:"author,omitempty"` // agent name for assistant/tool messages
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	return Message{ID: util.NewID(), Role: RoleUser, Author: "user", Content: text, Timestamp: time.Now().UTC()}
}

// NewAssistantMessage creates an assistant message authored by the named
// agent. Tool calls are optional.
func NewAssistantMessage(author, text string, calls ...ToolCall) Message {
	return Message{
		ID:        util.NewID(),
		Role:      RoleAssistant,
		Author:    author,
		Content:   text,
		ToolCalls: calls,
		Timestamp: time.Now().UTC(),
	}
}

// NewToolMessage records the value produced by (or the failure of) the tool
// call identified by callID.
func NewToolMessage(author, callID, toolName, content string) Message {
	return Message{
		ID:         util.NewID(),
		Role:       RoleTool,
		Author:     author,
		Content:    content,
		ToolCallID: callID,
		ToolName:   toolName,
		Timestamp:  time.Now().UTC(),
	}
}

// HasToolCalls reports whether the message requests at least one tool call.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// CloneMessages returns a copy of the slice so callers can append without
// aliasing the caller's backing array.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
