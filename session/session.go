package session

import (
	"errors"
	"sync"
	"time"

	"github.com/hupe1980/taskrouter/core"
)

// ErrNotFound is returned for unknown conversation ids.
var ErrNotFound = errors.New("session not found")

// Store persists conversations.
type Store interface {
	Create(id string, root *core.Agent) (*ConversationState, error)
	Get(id string) (*ConversationState, error)
	// GetOrCreate returns the conversation id, starting it on root if it does
	// not exist yet. created reports whether a new conversation was started.
	GetOrCreate(id string, root *core.Agent) (state *ConversationState, created bool, err error)
	Save(state *ConversationState) error
	Delete(id string) error
}

// ConversationState is the mutable state of one conversation. Turns on the
// same conversation must be serialized with Lock and Unlock.
type ConversationState struct {
	ID        string
	History   []core.Message
	Agent     *core.Agent
	Context   *core.ContextStore
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// NewConversationState starts a conversation on root with an empty context.
func NewConversationState(id string, root *core.Agent) *ConversationState {
	now := time.Now()
	return &ConversationState{
		ID:        id,
		Agent:     root,
		Context:   core.NewContextStore(nil),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Lock acquires the turn lock.
func (s *ConversationState) Lock() { s.mu.Lock() }

// Unlock releases the turn lock.
func (s *ConversationState) Unlock() { s.mu.Unlock() }

// Append adds messages to the history.
func (s *ConversationState) Append(msgs ...core.Message) {
	s.History = append(s.History, msgs...)
	s.UpdatedAt = time.Now()
}

// TrimHistory keeps at most max of the most recent messages. Tool messages
// left at the front without their assistant request are dropped as well.
// A non-positive max leaves the history untouched.
func (s *ConversationState) TrimHistory(max int) {
	if max <= 0 || len(s.History) <= max {
		return
	}
	kept := s.History[len(s.History)-max:]
	for len(kept) > 0 && kept[0].Role == core.RoleTool {
		kept = kept[1:]
	}
	s.History = core.CloneMessages(kept)
}
