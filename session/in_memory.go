package session

import (
	"sync"

	"github.com/hupe1980/taskrouter/core"
)

// InMemoryStore is a volatile Store keeping conversations in a process
// local map. It is safe for concurrent access. Get returns the live state;
// callers serialize turns through ConversationState.Lock.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*ConversationState
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*ConversationState)}
}

// Create starts (or restarts) the conversation id on root.
func (s *InMemoryStore) Create(id string, root *core.Agent) (*ConversationState, error) {
	state := NewConversationState(id, root)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[id] = state
	return state, nil
}

// Get returns the conversation or ErrNotFound.
func (s *InMemoryStore) Get(id string) (*ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.conversations[id]; ok {
		return state, nil
	}
	return nil, ErrNotFound
}

// GetOrCreate returns the conversation id, creating it on root under the
// store lock so concurrent first turns share one state.
func (s *InMemoryStore) GetOrCreate(id string, root *core.Agent) (*ConversationState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.conversations[id]; ok {
		return state, false, nil
	}
	state := NewConversationState(id, root)
	s.conversations[id] = state
	return state, true, nil
}

// Save stores state under its id.
func (s *InMemoryStore) Save(state *ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[state.ID] = state
	return nil
}

// Delete ends the conversation. Deleting an unknown id is not an error.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
	return nil
}

// Len reports the number of live conversations.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
