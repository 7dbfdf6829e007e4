package core

import (
	"maps"
	"sync"
)

// State is an immutable snapshot of the context store. Tools receive a State
// by value and must not mutate it; they return a patch instead.
type State map[string]any

// Get returns the value stored under k.
func (s State) Get(k string) (any, bool) {
	v, ok := s[k]
	return v, ok
}

// Clone returns a shallow copy of the snapshot.
func (s State) Clone() State {
	out := make(State, len(s))
	maps.Copy(out, s)
	return out
}

// Merge returns a new snapshot with patch applied on top of s. Merges are
// shallow: a key in patch replaces the whole top-level value.
func (s State) Merge(patch map[string]any) State {
	out := s.Clone()
	maps.Copy(out, patch)
	return out
}

// ContextStore is the accumulating key/value context of a conversation. It
// only supports overwrite and insertion; nothing in the normal flow deletes
// a key. It is safe for concurrent use, although the controller is its only
// writer.
type ContextStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewContextStore creates a store seeded with a copy of initial.
func NewContextStore(initial map[string]any) *ContextStore {
	values := make(map[string]any, len(initial))
	maps.Copy(values, initial)
	return &ContextStore{values: values}
}

// Snapshot returns an independent copy of the current values.
func (c *ContextStore) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State(c.values).Clone()
}

// Get returns the value for a key and whether it exists.
func (c *ContextStore) Get(k string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[k]
	return v, ok
}

// Merge applies a patch; later keys overwrite existing ones.
func (c *ContextStore) Merge(patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.Copy(c.values, patch)
}

// Len returns the number of keys currently stored.
func (c *ContextStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}
