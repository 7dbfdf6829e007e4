package util

import "github.com/google/uuid"

// NewID returns a random identifier for messages and tool calls.
func NewID() string { return uuid.NewString() }
