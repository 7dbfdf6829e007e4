package flow

import (
	"context"
	"sync"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/model"
)

// CallbackType names a point of a round where callbacks run.
type CallbackType string

const (
	// CallbackBeforeModel runs before the model is asked. An error aborts
	// the round like a failing model call.
	CallbackBeforeModel CallbackType = "before_model"
	// CallbackAfterModel runs after the model answered.
	CallbackAfterModel CallbackType = "after_model"
	// CallbackBeforeTool runs once per requested call, in issue order,
	// before any tool executes.
	CallbackBeforeTool CallbackType = "before_tool"
	// CallbackAfterTool runs once per call outcome, in issue order.
	CallbackAfterTool CallbackType = "after_tool"
	// CallbackAgentSwitch runs when a round changed the active agent.
	CallbackAgentSwitch CallbackType = "agent_switch"
)

// CallbackContext carries what a callback may inspect. Fields not relevant
// to Type are nil.
type CallbackContext struct {
	Type     CallbackType
	Agent    *core.Agent
	Request  *model.Request
	Response *model.Response
	Call     *core.ToolCall
	Outcome  *CallOutcome
	// Target is the agent switched to.
	Target *core.Agent
}

// Callback is a lifecycle hook of the dispatch loop. Only BeforeModel
// callbacks can fail a round; errors of the other types are logged.
type Callback interface {
	Type() CallbackType
	Execute(ctx context.Context, cc *CallbackContext) error
}

// FunctionCallback adapts a function to Callback.
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, cc *CallbackContext) error
}

// NewFunctionCallback wraps fn as a callback of the given type.
//
// Example:
//
//	trace := NewFunctionCallback(CallbackAfterTool, func(_ context.Context, cc *CallbackContext) error {
//	    log.Printf("%s -> %s", cc.Call.Name, cc.Outcome.Result.Value)
//	    return nil
//	})
func NewFunctionCallback(callbackType CallbackType, fn func(ctx context.Context, cc *CallbackContext) error) *FunctionCallback {
	return &FunctionCallback{callbackType: callbackType, fn: fn}
}

// Type implements Callback.
func (c *FunctionCallback) Type() CallbackType { return c.callbackType }

// Execute implements Callback.
func (c *FunctionCallback) Execute(ctx context.Context, cc *CallbackContext) error {
	return c.fn(ctx, cc)
}

// CallbackManager holds callbacks per type and runs them in registration
// order. It is safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates a manager holding cbs.
func NewCallbackManager(cbs ...Callback) *CallbackManager {
	m := &CallbackManager{callbacks: make(map[CallbackType][]Callback)}
	m.Register(cbs...)
	return m
}

// Register adds callbacks.
func (m *CallbackManager) Register(cbs ...Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cb := range cbs {
		if cb == nil {
			continue
		}
		m.callbacks[cb.Type()] = append(m.callbacks[cb.Type()], cb)
	}
}

// Execute runs the callbacks registered for cc.Type and stops at the first
// error.
func (m *CallbackManager) Execute(ctx context.Context, cc *CallbackContext) error {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	cbs := m.callbacks[cc.Type]
	m.mu.RUnlock()

	for _, cb := range cbs {
		if err := cb.Execute(ctx, cc); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of registered callbacks of type t.
func (m *CallbackManager) Len(t CallbackType) int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.callbacks[t])
}
