package core

import (
	"context"

	"github.com/hupe1980/taskrouter/logging"
)

// ToolContext is the read-only surface handed to a tool invocation. Tools
// observe the context store through State and contribute changes only by
// returning a Result patch.
type ToolContext struct {
	ctx       context.Context
	callID    string
	agentName string
	state     State
	logger    logging.Logger
}

// NewToolContext binds a tool invocation to its call ID, calling agent and
// the context snapshot it may read.
func NewToolContext(ctx context.Context, callID, agentName string, state State, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if state == nil {
		state = State{}
	}
	return &ToolContext{ctx: ctx, callID: callID, agentName: agentName, state: state, logger: logger}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// CallID returns the model-assigned call ID.
func (tc *ToolContext) CallID() string { return tc.callID }

// AgentName returns the name of the agent that owns the tool.
func (tc *ToolContext) AgentName() string { return tc.agentName }

// State returns the snapshot visible to this invocation.
func (tc *ToolContext) State() State { return tc.state }

// GetState retrieves a single key from the snapshot.
func (tc *ToolContext) GetState(k string) (any, bool) { return tc.state.Get(k) }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
