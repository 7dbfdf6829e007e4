// Package flow implements the dispatch loop: one active agent is run against
// a language model, requested tool calls are executed, their context patches
// merged and an agent switch detected.
//
// A round moves through three states: awaiting the model response,
// executing tools, turn complete. Nothing persists between rounds except what
// is returned in TurnResult; the caller owns history and context.
package flow

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/internal/util"
	"github.com/hupe1980/taskrouter/logging"
	"github.com/hupe1980/taskrouter/model"
	"github.com/hupe1980/taskrouter/tool"
)

// DefaultMaxRounds bounds the rounds RunTurn performs for one user turn.
const DefaultMaxRounds = 5

// TurnResult is what a round (or a whole turn) produced.
type TurnResult struct {
	// Messages appended by this call, oldest first.
	Messages []core.Message
	// Context is the snapshot after all patches were merged.
	Context core.State
	// Patch is the union of all merged patches, later keys winning.
	Patch map[string]any
	// Agent is the resulting active agent (unchanged without a switch).
	Agent *core.Agent
	// Switched reports whether Agent differs from the starting agent.
	Switched bool
	// Terminal reports whether the last round ended with plain text.
	Terminal bool
	// Rounds is the number of model rounds performed.
	Rounds int
	Usage  model.TokenUsage
}

// Reply returns the text of the last assistant message, if any.
func (r *TurnResult) Reply() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if m := r.Messages[i]; m.Role == core.RoleAssistant && m.Content != "" {
			return m.Content
		}
	}
	return ""
}

// Options configure a Controller.
type Options struct {
	Executor   FunctionExecutor
	Processors []RequestProcessor
	Logger     logging.Logger
	Callbacks  []Callback
	// MaxParallel bounds concurrent tool calls of the default executor.
	MaxParallel int
}

// Controller is the dispatch loop. It holds no conversation state and is
// safe for concurrent use across sessions.
type Controller struct {
	model      model.Model
	executor   FunctionExecutor
	processors []RequestProcessor
	callbacks  *CallbackManager
	logger     logging.Logger
}

// NewController creates a controller driving m.
func NewController(m model.Model, optFns ...func(o *Options)) *Controller {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Executor == nil {
		opts.Executor = NewFunctionExecutor(FunctionExecutorConfig{MaxParallel: opts.MaxParallel, Logger: opts.Logger})
	}
	if len(opts.Processors) == 0 {
		opts.Processors = DefaultRequestProcessors()
	}
	return &Controller{
		model:      m,
		executor:   opts.Executor,
		processors: opts.Processors,
		callbacks:  NewCallbackManager(opts.Callbacks...),
		logger:     opts.Logger,
	}
}

// Run performs exactly one round for agent: the model is asked once and any
// requested tools are executed. Tool failures never fail the round; they are
// reported as tool messages. Only a failing model call (or instruction
// rendering) returns an error, in which case nothing is produced.
func (c *Controller) Run(ctx context.Context, agent *core.Agent, history []core.Message, state core.State) (*TurnResult, error) {
	if agent == nil {
		return nil, fmt.Errorf("flow: nil agent")
	}
	if state == nil {
		state = core.State{}
	}

	rc := &RequestContext{Agent: agent, History: history, State: state}
	req := model.Request{}
	for _, p := range c.processors {
		if err := p.ProcessRequest(rc, &req); err != nil {
			return nil, fmt.Errorf("%s processor: %w", p.Name(), err)
		}
	}

	c.logger.Debug("flow.round.start", "agent", agent.Name(), "history", len(history), "tools", len(req.Tools))

	if err := c.callbacks.Execute(ctx, &CallbackContext{Type: CallbackBeforeModel, Agent: agent, Request: &req}); err != nil {
		return nil, fmt.Errorf("before model callback: %w", err)
	}

	start := time.Now()
	resp, err := model.Collect(ctx, c.model, req)
	if err != nil {
		c.logger.Error("flow.model.error", "agent", agent.Name(), "error", err)
		return nil, fmt.Errorf("model generate: %w", err)
	}
	c.logger.Debug("flow.model.done", "agent", agent.Name(), "tool_calls", len(resp.ToolCalls), "duration_ms", time.Since(start).Milliseconds())
	c.notify(ctx, &CallbackContext{Type: CallbackAfterModel, Agent: agent, Request: &req, Response: &resp})

	result := &TurnResult{
		Context: state,
		Patch:   map[string]any{},
		Agent:   agent,
		Rounds:  1,
	}
	if resp.Usage != nil {
		result.Usage = *resp.Usage
	}

	if len(resp.ToolCalls) == 0 {
		result.Messages = []core.Message{core.NewAssistantMessage(agent.Name(), resp.Text)}
		result.Terminal = true
		return result, nil
	}

	calls := make([]core.ToolCall, len(resp.ToolCalls))
	for i, call := range resp.ToolCalls {
		if call.ID == "" {
			call.ID = util.NewID()
		}
		calls[i] = call
	}
	result.Messages = append(result.Messages, core.NewAssistantMessage(agent.Name(), resp.Text, calls...))

	for i := range calls {
		c.notify(ctx, &CallbackContext{Type: CallbackBeforeTool, Agent: agent, Call: &calls[i]})
	}

	outcomes := c.executor.Execute(ctx, agent, tool.RegistryFor(agent), calls, state)

	var pending *core.Agent
	working := state
	for i := range outcomes {
		o := outcomes[i]
		c.notify(ctx, &CallbackContext{Type: CallbackAfterTool, Agent: agent, Call: &o.Call, Outcome: &outcomes[i]})
		if o.Err != nil {
			c.logger.Warn("flow.tool.failed", "agent", agent.Name(), "tool", o.Call.Name, "error", o.Err)
			result.Messages = append(result.Messages, core.NewToolMessage(agent.Name(), o.Call.ID, o.Call.Name, "Error: "+o.Err.Error()))
			continue
		}

		result.Messages = append(result.Messages, core.NewToolMessage(agent.Name(), o.Call.ID, o.Call.Name, o.Result.Value))
		if len(o.Result.ContextPatch) > 0 {
			working = working.Merge(o.Result.ContextPatch)
			maps.Copy(result.Patch, o.Result.ContextPatch)
		}
		if o.Result.AgentSwitch != nil {
			pending = o.Result.AgentSwitch // last writer wins
		}
	}

	result.Context = working
	if pending != nil {
		result.Agent = pending
		result.Switched = pending != agent
		c.logger.Info("flow.agent.switched", "from", agent.Name(), "to", pending.Name())
		if result.Switched {
			c.notify(ctx, &CallbackContext{Type: CallbackAgentSwitch, Agent: agent, Target: pending})
		}
	}
	return result, nil
}

// notify runs observing callbacks; their errors never fail the round.
func (c *Controller) notify(ctx context.Context, cc *CallbackContext) {
	if err := c.callbacks.Execute(ctx, cc); err != nil {
		c.logger.Warn("flow.callback.failed", "type", string(cc.Type), "agent", cc.Agent.Name(), "error", err)
	}
}

// RunTurn repeats Run while the previous round executed tools, so the model
// (or the agent switched to) can answer from tool output within the same user
// turn. It stops after a terminal round or maxRounds rounds (<= 0 uses
// DefaultMaxRounds). On a model error the rounds completed so far are
// returned together with the error.
func (c *Controller) RunTurn(ctx context.Context, agent *core.Agent, history []core.Message, state core.State, maxRounds int) (*TurnResult, error) {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	if state == nil {
		state = core.State{}
	}

	total := &TurnResult{Context: state, Patch: map[string]any{}, Agent: agent}
	working := core.CloneMessages(history)

	for total.Rounds < maxRounds {
		round, err := c.Run(ctx, total.Agent, working, total.Context)
		if err != nil {
			return total, err
		}

		total.Rounds++
		total.Messages = append(total.Messages, round.Messages...)
		working = append(working, round.Messages...)
		total.Context = round.Context
		maps.Copy(total.Patch, round.Patch)
		total.Agent = round.Agent
		total.Terminal = round.Terminal
		total.Usage.PromptTokens += round.Usage.PromptTokens
		total.Usage.CompletionTokens += round.Usage.CompletionTokens
		total.Usage.TotalTokens += round.Usage.TotalTokens

		if round.Terminal {
			break
		}
	}

	total.Switched = total.Agent != agent
	return total, nil
}
