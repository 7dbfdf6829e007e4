package flow

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/logging"
	"github.com/hupe1980/taskrouter/tool"
)

// CallOutcome is the result of a single tool call. Exactly one outcome is
// produced per requested call, in call order.
type CallOutcome struct {
	Call     core.ToolCall
	Result   core.Result
	Err      error
	Duration time.Duration
}

// FunctionExecutor executes the tool calls of one model response.
// Implementations must:
//   - Respect ctx cancellation (calls not started report ctx.Err())
//   - Never panic (the registry recovers tool panics)
//   - Return exactly one CallOutcome per incoming call, in call order
//   - Never mutate the given snapshot
type FunctionExecutor interface {
	Execute(ctx context.Context, agent *core.Agent, registry *tool.Registry, calls []core.ToolCall, state core.State) []CallOutcome
}

// FunctionExecutorConfig configures the default executor.
type FunctionExecutorConfig struct {
	MaxParallel    int  // 0 or <1 => no explicit limit (len(calls))
	LogStartEvents bool // log a start line per call
	Logger         logging.Logger
}

// defaultFunctionExecutor runs calls sequentially or concurrently depending
// on the agent's AllowConcurrentTools flag.
type defaultFunctionExecutor struct {
	cfg FunctionExecutorConfig
}

// NewFunctionExecutor constructs the default executor.
//
// Sequential mode folds each Result's patch into the snapshot handed to the
// next call, so later calls observe earlier ones. Concurrent mode hands every
// call the same pre-turn snapshot; outcomes are still returned in call order
// so merging them is independent of completion order.
func NewFunctionExecutor(cfg FunctionExecutorConfig) FunctionExecutor {
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOpLogger{}
	}
	return &defaultFunctionExecutor{cfg: cfg}
}

func (e *defaultFunctionExecutor) Execute(
	ctx context.Context,
	agent *core.Agent,
	registry *tool.Registry,
	calls []core.ToolCall,
	state core.State,
) []CallOutcome {
	n := len(calls)
	if n == 0 {
		return nil
	}

	batchStart := time.Now()
	var outcomes []CallOutcome
	concurrent := agent.AllowConcurrentTools() && n > 1
	if concurrent {
		outcomes = e.executeConcurrent(ctx, agent, registry, calls, state)
	} else {
		outcomes = e.executeSequential(ctx, agent, registry, calls, state)
	}

	e.cfg.Logger.Debug(
		"flow.tools.batch.complete",
		"agent", agent.Name(),
		"count", n,
		"concurrent", concurrent,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)
	return outcomes
}

func (e *defaultFunctionExecutor) executeSequential(
	ctx context.Context,
	agent *core.Agent,
	registry *tool.Registry,
	calls []core.ToolCall,
	state core.State,
) []CallOutcome {
	outcomes := make([]CallOutcome, len(calls))
	working := state
	for i, call := range calls {
		outcomes[i] = e.executeSingle(ctx, agent, registry, call, working)
		if outcomes[i].Err == nil && len(outcomes[i].Result.ContextPatch) > 0 {
			working = working.Merge(outcomes[i].Result.ContextPatch)
		}
	}
	return outcomes
}

func (e *defaultFunctionExecutor) executeConcurrent(
	ctx context.Context,
	agent *core.Agent,
	registry *tool.Registry,
	calls []core.ToolCall,
	state core.State,
) []CallOutcome {
	n := len(calls)
	maxPar := e.cfg.MaxParallel
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	outcomes := make([]CallOutcome, n)
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxPar)

	for i := range calls {
		wg.Add(1)
		go func(idx int, call core.ToolCall) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				outcomes[idx] = CallOutcome{Call: call, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			// each goroutine writes only its own slot
			outcomes[idx] = e.executeSingle(ctx, agent, registry, call, state.Clone())
		}(i, calls[i])
	}

	wg.Wait()
	return outcomes
}

func (e *defaultFunctionExecutor) executeSingle(
	ctx context.Context,
	agent *core.Agent,
	registry *tool.Registry,
	call core.ToolCall,
	state core.State,
) CallOutcome {
	if err := ctx.Err(); err != nil {
		return CallOutcome{Call: call, Err: err}
	}

	if e.cfg.LogStartEvents {
		e.cfg.Logger.Info("flow.tool.start", "agent", agent.Name(), "tool", call.Name, "call_id", call.ID)
	}

	tc := core.NewToolContext(ctx, call.ID, agent.Name(), state, e.cfg.Logger)

	start := time.Now()
	res, err := registry.Invoke(tc, call.Name, call.Arguments)
	dur := time.Since(start)

	e.cfg.Logger.Info(
		"flow.tool.executed",
		"agent", agent.Name(),
		"tool", call.Name,
		"call_id", call.ID,
		"duration_ms", dur.Milliseconds(),
		"error", err != nil,
	)

	return CallOutcome{Call: call, Result: res, Err: err, Duration: dur}
}
