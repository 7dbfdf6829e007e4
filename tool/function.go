package tool

import (
	"fmt"
	"time"

	"github.com/hupe1980/taskrouter/core"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// tool.
//
// Responsibilities:
//   - Holds the ordered parameter Schema shown to the model
//   - Normalizes already decoded arguments against that schema before execution
//   - Invokes the wrapped function with a *core.ToolContext giving access to the
//     context snapshot, logging and the call ID
//   - Normalizes error handling so callers receive *ToolError with consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch
//     EXECUTION_ERROR   -> underlying function returned an error (non-ToolError)
//     (custom codes preserved if the function returns *ToolError directly)
//
// A FunctionTool has no internal mutable state after construction and is safe
// for concurrent use by multiple goroutines.
type FunctionTool struct {
	name        string
	description string
	schema      core.Schema
	fn          func(tc *core.ToolContext, args map[string]any) (core.Result, error)
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	sumTool := NewFunctionTool(
//	  "add",
//	  "Add two numbers",
//	  core.Schema{
//	    {Name: "a", Type: core.TypeNumber, Required: true},
//	    {Name: "b", Type: core.TypeNumber, Required: true},
//	  },
//	  func(tc *core.ToolContext, args map[string]any) (core.Result, error) {
//	    return core.NewResult(fmt.Sprint(args["a"].(float64) + args["b"].(float64))), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	schema core.Schema,
	fn func(tc *core.ToolContext, args map[string]any) (core.Result, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// NewFunctionToolFromStruct derives the parameter schema from a struct using
// reflection (see SchemaFromStruct).
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(tc *core.ToolContext, args map[string]any) (core.Result, error),
) *FunctionTool {
	return NewFunctionTool(name, description, SchemaFromStruct(structType), fn)
}

// NewTypedTool builds a FunctionTool whose arguments are decoded into a
// value of type T. The schema is derived from T.
func NewTypedTool[T any](name, description string, fn func(tc *core.ToolContext, in T) (core.Result, error)) *FunctionTool {
	var zero T
	return NewFunctionToolFromStruct(name, description, zero, func(tc *core.ToolContext, args map[string]any) (core.Result, error) {
		var in T
		if err := Decode(args, &in); err != nil {
			return core.Result{}, err
		}
		return fn(tc, in)
	})
}

// Name returns the unique tool name used in function declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Schema returns the ordered parameter list.
func (t *FunctionTool) Schema() core.Schema { return t.schema }

// Call normalizes args against the declared schema then invokes the
// underlying function.
//
// Logging Fields:
//
//	tool: tool name
//	call_id: correlates model request & tool execution
//	duration_ms: execution time in milliseconds
func (t *FunctionTool) Call(tc *core.ToolContext, args map[string]any) (core.Result, error) {
	logger := tc.Logger()
	start := time.Now()

	logger.Debug("tool.call.start", "tool", t.name, "call_id", tc.CallID())

	normalized, err := Normalize(t.schema, args)
	if err != nil {
		logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())

		return core.Result{}, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidationError,
			Err:     err,
		}
	}

	res, err := t.fn(tc, normalized)
	if err != nil {
		te := asToolError(t.name, err)
		logger.Error("tool.call.error", "tool", t.name, "code", te.Code, "error", te.Message)
		return core.Result{}, te
	}

	logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return res, nil
}
