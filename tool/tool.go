// Package tool implements the function / tool calling subsystem that lets
// agents invoke structured capabilities (APIs, computations, side effects)
// with schema coerced arguments, consistent error handling and a uniform
// Result contract.
package tool

import (
	"errors"
	"fmt"

	"github.com/hupe1980/taskrouter/core"
)

// Tool is re-exported so callers building tools only need this package.
type Tool = core.Tool

// Error codes carried by ToolError.
const (
	CodeUnknownTool     = "UNKNOWN_TOOL"
	CodeValidationError = "VALIDATION_ERROR"
	CodeExecutionError  = "EXECUTION_ERROR"
)

// ToolError represents errors that occur while resolving or executing a tool.
// It wraps one of the core sentinels (when applicable) so errors.Is works.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
	Err     error  `json:"-"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// UnknownToolError reports that name is not part of the active tool set.
func UnknownToolError(name string) *ToolError {
	return &ToolError{Tool: name, Message: "tool is not available to the active agent", Code: CodeUnknownTool, Err: core.ErrUnknownTool}
}

// asToolError normalizes err into a *ToolError attributed to tool.
func asToolError(tool string, err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ToolError{Tool: tool, Message: ve.Error(), Code: CodeValidationError, Err: ve}
	}
	return &ToolError{Tool: tool, Message: err.Error(), Code: CodeExecutionError, Err: err}
}
