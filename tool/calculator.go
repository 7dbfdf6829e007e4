package tool

import (
	"strconv"

	"github.com/hupe1980/taskrouter/core"
)

// AddArgs are the arguments of the add tool.
type AddArgs struct {
	A float64 `json:"a" description:"First addend"`
	B float64 `json:"b" description:"Second addend"`
}

// NewAddTool returns a tool summing two numbers.
func NewAddTool() *FunctionTool {
	return NewTypedTool("add", "Add two numbers and return the sum.", func(_ *core.ToolContext, in AddArgs) (core.Result, error) {
		return core.NewResult(strconv.FormatFloat(in.A+in.B, 'f', -1, 64)), nil
	})
}
