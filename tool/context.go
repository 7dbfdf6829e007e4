package tool

import (
	"encoding/json"
	"sort"

	"github.com/hupe1980/taskrouter/core"
)

// ContextArgs are the arguments of the get_context tool.
type ContextArgs struct {
	Key string `json:"key,omitempty" description:"Context key to read (e.g. lastSearch). Empty lists all keys."`
}

// NewGetContextTool returns a read-only tool that exposes the shared context
// store to the model. It never returns a patch.
func NewGetContextTool() *FunctionTool {
	return NewTypedTool("get_context",
		"Read a value that earlier tools stored in the shared conversation context.",
		func(tc *core.ToolContext, in ContextArgs) (core.Result, error) {
			state := tc.State()
			if in.Key == "" {
				keys := make([]string, 0, len(state))
				for k := range state {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				b, err := json.Marshal(keys)
				if err != nil {
					return core.Result{}, err
				}
				return core.NewResult(string(b)), nil
			}

			v, ok := state.Get(in.Key)
			if !ok {
				return core.NewResult(""), nil
			}
			b, err := json.Marshal(v)
			if err != nil {
				return core.Result{}, err
			}
			return core.NewResult(string(b)), nil
		})
}
