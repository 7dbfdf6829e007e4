package tool

import (
	"fmt"
	"runtime/debug"

	"github.com/hupe1980/taskrouter/core"
)

// Registry maps tool names to tools and performs the single coercion step
// between the model's raw argument payload and a tool invocation.
type Registry struct {
	tools map[string]core.Tool
	order []string
}

// NewRegistry creates a registry. A later tool with a duplicate name
// replaces the earlier one.
func NewRegistry(tools ...core.Tool) *Registry {
	r := &Registry{tools: make(map[string]core.Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// RegistryFor builds the registry of an agent's tool set.
func RegistryFor(a *core.Agent) *Registry { return NewRegistry(a.Tools()...) }

// Register adds or replaces t.
func (r *Registry) Register(t core.Tool) {
	if t == nil {
		return
	}
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (core.Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, UnknownToolError(name)
	}
	return t, nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Invoke resolves the named tool, coerces raw into its schema and calls it.
// Panics inside the tool are recovered and reported as EXECUTION_ERROR.
func (r *Registry) Invoke(tc *core.ToolContext, name, raw string) (res core.Result, err error) {
	t, err := r.Lookup(name)
	if err != nil {
		return core.Result{}, err
	}

	args, err := Coerce(t.Schema(), raw)
	if err != nil {
		return core.Result{}, asToolError(name, err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			tc.Logger().Error("tool.call.panic", "tool", name, "panic", rec, "stack", string(debug.Stack()))
			res = core.Result{}
			err = &ToolError{Tool: name, Message: fmt.Sprintf("panic: %v", rec), Code: CodeExecutionError}
		}
	}()

	res, err = t.Call(tc, args)
	if err != nil {
		return core.Result{}, asToolError(name, err)
	}
	return res, nil
}
