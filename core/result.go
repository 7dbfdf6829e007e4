package core

// Result is the uniform return contract of every tool invocation.
//
// Value is always present (possibly empty) and is what the model reads.
// ContextPatch is merged into the context store (keys overwrite on collision).
// AgentSwitch, when non-nil, asks the controller to make that agent active.
type Result struct {
	Value        string
	ContextPatch map[string]any
	AgentSwitch  *Agent
}

// NewResult returns a Result carrying only a value.
func NewResult(value string) Result { return Result{Value: value} }

// WithPatch returns a copy of r with k set in its context patch.
func (r Result) WithPatch(k string, v any) Result {
	patch := make(map[string]any, len(r.ContextPatch)+1)
	for pk, pv := range r.ContextPatch {
		patch[pk] = pv
	}
	patch[k] = v
	r.ContextPatch = patch
	return r
}

// WithSwitch returns a copy of r requesting a switch to a.
func (r Result) WithSwitch(a *Agent) Result {
	r.AgentSwitch = a
	return r
}
