package core

// AgentOptions configures NewAgent.
type AgentOptions struct {
	Description string
	Instruction Instruction
	Tools       []Tool
	// AllowConcurrentTools lets all tool calls of one model response run
	// concurrently against the same pre-turn snapshot.
	AllowConcurrentTools bool
}

// Agent is an immutable persona descriptor: a name, an instruction template
// and a tool set. Agents carry no conversation state.
type Agent struct {
	name        string
	description string
	instruction Instruction
	tools       []Tool
	index       map[string]int
	concurrent  bool
}

// NewAgent creates an agent. When two tools share a name the later one wins
// and takes the earlier one's position.
func NewAgent(name string, optFns ...func(o *AgentOptions)) *Agent {
	opts := AgentOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Agent{
		name:        name,
		description: opts.Description,
		instruction: opts.Instruction,
		index:       make(map[string]int, len(opts.Tools)),
		concurrent:  opts.AllowConcurrentTools,
	}
	for _, t := range opts.Tools {
		if t == nil {
			continue
		}
		if i, ok := a.index[t.Name()]; ok {
			a.tools[i] = t
			continue
		}
		a.index[t.Name()] = len(a.tools)
		a.tools = append(a.tools, t)
	}
	return a
}

// Name returns the agent's unique name.
func (a *Agent) Name() string { return a.name }

// Description returns the agent's short description.
func (a *Agent) Description() string { return a.description }

// Instructions renders the agent's instruction against the snapshot.
func (a *Agent) Instructions(s State) (string, error) { return a.instruction.Resolve(s) }

// AllowConcurrentTools reports whether tool calls may run concurrently.
func (a *Agent) AllowConcurrentTools() bool { return a.concurrent }

// Tools returns the agent's tools in declaration order.
func (a *Agent) Tools() []Tool {
	out := make([]Tool, len(a.tools))
	copy(out, a.tools)
	return out
}

// Tool looks up a tool by name.
func (a *Agent) Tool(name string) (Tool, bool) {
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return a.tools[i], true
}

// ToolDefinitions returns the model-facing declarations of the agent's tools.
func (a *Agent) ToolDefinitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(a.tools))
	for _, t := range a.tools {
		defs = append(defs, DefinitionOf(t))
	}
	return defs
}
