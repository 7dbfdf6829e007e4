package tool

import (
	"fmt"
	"strings"

	"github.com/hupe1980/taskrouter/core"
)

// SwitchAgentToolName is the name under which the switch tool is exposed.
const SwitchAgentToolName = "switch_agent"

// Resolver resolves agent names (case-insensitively) to registered agents.
type Resolver interface {
	Resolve(name string) (*core.Agent, bool)
	Names() []string
}

// switchAgentTool requests that another agent becomes active.
type switchAgentTool struct {
	resolver Resolver
}

// NewSwitchAgentTool constructs the switch tool over a static agent registry.
// The resolver is consulted at call time, so it may be populated after the
// agents holding this tool are built.
func NewSwitchAgentTool(resolver Resolver) core.Tool { return &switchAgentTool{resolver: resolver} }

func (t *switchAgentTool) Name() string { return SwitchAgentToolName }

func (t *switchAgentTool) Description() string {
	names := t.resolver.Names()
	if len(names) == 0 {
		return "Hand the conversation over to another agent by name."
	}
	return fmt.Sprintf("Hand the conversation over to another agent by name. Available agents: %s.", strings.Join(names, ", "))
}

func (t *switchAgentTool) Schema() core.Schema {
	return core.Schema{{Name: "agent", Type: core.TypeString, Required: true, Description: "Target agent name"}}
}

// Call never fails on an unknown name: the value tells the model which names
// are valid and no switch is requested.
func (t *switchAgentTool) Call(tc *core.ToolContext, args map[string]any) (core.Result, error) {
	name, _ := args["agent"].(string)
	name = strings.TrimSpace(name)

	target, ok := t.resolver.Resolve(name)
	if !ok {
		tc.Logger().Warn("tool.switch.unresolved", "agent", name, "error", core.ErrUnresolvedSwitchTarget)
		return core.NewResult(fmt.Sprintf("Error: %v %q. Valid agents: %s.",
			core.ErrUnresolvedSwitchTarget, name, strings.Join(t.resolver.Names(), ", "))), nil
	}

	tc.Logger().Info("tool.switch", "from", tc.AgentName(), "to", target.Name())
	return core.NewResult("Switched to " + target.Name()).WithSwitch(target), nil
}
