package core

// Tool is a named capability exposed to the model.
//
// Call receives arguments already coerced to the tool's Schema. Returned
// errors are reported back to the model as the tool message; they never
// abort the turn.
type Tool interface {
	Name() string
	Description() string
	Schema() Schema
	Call(tc *ToolContext, args map[string]any) (Result, error)
}

// ToolDefinition is the model-facing declaration of a tool.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// DefinitionOf builds the declaration for t.
func DefinitionOf(t Tool) ToolDefinition {
	return ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Schema().JSONSchema(),
	}
}
