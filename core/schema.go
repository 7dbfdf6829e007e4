package core

// ParamType enumerates the JSON types a tool parameter can take.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

// Parameter declares a single named tool argument.
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// Schema is the ordered parameter list of a tool. Order matters: a bare
// positional argument is bound to the first parameter.
type Schema []Parameter

// Lookup returns the parameter named n.
func (s Schema) Lookup(n string) (Parameter, bool) {
	for _, p := range s {
		if p.Name == n {
			return p, true
		}
	}
	return Parameter{}, false
}

// First returns the first declared parameter.
func (s Schema) First() (Parameter, bool) {
	if len(s) == 0 {
		return Parameter{}, false
	}
	return s[0], true
}

// JSONSchema renders the schema as a JSON Schema object suitable for model
// function declarations.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s))
	required := []string{}
	for _, p := range s {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			enum := make([]any, len(p.Enum))
			for i, e := range p.Enum {
				enum[i] = e
			}
			prop["enum"] = enum
		}
		if p.Type == TypeArray {
			prop["items"] = map[string]any{}
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
