package core

import "github.com/hupe1980/taskrouter/internal/util"

// InstructionFunc derives instruction text from the current context snapshot.
type InstructionFunc func(State) (string, error)

// Instruction represents either a static template or a dynamic provider.
// Static text is rendered as a text/template against the context snapshot so
// agents can reference earlier results (e.g. {{ .lastSearch }}).
type Instruction struct {
	text     string
	provider InstructionFunc
}

// NewInstructionFromText creates an Instruction from a static template.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f InstructionFunc) Instruction { return Instruction{provider: f} }

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text for the given snapshot.
func (i Instruction) Resolve(s State) (string, error) {
	if i.provider != nil {
		return i.provider(s)
	}
	return util.RenderTemplate(i.text, s)
}
