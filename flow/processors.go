package flow

import (
	"fmt"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/model"
)

// RequestContext is the input available to request processors for one
// model round.
type RequestContext struct {
	Agent   *core.Agent
	History []core.Message
	State   core.State
}

// RequestProcessor processes the request before sending it to the model.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the request before model execution.
	ProcessRequest(rc *RequestContext, req *model.Request) error
}

// InstructionsProcessor renders the active agent's instructions against the
// current context snapshot.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest adds system instructions to the request.
func (p *InstructionsProcessor) ProcessRequest(rc *RequestContext, req *model.Request) error {
	instructions, err := rc.Agent.Instructions(rc.State)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}
	req.Instructions = instructions
	return nil
}

// ContentsProcessor copies the conversation history into the request.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest adds the history to the request.
func (p *ContentsProcessor) ProcessRequest(rc *RequestContext, req *model.Request) error {
	req.Messages = core.CloneMessages(rc.History)
	return nil
}

// ToolsProcessor declares the active agent's tools.
type ToolsProcessor struct{}

// NewToolsProcessor creates a new tools processor.
func NewToolsProcessor() *ToolsProcessor { return &ToolsProcessor{} }

// Name returns the processor's identifier.
func (p *ToolsProcessor) Name() string { return "tools" }

// ProcessRequest adds tool declarations to the request.
func (p *ToolsProcessor) ProcessRequest(rc *RequestContext, req *model.Request) error {
	req.Tools = rc.Agent.ToolDefinitions()
	return nil
}

// DefaultRequestProcessors returns the processors used when none are
// configured.
func DefaultRequestProcessors() []RequestProcessor {
	return []RequestProcessor{NewInstructionsProcessor(), NewContentsProcessor(), NewToolsProcessor()}
}
