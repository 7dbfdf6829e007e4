package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/taskrouter/core"
)

// Request captures the normalized model input produced by the controller.
type Request struct {
	Instructions string                `json:"instructions"` // Rendered agent instructions
	Messages     []core.Message        `json:"messages"`     // Conversation history, oldest first
	Tools        []core.ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model. Providers that
// do not stream emit a single final Response.
type Response struct {
	ID           string          `json:"id"`
	Partial      bool            `json:"partial"`
	Text         string          `json:"text"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the controller to drive
// generation. Retries and backoff are the provider's concern.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// ErrNoResponse is returned by Collect when the model closed its stream
// without a final response.
var ErrNoResponse = errors.New("model returned no response")

// Collect drains a Generate call into one final Response. Partial chunks are
// concatenated in front of the final text.
func Collect(ctx context.Context, m Model, req Request) (Response, error) {
	respCh, errCh := m.Generate(ctx, req)

	var (
		partial strings.Builder
		final   *Response
	)
	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case r, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if r.Partial {
				partial.WriteString(r.Text)
				continue
			}
			final = &r
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return Response{}, err
			}
		}
	}

	if final == nil {
		if partial.Len() == 0 {
			return Response{}, ErrNoResponse
		}
		return Response{Text: partial.String(), FinishReason: "stop"}, nil
	}
	if partial.Len() > 0 && final.Text == "" {
		final.Text = partial.String()
	}
	return *final, nil
}

// MockModel is a lightweight scripted Model useful for tests & examples.
// Enqueued responses are returned in order; when the script is exhausted it
// echoes the last user message.
type MockModel struct {
	info Info

	mu       sync.Mutex
	script   []scripted
	requests []Request
}

type scripted struct {
	resp Response
	err  error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
	}
}

// Enqueue appends responses to the script.
func (m *MockModel) Enqueue(resps ...Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range resps {
		m.script = append(m.script, scripted{resp: r})
	}
	return m
}

// EnqueueText appends a plain text answer.
func (m *MockModel) EnqueueText(text string) *MockModel {
	return m.Enqueue(Response{Text: text, FinishReason: "stop"})
}

// EnqueueToolCalls appends a response requesting the given tool calls.
func (m *MockModel) EnqueueToolCalls(calls ...core.ToolCall) *MockModel {
	return m.Enqueue(Response{ToolCalls: calls, FinishReason: "tool_calls"})
}

// EnqueueError appends a failing generation.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{err: err})
	return m
}

// Requests returns the requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.requests = append(m.requests, req)
	var next *scripted
	if len(m.script) > 0 {
		next = &m.script[0]
		m.script = m.script[1:]
	}
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)

		if err := ctx.Err(); err != nil {
			errCh <- err
			return
		}
		if next != nil {
			if next.err != nil {
				errCh <- next.err
				return
			}
			respCh <- next.resp
			return
		}

		var input string
		for i := len(req.Messages) - 1; i >= 0; i-- {
			if req.Messages[i].Role == core.RoleUser {
				input = req.Messages[i].Content
				break
			}
		}
		if input == "" {
			errCh <- fmt.Errorf("no user message provided")
			return
		}
		respCh <- Response{Text: fmt.Sprintf("Mock response to: %s", input), FinishReason: "stop"}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
