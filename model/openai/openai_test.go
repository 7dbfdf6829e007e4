package openai

import (
	"testing"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	req := model.Request{
		Instructions: "You are the triage agent.",
		Messages: []core.Message{
			core.NewToolMessage("Triage", "orphan", "add", "5"),
			core.NewUserMessage("2+3?"),
			core.NewAssistantMessage("Calculator", "", core.ToolCall{ID: "c1", Name: "add", Arguments: `{"a":2,"b":3}`}),
			core.NewToolMessage("Calculator", "c1", "add", "5"),
			core.NewAssistantMessage("Calculator", "It is 5."),
		},
	}

	msgs := buildMessages(req)
	require.Len(t, msgs, 5)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	require.NotNil(t, msgs[2].OfAssistant)
	require.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "c1", msgs[2].OfAssistant.ToolCalls[0].ID)
	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "c1", msgs[3].OfTool.ToolCallID)
	assert.NotNil(t, msgs[4].OfAssistant)
}

func TestFlushToolCallsOrdersByIndex(t *testing.T) {
	calls := flushToolCalls(map[int64]*aggCall{
		1: {id: "b", name: "second"},
		0: {id: "a", name: "first", args: `{"q":1}`},
	})
	require.Len(t, calls, 2)
	assert.Equal(t, "first", calls[0].Name)
	assert.Equal(t, "second", calls[1].Name)
	assert.Nil(t, flushToolCalls(nil))
}

func TestArgumentsOrEmpty(t *testing.T) {
	assert.Equal(t, "{}", argumentsOrEmpty(" "))
	assert.Equal(t, `{"a":1}`, argumentsOrEmpty(`{"a":1}`))
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = "gpt-4o"
		o.APIKey = "test"
		o.BaseURL = "http://localhost:1"
	})
	assert.Equal(t, model.Info{Name: "gpt-4o", Provider: "openai", SupportsTools: true}, m.Info())
}
